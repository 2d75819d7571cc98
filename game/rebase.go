package game

/*
rebaseContext is the transient, session-scoped addressing state of one
encode or decode call. It binds each arena kind to its current live arena,
established after the arenas are known to exist at their current addresses:
on encode these are the instance's arenas as-is, on decode the arenas just
materialized from the stream. It is never persisted and is threaded
explicitly into every node codec call.

Below MemoryAllocated every binding is absent and node addressing is
skipped entirely.
*/

////////////////////////////////////////////////////////////////////////////////

type rebaseContext struct {
	primaryA *Arena
	primaryB *Arena
	inPos    *Arena
	chance   *Arena
}

// newRebaseContext establishes the session's arena bindings. The primary
// pair must be the same size or the shared-offset scheme would misaddress
// primary-B.
func newRebaseContext(g *Game) (*rebaseContext, error) {
	if g.state < MemoryAllocated {
		return &rebaseContext{}, nil
	}
	if g.primaryA.Len() != g.primaryB.Len() {
		return nil, ErrArenaMismatch
	}
	return &rebaseContext{
		primaryA: g.primaryA,
		primaryB: g.primaryB,
		inPos:    g.inPos,
		chance:   g.chance,
	}, nil
}

// checkBounds verifies that an element offset plus extent fits the arena.
// The comparisons are arranged so a hostile offset near the int64 limit
// cannot wrap the arithmetic past the check.
func checkBounds(a *Arena, off int64, elems uint32) error {
	capacity := int64(a.Len()) / elemSize
	if off < 0 || int64(elems) > capacity || off > capacity-int64(elems) {
		return OutOfBoundsError{Offset: off, Elements: elems, ArenaLen: a.Len()}
	}
	return nil
}
