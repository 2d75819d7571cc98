package game

// State is the lifecycle stage of a solver instance. Comparisons are
// ordinal: a stage implies all earlier stages.
type State uint8

const (
	// Uninitialized: configs validated, nothing allocated.
	Uninitialized State = iota
	// MemoryAllocated: the four storage arenas exist at valid addresses.
	MemoryAllocated
	// TreeBuilt: the node sequence and derived hand/card structures exist.
	TreeBuilt
	// Solving and Solved cover the running solver; the snapshot codec
	// treats them like TreeBuilt.
	Solving
	Solved
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case MemoryAllocated:
		return "memory-allocated"
	case TreeBuilt:
		return "tree-built"
	case Solving:
		return "solving"
	case Solved:
		return "solved"
	default:
		return "unknown"
	}
}
