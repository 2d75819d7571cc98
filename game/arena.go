package game

import (
	"encoding/binary"
	"math"
	"sync"
)

/*
Arena is one of the instance's growable flat numeric buffers. Many nodes
address disjoint sub-ranges of the same arena by element offset; the arena
is the sole owner of the bytes. Elements are little-endian float32.

The mutex matches the solver's locking strategy during normal operation.
The snapshot codec holds it only long enough to capture the live buffer
(the session's base address); the bulk byte transfer happens outside the
lock, under the single-session assumption.
*/

////////////////////////////////////////////////////////////////////////////////

// elemSize is the byte width of one storage element.
const elemSize = 4

type Arena struct {
	mu   sync.Mutex
	data []byte
}

// newArena returns an arena sized for n elements.
func newArena(n uint64) *Arena {
	return &Arena{data: make([]byte, n*elemSize)}
}

// Len returns the arena's current size in bytes.
func (a *Arena) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.data)
}

// Elements returns the arena's current size in elements.
func (a *Arena) Elements() uint64 {
	return uint64(a.Len()) / elemSize
}

// buf captures the live buffer under the lock. The caller may read from the
// returned slice without holding the lock, provided no concurrent mutation
// is in flight (the codec's single-session contract).
func (a *Arena) buf() []byte {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.data
}

// replace installs a freshly materialized buffer.
func (a *Arena) replace(data []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.data = data
}

// readF32 copies n elements starting at element offset off.
func (a *Arena) readF32(off StorageRef, n uint32) []float32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]float32, n)
	base := int(off) * elemSize
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(a.data[base+i*elemSize:]))
	}
	return out
}

// writeF32 stores vals starting at element offset off.
func (a *Arena) writeF32(off StorageRef, vals []float32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	base := int(off) * elemSize
	for i, v := range vals {
		binary.LittleEndian.PutUint32(a.data[base+i*elemSize:], math.Float32bits(v))
	}
}
