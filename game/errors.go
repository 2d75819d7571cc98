package game

import (
	"errors"
	"fmt"
)

// ErrArenaMismatch is returned when the two primary arenas are not the same
// size, which would break the mirrored-offset scheme.
var ErrArenaMismatch = errors.New("primary arena size mismatch")

// ErrNotAllocated is returned by operations requiring allocated storage.
var ErrNotAllocated = errors.New("storage not allocated")

// ErrTreeNotBuilt is returned by operations requiring the node sequence.
var ErrTreeNotBuilt = errors.New("tree not built")

// ErrWrongState is returned when a lifecycle transition is attempted out of
// order.
var ErrWrongState = errors.New("operation not valid in current state")

// VersionMismatchError is returned when a snapshot was written by a
// different format version. Any drift is total incompatibility.
type VersionMismatchError struct {
	Expected string
	Got      string
}

func (e VersionMismatchError) Error() string {
	return fmt.Sprintf("version mismatch: expected %q, but got %q", e.Expected, e.Got)
}

func (e VersionMismatchError) Is(target error) bool {
	_, ok := target.(VersionMismatchError)
	return ok
}

// MalformedStreamError is returned when a snapshot stream is truncated or
// internally inconsistent. Decode never yields a partial instance.
type MalformedStreamError struct {
	Err error
}

func (e MalformedStreamError) Error() string {
	return fmt.Sprintf("malformed snapshot stream: %v", e.Err)
}

func (e MalformedStreamError) Unwrap() error {
	return e.Err
}

func (e MalformedStreamError) Is(target error) bool {
	_, ok := target.(MalformedStreamError)
	return ok
}

// OutOfBoundsError is returned when a decoded storage reference does not
// fit its arena.
type OutOfBoundsError struct {
	Offset   int64
	Elements uint32
	ArenaLen int
}

func (e OutOfBoundsError) Error() string {
	return fmt.Sprintf("storage reference out of bounds: offset %d, %d elements, arena %d bytes",
		e.Offset, e.Elements, e.ArenaLen)
}

func (e OutOfBoundsError) Is(target error) bool {
	_, ok := target.(OutOfBoundsError)
	return ok
}

// HistoryError is returned when a traversal history does not fit the tree.
type HistoryError struct {
	Step  int
	Index int
}

func (e HistoryError) Error() string {
	return fmt.Sprintf("history step %d: action index %d out of range", e.Step, e.Index)
}

func (e HistoryError) Is(target error) bool {
	_, ok := target.(HistoryError)
	return ok
}
