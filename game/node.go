package game

import "github.com/antiphoton/postflop-solver/tree"

/*
Node is one entry of the solver's node sequence. A node's children occupy
one contiguous sub-range of the sequence, identified by (ChildrenStart,
NumChildren); there are no parent references and no cycles, so the sequence
reads as a simple forward-only flattening of the tree.

Nodes never own numeric storage. They reference sub-ranges of the instance's
storage arenas by element offset; a reference is only meaningful while the
owning arena is alive. StorageRef's explicit absent marker keeps "no
storage" distinguishable from a valid zero offset.

Per category:
  - terminal nodes own nothing;
  - chance nodes reference one range of the chance arena via Storage1;
  - player decision nodes reference mirrored ranges of the two primary
    arenas via Storage1/Storage2 (equal offsets, by construction) and one
    range of the in-position arena via Storage3.
*/

////////////////////////////////////////////////////////////////////////////////

// StorageRef is an element offset into a storage arena, or NoStorage.
type StorageRef int64

// NoStorage is the explicit absent marker for storage references.
const NoStorage StorageRef = -1

// Present reports whether the reference points at storage.
func (r StorageRef) Present() bool {
	return r >= 0
}

// Node player values beyond tree.PlayerOOP/tree.PlayerIP.
const (
	playerChance   = uint8(tree.PlayerChance)
	playerTerminal = uint8(tree.PlayerTerminal)
)

type Node struct {
	PrevAction tree.Action
	Player     uint8
	Turn       uint8
	River      uint8
	IsLocked   bool
	Amount     int32

	ChildrenStart uint32
	NumChildren   uint32

	NumElements       uint32
	NumElementsIP     uint32
	NumElementsChance uint32

	Scale1 float32
	Scale2 float32
	Scale3 float32

	Storage1 StorageRef
	Storage2 StorageRef
	Storage3 StorageRef
}

// IsTerminal reports whether the node ends the hand.
func (n *Node) IsTerminal() bool {
	return n.Player == playerTerminal
}

// IsChance reports whether the node deals a card.
func (n *Node) IsChance() bool {
	return n.Player == playerChance
}
