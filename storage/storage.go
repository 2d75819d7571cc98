package storage

import (
	"context"
	"errors"
)

/*
Snapshot object stores. A Provider moves whole encoded snapshots; there are
no range reads because a snapshot stream only decodes sequentially, and no
partial writes because an interrupted transfer is discarded wholesale.
*/

////////////////////////////////////////////////////////////////////////////////

// ErrSnapshotNotFound is returned when the requested snapshot id does not
// exist in the store.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Provider is a snapshot object store.
type Provider interface {
	// Put stores a snapshot under id, replacing any existing object.
	Put(ctx context.Context, id string, data []byte) error

	// Get retrieves the snapshot stored under id.
	Get(ctx context.Context, id string) ([]byte, error)

	// Delete removes the snapshot stored under id.
	Delete(ctx context.Context, id string) error

	String() string
}
