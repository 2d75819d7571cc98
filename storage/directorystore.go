package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

/*
DirectoryStore keeps snapshots as files in a local directory. Suitable for
single-machine use; object ids map to file names and must not traverse out
of the root.
*/

////////////////////////////////////////////////////////////////////////////////

type DirectoryStore struct {
	root string
}

// NewDirectoryStore creates a new DirectoryStore rooted at root.
func NewDirectoryStore(root string) *DirectoryStore {
	return &DirectoryStore{root: root}
}

func (d *DirectoryStore) path(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", fmt.Errorf("invalid snapshot id: %q", id)
	}
	return filepath.Join(d.root, id), nil
}

// Put stores a snapshot in the directory.
func (d *DirectoryStore) Put(_ context.Context, id string, data []byte) error {
	path, err := d.path(id)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write failure: %w", err)
	}
	return nil
}

// Get retrieves a snapshot from the directory.
func (d *DirectoryStore) Get(_ context.Context, id string) ([]byte, error) {
	path, err := d.path(id)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("read failure: %w", err)
	}
	return data, nil
}

// Delete removes a snapshot from the directory.
func (d *DirectoryStore) Delete(_ context.Context, id string) error {
	path, err := d.path(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return ErrSnapshotNotFound
		}
		return fmt.Errorf("remove failure: %w", err)
	}
	return nil
}

func (d *DirectoryStore) String() string {
	return fmt.Sprintf("dir(%s)", d.root)
}
