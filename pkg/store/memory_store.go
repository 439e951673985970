package store

import (
	"context"
	"strings"
	"sync"
)

type memoryStore struct {
	mu     sync.RWMutex
	leaves map[string]Fields
}

// NewMemoryStore keeps the tree in process. It backs tests and the "memory"
// store driver.
func NewMemoryStore() Store {
	return &memoryStore{leaves: make(map[string]Fields)}
}

func (m *memoryStore) Get(ctx context.Context, path string) (*Snapshot, error) {
	p, err := CleanPath(path)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	found := make(map[string]Fields)
	for leaf, fields := range m.leaves {
		if leaf == p || strings.HasPrefix(leaf, p+"/") {
			found[leaf] = copyFields(fields)
		}
	}
	return buildSnapshot(p, found), nil
}

func (m *memoryStore) Set(ctx context.Context, path string, fields Fields) error {
	p, err := CleanPath(path)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for leaf := range m.leaves {
		if strings.HasPrefix(leaf, p+"/") || isAncestor(leaf, p) {
			delete(m.leaves, leaf)
		}
	}
	if len(fields) == 0 {
		delete(m.leaves, p)
		return nil
	}
	m.leaves[p] = copyFields(fields)
	return nil
}

func (m *memoryStore) Push(ctx context.Context, parent string) (string, error) {
	if _, err := CleanPath(parent); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return newKey()
}

// isAncestor reports whether leaf is a strict ancestor of path. Writing
// below a leaf turns it into an inner node, so its own fields go away.
func isAncestor(leaf, path string) bool {
	return strings.HasPrefix(path, leaf+"/")
}

func copyFields(f Fields) Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}
