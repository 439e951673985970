// Package store is a path-addressed tree of flat field maps, in the shape of
// a realtime database: leaves hold fields, inner nodes only hold children.
package store

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"
)

const (
	ProductsPath = "products"
	UserEatPath  = "user_eat"
	DatePath     = "date"
)

var (
	ErrInvalidPath = errors.New("store path must be non-empty slash separated segments")
)

// Fields is the value stored at a leaf.
type Fields map[string]string

type (
	Store interface {
		// Get reads the node at path with its whole subtree. A missing path
		// yields an empty snapshot, not an error.
		Get(ctx context.Context, path string) (*Snapshot, error)
		// Set replaces whatever lives at path, subtree included, with fields.
		Set(ctx context.Context, path string, fields Fields) error
		// Push allocates a fresh child key under parent. Nothing is written.
		Push(ctx context.Context, parent string) (string, error)
	}

	// Snapshot is a read of one node. Children are sorted by key.
	Snapshot struct {
		Key      string
		Fields   Fields
		Children []*Snapshot
	}
)

func (s *Snapshot) Exists() bool {
	return s != nil && (len(s.Fields) > 0 || len(s.Children) > 0)
}

func (s *Snapshot) Child(key string) *Snapshot {
	if s == nil {
		return nil
	}
	for _, c := range s.Children {
		if c.Key == key {
			return c
		}
	}
	return nil
}

// Join builds a store path from segments.
func Join(segments ...string) string {
	return strings.Join(segments, "/")
}

// CleanPath validates path and strips surrounding slashes.
func CleanPath(path string) (string, error) {
	p := strings.Trim(path, "/")
	if p == "" {
		return "", ErrInvalidPath
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == "" || seg == "." || seg == ".." || strings.ContainsAny(seg, "*?[]%\\") {
			return "", ErrInvalidPath
		}
	}
	return p, nil
}

func parentOf(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[:i]
	}
	return ""
}

func lastSegment(path string) string {
	return path[strings.LastIndex(path, "/")+1:]
}

// newKey returns a time ordered unique key, so pushed children sort by
// creation.
func newKey() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// buildSnapshot assembles the subtree rooted at root from leaf values keyed
// by full path. Every leaf must equal root or sit below it.
func buildSnapshot(root string, leaves map[string]Fields) *Snapshot {
	snap := &Snapshot{Key: lastSegment(root)}
	index := map[string]*Snapshot{root: snap}

	paths := make([]string, 0, len(leaves))
	for p := range leaves {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		if p == root {
			snap.Fields = leaves[p]
			continue
		}
		rel := strings.TrimPrefix(p, root+"/")
		node := snap
		cur := root
		for _, seg := range strings.Split(rel, "/") {
			cur = cur + "/" + seg
			next, ok := index[cur]
			if !ok {
				next = &Snapshot{Key: seg}
				node.Children = append(node.Children, next)
				index[cur] = next
			}
			node = next
		}
		node.Fields = leaves[p]
	}
	sortChildren(snap)
	return snap
}

func sortChildren(s *Snapshot) {
	sort.Slice(s.Children, func(i, j int) bool { return s.Children[i].Key < s.Children[j].Key })
	for _, c := range s.Children {
		sortChildren(c)
	}
}
