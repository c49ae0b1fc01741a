// Package cas serves directory listings by digest key and derives data the
// tree view consumes: resolved children and aggregated subtree sizes.
package cas

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"casview/internal/tree"
)

var ErrNotFound = errors.New("directory not found")

// Store returns the ordered listing of the directory with the given key.
type Store interface {
	Directory(ctx context.Context, key string) ([]tree.Node, error)
}

// MemoryStore holds listings in memory, typically loaded from a snapshot.
type MemoryStore struct {
	mu   sync.RWMutex
	dirs map[string][]tree.Node
}

func NewMemoryStore(dirs map[string][]tree.Node) *MemoryStore {
	s := &MemoryStore{dirs: make(map[string][]tree.Node, len(dirs))}
	for key, children := range dirs {
		s.dirs[key] = append([]tree.Node(nil), children...)
	}
	return s
}

func (s *MemoryStore) Put(key string, children []tree.Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirs[key] = append([]tree.Node(nil), children...)
}

func (s *MemoryStore) Directory(ctx context.Context, key string) ([]tree.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	children, ok := s.dirs[key]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
	}

	return append([]tree.Node(nil), children...), nil
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.dirs)
}
