// Package view renders a content-addressed directory tree lazily. All
// per-node state lives in three maps keyed by digest key, so every
// occurrence of the same content shares expansion, children and size.
package view

import "casview/internal/tree"

// State is owned by one container for the lifetime of a tree and handed by
// pointer to every level of a render. It is not safe for concurrent use;
// mutate it from the goroutine that renders.
type State struct {
	// Expanded holds toggled directories. Absent means collapsed.
	Expanded map[string]bool
	// Children holds resolved listings. Absent means not loaded yet.
	Children map[string][]tree.Node
	// Sizes holds aggregated subtree bytes. Absent means unknown.
	Sizes map[string]int64
}

func NewState() *State {
	return &State{
		Expanded: make(map[string]bool),
		Children: make(map[string][]tree.Node),
		Sizes:    make(map[string]int64),
	}
}

// ToggleFunc is called with the node whose row was clicked.
type ToggleFunc func(node tree.Node)

// Toggle flips the expansion of node's key and returns the new value.
func (s *State) Toggle(node tree.Node) bool {
	key := node.Key()
	expanded := !s.Expanded[key]
	s.Expanded[key] = expanded
	return expanded
}

func (s *State) IsExpanded(node tree.Node) bool {
	return s.Expanded[node.Key()]
}

// SetChildren stores a resolved listing. A later write for the same key
// replaces an earlier one.
func (s *State) SetChildren(key string, children []tree.Node) {
	s.Children[key] = children
}

func (s *State) SetSize(key string, bytes int64) {
	s.Sizes[key] = bytes
}

// HasChildren reports whether a listing for key has been stored, even an
// empty one.
func (s *State) HasChildren(key string) bool {
	_, ok := s.Children[key]
	return ok
}
