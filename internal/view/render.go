package view

import (
	"casview/internal/digest"
	"casview/internal/format"
	"casview/internal/tree"
)

type Icon int

const (
	IconDownload Icon = iota
	IconExpanded
	IconCollapsed
)

// IconFor picks a row icon from the node kind and expansion alone.
func IconFor(kind tree.Kind, expanded bool) Icon {
	if kind == tree.KindFile {
		return IconDownload
	}
	if expanded {
		return IconExpanded
	}
	return IconCollapsed
}

// Row is one visible line of the tree.
type Row struct {
	Node     tree.Node
	Key      string
	Depth    int
	Icon     Icon
	Expanded bool
	// SizeLabel is "<bytes> total"; empty unless HasSize.
	SizeLabel string
	HasSize   bool
	// DigestLabel is empty when the node has no digest.
	DigestLabel string
}

// Renderer turns a root node plus shared state into visible rows.
type Renderer struct {
	State        *State
	OnToggle     ToggleFunc
	FormatBytes  func(int64) string
	FormatDigest func(digest.Digest) string
}

func NewRenderer(state *State, onToggle ToggleFunc) *Renderer {
	return &Renderer{
		State:        state,
		OnToggle:     onToggle,
		FormatBytes:  format.Bytes,
		FormatDigest: digest.Short,
	}
}

type ancestry struct {
	key    string
	parent *ancestry
}

func (a *ancestry) contains(key string) bool {
	for ; a != nil; a = a.parent {
		if a.key == key {
			return true
		}
	}
	return false
}

// Render returns the rows visible under node, node first, in depth-first
// order. Children are read only for expanded keys and kept in stored order.
// Rendering never fails: missing children, sizes and digests are omitted.
func (r *Renderer) Render(node tree.Node) []Row {
	var rows []Row
	r.render(node, 0, nil, &rows)
	return rows
}

func (r *Renderer) render(node tree.Node, depth int, parents *ancestry, rows *[]Row) {
	key := node.Key()
	expanded := r.State.Expanded[key]

	row := Row{
		Node:     node,
		Key:      key,
		Depth:    depth,
		Icon:     IconFor(node.Kind, expanded),
		Expanded: expanded,
	}
	if size, ok := r.State.Sizes[key]; ok {
		row.SizeLabel = r.formatBytes(size) + " total"
		row.HasSize = true
	}
	if node.Digest != nil {
		row.DigestLabel = r.formatDigest(*node.Digest)
	}
	*rows = append(*rows, row)

	// A key repeated on its own ancestor path would never terminate.
	if !expanded || parents.contains(key) {
		return
	}

	self := &ancestry{key: key, parent: parents}
	for _, child := range r.State.Children[key] {
		r.render(child, depth+1, self, rows)
	}
}

// Click invokes the toggle callback for the row's node.
func (r *Renderer) Click(row Row) {
	if r.OnToggle != nil {
		r.OnToggle(row.Node)
	}
}

func (r *Renderer) formatBytes(n int64) string {
	if r.FormatBytes == nil {
		return format.Bytes(n)
	}
	return r.FormatBytes(n)
}

func (r *Renderer) formatDigest(d digest.Digest) string {
	if r.FormatDigest == nil {
		return digest.Short(d)
	}
	return r.FormatDigest(d)
}
