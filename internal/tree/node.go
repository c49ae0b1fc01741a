package tree

import (
	"fmt"
	"time"

	"casview/internal/digest"
)

type Kind int

const (
	KindFile Kind = iota
	KindDir
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDir:
		return "dir"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	switch k {
	case KindFile, KindDir:
		return []byte(k.String()), nil
	}
	return nil, fmt.Errorf("unknown node kind %d", int(k))
}

func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "file":
		*k = KindFile
	case "dir":
		*k = KindDir
	default:
		return fmt.Errorf("unknown node kind %q", text)
	}
	return nil
}

// Node is one entry of a directory listing. It is a value: views receive
// fresh copies each pass and never modify them. Digest is nil for a
// synthetic root.
type Node struct {
	Kind   Kind           `json:"kind"`
	Name   string         `json:"name"`
	Digest *digest.Digest `json:"digest,omitempty"`
}

func File(name string, d digest.Digest) Node {
	return Node{Kind: KindFile, Name: name, Digest: &d}
}

func Dir(name string, d digest.Digest) Node {
	return Node{Kind: KindDir, Name: name, Digest: &d}
}

// Key is the digest key that indexes all per-node view state.
func (n Node) Key() string {
	return digest.KeyOf(n.Digest)
}

func (n Node) IsDir() bool {
	return n.Kind == KindDir
}

type FileData struct {
	Hash    string
	Size    int64
	ModTime time.Time
}

// Snapshot is a content-addressed view of a directory tree: the root entry
// plus every directory listing reachable from it, keyed by digest key.
type Snapshot struct {
	RootPath    string
	Root        Node
	TotalSize   int64
	Directories map[string][]Node
}
