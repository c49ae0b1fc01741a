package digest

import (
	"fmt"
	"strconv"
	"strings"
)

// MissingKey is the key derived for a node that carries no digest. Every
// digest-less node shares it, and with it any expansion, children and size
// state stored under it.
const MissingKey = "undefined/undefined"

// Digest identifies content by hash and byte size.
type Digest struct {
	Hash      string `json:"hash" yaml:"hash"`
	SizeBytes int64  `json:"size_bytes" yaml:"size_bytes"`
}

// Key returns "hash/size". The key only has to distinguish content within
// one displayed tree; it is not globally unique.
func (d Digest) Key() string {
	return d.Hash + "/" + strconv.FormatInt(d.SizeBytes, 10)
}

func (d Digest) String() string {
	return d.Key()
}

// Short renders a compact form for display next to a node name.
func Short(d Digest) string {
	h := d.Hash
	if len(h) > 8 {
		h = h[:8]
	}
	return h + "/" + strconv.FormatInt(d.SizeBytes, 10)
}

// KeyOf returns the key for d, or MissingKey when d is nil.
func KeyOf(d *Digest) string {
	if d == nil {
		return MissingKey
	}
	return d.Key()
}

// Parse turns a "hash/size" key back into a digest.
func Parse(key string) (Digest, error) {
	i := strings.LastIndex(key, "/")
	if i < 0 {
		return Digest{}, fmt.Errorf("invalid digest key %q: missing size", key)
	}
	size, err := strconv.ParseInt(key[i+1:], 10, 64)
	if err != nil {
		return Digest{}, fmt.Errorf("invalid digest key %q: %w", key, err)
	}
	if size < 0 {
		return Digest{}, fmt.Errorf("invalid digest key %q: negative size", key)
	}
	return Digest{Hash: key[:i], SizeBytes: size}, nil
}
