package hash

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"

	"casview/internal/digest"
)

const bufferSize = 32 * 1024 // 32KB buffer for streaming

// HashFile computes the xxHash of a file using streaming for large files
func HashFile(path string) (string, error) {
	d, err := DigestFile(path)
	if err != nil {
		return "", err
	}
	return d.Hash, nil
}

// DigestFile returns the content digest of a file: xxHash hex plus the
// number of bytes actually read.
func DigestFile(path string) (digest.Digest, error) {
	file, err := os.Open(path)
	if err != nil {
		return digest.Digest{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	h := xxhash.New()
	n, err := io.CopyBuffer(h, file, make([]byte, bufferSize))
	if err != nil {
		return digest.Digest{}, fmt.Errorf("failed to read file: %w", err)
	}

	return digest.Digest{Hash: hex.EncodeToString(h.Sum(nil)), SizeBytes: n}, nil
}

// XXHashFunc is the go-merkletree hash function for directory listings.
func XXHashFunc(data []byte) ([]byte, error) {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, xxhash.Sum64(data))
	return buf, nil
}
