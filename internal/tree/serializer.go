package tree

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"

	"casview/internal/format"
)

type SerializedSnapshot struct {
	Generator   string            `json:"generator"`
	Created     time.Time         `json:"created"`
	RootPath    string            `json:"root_path"`
	Size        string            `json:"size"`
	TotalBytes  int64             `json:"total_bytes"`
	Root        Node              `json:"root"`
	Directories map[string][]Node `json:"directories"`
}

func isCompressed(path string) bool {
	return strings.HasSuffix(path, ".zst")
}

// Save writes the snapshot as JSON, zstd-compressed when path ends in ".zst".
func Save(snapshot *Snapshot, path string) error {
	serialized := SerializedSnapshot{
		Generator:   "casview",
		Created:     time.Now(),
		RootPath:    snapshot.RootPath,
		Size:        format.Bytes(snapshot.TotalSize),
		TotalBytes:  snapshot.TotalSize,
		Root:        snapshot.Root,
		Directories: snapshot.Directories,
	}

	data, err := json.MarshalIndent(serialized, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	var w io.Writer = file
	var enc *zstd.Encoder
	if isCompressed(path) {
		enc, err = zstd.NewWriter(file)
		if err != nil {
			return fmt.Errorf("failed to create zstd writer: %w", err)
		}
		w = enc
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if enc != nil {
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to flush zstd stream: %w", err)
		}
	}

	return file.Close()
}

func Load(path string) (*Snapshot, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	defer file.Close()

	var r io.Reader = file
	if isCompressed(path) {
		dec, err := zstd.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		defer dec.Close()
		r = dec
	}

	var serialized SerializedSnapshot
	if err := json.NewDecoder(r).Decode(&serialized); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	if serialized.Directories == nil {
		serialized.Directories = make(map[string][]Node)
	}

	return &Snapshot{
		RootPath:    serialized.RootPath,
		Root:        serialized.Root,
		TotalSize:   serialized.TotalBytes,
		Directories: serialized.Directories,
	}, nil
}
