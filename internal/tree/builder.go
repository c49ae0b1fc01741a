package tree

import (
	"encoding/hex"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	mt "github.com/txaty/go-merkletree"

	"casview/internal/digest"
	"casview/internal/hash"
)

type dirEntries struct {
	files map[string]digest.Digest
	dirs  map[string]*dirEntries
}

func newDirEntries() *dirEntries {
	return &dirEntries{
		files: make(map[string]digest.Digest),
		dirs:  make(map[string]*dirEntries),
	}
}

// entryBlock adapts one encoded listing line to a merkle tree data block.
type entryBlock []byte

func (b entryBlock) Serialize() ([]byte, error) {
	return b, nil
}

// Build turns hashed files under rootPath into a content-addressed snapshot.
// Directory listings are built bottom-up:
// 1. Group files by their parent directory
// 2. Sort each listing by name
// 3. Digest each listing from its entries (merkle root of entry lines)
// 4. Record the listing under the digest key, so identical subtrees share one entry
func Build(files map[string]FileData, rootPath string) (*Snapshot, error) {
	cleanRoot := filepath.Clean(rootPath)
	top := newDirEntries()

	var totalSize int64
	for path, fileData := range files {
		relativePath := path
		cleanPath := filepath.Clean(path)
		if strings.HasPrefix(cleanPath, cleanRoot+string(filepath.Separator)) {
			relativePath = strings.TrimPrefix(cleanPath, cleanRoot+string(filepath.Separator))
		} else if cleanPath == cleanRoot {
			relativePath = filepath.Base(cleanPath)
		}

		parts := strings.Split(filepath.ToSlash(relativePath), "/")
		dir := top
		for _, part := range parts[:len(parts)-1] {
			child, ok := dir.dirs[part]
			if !ok {
				child = newDirEntries()
				dir.dirs[part] = child
			}
			dir = child
		}
		dir.files[parts[len(parts)-1]] = digest.Digest{Hash: fileData.Hash, SizeBytes: fileData.Size}
		totalSize += fileData.Size
	}

	directories := make(map[string][]Node)
	rootDigest, err := buildDirectory(top, directories)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		RootPath:    rootPath,
		Root:        Dir(filepath.Base(cleanRoot), rootDigest),
		TotalSize:   totalSize,
		Directories: directories,
	}, nil
}

func buildDirectory(d *dirEntries, directories map[string][]Node) (digest.Digest, error) {
	entries := make([]Node, 0, len(d.files)+len(d.dirs))
	for name, sub := range d.dirs {
		subDigest, err := buildDirectory(sub, directories)
		if err != nil {
			return digest.Digest{}, fmt.Errorf("failed to build directory %s: %w", name, err)
		}
		entries = append(entries, Dir(name, subDigest))
	}
	for name, fileDigest := range d.files {
		entries = append(entries, File(name, fileDigest))
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})

	dirDigest, err := DigestListing(entries)
	if err != nil {
		return digest.Digest{}, err
	}
	directories[dirDigest.Key()] = entries
	return dirDigest, nil
}

// DigestListing computes the digest of a directory listing. The size is the
// length of the listing's canonical encoding.
func DigestListing(entries []Node) (digest.Digest, error) {
	lines := make([][]byte, len(entries))
	size := 0
	for i, entry := range entries {
		lines[i] = encodeEntry(entry)
		size += len(lines[i])
	}

	var root []byte
	if len(lines) < 2 {
		// go-merkletree needs at least two blocks
		var data []byte
		if len(lines) == 1 {
			data = lines[0]
		}
		sum, err := hash.XXHashFunc(data)
		if err != nil {
			return digest.Digest{}, fmt.Errorf("failed to hash listing: %w", err)
		}
		root = sum
	} else {
		blocks := make([]mt.DataBlock, len(lines))
		for i, line := range lines {
			blocks[i] = entryBlock(line)
		}
		tree, err := mt.New(&mt.Config{
			HashFunc: hash.XXHashFunc,
			Mode:     mt.ModeTreeBuild,
		}, blocks)
		if err != nil {
			return digest.Digest{}, fmt.Errorf("failed to build listing merkle tree: %w", err)
		}
		root = tree.Root
	}

	return digest.Digest{Hash: hex.EncodeToString(root), SizeBytes: int64(size)}, nil
}

func encodeEntry(n Node) []byte {
	d := n.Digest
	if d == nil {
		d = &digest.Digest{}
	}
	return []byte(n.Kind.String() + "\t" + n.Name + "\t" + d.Hash + "\t" + strconv.FormatInt(d.SizeBytes, 10) + "\n")
}
