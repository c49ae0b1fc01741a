package walker

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"casview/internal/digest"
	"casview/internal/hash"
	"casview/internal/progress"
)

type FileInfo struct {
	Path    string
	Size    int64
	ModTime time.Time
}

type WalkResult struct {
	Files  []FileInfo
	Errors []error
}

// Walk lists the regular files under rootPath, skipping paths that match an
// exclusion pattern. Unreadable entries are collected in Errors.
func Walk(rootPath string, exclusions []string) (*WalkResult, error) {
	result := &WalkResult{
		Files:  make([]FileInfo, 0),
		Errors: make([]error, 0),
	}

	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// If error is on the root path, return it (don't continue walking)
			if path == rootPath {
				return err
			}
			result.Errors = append(result.Errors, err)
			return nil
		}

		// Get relative path for matching
		relPath, err := filepath.Rel(rootPath, path)
		if err != nil {
			result.Errors = append(result.Errors, err)
			return nil
		}

		// Check if path should be excluded
		if shouldExclude(relPath, d, exclusions) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		// Directories are implied by the files under them; symlinks and
		// other special files have no content digest.
		if d.Type().IsRegular() {
			info, err := d.Info()
			if err != nil {
				result.Errors = append(result.Errors, err)
				return nil
			}

			result.Files = append(result.Files, FileInfo{
				Path:    path,
				Size:    info.Size(),
				ModTime: info.ModTime(),
			})
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	return result, nil
}

func shouldExclude(relPath string, d fs.DirEntry, exclusions []string) bool {
	for _, pattern := range exclusions {
		// Handle directory exclusions (patterns ending with /)
		if strings.HasSuffix(pattern, "/") {
			dirPattern := strings.TrimSuffix(pattern, "/")
			// Check if the current path or any parent matches the directory pattern
			parts := strings.Split(relPath, string(filepath.Separator))
			for _, part := range parts {
				if matched, _ := filepath.Match(dirPattern, part); matched {
					return true
				}
				// Also check exact match
				if part == dirPattern {
					return true
				}
			}
		} else {
			// Handle file pattern exclusions
			matched, err := filepath.Match(pattern, filepath.Base(relPath))
			if err == nil && matched {
				return true
			}
			// Also try matching against the full relative path for patterns with /
			if strings.Contains(pattern, "/") {
				matched, err := filepath.Match(pattern, relPath)
				if err == nil && matched {
					return true
				}
			}
		}
	}
	return false
}

type HashResult struct {
	Digests map[string]digest.Digest // path -> digest
	Errors  []error
}

// HashFiles digests files with at most numWorkers concurrent readers. A file
// that cannot be read is recorded in Errors and skipped; only ctx
// cancellation aborts the run.
func HashFiles(ctx context.Context, files []FileInfo, numWorkers int, progressBar *progress.Bar) (*HashResult, error) {
	if numWorkers <= 0 {
		numWorkers = 1
	}

	result := &HashResult{
		Digests: make(map[string]digest.Digest),
		Errors:  make([]error, 0),
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(numWorkers)

	for _, fileInfo := range files {
		if gctx.Err() != nil {
			break
		}
		path := fileInfo.Path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			d, err := hash.DigestFile(path)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("%s: %w", path, err))
				return nil
			}
			result.Digests[path] = d

			if progressBar != nil {
				progressBar.SetDirectory(filepath.Dir(path))
				progressBar.Add(d.SizeBytes)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to hash files: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("failed to hash files: %w", err)
	}

	return result, nil
}
