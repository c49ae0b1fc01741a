package progress

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"casview/internal/format"
)

// Bar reports hashing progress in bytes on a single terminal line.
type Bar struct {
	mu         sync.Mutex
	total      int64
	current    int64
	files      int
	width      int
	writer     io.Writer
	dirs       map[string]bool
	lastUpdate time.Time
}

func New(totalBytes int64) *Bar {
	return NewWithWriter(totalBytes, os.Stderr)
}

// NewWithWriter returns a bar drawing to w. A nil writer disables output.
func NewWithWriter(totalBytes int64, w io.Writer) *Bar {
	return &Bar{
		total:  totalBytes,
		width:  40,
		writer: w,
		dirs:   make(map[string]bool),
	}
}

func (b *Bar) SetDirectory(dir string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dirs[dir] = true
}

// Add records one finished file of n bytes.
func (b *Bar) Add(n int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.current += n
	b.files++

	// Update at most every 100ms to reduce flickering
	now := time.Now()
	if now.Sub(b.lastUpdate) > 100*time.Millisecond || b.current >= b.total {
		b.lastUpdate = now
		b.render()
	}
}

func (b *Bar) Files() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.files
}

// render must be called with mu held
func (b *Bar) render() {
	if b.writer == nil {
		return
	}

	filled := b.width
	percent := 100
	if b.total > 0 {
		ratio := float64(b.current) / float64(b.total)
		if ratio > 1 {
			ratio = 1
		}
		filled = int(float64(b.width) * ratio)
		percent = int(ratio * 100)
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", b.width-filled)

	var dirDisplay string
	if len(b.dirs) > 0 {
		names := make([]string, 0, 3)
		for dir := range b.dirs {
			if len(names) == 3 {
				break
			}
			names = append(names, filepath.Base(dir))
		}
		dirDisplay = " | " + strings.Join(names, ", ")
		if extra := len(b.dirs) - len(names); extra > 0 {
			dirDisplay += fmt.Sprintf(" +%d more", extra)
		}
	}

	fmt.Fprintf(b.writer, "\r\033[K[%s] %3d%% %s/%s (%d files)%s",
		bar, percent, format.Bytes(b.current), format.Bytes(b.total), b.files, dirDisplay)
}

func (b *Bar) Finish() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.writer == nil {
		return
	}
	if b.current < b.total {
		b.current = b.total
	}
	b.render()
	fmt.Fprintf(b.writer, "\n")
}
