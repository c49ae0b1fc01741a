package progress

import (
	"bytes"
	"strings"
	"testing"
)

func TestBar_RendersBytesAndFiles(t *testing.T) {
	var buf bytes.Buffer
	bar := NewWithWriter(2000, &buf)

	bar.SetDirectory("/data/sub")
	bar.Add(1000)
	bar.Add(1000)
	bar.Finish()

	out := buf.String()
	if !strings.Contains(out, "100%") {
		t.Errorf("Expected finished bar to show 100%%, got %q", out)
	}
	if !strings.Contains(out, "2 KB/2 KB") {
		t.Errorf("Expected byte totals in output, got %q", out)
	}
	if !strings.Contains(out, "sub") {
		t.Errorf("Expected directory name in output, got %q", out)
	}
	if bar.Files() != 2 {
		t.Errorf("Expected 2 files, got %d", bar.Files())
	}
}

func TestBar_NilWriter(t *testing.T) {
	bar := NewWithWriter(10, nil)
	bar.Add(5)
	bar.Finish()

	if bar.Files() != 1 {
		t.Errorf("Expected 1 file, got %d", bar.Files())
	}
}
