package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"casview/internal/tree"
)

func run(t *testing.T, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.yaml")}, args...))
	t.Cleanup(func() {
		showExpand = nil
		showDepth = 1
		indexWorkers = 0
	})

	if err := Execute(); err != nil {
		t.Fatalf("casview %v failed: %v", args, err)
	}
	return out.String()
}

func TestIndexThenShow(t *testing.T) {
	srcDir := t.TempDir()
	files := map[string]string{
		"a.txt":     "abc",
		"sub/b.txt": "hello",
	}
	for name, content := range files {
		path := filepath.Join(srcDir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create directory: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to create file: %v", err)
		}
	}

	snapshotPath := filepath.Join(t.TempDir(), "snap.json.zst")
	out := run(t, "index", srcDir, snapshotPath)
	if !strings.Contains(out, "Files: 2 (8 B)") {
		t.Errorf("Unexpected index output:\n%s", out)
	}

	out = run(t, "show", snapshotPath)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected root and two children, got:\n%s", out)
	}
	if !strings.Contains(lines[0], "8 B total") {
		t.Errorf("Root should show its total, got %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "  ↓ a.txt") {
		t.Errorf("Expected a.txt first, got %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "  ⊞ sub  5 B total") {
		t.Errorf("Expected collapsed sub with total, got %q", lines[2])
	}

	snapshot, err := tree.Load(snapshotPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	sub := snapshot.Directories[snapshot.Root.Key()][1]

	out = run(t, "show", "--expand", sub.Key(), snapshotPath)
	if !strings.Contains(out, "    ↓ b.txt") {
		t.Errorf("Expected expanded sub, got:\n%s", out)
	}
}
