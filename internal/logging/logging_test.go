package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestInit_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "casview.log")

	if err := Init(Config{Level: "debug", Format: "json", OutputPath: path}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { Set(zap.NewNop()) })

	L().Debug("resolved directory", zap.String("key", "abc/10"))
	_ = Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log: %v", err)
	}
	if !strings.Contains(string(data), `"key":"abc/10"`) {
		t.Errorf("Expected structured field in log, got %q", data)
	}
}

func TestInit_LevelFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "casview.log")

	if err := Init(Config{Level: "error", Format: "json", OutputPath: path}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { Set(zap.NewNop()) })

	L().Info("hidden")
	_ = Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log: %v", err)
	}
	if strings.Contains(string(data), "hidden") {
		t.Error("Info entry should be filtered at error level")
	}
}

func TestL_DefaultsToNop(t *testing.T) {
	if L() == nil {
		t.Fatal("L should never return nil")
	}
}
