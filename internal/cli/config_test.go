package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	b := cfg.Canvas.Bounds()
	if b.Width() <= 0 || b.Height() <= 0 {
		t.Errorf("default canvas should be non-empty, got %+v", b)
	}
}

func TestLoadConfigMissingFallsBack(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("missing config should yield defaults, got %+v", cfg)
	}
}

func TestLoadConfigExplicitMissingFails(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("explicit missing config should fail")
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
route_budget = 5000
cache_dir = "/tmp/circed-cache"
autosave = "scratch.json"

[canvas]
min_x = -10
min_y = -10
max_x = 10
max_y = 10
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.RouteBudget != 5000 {
		t.Errorf("RouteBudget = %d, want 5000", cfg.RouteBudget)
	}
	if cfg.CacheDir != "/tmp/circed-cache" {
		t.Errorf("CacheDir = %q", cfg.CacheDir)
	}
	if cfg.Autosave != "scratch.json" {
		t.Errorf("Autosave = %q", cfg.Autosave)
	}
	if got := cfg.Canvas.Bounds().Width(); got != 21 {
		t.Errorf("canvas width = %d, want 21", got)
	}
}

func TestLoadConfigRejectsEmptyCanvas(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[canvas]
min_x = 5
min_y = 0
max_x = -5
max_y = 10
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("inverted canvas bounds should fail")
	}
}

func TestLoadConfigRejectsBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("canvas = ["), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("malformed TOML should fail")
	}
}
