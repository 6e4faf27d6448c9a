package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/circed/circed/pkg/geom"
)

// Config is the persistent editor configuration, loaded from a TOML file.
type Config struct {
	// Canvas is the editable grid region.
	Canvas CanvasConfig `toml:"canvas"`

	// RouteBudget caps pathfinder expansions per routing job.
	// Zero uses the built-in default.
	RouteBudget int `toml:"route_budget"`

	// CacheDir overrides the XDG export cache directory.
	CacheDir string `toml:"cache_dir"`

	// Autosave is where the editor writes the document on quit when no
	// explicit path was given.
	Autosave string `toml:"autosave"`
}

// CanvasConfig bounds the grid.
type CanvasConfig struct {
	MinX int `toml:"min_x"`
	MinY int `toml:"min_y"`
	MaxX int `toml:"max_x"`
	MaxY int `toml:"max_y"`
}

// Bounds returns the canvas as a box.
func (c CanvasConfig) Bounds() geom.Box {
	return geom.Box{Min: geom.Pt(c.MinX, c.MinY), Max: geom.Pt(c.MaxX, c.MaxY)}
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Canvas: CanvasConfig{MinX: -60, MinY: -40, MaxX: 60, MaxY: 40},
	}
}

// LoadConfig reads the TOML config at path. An empty path falls back to the
// XDG location; a missing file at either location yields the defaults.
func LoadConfig(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return DefaultConfig(), nil
		}
		path = filepath.Join(dir, "config.toml")
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if explicit {
			return Config{}, fmt.Errorf("config %s: %w", path, err)
		}
		return DefaultConfig(), nil
	}
	if err != nil {
		return Config{}, err
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	if cfg.Canvas.MinX >= cfg.Canvas.MaxX || cfg.Canvas.MinY >= cfg.Canvas.MaxY {
		return Config{}, fmt.Errorf("config %s: canvas bounds are empty", path)
	}
	return cfg, nil
}
