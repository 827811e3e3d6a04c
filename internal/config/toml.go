// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/keytravel/internal/keyboard"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Measure MeasureConfig  `toml:"measure"`
	Layouts []LayoutConfig `toml:"layout"`
}

// MeasureConfig maps measurement-related settings.
type MeasureConfig struct {
	Keyboard *string `toml:"keyboard"`
	Strategy *string `toml:"strategy"`
	Onsite   *bool   `toml:"onsite"`
	Start    *string `toml:"start"`
	Quiet    *bool   `toml:"quiet"`
	Output   *string `toml:"output"`
	Jobs     *int    `toml:"jobs"`
	Record   *bool   `toml:"record"`
}

// LayoutConfig defines an additional keyboard layout.
type LayoutConfig struct {
	Name    string    `toml:"name"`
	Rows    []string  `toml:"rows"`
	Offsets []float64 `toml:"offsets"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Registry returns the built-in layouts plus those defined in the config.
func (c FileConfig) Registry() (*keyboard.Registry, error) {
	reg := keyboard.NewRegistry()
	for i, lc := range c.Layouts {
		l, err := keyboard.NewLayout(lc.Name, lc.Rows, lc.Offsets)
		if err != nil {
			return nil, fmt.Errorf("layout #%d: %w", i+1, err)
		}
		if err := reg.Register(l); err != nil {
			return nil, fmt.Errorf("layout #%d: %w", i+1, err)
		}
	}
	return reg, nil
}
