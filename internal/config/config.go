// Package config provides configuration types, defaults, and
// persistence for scrim.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"scrim/internal/tracing"
)

// FloatingConfig holds the default placement policy applied when a
// widget does not override it.
type FloatingConfig struct {
	Placement string  `mapstructure:"placement"` // e.g. "bottom-start"
	Offset    float64 `mapstructure:"offset"`    // gap in cells from the anchor edge
	Padding   float64 `mapstructure:"padding"`   // minimum distance from viewport edges
	Flip      bool    `mapstructure:"flip"`      // flip to the opposite side on overflow
	Shift     bool    `mapstructure:"shift"`     // slide along the cross axis to stay in view
}

// ThemeConfig holds color customization options.
type ThemeConfig struct {
	// Mode forces light or dark mode. If empty, uses terminal detection.
	Mode string `mapstructure:"mode"`

	Highlight string `mapstructure:"highlight"` // accent for active triggers
	Subtle    string `mapstructure:"subtle"`    // borders and muted text
	Backdrop  string `mapstructure:"backdrop"`  // dimmed background under containers
	Error     string `mapstructure:"error"`
}

// UIConfig holds demo playground options.
type UIConfig struct {
	ShowStatusBar bool `mapstructure:"show_status_bar"`
	MouseEnabled  bool `mapstructure:"mouse_enabled"`
}

// Config holds all configuration options for scrim.
type Config struct {
	Floating FloatingConfig `mapstructure:"floating"`
	Theme    ThemeConfig    `mapstructure:"theme"`
	UI       UIConfig       `mapstructure:"ui"`
	Tracing  tracing.Config `mapstructure:"tracing"`
}

// Defaults returns the configuration used when no file overrides it.
func Defaults() Config {
	return Config{
		Floating: FloatingConfig{
			Placement: "bottom-start",
			Offset:    0,
			Padding:   1,
			Flip:      true,
			Shift:     true,
		},
		Theme: ThemeConfig{
			Highlight: "#7D56F4",
			Subtle:    "#6B7280",
			Backdrop:  "#1F2937",
			Error:     "#EF4444",
		},
		UI: UIConfig{
			ShowStatusBar: true,
			MouseEnabled:  true,
		},
		Tracing: tracing.DefaultConfig(),
	}
}

// Dir returns the user config directory, creating it if needed.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	dir := filepath.Join(home, ".config", "scrim")
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}
	return dir, nil
}

// DefaultPath returns the user config file path.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}
