package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	cfg := Default()

	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail deep inside the simulator.
func (c *Config) Validate() error {
	if hw := float64(c.Water.HalfWidth); math.IsNaN(hw) || math.IsInf(hw, 0) || hw <= 0 {
		return fmt.Errorf("water.half_width must be positive, got %v", c.Water.HalfWidth)
	}
	if tr := float64(c.Water.Transparency); math.IsNaN(tr) || tr < 0 || tr > 1 {
		return fmt.Errorf("water.transparency must be in [0, 1], got %v", c.Water.Transparency)
	}
	switch c.Simulation.Boundary {
	case "", "pinned", "free":
	default:
		return fmt.Errorf("simulation.boundary must be pinned or free, got %q", c.Simulation.Boundary)
	}
	return nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./watersim.yaml",
		filepath.Join(ConfigDir(), "watersim.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "MidgardWater")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "MidgardWater")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "midgard-water")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "midgard-water")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
