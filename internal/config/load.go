package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Overrides holds command-line settings that take priority over the file.
// Zero values leave the loaded setting unchanged.
type Overrides struct {
	Debug         bool
	LogFile       string
	Method        string
	Workers       int
	Convention    string
	Interpolation string
	Substeps      int
}

// Load loads configuration with priority: defaults < file < overrides.
// An empty path searches the standard locations; a missing file there is
// not an error.
func Load(path string, o Overrides) (*Config, error) {
	// Start with defaults
	cfg := Default()

	// Try to load from file (explicit path takes priority)
	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	// Apply CLI flags (highest priority)
	cfg.Apply(o)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Apply copies the non-zero overrides into c.
func (c *Config) Apply(o Overrides) {
	if o.Debug {
		c.Logging.Level = "debug"
	}
	if o.LogFile != "" {
		c.Logging.LogFile = o.LogFile
	}
	if o.Method != "" {
		c.Wigner.Method = o.Method
	}
	if o.Workers > 0 {
		c.Grid.Workers = o.Workers
	}
	if o.Convention != "" {
		c.Frame.Convention = o.Convention
	}
	if o.Interpolation != "" {
		c.Frame.Interpolation = o.Interpolation
	}
	if o.Substeps > 0 {
		c.Frame.Substeps = o.Substeps
	}
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./spherical.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
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
		return filepath.Join(home, "Library", "Application Support", "spherical")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "spherical")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "spherical")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "spherical")
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

// SaveTo writes the config to a specific path.
func (c *Config) SaveTo(path string) error {
	// Create parent directory if needed
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}
