// Package config handles CLI configuration loading and management.
package config

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/moble/SphericalFunctions/frame"
	"github.com/moble/SphericalFunctions/internal/numerr"
	"github.com/moble/SphericalFunctions/wigner"
)

// Config holds all CLI settings.
type Config struct {
	Wigner  WignerConfig  `yaml:"wigner"`
	Grid    GridConfig    `yaml:"grid"`
	Frame   FrameConfig   `yaml:"frame"`
	Logging LoggingConfig `yaml:"logging"`
}

// WignerConfig holds D-matrix evaluation settings.
type WignerConfig struct {
	Method             string  `yaml:"method"` // "recursion" or "binomial-sum"
	VerifyUnitarity    bool    `yaml:"verify_unitarity"`
	UnitarityTolerance float64 `yaml:"unitarity_tolerance"`
}

// GridConfig holds sphere grid settings.
type GridConfig struct {
	NTheta  int `yaml:"n_theta"`
	NPhi    int `yaml:"n_phi"`
	Workers int `yaml:"workers"` // 0 uses GOMAXPROCS
}

// FrameConfig holds frame integration settings.
type FrameConfig struct {
	Convention    string `yaml:"convention"`    // "body" or "inertial"
	Interpolation string `yaml:"interpolation"` // "natural-cubic", "akima" or "linear"
	Substeps      int    `yaml:"substeps"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	LogFile    string `yaml:"log_file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Wigner: WignerConfig{
			Method:             wigner.Recursion.String(),
			VerifyUnitarity:    false,
			UnitarityTolerance: wigner.DefaultUnitarityTolerance,
		},
		Grid: GridConfig{
			NTheta:  17,
			NPhi:    33,
			Workers: 0,
		},
		Frame: FrameConfig{
			Convention:    frame.BodyFrame.String(),
			Interpolation: frame.NaturalCubic.String(),
			Substeps:      1,
		},
		Logging: LoggingConfig{
			Level:      "info",
			LogFile:    "",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,
		},
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	if _, err := c.Wigner.Evaluator(); err != nil {
		return err
	}
	if _, err := c.Frame.Integrator(nil); err != nil {
		return err
	}
	if c.Grid.NTheta < 1 || c.Grid.NPhi < 1 {
		return fmt.Errorf("%w: grid needs at least 1x1 nodes, got %dx%d", numerr.ErrInvalidConfig, c.Grid.NTheta, c.Grid.NPhi)
	}
	if c.Grid.Workers < 0 {
		return fmt.Errorf("%w: negative worker count %d", numerr.ErrInvalidConfig, c.Grid.Workers)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", numerr.ErrInvalidConfig, c.Logging.Level)
	}
	return nil
}

// Evaluator returns the wigner.Config described by c.
func (c WignerConfig) Evaluator() (wigner.Config, error) {
	cfg := wigner.DefaultConfig()
	switch c.Method {
	case wigner.Recursion.String():
		cfg.Method = wigner.Recursion
	case wigner.BinomialSum.String():
		cfg.Method = wigner.BinomialSum
	default:
		return wigner.Config{}, fmt.Errorf("%w: unknown method %q", numerr.ErrInvalidConfig, c.Method)
	}
	cfg.VerifyUnitarity = c.VerifyUnitarity
	cfg.UnitarityTolerance = c.UnitarityTolerance
	if err := cfg.Validate(); err != nil {
		return wigner.Config{}, err
	}
	return cfg, nil
}

// Integrator returns the frame.Config described by c, logging to logger.
func (c FrameConfig) Integrator(logger *zap.Logger) (frame.Config, error) {
	cfg := frame.DefaultConfig()
	cfg.Logger = logger
	cfg.Substeps = c.Substeps

	switch c.Convention {
	case frame.BodyFrame.String():
		cfg.Convention = frame.BodyFrame
	case frame.InertialFrame.String():
		cfg.Convention = frame.InertialFrame
	default:
		return frame.Config{}, fmt.Errorf("%w: unknown convention %q", numerr.ErrInvalidConfig, c.Convention)
	}

	switch c.Interpolation {
	case frame.NaturalCubic.String():
		cfg.Interpolation = frame.NaturalCubic
	case frame.Akima.String():
		cfg.Interpolation = frame.Akima
	case frame.Linear.String():
		cfg.Interpolation = frame.Linear
	default:
		return frame.Config{}, fmt.Errorf("%w: unknown interpolation %q", numerr.ErrInvalidConfig, c.Interpolation)
	}

	if err := cfg.Validate(); err != nil {
		return frame.Config{}, err
	}
	return cfg, nil
}
