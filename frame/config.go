package frame

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/moble/SphericalFunctions/internal/numerr"
	"github.com/moble/SphericalFunctions/quaternion"
)

// Common errors returned by the integrator.
var (
	// ErrDomain indicates invalid input shapes, an invalid initial frame or
	// an invalid configuration.
	ErrDomain = numerr.ErrDomain

	// ErrNumerical indicates non-finite samples, non-increasing times or a
	// non-finite step result.
	ErrNumerical = numerr.ErrNumerical

	// ErrInvalidConfig indicates invalid configuration parameters.
	ErrInvalidConfig = numerr.ErrInvalidConfig

	// ErrFinalized indicates Integrate was called on a finished integrator.
	ErrFinalized = errors.New("frame: integrator already finalized")
)

// Convention selects the frame in which ω is expressed.
type Convention int

const (
	// BodyFrame integrates dR/dt = ½ R ω: ω is measured in the rotating frame.
	BodyFrame Convention = iota

	// InertialFrame integrates dR/dt = ½ ω R: ω is measured in the inertial
	// frame. This is the convention for waveform angular velocities.
	InertialFrame
)

func (c Convention) String() string {
	switch c {
	case BodyFrame:
		return "body"
	case InertialFrame:
		return "inertial"
	default:
		return fmt.Sprintf("Convention(%d)", int(c))
	}
}

// Interpolation selects how ω is evaluated between samples.
type Interpolation int

const (
	// NaturalCubic uses a natural cubic spline.
	NaturalCubic Interpolation = iota

	// Akima uses an Akima spline, which does not overshoot near outliers.
	Akima

	// Linear interpolates each component linearly.
	Linear
)

func (i Interpolation) String() string {
	switch i {
	case NaturalCubic:
		return "natural-cubic"
	case Akima:
		return "akima"
	case Linear:
		return "linear"
	default:
		return fmt.Sprintf("Interpolation(%d)", int(i))
	}
}

// maxSubsteps bounds Config.Substeps.
const maxSubsteps = 1 << 16

// Config holds integrator configuration.
type Config struct {
	// Initial is the frame at the first sample time.
	// The zero value selects the identity.
	Initial quaternion.Quaternion

	// Convention selects body-frame or inertial-frame ω.
	Convention Convention

	// Substeps is the number of equal RK4 steps between consecutive
	// samples. Zero selects 1.
	Substeps int

	// Interpolation selects the ω interpolant. Series shorter than four
	// samples are always interpolated linearly.
	Interpolation Interpolation

	// Logger receives a debug summary of each integration.
	// Nil disables logging.
	Logger *zap.Logger
}

// DefaultConfig returns a body-frame configuration starting at the identity.
func DefaultConfig() Config {
	return Config{
		Initial:       quaternion.Identity(),
		Convention:    BodyFrame,
		Substeps:      1,
		Interpolation: NaturalCubic,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Convention != BodyFrame && c.Convention != InertialFrame {
		return fmt.Errorf("%w: unknown convention %v", ErrInvalidConfig, c.Convention)
	}

	if c.Interpolation < NaturalCubic || c.Interpolation > Linear {
		return fmt.Errorf("%w: unknown interpolation %v", ErrInvalidConfig, c.Interpolation)
	}

	if c.Substeps < 0 || c.Substeps > maxSubsteps {
		return fmt.Errorf("%w: substeps must be in [0, %d]", ErrInvalidConfig, maxSubsteps)
	}

	if c.Initial != (quaternion.Quaternion{}) {
		if _, err := c.Initial.AsRotation(); err != nil {
			return fmt.Errorf("initial frame: %w", err)
		}
	}

	return nil
}

// withDefaults returns a copy with zero values replaced by defaults.
func (c Config) withDefaults() Config {
	if c.Initial == (quaternion.Quaternion{}) {
		c.Initial = quaternion.Identity()
	}
	if c.Substeps == 0 {
		c.Substeps = 1
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c
}
