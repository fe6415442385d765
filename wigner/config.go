package wigner

import (
	"fmt"

	"github.com/moble/SphericalFunctions/combinatorics"
	"github.com/moble/SphericalFunctions/internal/numerr"
)

// Common errors returned by the evaluator.
var (
	// ErrDomain indicates an index out of range or an invalid rotor.
	ErrDomain = numerr.ErrDomain

	// ErrNumerical indicates a block that failed the unitarity check.
	ErrNumerical = numerr.ErrNumerical

	// ErrInvalidConfig indicates invalid configuration parameters.
	ErrInvalidConfig = numerr.ErrInvalidConfig
)

// DefaultUnitarityTolerance is the largest |D Dᴴ - I| entry accepted by
// CheckUnitarity when no tolerance is configured.
const DefaultUnitarityTolerance = 1e-10

// maxBinomialSumEll bounds the direct binomial sum. Its alternating terms
// grow like 2^ℓ, so beyond this degree cancellation destroys the result.
const maxBinomialSumEll = 32

// Method selects how the small-d functions are evaluated.
type Method int

const (
	// Recursion seeds d at ℓ = max(|m'|, |m|) and advances with the
	// three-term recursion in ℓ. Stable for every supported degree.
	Recursion Method = iota

	// BinomialSum evaluates the alternating binomial sum directly. Accurate
	// only for small ℓ; kept as an independent reference.
	BinomialSum
)

func (m Method) String() string {
	switch m {
	case Recursion:
		return "recursion"
	case BinomialSum:
		return "binomial-sum"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// Config holds evaluator configuration.
type Config struct {
	// Table supplies the combinatorial coefficients.
	// Nil selects combinatorics.Default().
	Table *combinatorics.Table

	// Method selects the evaluation algorithm.
	Method Method

	// VerifyUnitarity checks every ℓ-block produced by Rotor.Matrix and
	// fails with ErrNumerical when one is not unitary within
	// UnitarityTolerance.
	VerifyUnitarity bool

	// UnitarityTolerance is the tolerance for VerifyUnitarity.
	// Zero selects DefaultUnitarityTolerance.
	UnitarityTolerance float64
}

// DefaultConfig returns the recursion-based configuration on the shared table.
func DefaultConfig() Config {
	return Config{
		Method:             Recursion,
		UnitarityTolerance: DefaultUnitarityTolerance,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Method != Recursion && c.Method != BinomialSum {
		return fmt.Errorf("%w: unknown method %v", ErrInvalidConfig, c.Method)
	}

	if c.UnitarityTolerance < 0 {
		return fmt.Errorf("%w: unitarity tolerance must be non-negative", ErrInvalidConfig)
	}

	return nil
}
