package mathutil

import "math"

// Thresholds shared by the quaternion, Wigner and frame packages.
const (
	// Epsilon is the magnitude below which a Cayley-Klein parameter is
	// treated as exactly zero (rotations by 0 or π).
	Epsilon = 1e-14

	// ZeroNorm is the quaternion norm below which normalization and
	// inversion are undefined.
	ZeroNorm = 1e-12

	// UnitTolerance is the largest |‖q‖ - 1| accepted for a rotation
	// quaternion before it is rejected instead of renormalized.
	UnitTolerance = 1e-8
)

// Common factors
const (
	FourPi = 4 * math.Pi
	TwoPi  = 2 * math.Pi
	half   = 0.5
)
