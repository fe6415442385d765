// Package mathutil provides small numerical helpers shared across the
// spherical-function packages.
package mathutil

import "math"

// MinusOnePow returns (-1)^n for any integer n.
func MinusOnePow(n int) float64 {
	if n%2 == 0 {
		return 1
	}
	return -1
}

// IsFinite reports whether x is neither NaN nor ±Inf.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// AllFinite reports whether every value is finite.
func AllFinite(xs ...float64) bool {
	for _, x := range xs {
		if !IsFinite(x) {
			return false
		}
	}
	return true
}

// UnitPhase returns e^{iθ}.
func UnitPhase(theta float64) complex128 {
	s, c := math.Sincos(theta)
	return complex(c, s)
}

// HalfAngles returns cos(x/2) and sin(x/2).
func HalfAngles(x float64) (c, s float64) {
	s, c = math.Sincos(x * half)
	return c, s
}

// WrapAngle maps an angle to the interval (-π, π].
func WrapAngle(theta float64) float64 {
	wrapped := math.Remainder(theta, TwoPi)
	if wrapped <= -math.Pi {
		wrapped += TwoPi
	}
	return wrapped
}
