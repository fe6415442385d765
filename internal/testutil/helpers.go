// Package testutil provides reusable test helper functions for the spherical
// function and rotation tests.
package testutil

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/num/quat"
)

// Default tolerances for various test scenarios.
const (
	DefaultTolerance    = 1e-10
	RoundTripTolerance  = 1e-12
	IntegratorTolerance = 1e-6
)

// AssertComplexInDelta verifies that |expected - actual| <= tolerance.
func AssertComplexInDelta(t *testing.T, expected, actual complex128, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	if d := cmplx.Abs(expected - actual); d > tolerance || math.IsNaN(d) {
		return assert.Fail(t, "complex values differ",
			"expected %v, got %v (|diff|=%e, tolerance %e)", expected, actual, d, tolerance)
	}
	return true
}

// AssertComplexSliceInDelta verifies two complex slices element by element.
func AssertComplexSliceInDelta(t *testing.T, expected, actual []complex128, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	if !assert.Len(t, actual, len(expected), msgAndArgs...) {
		return false
	}
	for i := range expected {
		if d := cmplx.Abs(expected[i] - actual[i]); d > tolerance || math.IsNaN(d) {
			return assert.Fail(t, "complex slices differ",
				"index %d: expected %v, got %v (|diff|=%e)", i, expected[i], actual[i], d)
		}
	}
	return true
}

// AssertNoNaNOrInf verifies that no elements in the slice are NaN or Inf.
func AssertNoNaNOrInf(t *testing.T, s []float64, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if math.IsNaN(v) {
			return assert.Fail(t, "found NaN", "s[%d] is NaN", i)
		}
		if math.IsInf(v, 0) {
			return assert.Fail(t, "found Inf", "s[%d] is Inf", i)
		}
	}
	return true
}

// AssertQuatInDelta verifies that two quaternions agree componentwise.
func AssertQuatInDelta(t *testing.T, expected, actual quat.Number, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	if d := quat.Abs(quat.Sub(expected, actual)); d > tolerance || math.IsNaN(d) {
		return assert.Fail(t, "quaternions differ",
			"expected %v, got %v (|diff|=%e, tolerance %e)", expected, actual, d, tolerance)
	}
	return true
}

// AssertSameRotation verifies that two unit quaternions represent the same
// rotation, i.e. agree up to overall sign.
func AssertSameRotation(t *testing.T, expected, actual quat.Number, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	d := min(quat.Abs(quat.Sub(expected, actual)), quat.Abs(quat.Add(expected, actual)))
	if d > tolerance || math.IsNaN(d) {
		return assert.Fail(t, "rotations differ",
			"expected ±%v, got %v (|diff|=%e, tolerance %e)", expected, actual, d, tolerance)
	}
	return true
}

// AssertMonotonic verifies that a slice is strictly increasing.
func AssertMonotonic(t *testing.T, s []float64, msgAndArgs ...any) bool {
	t.Helper()
	for i := 1; i < len(s); i++ {
		if s[i] <= s[i-1] {
			return assert.Fail(t, "not monotonic",
				"s[%d]=%f <= s[%d]=%f", i, s[i], i-1, s[i-1])
		}
	}
	return true
}

// AssertRelativeError verifies that the relative error between actual and expected is within tolerance.
func AssertRelativeError(t *testing.T, expected, actual, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	if expected == 0 {
		return assert.InDelta(t, expected, actual, tolerance, msgAndArgs...)
	}
	relError := math.Abs(actual-expected) / math.Abs(expected)
	return assert.LessOrEqual(t, relError, tolerance,
		"relative error %e exceeds tolerance %e (expected=%f, actual=%f)",
		relError, tolerance, expected, actual)
}

// AssertInRange verifies that a value is within [min, max].
func AssertInRange(t *testing.T, value, minVal, maxVal float64, msgAndArgs ...any) bool {
	t.Helper()
	if value < minVal || value > maxVal {
		return assert.Fail(t, "value out of range",
			"value %f is outside range [%f, %f]", value, minVal, maxVal)
	}
	return true
}
