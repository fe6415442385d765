package mathutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestMinusOnePow tests the sign helper for positive and negative exponents.
func TestMinusOnePow(t *testing.T) {
	tests := []struct {
		n    int
		want float64
	}{
		{0, 1}, {1, -1}, {2, 1}, {7, -1}, {-1, -1}, {-2, 1}, {-5, -1},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, MinusOnePow(tt.n), 0, "(-1)^%d", tt.n)
	}
}

func TestIsFinite(t *testing.T) {
	assert.True(t, IsFinite(0))
	assert.True(t, IsFinite(-1e300))
	assert.False(t, IsFinite(math.NaN()))
	assert.False(t, IsFinite(math.Inf(1)))
	assert.False(t, IsFinite(math.Inf(-1)))

	assert.True(t, AllFinite(1, 2, 3))
	assert.True(t, AllFinite())
	assert.False(t, AllFinite(1, math.NaN(), 3))
}

func TestUnitPhase(t *testing.T) {
	z := UnitPhase(math.Pi / 2)
	assert.InDelta(t, 0, real(z), 1e-15)
	assert.InDelta(t, 1, imag(z), 1e-15)
}

func TestHalfAngles(t *testing.T) {
	c, s := HalfAngles(math.Pi)
	assert.InDelta(t, 0, c, 1e-15)
	assert.InDelta(t, 1, s, 1e-15)
}

// TestWrapAngle tests the (-π, π] wrapping convention, including the boundary.
func TestWrapAngle(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"Zero", 0, 0},
		{"Pi stays", math.Pi, math.Pi},
		{"Minus pi maps to pi", -math.Pi, math.Pi},
		{"Small negative", -0.25, -0.25},
		{"Just past pi", math.Pi + 0.5, -math.Pi + 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, WrapAngle(tt.in), 1e-12)
		})
	}
}
