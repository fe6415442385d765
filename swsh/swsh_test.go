package swsh

import (
	"math"
	"math/cmplx"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/integrate/quad"

	"github.com/moble/SphericalFunctions/internal/mathutil"
	"github.com/moble/SphericalFunctions/internal/testutil"
	"github.com/moble/SphericalFunctions/quaternion"
	"github.com/moble/SphericalFunctions/wigner"
)

func randomModes(t testing.TB, s, ellMax int, seed uint64) *ModeSet {
	t.Helper()
	rng := rand.New(rand.NewPCG(seed, 11))
	f, err := NewModeSet(s, ellMax)
	require.NoError(t, err)
	for ell := f.EllMin(); ell <= ellMax; ell++ {
		for m := -ell; m <= ell; m++ {
			require.NoError(t, f.Set(ell, m, complex(rng.NormFloat64(), rng.NormFloat64())))
		}
	}
	return f
}

func randomRotor(seed uint64) quaternion.Quaternion {
	rng := rand.New(rand.NewPCG(seed, 13))
	q, _ := quaternion.New(rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()).Normalize()
	return q
}

func TestValueAt_ClosedForms(t *testing.T) {
	tests := []struct {
		name     string
		s, l, m  int
		expected func(theta, phi float64) complex128
	}{
		{"Y00", 0, 0, 0, func(_, _ float64) complex128 {
			return complex(1/math.Sqrt(4*math.Pi), 0)
		}},
		{"Y10", 0, 1, 0, func(theta, _ float64) complex128 {
			return complex(math.Sqrt(3/(4*math.Pi))*math.Cos(theta), 0)
		}},
		{"Y11", 0, 1, 1, func(theta, phi float64) complex128 {
			return complex(-math.Sqrt(3/(8*math.Pi))*math.Sin(theta), 0) * cmplx.Exp(complex(0, phi))
		}},
		{"Y1-1", 0, 1, -1, func(theta, phi float64) complex128 {
			return complex(math.Sqrt(3/(8*math.Pi))*math.Sin(theta), 0) * cmplx.Exp(complex(0, -phi))
		}},
		{"1Y10", 1, 1, 0, func(theta, _ float64) complex128 {
			return complex(math.Sqrt(3/(8*math.Pi))*math.Sin(theta), 0)
		}},
		{"-2Y22", -2, 2, 2, func(theta, phi float64) complex128 {
			c := 1 + math.Cos(theta)
			return complex(math.Sqrt(5/(64*math.Pi))*c*c, 0) * cmplx.Exp(complex(0, 2*phi))
		}},
		{"2Y22", 2, 2, 2, func(theta, phi float64) complex128 {
			c := 1 - math.Cos(theta)
			return complex(math.Sqrt(5/(64*math.Pi))*c*c, 0) * cmplx.Exp(complex(0, 2*phi))
		}},
		{"-2Y20", -2, 2, 0, func(theta, _ float64) complex128 {
			s := math.Sin(theta)
			return complex(math.Sqrt(15/(32*math.Pi))*s*s, 0)
		}},
	}

	angles := [][2]float64{{0.3, 0.1}, {1.2, -2.0}, {math.Pi / 2, 3.0}, {2.9, 0.77}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, a := range angles {
				got, err := ValueAt(tt.s, tt.l, tt.m, a[0], a[1])
				require.NoError(t, err)
				testutil.AssertComplexInDelta(t, tt.expected(a[0], a[1]), got, 1e-14)
			}
		})
	}
}

func TestValue_Roll(t *testing.T) {
	theta, phi, gamma := 1.1, 0.4, 0.9
	R := quaternion.FromSpherical(theta, phi)
	rolled := R.Mul(quaternion.FromEulerZYZ(0, 0, gamma))

	for _, s := range []int{-2, -1, 0, 1, 2} {
		base, err := Value(s, 3, 1, R)
		require.NoError(t, err)
		got, err := Value(s, 3, 1, rolled)
		require.NoError(t, err)
		want := base * cmplx.Exp(complex(0, -float64(s)*gamma))
		testutil.AssertComplexInDelta(t, want, got, 1e-14)
	}
}

func TestValue_ConjugationSymmetry(t *testing.T) {
	theta, phi := 0.8, -1.7
	for s := -2; s <= 2; s++ {
		for ell := 2; ell <= 4; ell++ {
			for m := -ell; m <= ell; m++ {
				y, err := ValueAt(s, ell, m, theta, phi)
				require.NoError(t, err)
				mirror, err := ValueAt(-s, ell, -m, theta, phi)
				require.NoError(t, err)
				want := complex(mathutil.MinusOnePow(s+m), 0) * cmplx.Conj(mirror)
				testutil.AssertComplexInDelta(t, want, y, 1e-13, "s=%d l=%d m=%d", s, ell, m)
			}
		}
	}
}

func TestValue_Errors(t *testing.T) {
	tests := []struct {
		name    string
		s, l, m int
	}{
		{"ell below spin", 2, 1, 0},
		{"ell below m", 0, 1, 2},
		{"negative ell", 0, -1, 0},
		{"ell above max", 0, wigner.MaxEll + 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValueAt(tt.s, tt.l, tt.m, 0.5, 0.5)
			assert.ErrorIs(t, err, ErrDomain)
		})
	}

	_, err := Value(0, 1, 0, quaternion.New(2, 0, 0, 0))
	assert.ErrorIs(t, err, ErrDomain)
	_, err = ValueAt(0, 1, 0, math.NaN(), 0)
	assert.ErrorIs(t, err, ErrDomain)
}

func TestModes_MatchesValue(t *testing.T) {
	R := randomRotor(1)
	for _, s := range []int{-2, 0, 3} {
		modes, err := Modes(s, 6, R)
		require.NoError(t, err)
		assert.Equal(t, 6, modes.EllMax())
		assert.Equal(t, abs(s), modes.EllMin())

		m := modes.Map()
		assert.Len(t, m, 49-s*s)
		for key, got := range m {
			want, err := Value(s, key.Ell, key.M, R)
			require.NoError(t, err)
			testutil.AssertComplexInDelta(t, want, got, 1e-14)
		}
	}

	_, err := Modes(3, 2, R)
	assert.ErrorIs(t, err, ErrDomain)
}

func TestModeSet_Access(t *testing.T) {
	f, err := NewModeSet(-2, 4)
	require.NoError(t, err)
	assert.Equal(t, 25-4, f.Len())

	require.NoError(t, f.Set(3, -1, 2+1i))
	v, err := f.At(3, -1)
	require.NoError(t, err)
	assert.Equal(t, 2+1i, v)

	_, err = f.At(1, 0)
	assert.ErrorIs(t, err, ErrDomain)
	assert.ErrorIs(t, f.Set(5, 0, 1), ErrDomain)
	assert.ErrorIs(t, f.Set(3, 4, 1), ErrDomain)

	g := f.Clone()
	require.NoError(t, g.Set(3, -1, 0))
	v, _ = f.At(3, -1)
	assert.Equal(t, 2+1i, v, "clone must not share storage")

	_, err = ModeSetFromData(0, 2, make([]complex128, 8))
	assert.ErrorIs(t, err, ErrDomain)
}

func TestOrthogonality_Quadrature(t *testing.T) {
	// ∫ Y_{ℓm} conj(Y_{ℓ'm}) dΩ = 2π ∫ Y(θ,0) conj(Y'(θ,0)) sin θ dθ; the
	// φ-integral vanishes for m ≠ m'.
	for _, s := range []int{-1, 0, 2} {
		for l1 := abs(s); l1 <= 4; l1++ {
			for l2 := abs(s); l2 <= 4; l2++ {
				for m := -min(l1, l2); m <= min(l1, l2); m++ {
					integrand := func(x float64) float64 {
						theta := math.Acos(x)
						a, _ := ValueAt(s, l1, m, theta, 0)
						b, _ := ValueAt(s, l2, m, theta, 0)
						return 2 * math.Pi * real(a*cmplx.Conj(b))
					}
					got := quad.Fixed(integrand, -1, 1, 8, quad.Legendre{}, 0)
					want := 0.0
					if l1 == l2 {
						want = 1
					}
					assert.InDelta(t, want, got, 1e-12, "s=%d l1=%d l2=%d m=%d", s, l1, l2, m)
				}
			}
		}
	}
}

func TestOrthogonality_Grid(t *testing.T) {
	grid, err := NewGrid(6, 10)
	require.NoError(t, err)
	nTheta, nPhi := grid.Dims()

	sample := func(s, ell, m int) []complex128 {
		out := make([]complex128, 0, nTheta*nPhi)
		for j := range nTheta {
			for k := range nPhi {
				v, err := ValueAt(s, ell, m, grid.Theta(j), grid.Phi(k))
				require.NoError(t, err)
				out = append(out, v)
			}
		}
		return out
	}

	s := -2
	for l1 := 2; l1 <= 4; l1++ {
		for m1 := -l1; m1 <= l1; m1 += 2 {
			a := sample(s, l1, m1)
			for l2 := 2; l2 <= 4; l2++ {
				for m2 := -l2; m2 <= l2; m2 += 3 {
					b := sample(s, l2, m2)
					prod := make([]complex128, len(a))
					for i := range a {
						prod[i] = a[i] * cmplx.Conj(b[i])
					}
					got, err := grid.Integrate(prod)
					require.NoError(t, err)
					want := complex(0, 0)
					if l1 == l2 && m1 == m2 {
						want = 1
					}
					testutil.AssertComplexInDelta(t, want, got, 1e-12)
				}
			}
		}
	}
}

func TestGrid_Nodes(t *testing.T) {
	grid, err := NewGrid(9, 17)
	require.NoError(t, err)

	nTheta, _ := grid.Dims()
	cosTheta := make([]float64, nTheta)
	weights := make([]float64, nTheta)
	var total float64
	for j := range nTheta {
		testutil.AssertInRange(t, grid.Theta(j), 0, math.Pi)
		cosTheta[j] = math.Cos(grid.Theta(j))
		weights[j] = grid.Weight(j)
		total += weights[j]
	}
	testutil.AssertNoNaNOrInf(t, weights)
	testutil.AssertRelativeError(t, 2, total, 1e-14)

	slices.Sort(cosTheta)
	testutil.AssertMonotonic(t, cosTheta)
}

func TestGrid_RoundTrip(t *testing.T) {
	const ellMax = 8
	grid, err := NewGrid(ellMax+1, 2*ellMax+1)
	require.NoError(t, err)
	assert.Equal(t, ellMax, grid.MaxExactEll())

	for _, s := range []int{-2, 0, 1} {
		f := randomModes(t, s, ellMax, uint64(10+s))
		values, err := grid.Synthesize(f)
		require.NoError(t, err)

		// Spot-check synthesis against direct evaluation
		v, err := f.Evaluate(quaternion.FromSpherical(grid.Theta(3), grid.Phi(5)))
		require.NoError(t, err)
		_, nPhi := grid.Dims()
		testutil.AssertComplexInDelta(t, v, values[3*nPhi+5], 1e-11)

		back, err := grid.Analyze(values, s, ellMax)
		require.NoError(t, err)
		testutil.AssertComplexSliceInDelta(t, f.Data(), back.Data(), 1e-11)
	}
}

func TestGrid_Errors(t *testing.T) {
	_, err := NewGrid(0, 4)
	assert.ErrorIs(t, err, ErrDomain)

	grid, err := NewGrid(3, 5)
	require.NoError(t, err)

	_, err = grid.Analyze(make([]complex128, 14), 0, 2)
	assert.ErrorIs(t, err, ErrDomain)
	_, err = grid.Analyze(make([]complex128, 15), 0, 3)
	assert.ErrorIs(t, err, ErrDomain)

	bad := make([]complex128, 15)
	bad[4] = complex(math.Inf(1), 0)
	_, err = grid.Analyze(bad, 0, 2)
	assert.ErrorIs(t, err, ErrNumerical)

	f := randomModes(t, 0, 2, 1)
	_, err = grid.SynthesizeRow(3, f)
	assert.ErrorIs(t, err, ErrDomain)
}

func TestEth_Identities(t *testing.T) {
	for _, s := range []int{-2, 0, 1} {
		f := randomModes(t, s, 6, uint64(20+s))

		up, err := f.Eth()
		require.NoError(t, err)
		assert.Equal(t, s+1, up.Spin())
		back, err := up.EthBar()
		require.NoError(t, err)
		assert.Equal(t, s, back.Spin())

		for ell := max(abs(s), abs(s+1)); ell <= 6; ell++ {
			for m := -ell; m <= ell; m++ {
				fv, _ := f.At(ell, m)
				got, _ := back.At(ell, m)
				want := complex(-float64((ell-s)*(ell+s+1)), 0) * fv
				testutil.AssertComplexInDelta(t, want, got, 1e-12)
			}
		}
	}

	tests := []struct {
		name   string
		spin   int
		ladder func(*ModeSet) (*ModeSet, error)
	}{
		{name: "eth at top spin", spin: 3, ladder: (*ModeSet).Eth},
		{name: "eth-bar at bottom spin", spin: -3, ladder: (*ModeSet).EthBar},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewModeSet(tt.spin, 3)
			require.NoError(t, err)
			_, err = tt.ladder(f)
			assert.ErrorIs(t, err, ErrDomain)
		})
	}
}

func TestEth_RaisesSpinOfY10(t *testing.T) {
	f, err := NewModeSet(0, 1)
	require.NoError(t, err)
	require.NoError(t, f.Set(1, 0, 1))

	ethF, err := f.Eth()
	require.NoError(t, err)

	for _, theta := range []float64{0.4, 1.3, 2.6} {
		got, err := ethF.Evaluate(quaternion.FromSpherical(theta, 0.8))
		require.NoError(t, err)
		// ð cos θ = sin θ with the sY normalization √(3/4π)
		want := complex(math.Sqrt(3/(4*math.Pi))*math.Sin(theta), 0)
		testutil.AssertComplexInDelta(t, want, got, 1e-14)
	}
}

func TestRotate_Property(t *testing.T) {
	for _, s := range []int{-2, 0} {
		f := randomModes(t, s, 4, uint64(30+s))
		r := randomRotor(uint64(40 + s))

		g, err := f.Rotate(r)
		require.NoError(t, err)

		for i := range 5 {
			R := randomRotor(uint64(50 + i))
			want, err := f.Evaluate(r.Mul(R))
			require.NoError(t, err)
			got, err := g.Evaluate(R)
			require.NoError(t, err)
			testutil.AssertComplexInDelta(t, want, got, 1e-11)
		}

		// Rotation preserves the L² norm
		n1, _ := f.Inner(f)
		n2, _ := g.Inner(g)
		testutil.AssertComplexInDelta(t, n1, n2, 1e-10)
	}
}

func TestAngularMomentumOperators(t *testing.T) {
	f := randomModes(t, -2, 5, 3)

	// [L₊, L₋] = 2 L_z
	lhs := f.LMinus().LPlus()
	rhs := f.LPlus().LMinus()
	lz := f.Lz()
	for ell := 2; ell <= 5; ell++ {
		for m := -ell; m <= ell; m++ {
			a, _ := lhs.At(ell, m)
			b, _ := rhs.At(ell, m)
			z, _ := lz.At(ell, m)
			testutil.AssertComplexInDelta(t, 2*z, a-b, 1e-12)
		}
	}

	// L₊ annihilates m = ℓ
	g, err := NewModeSet(0, 2)
	require.NoError(t, err)
	require.NoError(t, g.Set(2, 2, 1))
	for _, v := range g.LPlus().Data() {
		assert.Zero(t, v)
	}
}

func TestInner(t *testing.T) {
	f := randomModes(t, 0, 3, 4)
	g := randomModes(t, 0, 3, 5)

	fg, err := f.Inner(g)
	require.NoError(t, err)
	gf, err := g.Inner(f)
	require.NoError(t, err)
	testutil.AssertComplexInDelta(t, cmplx.Conj(fg), gf, 1e-12)

	h := randomModes(t, 1, 3, 6)
	_, err = f.Inner(h)
	assert.ErrorIs(t, err, ErrDomain)
}

func BenchmarkModes(b *testing.B) {
	R := quaternion.FromSpherical(1.1, 0.3)
	for b.Loop() {
		_, _ = Modes(-2, 32, R)
	}
}

func BenchmarkGridAnalyze(b *testing.B) {
	const ellMax = 16
	grid, err := NewGrid(ellMax+1, 2*ellMax+1)
	require.NoError(b, err)
	values, err := grid.Synthesize(randomModes(b, -2, ellMax, 1))
	require.NoError(b, err)
	for b.Loop() {
		_, _ = grid.Analyze(values, -2, ellMax)
	}
}
