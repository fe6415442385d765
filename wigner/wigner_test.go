package wigner

import (
	"math"
	"math/cmplx"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/moble/SphericalFunctions/internal/testutil"
	"github.com/moble/SphericalFunctions/quaternion"
)

func newEvaluator(t testing.TB, cfg Config) *Evaluator {
	t.Helper()
	ev, err := New(cfg)
	require.NoError(t, err)
	return ev
}

func randomRotors(n int, seed uint64) []quaternion.Quaternion {
	rng := rand.New(rand.NewPCG(seed, 7))
	out := make([]quaternion.Quaternion, 0, n)
	for len(out) < n {
		q, err := quaternion.New(rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()).Normalize()
		if err == nil {
			out = append(out, q)
		}
	}
	return out
}

func TestIndex(t *testing.T) {
	assert.Equal(t, 0, Index(0, 0, 0))
	assert.Equal(t, 1, Index(1, -1, -1))
	assert.Equal(t, 9, Index(1, 1, 1))
	assert.Equal(t, 10, Index(2, -2, -2))

	for ellMax := 0; ellMax <= 20; ellMax++ {
		assert.Equal(t, Index(ellMax, ellMax, ellMax)+1, Size(ellMax))
	}

	// Consecutive positions across the whole arena
	want := 0
	for ell := 0; ell <= 6; ell++ {
		for mp := -ell; mp <= ell; mp++ {
			for m := -ell; m <= ell; m++ {
				require.Equal(t, want, Index(ell, mp, m))
				want++
			}
		}
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"default", DefaultConfig(), false},
		{"zero value", Config{}, false},
		{"binomial sum", Config{Method: BinomialSum}, false},
		{"unknown method", Config{Method: Method(7)}, true},
		{"negative tolerance", Config{UnitarityTolerance: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
				assert.ErrorIs(t, err, ErrDomain)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestMatrix_IdentityIsExactDelta(t *testing.T) {
	ev := newEvaluator(t, DefaultConfig())
	r, err := ev.Rotor(quaternion.Identity())
	require.NoError(t, err)

	d, err := r.Matrix(10)
	require.NoError(t, err)
	for ell := 0; ell <= 10; ell++ {
		for mp := -ell; mp <= ell; mp++ {
			for m := -ell; m <= ell; m++ {
				v, err := d.At(ell, mp, m)
				require.NoError(t, err)
				if mp == m {
					assert.Equal(t, complex(1, 0), v, "D^%d_{%d,%d}", ell, mp, m)
				} else {
					assert.Equal(t, complex(0, 0), v, "D^%d_{%d,%d}", ell, mp, m)
				}
			}
		}
	}
}

func TestMatrix_DegreeZeroIsOne(t *testing.T) {
	ev := newEvaluator(t, DefaultConfig())
	for _, q := range randomRotors(50, 1) {
		r, err := ev.Rotor(q)
		require.NoError(t, err)
		v, err := r.Element(0, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, complex(1, 0), v)
	}
}

func TestMatrix_Unitary(t *testing.T) {
	ev := newEvaluator(t, Config{VerifyUnitarity: true})
	for _, q := range randomRotors(20, 2) {
		r, err := ev.Rotor(q)
		require.NoError(t, err)
		d, err := r.Matrix(16)
		require.NoError(t, err)
		assert.NoError(t, d.CheckUnitarity(1e-12))
	}
}

func TestMatrix_VerifyUnitarityFailure(t *testing.T) {
	ev := newEvaluator(t, Config{VerifyUnitarity: true, UnitarityTolerance: 1e-300})
	r, err := ev.Rotor(randomRotors(1, 3)[0])
	require.NoError(t, err)

	_, err = r.Matrix(6)
	assert.ErrorIs(t, err, ErrNumerical)
}

// smallD1 is d^1_{m'm}(β) in row order m' = 1, 0, -1 and column order m = 1, 0, -1.
func smallD1(beta float64) [3][3]float64 {
	c, s := math.Cos(beta), math.Sin(beta)
	r := math.Sqrt2
	return [3][3]float64{
		{(1 + c) / 2, -s / r, (1 - c) / 2},
		{s / r, c, -s / r},
		{(1 - c) / 2, s / r, (1 + c) / 2},
	}
}

func TestElement_ClosedFormDegreeOne(t *testing.T) {
	ev := newEvaluator(t, DefaultConfig())

	for _, beta := range []float64{0.1, 0.7, math.Pi / 2, 2.3, 3.0} {
		r, err := ev.Rotor(quaternion.FromEulerZYZ(0, beta, 0))
		require.NoError(t, err)
		want := smallD1(beta)
		for i, mp := range []int{1, 0, -1} {
			for j, m := range []int{1, 0, -1} {
				got, err := r.Element(1, mp, m)
				require.NoError(t, err)
				testutil.AssertComplexInDelta(t, complex(want[i][j], 0), got, 1e-14)
			}
		}
	}
}

func TestElement_ClosedFormDegreeTwo(t *testing.T) {
	ev := newEvaluator(t, DefaultConfig())
	beta := 1.1
	c, s := math.Cos(beta), math.Sin(beta)
	r, err := ev.Rotor(quaternion.FromEulerZYZ(0, beta, 0))
	require.NoError(t, err)

	tests := []struct {
		mp, m int
		want  float64
	}{
		{2, 2, (1 + c) * (1 + c) / 4},
		{2, 0, math.Sqrt(3.0/8) * s * s},
		{1, 0, -math.Sqrt(1.5) * s * c},
		{0, 0, (3*c*c - 1) / 2},
		{1, 1, (1 + c) * (2*c - 1) / 2},
		{-2, 2, (1 - c) * (1 - c) / 4},
	}
	for _, tt := range tests {
		got, err := r.Element(2, tt.mp, tt.m)
		require.NoError(t, err)
		testutil.AssertComplexInDelta(t, complex(tt.want, 0), got, 1e-14)
	}
}

func TestElement_EulerPhases(t *testing.T) {
	ev := newEvaluator(t, DefaultConfig())
	alpha, beta, gamma := 0.8, 1.9, -2.4

	full, err := ev.Rotor(quaternion.FromEulerZYZ(alpha, beta, gamma))
	require.NoError(t, err)
	tilt, err := ev.Rotor(quaternion.FromEulerZYZ(0, beta, 0))
	require.NoError(t, err)

	for ell := 0; ell <= 5; ell++ {
		for mp := -ell; mp <= ell; mp++ {
			for m := -ell; m <= ell; m++ {
				d, err := tilt.Element(ell, mp, m)
				require.NoError(t, err)
				got, err := full.Element(ell, mp, m)
				require.NoError(t, err)
				want := cmplx.Exp(complex(0, float64(mp)*alpha)) * d * cmplx.Exp(complex(0, float64(m)*gamma))
				testutil.AssertComplexInDelta(t, want, got, 1e-14)
			}
		}
	}
}

func TestElement_PiRotations(t *testing.T) {
	ev := newEvaluator(t, DefaultConfig())

	tests := []struct {
		name string
		q    quaternion.Quaternion
		sign func(ell, mp int) float64
	}{
		{"about x", quaternion.New(0, 1, 0, 0), func(ell, _ int) float64 { return math.Pow(-1, float64(ell)) }},
		{"about y", quaternion.New(0, 0, 1, 0), func(ell, mp int) float64 { return math.Pow(-1, float64(ell+mp)) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ev.Rotor(tt.q)
			require.NoError(t, err)
			d, err := r.Matrix(6)
			require.NoError(t, err)
			for ell := 0; ell <= 6; ell++ {
				for mp := -ell; mp <= ell; mp++ {
					for m := -ell; m <= ell; m++ {
						got, _ := d.At(ell, mp, m)
						want := complex(0, 0)
						if mp == -m {
							want = complex(tt.sign(ell, mp), 0)
						}
						testutil.AssertComplexInDelta(t, want, got, 1e-14)
					}
				}
			}
		})
	}
}

func TestElement_NearBranchContinuity(t *testing.T) {
	ev := newEvaluator(t, DefaultConfig())

	for _, q := range []struct{ exact, near float64 }{{math.Pi, math.Pi - 1e-9}, {0, 1e-9}} {
		exact, err := ev.Rotor(quaternion.FromEulerZYZ(0.3, q.exact, 0.2))
		require.NoError(t, err)
		near, err := ev.Rotor(quaternion.FromEulerZYZ(0.3, q.near, 0.2))
		require.NoError(t, err)

		a, err := exact.Matrix(8)
		require.NoError(t, err)
		b, err := near.Matrix(8)
		require.NoError(t, err)
		testutil.AssertComplexSliceInDelta(t, a.Data(), b.Data(), 1e-7)
	}
}

func TestMatrix_Composition(t *testing.T) {
	ev := newEvaluator(t, DefaultConfig())
	qs := randomRotors(10, 4)

	for i := 0; i+1 < len(qs); i += 2 {
		q1, q2 := qs[i], qs[i+1]
		r1, err := ev.Rotor(q1)
		require.NoError(t, err)
		r2, err := ev.Rotor(q2)
		require.NoError(t, err)
		r12, err := ev.Rotor(q1.Mul(q2))
		require.NoError(t, err)

		d1, err := r1.Matrix(8)
		require.NoError(t, err)
		d2, err := r2.Matrix(8)
		require.NoError(t, err)
		d12, err := r12.Matrix(8)
		require.NoError(t, err)

		prod, err := d1.Multiply(d2)
		require.NoError(t, err)
		testutil.AssertComplexSliceInDelta(t, d12.Data(), prod.Data(), 1e-12)
	}
}

func TestMatrix_BinomialSumAgreesWithRecursion(t *testing.T) {
	rec := newEvaluator(t, DefaultConfig())
	sum := newEvaluator(t, Config{Method: BinomialSum})

	for _, q := range append(randomRotors(10, 5), quaternion.FromEulerZYZ(0.1, 0.05, 0.2)) {
		a, err := rec.Rotor(q)
		require.NoError(t, err)
		b, err := sum.Rotor(q)
		require.NoError(t, err)

		da, err := a.Matrix(8)
		require.NoError(t, err)
		db, err := b.Matrix(8)
		require.NoError(t, err)
		testutil.AssertComplexSliceInDelta(t, db.Data(), da.Data(), 1e-11)
	}
}

func TestColumn_MatchesMatrix(t *testing.T) {
	ev := newEvaluator(t, DefaultConfig())
	r, err := ev.Rotor(randomRotors(1, 6)[0])
	require.NoError(t, err)

	const ellMax = 7
	d, err := r.Matrix(ellMax)
	require.NoError(t, err)

	for _, m := range []int{-3, 0, 2} {
		col, err := r.Column(ellMax, m)
		require.NoError(t, err)
		require.Len(t, col, (ellMax+1)*(ellMax+1))
		for ell := 0; ell <= ellMax; ell++ {
			for mp := -ell; mp <= ell; mp++ {
				got := col[ell*ell+ell+mp]
				if ell < max(m, -m) {
					assert.Zero(t, got)
					continue
				}
				want, _ := d.At(ell, mp, m)
				assert.Equal(t, want, got)
			}
		}
	}
}

func TestColumn_HighDegreeNormalized(t *testing.T) {
	ev := newEvaluator(t, DefaultConfig())
	q, err := quaternion.FromAxisAngle(r3.Vec{X: 1, Y: 2, Z: 0.5}, 1.3)
	require.NoError(t, err)
	r, err := ev.Rotor(q)
	require.NoError(t, err)

	const ellMax = 300
	for _, m := range []int{0, 5, -150, 300} {
		col, err := r.Column(ellMax, m)
		require.NoError(t, err)
		for ell := max(m, -m); ell <= ellMax; ell += 7 {
			var norm float64
			for mp := -ell; mp <= ell; mp++ {
				v := col[ell*ell+ell+mp]
				norm += real(v)*real(v) + imag(v)*imag(v)
			}
			assert.InDelta(t, 1, norm, 1e-10, "ell=%d m=%d", ell, m)
		}
	}
}

func TestBlock(t *testing.T) {
	ev := newEvaluator(t, DefaultConfig())
	r, err := ev.Rotor(randomRotors(1, 8)[0])
	require.NoError(t, err)
	d, err := r.Matrix(3)
	require.NoError(t, err)

	b, err := d.Block(2)
	require.NoError(t, err)
	rows, cols := b.Dims()
	assert.Equal(t, 5, rows)
	assert.Equal(t, 5, cols)
	want, _ := d.At(2, -1, 2)
	assert.Equal(t, want, b.At(1, 4))

	_, err = d.Block(4)
	assert.ErrorIs(t, err, ErrDomain)
}

func TestRotor_Renormalizes(t *testing.T) {
	ev := newEvaluator(t, DefaultConfig())
	r, err := ev.Rotor(quaternion.New(1+1e-10, 0, 0, 0))
	require.NoError(t, err)
	assert.InDelta(t, 1, r.Quaternion().Norm(), 1e-15)
}

func TestErrors(t *testing.T) {
	ev := newEvaluator(t, DefaultConfig())
	r, err := ev.Rotor(randomRotors(1, 9)[0])
	require.NoError(t, err)

	tests := []struct {
		name string
		call func() error
	}{
		{"negative ell", func() error { _, err := r.Element(-1, 0, 0); return err }},
		{"ell above max", func() error { _, err := r.Element(MaxEll+1, 0, 0); return err }},
		{"mp above ell", func() error { _, err := r.Element(2, 3, 0); return err }},
		{"m below -ell", func() error { _, err := r.Element(2, 0, -3); return err }},
		{"negative ellMax", func() error { _, err := r.Matrix(-1); return err }},
		{"column m out of range", func() error { _, err := r.Column(2, 3); return err }},
		{"zero quaternion", func() error { _, err := ev.Rotor(quaternion.Quaternion{}); return err }},
		{"non unit quaternion", func() error { _, err := ev.Rotor(quaternion.New(1, 1, 0, 0)); return err }},
		{"nan quaternion", func() error { _, err := ev.Rotor(quaternion.New(math.NaN(), 0, 0, 0)); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.call(), ErrDomain)
		})
	}

	sum := newEvaluator(t, Config{Method: BinomialSum})
	rs, err := sum.Rotor(randomRotors(1, 10)[0])
	require.NoError(t, err)
	_, err = rs.Matrix(maxBinomialSumEll + 1)
	assert.ErrorIs(t, err, ErrDomain)

	d, err := r.Matrix(2)
	require.NoError(t, err)
	d3, err := r.Matrix(3)
	require.NoError(t, err)
	_, err = d.Multiply(d3)
	assert.ErrorIs(t, err, ErrDomain)
	_, err = d.At(3, 0, 0)
	assert.ErrorIs(t, err, ErrDomain)
}

func BenchmarkMatrix(b *testing.B) {
	ev := newEvaluator(b, DefaultConfig())
	r, err := ev.Rotor(quaternion.FromEulerZYZ(0.3, 1.2, -0.7))
	require.NoError(b, err)
	for b.Loop() {
		_, _ = r.Matrix(16)
	}
}

func BenchmarkColumn(b *testing.B) {
	ev := newEvaluator(b, DefaultConfig())
	r, err := ev.Rotor(quaternion.FromEulerZYZ(0.3, 1.2, -0.7))
	require.NoError(b, err)
	for b.Loop() {
		_, _ = r.Column(64, -2)
	}
}
