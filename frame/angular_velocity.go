package frame

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/moble/SphericalFunctions/internal/numerr"
	"github.com/moble/SphericalFunctions/internal/simdops"
	"github.com/moble/SphericalFunctions/swsh"
)

// maxCondition is the largest condition number accepted for the
// angular-momentum matrix.
const maxCondition = 1e12

// AngularVelocity returns the inertial-frame angular velocity of a time
// series of mode sets: the vector ω minimizing the rotating part of the
// time derivative, found from
//
//	⟨L_a f, L_b f⟩ ω_b = Im ⟨ḟ, L_a f⟩
//
// with ḟ from a natural cubic spline through each mode. Integrating the
// result with InertialFrame gives the corotating frame of the modes.
//
// It fails with ErrDomain for fewer than two samples or mode sets that differ
// in spin weight or ellMax, and with ErrNumerical for bad sample times or a
// sample whose modes do not determine a rotation (for example a purely
// axisymmetric function).
func AngularVelocity(times []float64, modes []*swsh.ModeSet) ([]r3.Vec, error) {
	if err := checkModes(times, modes); err != nil {
		return nil, err
	}
	dots, err := modeDerivatives(times, modes)
	if err != nil {
		return nil, err
	}

	n := modes[0].Len()
	lo := len(modes[0].Data()) - n
	buf := newSplitBuffers(n)

	omega := make([]r3.Vec, len(times))
	for i, f := range modes {
		lp, lm := f.LPlus(), f.LMinus()
		ops := [3][]complex128{
			make([]complex128, n),
			make([]complex128, n),
			f.Lz().Data()[lo:],
		}
		for k := range n {
			p, q := lp.Data()[lo+k], lm.Data()[lo+k]
			ops[0][k] = (p + q) / 2
			ops[1][k] = (p - q) / complex(0, 2)
		}

		M := mat.NewSymDense(3, nil)
		v := mat.NewVecDense(3, nil)
		for a := range 3 {
			for b := a; b < 3; b++ {
				M.SetSym(a, b, real(buf.inner(ops[a], ops[b])))
			}
			v.SetVec(a, imag(buf.inner(dots[i], ops[a])))
		}

		w, err := solve3(M, v)
		if err != nil {
			return nil, &numerr.StepError{Index: i, Time: times[i], Wrapped: err}
		}
		omega[i] = w
	}
	return omega, nil
}

func checkModes(times []float64, modes []*swsh.ModeSet) error {
	if len(times) < 2 {
		return numerr.Domainf("angular velocity needs at least two samples, got %d", len(times))
	}
	if len(times) != len(modes) {
		return numerr.Domainf("%d times but %d mode sets", len(times), len(modes))
	}
	s, ellMax := modes[0].Spin(), modes[0].EllMax()
	for i, f := range modes {
		if f.Spin() != s || f.EllMax() != ellMax {
			return numerr.Domainf("mode set %d has (s=%d, ellMax=%d), want (s=%d, ellMax=%d)",
				i, f.Spin(), f.EllMax(), s, ellMax)
		}
	}
	omega := make([]r3.Vec, len(times))
	return checkSamples(times, omega)
}

// modeDerivatives returns ḟ at every sample, restricted to the modes
// present (ℓ ≥ |s|).
func modeDerivatives(times []float64, modes []*swsh.ModeSet) ([][]complex128, error) {
	n := modes[0].Len()
	lo := len(modes[0].Data()) - n

	dots := make([][]complex128, len(times))
	for i := range dots {
		dots[i] = make([]complex128, n)
	}
	re := make([]float64, len(times))
	im := make([]float64, len(times))
	for k := range n {
		for i, f := range modes {
			z := f.Data()[lo+k]
			re[i], im[i] = real(z), imag(z)
		}
		if err := checkFinite(re, im); err != nil {
			return nil, err
		}
		cr, err := fitDerivative(times, re)
		if err != nil {
			return nil, err
		}
		ci, err := fitDerivative(times, im)
		if err != nil {
			return nil, err
		}
		for i, t := range times {
			dots[i][k] = complex(cr.PredictDerivative(t), ci.PredictDerivative(t))
		}
	}
	return dots, nil
}

func checkFinite(re, im []float64) error {
	for i := range re {
		if math.IsNaN(re[i]+im[i]) || math.IsInf(re[i], 0) || math.IsInf(im[i], 0) {
			return numerr.Numericalf("mode set %d holds a non-finite value", i)
		}
	}
	return nil
}

// splitBuffers holds scratch space for complex inner products.
type splitBuffers struct {
	ar, ai, br, bi []float64
}

func newSplitBuffers(n int) *splitBuffers {
	return &splitBuffers{
		ar: make([]float64, n),
		ai: make([]float64, n),
		br: make([]float64, n),
		bi: make([]float64, n),
	}
}

// inner returns Σ conj(a[k]) b[k].
func (s *splitBuffers) inner(a, b []complex128) complex128 {
	return simdops.ConjDot(a, b, s.ar, s.ai, s.br, s.bi)
}

func solve3(M *mat.SymDense, v *mat.VecDense) (r3.Vec, error) {
	var lu mat.LU
	lu.Factorize(M)
	if c := lu.Cond(); math.IsInf(c, 1) || math.IsNaN(c) || c > maxCondition {
		return r3.Vec{}, numerr.Numericalf("angular momentum matrix is singular (condition %g)", c)
	}
	var x mat.VecDense
	if err := lu.SolveVecTo(&x, false, v); err != nil {
		return r3.Vec{}, numerr.Numericalf("solving for angular velocity: %v", err)
	}
	return r3.Vec{X: x.AtVec(0), Y: x.AtVec(1), Z: x.AtVec(2)}, nil
}
