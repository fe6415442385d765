package swsh

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/integrate/quad"

	"github.com/moble/SphericalFunctions/internal/mathutil"
	"github.com/moble/SphericalFunctions/internal/numerr"
	"github.com/moble/SphericalFunctions/internal/simdops"
	"github.com/moble/SphericalFunctions/quaternion"
)

// Grid is a product grid on the sphere: Gauss-Legendre nodes in cos θ and
// nPhi equally spaced azimuths φ_k = 2πk/nPhi. Values on the grid are stored
// row-major, index j*nPhi + k for polar node j and azimuth k.
//
// Synthesis and analysis are exact for functions band-limited to ellMax
// when nTheta ≥ ellMax+1 and nPhi ≥ 2ellMax+1. A Grid is immutable and safe
// for concurrent use; every call allocates its own FFT plan.
type Grid struct {
	ev      *Evaluator
	nTheta  int
	nPhi    int
	theta   []float64
	weights []float64 // Gauss-Legendre weights on cos θ ∈ [-1, 1]
}

// NewGrid returns a grid on the default evaluator.
func NewGrid(nTheta, nPhi int) (*Grid, error) {
	return Default().NewGrid(nTheta, nPhi)
}

// NewGrid returns a grid whose harmonics come from e.
func (e *Evaluator) NewGrid(nTheta, nPhi int) (*Grid, error) {
	if nTheta < 1 || nPhi < 1 {
		return nil, numerr.Domainf("grid needs at least one node per direction, got %dx%d", nTheta, nPhi)
	}
	x := make([]float64, nTheta)
	w := make([]float64, nTheta)
	quad.Legendre{}.FixedLocations(x, w, -1, 1)

	theta := make([]float64, nTheta)
	for j, c := range x {
		theta[j] = math.Acos(c)
	}
	return &Grid{ev: e, nTheta: nTheta, nPhi: nPhi, theta: theta, weights: w}, nil
}

// Dims returns the number of polar and azimuthal nodes.
func (g *Grid) Dims() (nTheta, nPhi int) {
	return g.nTheta, g.nPhi
}

// Theta returns the polar angle of node j.
func (g *Grid) Theta(j int) float64 {
	return g.theta[j]
}

// Phi returns the azimuth of node k.
func (g *Grid) Phi(k int) float64 {
	return mathutil.TwoPi * float64(k) / float64(g.nPhi)
}

// Weight returns the quadrature weight of polar node j in cos θ.
func (g *Grid) Weight(j int) float64 {
	return g.weights[j]
}

// MaxExactEll returns the largest ellMax for which Analyze is exact.
func (g *Grid) MaxExactEll() int {
	return min(g.nTheta-1, (g.nPhi-1)/2)
}

// SynthesizeRow returns f(θ_j, φ_k) for every azimuth k of polar node j.
func (g *Grid) SynthesizeRow(j int, f *ModeSet) ([]complex128, error) {
	if j < 0 || j >= g.nTheta {
		return nil, numerr.Domainf("polar node %d outside [0, %d)", j, g.nTheta)
	}
	y, err := g.ev.Modes(f.spin, f.ellMax, quaternion.FromSpherical(g.theta[j], 0))
	if err != nil {
		return nil, err
	}

	// ₛY_{ℓm}(θ, φ) = ₛY_{ℓm}(θ, 0) e^{imφ}; fold each m onto its FFT bin.
	coeff := make([]complex128, g.nPhi)
	for ell := f.EllMin(); ell <= f.ellMax; ell++ {
		for m := -ell; m <= ell; m++ {
			i := ModeIndex(ell, m)
			coeff[bin(m, g.nPhi)] += f.data[i] * y.data[i]
		}
	}
	return fourier.NewCmplxFFT(g.nPhi).Sequence(nil, coeff), nil
}

// Synthesize returns f on the whole grid.
func (g *Grid) Synthesize(f *ModeSet) ([]complex128, error) {
	out := make([]complex128, 0, g.nTheta*g.nPhi)
	for j := range g.nTheta {
		row, err := g.SynthesizeRow(j, f)
		if err != nil {
			return nil, err
		}
		out = append(out, row...)
	}
	return out, nil
}

// Analyze returns the mode coefficients f_{ℓm} = ∫ f conj(ₛY_{ℓm}) dΩ of
// grid values of a spin-s function, for |s| ≤ ℓ ≤ ellMax.
// It fails with ErrDomain if the grid is too coarse for ellMax and with
// ErrNumerical if a value is not finite.
func (g *Grid) Analyze(values []complex128, s, ellMax int) (*ModeSet, error) {
	if err := g.checkValues(values); err != nil {
		return nil, err
	}
	if ellMax > g.MaxExactEll() {
		return nil, numerr.Domainf("%dx%d grid resolves ell <= %d, got ellMax=%d", g.nTheta, g.nPhi, g.MaxExactEll(), ellMax)
	}
	out, err := NewModeSet(s, ellMax)
	if err != nil {
		return nil, err
	}

	fft := fourier.NewCmplxFFT(g.nPhi)
	coeff := make([]complex128, g.nPhi)
	re := make([]float64, max(g.nPhi, g.nTheta))
	im := make([]float64, max(g.nPhi, g.nTheta))

	// terms[i*nTheta+j] is the φ-integrated integrand of mode i at node j.
	terms := make([]complex128, len(out.data)*g.nTheta)
	for j := range g.nTheta {
		fft.Coefficients(coeff, values[j*g.nPhi:(j+1)*g.nPhi])
		simdops.ScaleComplex(coeff, coeff, mathutil.TwoPi/float64(g.nPhi), re, im)

		y, err := g.ev.Modes(s, ellMax, quaternion.FromSpherical(g.theta[j], 0))
		if err != nil {
			return nil, err
		}
		for ell := out.EllMin(); ell <= ellMax; ell++ {
			for m := -ell; m <= ell; m++ {
				i := ModeIndex(ell, m)
				terms[i*g.nTheta+j] = coeff[bin(m, g.nPhi)] * cmplx.Conj(y.data[i])
			}
		}
	}

	for ell := out.EllMin(); ell <= ellMax; ell++ {
		for m := -ell; m <= ell; m++ {
			i := ModeIndex(ell, m)
			out.data[i] = simdops.WeightedSum(g.weights, terms[i*g.nTheta:(i+1)*g.nTheta], re, im)
		}
	}
	return out, nil
}

// Integrate returns the quadrature approximation of ∫ v dΩ.
func (g *Grid) Integrate(values []complex128) (complex128, error) {
	if err := g.checkValues(values); err != nil {
		return 0, err
	}
	rows := make([]complex128, g.nTheta)
	re := make([]float64, max(g.nTheta, g.nPhi))
	im := make([]float64, max(g.nTheta, g.nPhi))
	for j := range g.nTheta {
		rows[j] = simdops.SumComplex(values[j*g.nPhi:(j+1)*g.nPhi], re, im)
	}
	sum := simdops.WeightedSum(g.weights, rows, re, im)
	return sum * complex(mathutil.TwoPi/float64(g.nPhi), 0), nil
}

func (g *Grid) checkValues(values []complex128) error {
	if len(values) != g.nTheta*g.nPhi {
		return numerr.Domainf("grid holds %d values, got %d", g.nTheta*g.nPhi, len(values))
	}
	for i, v := range values {
		if !mathutil.AllFinite(real(v), imag(v)) {
			return numerr.Numericalf("grid value %d is not finite", i)
		}
	}
	return nil
}

// bin returns the FFT bin of azimuthal order m on an n-point grid.
func bin(m, n int) int {
	return ((m % n) + n) % n
}
