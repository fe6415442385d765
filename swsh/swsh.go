// Package swsh evaluates spin-weighted spherical harmonics ₛY_{ℓm} and works
// with the mode coefficients of spin-weighted functions on the sphere.
//
// The harmonics are defined through the Wigner D-matrices of package wigner:
//
//	ₛY_{ℓm}(R) = (-1)^s √((2ℓ+1)/4π) D^ℓ_{m,-s}(R)
//
// With R = quaternion.FromSpherical(θ, φ) this is the usual ₛY_{ℓm}(θ, φ)
// in the Condon-Shortley sign convention of Goldberg et al., so that
// ₀Y_{ℓm} are the standard spherical harmonics and ₋ₛY_{ℓm} = (-1)^{s+m}
// conj(ₛY_{ℓ,-m}). Composing R with a roll exp(γẑ/2) on the
// right multiplies the value by e^{-isγ}.
package swsh

import (
	"math"
	"sync"

	"github.com/moble/SphericalFunctions/internal/mathutil"
	"github.com/moble/SphericalFunctions/internal/numerr"
	"github.com/moble/SphericalFunctions/internal/simdops"
	"github.com/moble/SphericalFunctions/quaternion"
	"github.com/moble/SphericalFunctions/wigner"
)

// Errors returned by SWSH evaluation.
var (
	ErrDomain    = numerr.ErrDomain
	ErrNumerical = numerr.ErrNumerical
)

// Evaluator computes SWSH values from one Wigner evaluator.
// It is immutable and safe for concurrent use.
type Evaluator struct {
	wigner *wigner.Evaluator
}

// New creates an SWSH evaluator on a Wigner evaluator with the given config.
func New(config wigner.Config) (*Evaluator, error) {
	w, err := wigner.New(config)
	if err != nil {
		return nil, err
	}
	return &Evaluator{wigner: w}, nil
}

var defaultEvaluator = sync.OnceValue(func() *Evaluator {
	ev, err := New(wigner.DefaultConfig())
	if err != nil {
		panic(err)
	}
	return ev
})

// Default returns the shared evaluator using wigner.DefaultConfig.
func Default() *Evaluator {
	return defaultEvaluator()
}

// normalization returns (-1)^s √((2ℓ+1)/4π).
func normalization(s, ell int) float64 {
	return mathutil.MinusOnePow(s) * math.Sqrt(float64(2*ell+1)/mathutil.FourPi)
}

// Value returns ₛY_{ℓm}(R).
// It fails with ErrDomain unless ℓ ≥ |s| and ℓ ≥ |m|, or if R is not a
// unit quaternion.
func (e *Evaluator) Value(s, ell, m int, R quaternion.Quaternion) (complex128, error) {
	if ell < abs(s) || ell < abs(m) {
		return 0, numerr.Domainf("sY_lm undefined for s=%d, ell=%d, m=%d", s, ell, m)
	}
	r, err := e.wigner.Rotor(R)
	if err != nil {
		return 0, err
	}
	d, err := r.Element(ell, m, -s)
	if err != nil {
		return 0, err
	}
	return complex(normalization(s, ell), 0) * d, nil
}

// ValueAt returns ₛY_{ℓm}(θ, φ).
func (e *Evaluator) ValueAt(s, ell, m int, theta, phi float64) (complex128, error) {
	if !mathutil.AllFinite(theta, phi) {
		return 0, numerr.Domainf("non-finite direction (theta=%g, phi=%g)", theta, phi)
	}
	return e.Value(s, ell, m, quaternion.FromSpherical(theta, phi))
}

// Modes returns ₛY_{ℓm}(R) for every |s| ≤ ℓ ≤ ellMax and |m| ≤ ℓ. All
// values come from a single rotor and a single D-matrix column sweep.
// It fails with ErrDomain if ellMax < |s|.
func (e *Evaluator) Modes(s, ellMax int, R quaternion.Quaternion) (*ModeSet, error) {
	out, err := NewModeSet(s, ellMax)
	if err != nil {
		return nil, err
	}
	r, err := e.wigner.Rotor(R)
	if err != nil {
		return nil, err
	}
	col, err := r.Column(ellMax, -s)
	if err != nil {
		return nil, err
	}
	for ell := out.EllMin(); ell <= ellMax; ell++ {
		n := complex(normalization(s, ell), 0)
		for m := -ell; m <= ell; m++ {
			i := ModeIndex(ell, m)
			out.data[i] = n * col[i]
		}
	}
	return out, nil
}

// Evaluate returns Σ f_{ℓm} ₛY_{ℓm}(R).
func (e *Evaluator) Evaluate(f *ModeSet, R quaternion.Quaternion) (complex128, error) {
	y, err := e.Modes(f.spin, f.ellMax, R)
	if err != nil {
		return 0, err
	}
	n := len(f.data)
	prod := make([]complex128, n)
	re, im := make([]float64, n), make([]float64, n)
	return simdops.ProductSum(f.data, y.data, prod, re, im), nil
}

// Rotate returns coefficients g with g(R) = f(r·R):
//
//	g_{ℓm'} = Σ_m f_{ℓm} D^ℓ_{m m'}(r).
func (e *Evaluator) Rotate(f *ModeSet, r quaternion.Quaternion) (*ModeSet, error) {
	rotor, err := e.wigner.Rotor(r)
	if err != nil {
		return nil, err
	}
	d, err := rotor.Matrix(f.ellMax)
	if err != nil {
		return nil, err
	}
	out := &ModeSet{spin: f.spin, ellMax: f.ellMax, data: make([]complex128, len(f.data))}
	dd := d.Data()
	for ell := f.EllMin(); ell <= f.ellMax; ell++ {
		for m := -ell; m <= ell; m++ {
			fm := f.data[ModeIndex(ell, m)]
			if fm == 0 {
				continue
			}
			row := dd[wigner.Index(ell, m, -ell) : wigner.Index(ell, m, ell)+1]
			for k, v := range row {
				out.data[ModeIndex(ell, k-ell)] += fm * v
			}
		}
	}
	return out, nil
}

// Value returns ₛY_{ℓm}(R) using the default evaluator.
func Value(s, ell, m int, R quaternion.Quaternion) (complex128, error) {
	return Default().Value(s, ell, m, R)
}

// ValueAt returns ₛY_{ℓm}(θ, φ) using the default evaluator.
func ValueAt(s, ell, m int, theta, phi float64) (complex128, error) {
	return Default().ValueAt(s, ell, m, theta, phi)
}

// Modes returns the full mode set at R using the default evaluator.
func Modes(s, ellMax int, R quaternion.Quaternion) (*ModeSet, error) {
	return Default().Modes(s, ellMax, R)
}
