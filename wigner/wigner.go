// Package wigner evaluates Wigner D-matrix elements D^ℓ_{m'm}(R) for rotations
// given as unit quaternions.
//
// The quaternion R = w + x i + y j + z k is split into the Cayley-Klein
// parameters Ra = w + i z and Rb = y + i x. Writing Ra = |Ra| e^{iφa},
// Rb = |Rb| e^{iφb} and β = 2 atan2(|Rb|, |Ra|),
//
//	D^ℓ_{m'm}(R) = e^{i(m+m')φa} e^{i(m-m')φb} d^ℓ_{m'm}(β)
//
// and the representation is a homomorphism: D(R₁R₂) = D(R₁)·D(R₂) with the
// matrix product taken over the middle index.
//
// The real functions d are seeded at ℓ = max(|m'|, |m|), where the binomial
// sum has a single term, and advanced with the three-term recursion in ℓ.
// Rotations with |Ra| or |Rb| below 1e-14 take exact closed forms, so the
// identity yields exactly δ_{m'm}.
package wigner

import (
	"math"
	"math/cmplx"

	"github.com/moble/SphericalFunctions/combinatorics"
	"github.com/moble/SphericalFunctions/internal/mathutil"
	"github.com/moble/SphericalFunctions/internal/numerr"
	"github.com/moble/SphericalFunctions/quaternion"
)

// MaxEll is the largest supported degree.
const MaxEll = combinatorics.MaxEll

// Evaluator produces rotors sharing one configuration and combinatorial table.
// It is immutable and safe for concurrent use.
type Evaluator struct {
	config Config
	table  *combinatorics.Table
}

// New creates an evaluator.
func New(config Config) (*Evaluator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.UnitarityTolerance == 0 {
		config.UnitarityTolerance = DefaultUnitarityTolerance
	}
	table := config.Table
	if table == nil {
		table = combinatorics.Default()
	}
	return &Evaluator{config: config, table: table}, nil
}

// Config returns the evaluator configuration with defaults applied.
func (e *Evaluator) Config() Config {
	c := e.config
	c.Table = e.table
	return c
}

type branch int

const (
	branchGeneral branch = iota
	branchRaZero         // rotation by π about an axis in the xy-plane
	branchRbZero         // rotation about ẑ
)

// Rotor is a validated rotation with its Cayley-Klein decomposition
// precomputed. A Rotor is immutable.
type Rotor struct {
	ev *Evaluator
	q  quaternion.Quaternion

	ra, rb     complex128
	ca, sa     float64 // cos(β/2), sin(β/2)
	cosBeta    float64
	phiA, phiB float64
	kind       branch
}

// Rotor validates q and decomposes it. Quaternions whose norm is within
// quaternion.UnitTolerance of 1 are renormalized; others fail with ErrDomain.
func (e *Evaluator) Rotor(q quaternion.Quaternion) (*Rotor, error) {
	u, err := q.AsRotation()
	if err != nil {
		return nil, err
	}

	r := &Rotor{
		ev: e,
		q:  u,
		ra: complex(u.W(), u.Z()),
		rb: complex(u.Y(), u.X()),
	}
	r.ca = cmplx.Abs(r.ra)
	r.sa = cmplx.Abs(r.rb)
	r.phiA = math.Atan2(u.Z(), u.W())
	r.phiB = math.Atan2(u.X(), u.Y())
	r.cosBeta = (r.ca - r.sa) * (r.ca + r.sa)

	switch {
	case r.ca < mathutil.Epsilon:
		r.kind = branchRaZero
	case r.sa < mathutil.Epsilon:
		r.kind = branchRbZero
	}
	return r, nil
}

// Quaternion returns the normalized rotation.
func (r *Rotor) Quaternion() quaternion.Quaternion {
	return r.q
}

// Beta returns the polar rotation angle β in [0, π].
func (r *Rotor) Beta() float64 {
	return 2 * math.Atan2(r.sa, r.ca)
}

// Element returns D^ℓ_{m'm}(R).
func (r *Rotor) Element(ell, mp, m int) (complex128, error) {
	if err := checkIndex(ell, mp, m); err != nil {
		return 0, err
	}
	if err := r.checkMethod(ell); err != nil {
		return 0, err
	}
	s, err := r.ev.table.EnsureEll(ell)
	if err != nil {
		return 0, err
	}

	var out complex128
	r.sweep(s, mp, m, ell, func(l int, v complex128) {
		if l == ell {
			out = v
		}
	})
	return out, nil
}

// Column returns D^ℓ_{m'm}(R) for a fixed m and every 0 ≤ ℓ ≤ ellMax,
// |m'| ≤ ℓ, stored at index ℓ² + ℓ + m'. Entries with ℓ < |m| are zero.
func (r *Rotor) Column(ellMax, m int) ([]complex128, error) {
	if err := checkEllMax(ellMax); err != nil {
		return nil, err
	}
	if m < -ellMax || m > ellMax {
		return nil, numerr.Domainf("column index m=%d outside [-%d, %d]", m, ellMax, ellMax)
	}
	if err := r.checkMethod(ellMax); err != nil {
		return nil, err
	}
	s, err := r.ev.table.EnsureEll(ellMax)
	if err != nil {
		return nil, err
	}

	out := make([]complex128, (ellMax+1)*(ellMax+1))
	for mp := -ellMax; mp <= ellMax; mp++ {
		r.sweep(s, mp, m, ellMax, func(ell int, v complex128) {
			out[ell*ell+ell+mp] = v
		})
	}
	return out, nil
}

// Matrix returns every element D^ℓ_{m'm}(R) for 0 ≤ ℓ ≤ ellMax.
func (r *Rotor) Matrix(ellMax int) (*Matrix, error) {
	if err := checkEllMax(ellMax); err != nil {
		return nil, err
	}
	if err := r.checkMethod(ellMax); err != nil {
		return nil, err
	}
	s, err := r.ev.table.EnsureEll(ellMax)
	if err != nil {
		return nil, err
	}

	d := &Matrix{ellMax: ellMax, data: make([]complex128, Size(ellMax))}
	for mp := -ellMax; mp <= ellMax; mp++ {
		for m := -ellMax; m <= ellMax; m++ {
			r.sweep(s, mp, m, ellMax, func(ell int, v complex128) {
				d.data[Index(ell, mp, m)] = v
			})
		}
	}

	if r.ev.config.VerifyUnitarity {
		if err := d.CheckUnitarity(r.ev.config.UnitarityTolerance); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// sweep calls emit(ℓ, D^ℓ_{m'm}) for ℓ = max(|m'|, |m|)..ellMax. Elements that
// vanish identically on an exact branch are not emitted.
func (r *Rotor) sweep(s *combinatorics.Snapshot, mp, m, ellMax int, emit func(ell int, v complex128)) {
	ell0 := max(abs(mp), abs(m))
	if ell0 > ellMax {
		return
	}

	switch r.kind {
	case branchRaZero:
		if mp != -m {
			return
		}
		phase := mathutil.UnitPhase(float64(2*m) * r.phiB)
		for ell := ell0; ell <= ellMax; ell++ {
			emit(ell, complex(mathutil.MinusOnePow(ell+mp), 0)*phase)
		}
		return
	case branchRbZero:
		if mp != m {
			return
		}
		phase := mathutil.UnitPhase(float64(2*m) * r.phiA)
		for ell := ell0; ell <= ellMax; ell++ {
			emit(ell, phase)
		}
		return
	}

	if r.ev.config.Method == BinomialSum {
		for ell := ell0; ell <= ellMax; ell++ {
			emit(ell, r.binomialSum(s, ell, mp, m))
		}
		return
	}

	phase := mathutil.UnitPhase(float64(m+mp)*r.phiA + float64(m-mp)*r.phiB)
	d := make([]float64, ellMax-ell0+1)
	smallD(s, r.ca, r.sa, r.cosBeta, mp, m, d)
	for i, v := range d {
		emit(ell0+i, complex(v, 0)*phase)
	}
}

func (r *Rotor) checkMethod(ellMax int) error {
	if r.ev.config.Method == BinomialSum && ellMax > maxBinomialSumEll {
		return numerr.Domainf("binomial sum is limited to ell <= %d, got %d", maxBinomialSumEll, ellMax)
	}
	return nil
}

func checkEllMax(ellMax int) error {
	if ellMax < 0 || ellMax > MaxEll {
		return numerr.Domainf("ellMax=%d outside [0, %d]", ellMax, MaxEll)
	}
	return nil
}

func checkIndex(ell, mp, m int) error {
	if err := checkEllMax(ell); err != nil {
		return err
	}
	if mp < -ell || mp > ell || m < -ell || m > ell {
		return numerr.Domainf("indices (m'=%d, m=%d) outside [-%d, %d]", mp, m, ell, ell)
	}
	return nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
