package swsh

import (
	"github.com/moble/SphericalFunctions/combinatorics"
	"github.com/moble/SphericalFunctions/internal/numerr"
	"github.com/moble/SphericalFunctions/internal/simdops"
	"github.com/moble/SphericalFunctions/quaternion"
)

// Key identifies a mode by degree and order.
type Key struct {
	Ell int
	M   int
}

// ModeIndex returns the position of mode (ℓ, m) in a ModeSet's flat storage.
func ModeIndex(ell, m int) int {
	return ell*ell + ell + m
}

// ModeSet holds one complex number per mode (ℓ, m) of spin weight s, for
// |s| ≤ ℓ ≤ EllMax() and |m| ≤ ℓ. It is used both for SWSH values at a
// point and for the mode coefficients of a spin-weighted function
//
//	f(R) = Σ f_{ℓm} ₛY_{ℓm}(R).
//
// Modes with ℓ < |s| do not exist; accessing them fails with ErrDomain.
type ModeSet struct {
	spin   int
	ellMax int
	data   []complex128 // indexed by ModeIndex, zero below ℓ = |s|
}

// NewModeSet returns a zero mode set.
func NewModeSet(s, ellMax int) (*ModeSet, error) {
	if err := checkRange(s, ellMax); err != nil {
		return nil, err
	}
	return &ModeSet{spin: s, ellMax: ellMax, data: make([]complex128, (ellMax+1)*(ellMax+1))}, nil
}

// ModeSetFromData returns a mode set holding a copy of data, which must have
// (ellMax+1)² entries indexed by ModeIndex. Entries with ℓ < |s| are ignored.
func ModeSetFromData(s, ellMax int, data []complex128) (*ModeSet, error) {
	f, err := NewModeSet(s, ellMax)
	if err != nil {
		return nil, err
	}
	if len(data) != len(f.data) {
		return nil, numerr.Domainf("mode data has %d entries, want %d for ellMax=%d", len(data), len(f.data), ellMax)
	}
	lo := ModeIndex(f.EllMin(), -f.EllMin())
	copy(f.data[lo:], data[lo:])
	return f, nil
}

func checkRange(s, ellMax int) error {
	if ellMax < 0 || ellMax > combinatorics.MaxEll {
		return numerr.Domainf("ellMax=%d outside [0, %d]", ellMax, combinatorics.MaxEll)
	}
	if abs(s) > ellMax {
		return numerr.Domainf("spin weight %d has no modes with ell <= %d", s, ellMax)
	}
	return nil
}

// Spin returns the spin weight s.
func (f *ModeSet) Spin() int { return f.spin }

// EllMin returns |s|, the smallest degree present.
func (f *ModeSet) EllMin() int { return abs(f.spin) }

// EllMax returns the largest degree present.
func (f *ModeSet) EllMax() int { return f.ellMax }

// Len returns the number of modes present.
func (f *ModeSet) Len() int {
	return len(f.data) - f.EllMin()*f.EllMin()
}

// Data returns the flat storage indexed by ModeIndex. Callers must not
// modify it.
func (f *ModeSet) Data() []complex128 {
	return f.data
}

func (f *ModeSet) check(ell, m int) error {
	if ell < f.EllMin() || ell > f.ellMax || m < -ell || m > ell {
		return numerr.Domainf("mode (ell=%d, m=%d) absent for spin %d, ell in [%d, %d]", ell, m, f.spin, f.EllMin(), f.ellMax)
	}
	return nil
}

// At returns the entry for mode (ℓ, m).
func (f *ModeSet) At(ell, m int) (complex128, error) {
	if err := f.check(ell, m); err != nil {
		return 0, err
	}
	return f.data[ModeIndex(ell, m)], nil
}

// Set stores v at mode (ℓ, m).
func (f *ModeSet) Set(ell, m int, v complex128) error {
	if err := f.check(ell, m); err != nil {
		return err
	}
	f.data[ModeIndex(ell, m)] = v
	return nil
}

// Map returns the entries keyed by (ℓ, m).
func (f *ModeSet) Map() map[Key]complex128 {
	out := make(map[Key]complex128, f.Len())
	for ell := f.EllMin(); ell <= f.ellMax; ell++ {
		for m := -ell; m <= ell; m++ {
			out[Key{Ell: ell, M: m}] = f.data[ModeIndex(ell, m)]
		}
	}
	return out
}

// Clone returns a deep copy.
func (f *ModeSet) Clone() *ModeSet {
	return &ModeSet{spin: f.spin, ellMax: f.ellMax, data: append([]complex128(nil), f.data...)}
}

// Inner returns Σ conj(f_{ℓm}) g_{ℓm}, the L² inner product of the
// functions on the sphere. Both sets must share spin weight and ellMax.
func (f *ModeSet) Inner(g *ModeSet) (complex128, error) {
	if f.spin != g.spin || f.ellMax != g.ellMax {
		return 0, numerr.Domainf("inner product of mode sets (s=%d, ellMax=%d) and (s=%d, ellMax=%d)",
			f.spin, f.ellMax, g.spin, g.ellMax)
	}
	n := len(f.data)
	ar, ai := make([]float64, n), make([]float64, n)
	br, bi := make([]float64, n), make([]float64, n)
	return simdops.ConjDot(f.data, g.data, ar, ai, br, bi), nil
}

// Evaluate returns Σ f_{ℓm} ₛY_{ℓm}(R) using the default evaluator.
func (f *ModeSet) Evaluate(R quaternion.Quaternion) (complex128, error) {
	return Default().Evaluate(f, R)
}

// Rotate returns coefficients g with g(R) = f(r·R), using the default
// evaluator.
func (f *ModeSet) Rotate(r quaternion.Quaternion) (*ModeSet, error) {
	return Default().Rotate(f, r)
}

// Eth applies the spin-raising operator ð:
//
//	(ðf)_{ℓm} = √((ℓ-s)(ℓ+s+1)) f_{ℓm}, spin s+1.
//
// The result needs ellMax ≥ |s+1|. For s = ellMax every mode is annihilated
// and no spin s+1 set exists, so Eth fails with ErrDomain.
func (f *ModeSet) Eth() (*ModeSet, error) {
	return f.spinLadder(+1)
}

// EthBar applies the spin-lowering operator ð̄:
//
//	(ð̄f)_{ℓm} = -√((ℓ+s)(ℓ-s+1)) f_{ℓm}, spin s-1.
//
// As with Eth, s = -ellMax fails with ErrDomain.
func (f *ModeSet) EthBar() (*ModeSet, error) {
	return f.spinLadder(-1)
}

func (f *ModeSet) spinLadder(dir int) (*ModeSet, error) {
	out, err := NewModeSet(f.spin+dir, f.ellMax)
	if err != nil {
		return nil, err
	}
	table, err := combinatorics.Default().EnsureEll(f.ellMax)
	if err != nil {
		return nil, err
	}
	for ell := max(f.EllMin(), out.EllMin()); ell <= f.ellMax; ell++ {
		var c float64
		if dir > 0 {
			c = table.LadderFactor(ell, f.spin)
		} else {
			c = -table.LadderFactor(ell, -f.spin)
		}
		for m := -ell; m <= ell; m++ {
			i := ModeIndex(ell, m)
			out.data[i] = complex(c, 0) * f.data[i]
		}
	}
	return out, nil
}

// LPlus applies the angular-momentum raising operator:
//
//	(L₊f)_{ℓm} = √(ℓ(ℓ+1) - (m-1)m) f_{ℓ,m-1}.
func (f *ModeSet) LPlus() *ModeSet {
	out := &ModeSet{spin: f.spin, ellMax: f.ellMax, data: make([]complex128, len(f.data))}
	table := mustEnsure(f.ellMax)
	for ell := f.EllMin(); ell <= f.ellMax; ell++ {
		for m := -ell + 1; m <= ell; m++ {
			out.data[ModeIndex(ell, m)] = complex(table.LadderFactor(ell, m-1), 0) * f.data[ModeIndex(ell, m-1)]
		}
	}
	return out
}

// LMinus applies the angular-momentum lowering operator:
//
//	(L₋f)_{ℓm} = √(ℓ(ℓ+1) - m(m+1)) f_{ℓ,m+1}.
func (f *ModeSet) LMinus() *ModeSet {
	out := &ModeSet{spin: f.spin, ellMax: f.ellMax, data: make([]complex128, len(f.data))}
	table := mustEnsure(f.ellMax)
	for ell := f.EllMin(); ell <= f.ellMax; ell++ {
		for m := -ell; m < ell; m++ {
			out.data[ModeIndex(ell, m)] = complex(table.LadderFactor(ell, m), 0) * f.data[ModeIndex(ell, m+1)]
		}
	}
	return out
}

// Lz applies the angular-momentum operator about ẑ: (L_z f)_{ℓm} = m f_{ℓm}.
func (f *ModeSet) Lz() *ModeSet {
	out := &ModeSet{spin: f.spin, ellMax: f.ellMax, data: make([]complex128, len(f.data))}
	for ell := f.EllMin(); ell <= f.ellMax; ell++ {
		for m := -ell; m <= ell; m++ {
			out.data[ModeIndex(ell, m)] = complex(float64(m), 0) * f.data[ModeIndex(ell, m)]
		}
	}
	return out
}

// mustEnsure returns a table snapshot covering ellMax, which every
// constructed ModeSet satisfies.
func mustEnsure(ellMax int) *combinatorics.Snapshot {
	s, err := combinatorics.Default().EnsureEll(ellMax)
	if err != nil {
		panic(err)
	}
	return s
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
