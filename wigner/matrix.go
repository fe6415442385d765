package wigner

import (
	"math/cmplx"

	"gonum.org/v1/gonum/mat"

	"github.com/moble/SphericalFunctions/internal/numerr"
)

// Index returns the position of D^ℓ_{m'm} in the flat arena of a Matrix.
// Blocks are stored in order of ℓ, each row-major in (m', m).
func Index(ell, mp, m int) int {
	return ell*(ell*(4*ell+6)+5)/3 + mp*(2*ell+1) + m
}

// Size returns the number of elements for 0 ≤ ℓ ≤ ellMax.
func Size(ellMax int) int {
	return (ellMax + 1) * (2*ellMax + 1) * (2*ellMax + 3) / 3
}

// Matrix holds D^ℓ_{m'm}(R) for 0 ≤ ℓ ≤ EllMax() in a single arena.
// A Matrix is not modified after construction.
type Matrix struct {
	ellMax int
	data   []complex128
}

// EllMax returns the largest degree stored.
func (d *Matrix) EllMax() int {
	return d.ellMax
}

// At returns D^ℓ_{m'm}.
func (d *Matrix) At(ell, mp, m int) (complex128, error) {
	if ell < 0 || ell > d.ellMax {
		return 0, numerr.Domainf("ell=%d outside [0, %d]", ell, d.ellMax)
	}
	if err := checkIndex(ell, mp, m); err != nil {
		return 0, err
	}
	return d.data[Index(ell, mp, m)], nil
}

// Data returns the flat arena, indexed by Index. Callers must not modify it.
func (d *Matrix) Data() []complex128 {
	return d.data
}

// block returns the contiguous (2ℓ+1)² slice of degree ell.
func (d *Matrix) block(ell int) []complex128 {
	return d.data[Index(ell, -ell, -ell) : Index(ell, ell, ell)+1]
}

// Block returns a copy of the ℓ-block as a (2ℓ+1)×(2ℓ+1) matrix with row
// m'+ℓ and column m+ℓ.
func (d *Matrix) Block(ell int) (*mat.CDense, error) {
	if ell < 0 || ell > d.ellMax {
		return nil, numerr.Domainf("ell=%d outside [0, %d]", ell, d.ellMax)
	}
	n := 2*ell + 1
	return mat.NewCDense(n, n, append([]complex128(nil), d.block(ell)...)), nil
}

// CheckUnitarity verifies that every block satisfies |(D Dᴴ - I)_{ij}| ≤ tol.
func (d *Matrix) CheckUnitarity(tol float64) error {
	for ell := 0; ell <= d.ellMax; ell++ {
		if dev := unitarityDeviation(d.block(ell), 2*ell+1); dev > tol || dev != dev {
			return numerr.Numericalf("block ell=%d deviates from unitarity by %g (tolerance %g)", ell, dev, tol)
		}
	}
	return nil
}

// Multiply returns the blockwise product d·other, so that
// D(R₁).Multiply(D(R₂)) equals D(R₁R₂).
func (d *Matrix) Multiply(other *Matrix) (*Matrix, error) {
	if d.ellMax != other.ellMax {
		return nil, numerr.Domainf("cannot multiply matrices with ellMax %d and %d", d.ellMax, other.ellMax)
	}
	out := &Matrix{ellMax: d.ellMax, data: make([]complex128, len(d.data))}
	for ell := 0; ell <= d.ellMax; ell++ {
		n := 2*ell + 1
		a, b, c := d.block(ell), other.block(ell), out.block(ell)
		for i := range n {
			for k := range n {
				aik := a[i*n+k]
				if aik == 0 {
					continue
				}
				for j := range n {
					c[i*n+j] += aik * b[k*n+j]
				}
			}
		}
	}
	return out, nil
}

// unitarityDeviation returns max |(B Bᴴ - I)_{ij}| for an n×n row-major block.
func unitarityDeviation(b []complex128, n int) float64 {
	var worst float64
	for i := range n {
		for j := range n {
			var sum complex128
			for k := range n {
				sum += b[i*n+k] * cmplx.Conj(b[j*n+k])
			}
			if i == j {
				sum -= 1
			}
			worst = max(worst, cmplx.Abs(sum))
		}
	}
	return worst
}
