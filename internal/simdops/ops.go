// Package simdops provides SIMD-accelerated vector kernels for the
// quadrature and mode-set code.
//
// Complex data is processed as split real/imaginary float64 lanes so the
// hot reductions run on the f64 kernels.
package simdops

import (
	"github.com/tphakala/simd/c128"
	"github.com/tphakala/simd/f64"
)

// Ops bundles the kernels used by this module.
// Function pointers keep call sites independent of the SIMD backend.
type Ops struct {
	// DotProduct returns Σ a[i]*b[i]. Slices must have equal length.
	DotProduct func(a, b []float64) float64

	// Sum returns the sum of all elements.
	Sum func(a []float64) float64

	// Scale multiplies each element by scalar s: dst[i] = a[i] * s
	Scale func(dst, a []float64, s float64)

	// MulComplex computes the element-wise product dst[i] = a[i] * b[i].
	MulComplex func(dst, a, b []complex128)
}

var ops64 = Ops{
	DotProduct: f64.DotProduct,
	Sum:        f64.Sum,
	Scale:      f64.Scale,
	MulComplex: c128.Mul,
}

// Split copies the real and imaginary parts of z into re and im.
// re and im must be at least len(z) long.
func Split(z []complex128, re, im []float64) {
	for i, v := range z {
		re[i] = real(v)
		im[i] = imag(v)
	}
}

// WeightedSum returns Σ w[i]*z[i] for real weights and complex values.
// re and im are scratch buffers of length len(z).
func WeightedSum(w []float64, z []complex128, re, im []float64) complex128 {
	n := len(z)
	Split(z, re[:n], im[:n])
	return complex(ops64.DotProduct(w[:n], re[:n]), ops64.DotProduct(w[:n], im[:n]))
}

// ScaleComplex multiplies each element of a by the real factor s.
// re and im are scratch buffers of length len(a).
func ScaleComplex(dst, a []complex128, s float64, re, im []float64) {
	n := len(a)
	Split(a, re[:n], im[:n])
	ops64.Scale(re[:n], re[:n], s)
	ops64.Scale(im[:n], im[:n], s)
	for i := range n {
		dst[i] = complex(re[i], im[i])
	}
}

// SumComplex returns Σ z[i].
// re and im are scratch buffers of length len(z).
func SumComplex(z []complex128, re, im []float64) complex128 {
	n := len(z)
	Split(z, re[:n], im[:n])
	return complex(ops64.Sum(re[:n]), ops64.Sum(im[:n]))
}

// ProductSum returns Σ a[i]*b[i].
// prod, re and im are scratch buffers of length len(a).
func ProductSum(a, b, prod []complex128, re, im []float64) complex128 {
	n := len(a)
	ops64.MulComplex(prod[:n], a, b[:n])
	return SumComplex(prod[:n], re, im)
}

// ConjDot returns Σ conj(a[i])*b[i].
// ar, ai, br and bi are scratch buffers of length len(a).
func ConjDot(a, b []complex128, ar, ai, br, bi []float64) complex128 {
	n := len(a)
	ar, ai, br, bi = ar[:n], ai[:n], br[:n], bi[:n]
	Split(a, ar, ai)
	Split(b[:n], br, bi)
	re := ops64.DotProduct(ar, br) + ops64.DotProduct(ai, bi)
	im := ops64.DotProduct(ar, bi) - ops64.DotProduct(ai, br)
	return complex(re, im)
}
