package wigner

import (
	"math"
	"math/cmplx"

	"github.com/moble/SphericalFunctions/combinatorics"
	"github.com/moble/SphericalFunctions/internal/mathutil"
)

// smallD fills out[i] with d^ℓ_{m'm}(β) for ℓ = max(|m'|, |m|) + i, given
// ca = cos(β/2), sa = sin(β/2) and cosBeta = cos β. Both ca and sa must be
// positive.
func smallD(s *combinatorics.Snapshot, ca, sa, cosBeta float64, mp, m int, out []float64) {
	if len(out) == 0 {
		return
	}
	ell0 := max(abs(mp), abs(m))
	fmp, fm := float64(mp), float64(m)

	prev, cur := 0.0, seedD(s, ca, sa, mp, m)
	out[0] = cur
	for i := 1; i < len(out); i++ {
		j := ell0 + i - 1
		fj, fj1 := float64(j), float64(j+1)
		den := math.Sqrt((fj1*fj1 - fmp*fmp) * (fj1*fj1 - fm*fm))
		a := fj1 * float64(2*j+1) / den

		// At j = ℓ0 the lower neighbour vanishes and (J²-m'²)(J²-m²) = 0.
		var shift, b float64
		if j > 0 {
			shift = fmp * fm / (fj * fj1)
			b = fj1 * math.Sqrt((fj*fj-fmp*fmp)*(fj*fj-fm*fm)) / (fj * den)
		}

		prev, cur = cur, a*(cosBeta-shift)*cur-b*prev
		out[i] = cur
	}
}

// seedD returns d^ℓ₀_{m'm}(β) at ℓ₀ = max(|m'|, |m|), where the binomial sum
// reduces to the single term ρ = max(0, m'-m).
func seedD(s *combinatorics.Snapshot, ca, sa float64, mp, m int) float64 {
	ell0 := max(abs(mp), abs(m))
	rho := max(0, mp-m)

	var c float64
	if ell0 == abs(m) {
		c = s.Binomial(2*ell0, ell0+mp)
	} else {
		c = s.Binomial(2*ell0, ell0+m)
	}
	pa := 2*ell0 - m + mp - 2*rho
	pb := m - mp + 2*rho

	v := math.Sqrt(c) * math.Pow(ca, float64(pa)) * math.Pow(sa, float64(pb))
	if v == 0 {
		// The powers underflowed separately; combine in log space.
		v = math.Exp(0.5*math.Log(c) + float64(pa)*math.Log(ca) + float64(pb)*math.Log(sa))
	}
	return mathutil.MinusOnePow(rho) * v
}

// binomialSum evaluates D^ℓ_{m'm} directly from the alternating binomial sum
//
//	√(C(2ℓ, ℓ+m')/C(2ℓ, ℓ+m)) Σ_ρ (-1)^ρ C(ℓ+m', ρ) C(ℓ-m', ℓ-m-ρ)
//	    Ra^{ℓ+m'-ρ} conj(Ra)^{ℓ-m-ρ} Rb^{m-m'+ρ} conj(Rb)^ρ
func (r *Rotor) binomialSum(s *combinatorics.Snapshot, ell, mp, m int) complex128 {
	rhoMin := max(0, mp-m)
	rhoMax := min(ell+mp, ell-m)
	raBar, rbBar := cmplx.Conj(r.ra), cmplx.Conj(r.rb)

	var sum complex128
	for rho := rhoMin; rho <= rhoMax; rho++ {
		c := mathutil.MinusOnePow(rho) * s.Binomial(ell+mp, rho) * s.Binomial(ell-mp, ell-m-rho)
		sum += complex(c, 0) *
			ipow(r.ra, ell+mp-rho) * ipow(raBar, ell-m-rho) *
			ipow(r.rb, m-mp+rho) * ipow(rbBar, rho)
	}
	return complex(s.WignerCoefficient(ell, mp, m), 0) * sum
}

// ipow returns z^n for n >= 0 by repeated squaring.
func ipow(z complex128, n int) complex128 {
	out := complex(1, 0)
	for n > 0 {
		if n&1 == 1 {
			out *= z
		}
		z *= z
		n >>= 1
	}
	return out
}
