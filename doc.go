// Package spherical computes Wigner D-matrices and spin-weighted spherical
// harmonics, and integrates angular velocities into rotating frames.
//
// The numerical work lives in the subpackages; this package collects the
// most common entry points.
//
// # Packages
//
//   - quaternion: rotation quaternions, conversions to axis-angle, Euler
//     angles, rotation matrices and spherical coordinates
//   - combinatorics: factorials, binomials and ladder factors in a shared
//     table that grows on demand
//   - wigner: D^ℓ_{m'm}(R) from a seed and a stable recursion in ℓ
//   - swsh: ₛY_{ℓm}(R) values, mode coefficients, ð and ð̄, rotation of
//     modes, Gauss-Legendre sphere grids
//   - frame: RK4 integration of dR/dt = ½ R ω and angular velocity of
//     mode time series
//
// # Quick Start
//
// Evaluate every ₋₂Y_{ℓm} up to ℓ = 8 in one direction:
//
//	R := quaternion.FromSpherical(theta, phi)
//	values, err := spherical.EvaluateSWSH(-2, 8, R)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	y22 := values[spherical.Key{Ell: 2, M: 2}]
//
// Integrate body-frame angular velocity samples:
//
//	series, err := spherical.IntegrateCorotatingFrame(times, omega, quaternion.Identity())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	final := series.Frames[series.Len()-1]
//
// # Conventions
//
// A unit quaternion R = w + xi + yj + zk acts on vectors as v ↦ R v R̄.
// With R_a = w + iz and R_b = y + ix,
//
//	D^ℓ_{m'm}(R) = e^{i(m+m')φ_a} e^{i(m-m')φ_b} d^ℓ_{m'm}(β)
//
// where φ_a, φ_b are the phases of R_a, R_b and cos(β/2) = |R_a|, so that
// D(R₁R₂) = D(R₁)D(R₂) and a rotation by α about ẑ has D_{mm} = e^{imα}.
// Harmonics follow from ₛY_{ℓm}(R) = (-1)^s √((2ℓ+1)/4π) D^ℓ_{m,-s}(R) and
// carry the Condon-Shortley phase.
//
// # Thread Safety
//
// All evaluators are immutable and safe for concurrent use. The shared
// combinatorics table grows by atomic copy-and-swap, so concurrent callers
// never block readers. A [frame.Integrator] integrates one series and must
// not be shared.
package spherical
