// Package quaternion implements the quaternion algebra used to represent
// rotations of the sphere.
//
// A Quaternion is an immutable value; every operation returns a new value.
// Rotations are unit quaternions, but non-unit values are legal intermediates
// of the algebra. The arithmetic is delegated to gonum's num/quat package.
package quaternion

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/moble/SphericalFunctions/internal/mathutil"
	"github.com/moble/SphericalFunctions/internal/numerr"
)

// Tolerances
const (
	// UnitTolerance is the allowed deviation of |q| from 1 for a quaternion
	// to be accepted as a rotation.
	UnitTolerance = mathutil.UnitTolerance

	// ZeroNormTolerance is the norm below which a quaternion cannot be
	// normalized or inverted.
	ZeroNormTolerance = mathutil.ZeroNorm
)

// ErrDomain is returned for zero-norm, non-unit or otherwise invalid input.
var ErrDomain = numerr.ErrDomain

// Quaternion is w + x i + y j + z k, stored as gonum's quat.Number with
// Real, Imag, Jmag, Kmag holding w, x, y, z.
type Quaternion quat.Number

// New returns w + x i + y j + z k.
func New(w, x, y, z float64) Quaternion {
	return Quaternion{Real: w, Imag: x, Jmag: y, Kmag: z}
}

// Identity returns the multiplicative identity 1.
func Identity() Quaternion {
	return Quaternion{Real: 1}
}

// Pure returns the pure-vector quaternion with vector part v.
func Pure(v r3.Vec) Quaternion {
	return Quaternion{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
}

// W returns the scalar part.
func (q Quaternion) W() float64 { return q.Real }

// X returns the i component.
func (q Quaternion) X() float64 { return q.Imag }

// Y returns the j component.
func (q Quaternion) Y() float64 { return q.Jmag }

// Z returns the k component.
func (q Quaternion) Z() float64 { return q.Kmag }

// Vector returns the vector part.
func (q Quaternion) Vector() r3.Vec {
	return r3.Vec{X: q.Imag, Y: q.Jmag, Z: q.Kmag}
}

func (q Quaternion) String() string {
	return fmt.Sprintf("%v", quat.Number(q))
}

// Add returns q + p.
func (q Quaternion) Add(p Quaternion) Quaternion {
	return Quaternion(quat.Add(quat.Number(q), quat.Number(p)))
}

// Sub returns q - p.
func (q Quaternion) Sub(p Quaternion) Quaternion {
	return Quaternion(quat.Sub(quat.Number(q), quat.Number(p)))
}

// Mul returns the Hamilton product q·p. As rotations, q.Mul(p) applies p
// first and then q.
func (q Quaternion) Mul(p Quaternion) Quaternion {
	return Quaternion(quat.Mul(quat.Number(q), quat.Number(p)))
}

// Scale returns f·q.
func (q Quaternion) Scale(f float64) Quaternion {
	return Quaternion(quat.Scale(f, quat.Number(q)))
}

// Neg returns -q, which represents the same rotation as q.
func (q Quaternion) Neg() Quaternion {
	return q.Scale(-1)
}

// Conj returns the conjugate w - x i - y j - z k.
func (q Quaternion) Conj() Quaternion {
	return Quaternion(quat.Conj(quat.Number(q)))
}

// Norm2 returns the squared norm w² + x² + y² + z².
func (q Quaternion) Norm2() float64 {
	return q.Real*q.Real + q.Imag*q.Imag + q.Jmag*q.Jmag + q.Kmag*q.Kmag
}

// Norm returns the Euclidean norm.
func (q Quaternion) Norm() float64 {
	return quat.Abs(quat.Number(q))
}

// Dot returns the four-dimensional inner product of q and p.
func (q Quaternion) Dot(p Quaternion) float64 {
	return q.Real*p.Real + q.Imag*p.Imag + q.Jmag*p.Jmag + q.Kmag*p.Kmag
}

// Normalize returns q/|q|.
func (q Quaternion) Normalize() (Quaternion, error) {
	n := q.Norm()
	if n < ZeroNormTolerance || !mathutil.IsFinite(n) {
		return Quaternion{}, numerr.Domainf("cannot normalize quaternion %v with norm %g", q, n)
	}
	return q.Scale(1 / n), nil
}

// Inverse returns conj(q)/|q|², the multiplicative inverse.
func (q Quaternion) Inverse() (Quaternion, error) {
	n2 := q.Norm2()
	if n2 < ZeroNormTolerance*ZeroNormTolerance || !mathutil.IsFinite(n2) {
		return Quaternion{}, numerr.Domainf("cannot invert quaternion %v with norm %g", q, math.Sqrt(n2))
	}
	return q.Conj().Scale(1 / n2), nil
}

// IsUnit reports whether |q| is within UnitTolerance of 1.
func (q Quaternion) IsUnit() bool {
	return math.Abs(q.Norm()-1) <= UnitTolerance
}

// IsFinite reports whether every component is finite.
func (q Quaternion) IsFinite() bool {
	return mathutil.AllFinite(q.Real, q.Imag, q.Jmag, q.Kmag)
}

// AsRotation validates q as a rotation: it must be finite and unit within
// UnitTolerance. The renormalized value is returned.
func (q Quaternion) AsRotation() (Quaternion, error) {
	if !q.IsFinite() {
		return Quaternion{}, numerr.Domainf("rotation quaternion %v is not finite", q)
	}
	n := q.Norm()
	if n < ZeroNormTolerance {
		return Quaternion{}, numerr.Domainf("rotation quaternion has zero norm")
	}
	if math.Abs(n-1) > UnitTolerance {
		return Quaternion{}, numerr.Domainf("rotation quaternion %v has norm %g, want 1", q, n)
	}
	return q.Scale(1 / n), nil
}

// Canonical returns whichever of q and -q has a positive scalar part. When
// w is zero the first non-zero vector component is made positive.
func (q Quaternion) Canonical() Quaternion {
	for _, c := range [...]float64{q.Real, q.Imag, q.Jmag, q.Kmag} {
		if c > 0 {
			return q
		}
		if c < 0 {
			return q.Neg()
		}
	}
	return q
}

// Exp returns the quaternion exponential.
func (q Quaternion) Exp() Quaternion {
	return Quaternion(quat.Exp(quat.Number(q)))
}

// Log returns the principal logarithm log|q| + θ n̂, where q = |q|(cos θ +
// n̂ sin θ) with θ in [0, π]. For negative real q the axis is ẑ, so
// Log(-1) = π k.
func (q Quaternion) Log() Quaternion {
	n := q.Norm()
	v := q.Vector()
	vn := r3.Norm(v)
	if vn < mathutil.Epsilon*n {
		if q.Real < 0 {
			return Quaternion{Real: math.Log(n), Kmag: math.Pi}
		}
		return Quaternion{Real: math.Log(n)}
	}
	theta := math.Atan2(vn, q.Real)
	out := Pure(r3.Scale(theta/vn, v))
	out.Real = math.Log(n)
	return out
}

// Pow returns q raised to the real power t, exp(t log q).
func (q Quaternion) Pow(t float64) Quaternion {
	return q.Log().Scale(t).Exp()
}

// Slerp interpolates along the shortest great arc between unit quaternions
// q (t = 0) and p (t = 1).
func (q Quaternion) Slerp(p Quaternion, t float64) Quaternion {
	if q.Dot(p) < 0 {
		p = p.Neg()
	}
	return q.Mul(q.Conj().Mul(p).Pow(t))
}

// Rotate returns the vector q v q⁻¹. Non-unit q acts as its normalization.
func (q Quaternion) Rotate(v r3.Vec) r3.Vec {
	n2 := q.Norm2()
	out := q.Mul(Pure(v)).Mul(q.Conj())
	return r3.Scale(1/n2, out.Vector())
}
