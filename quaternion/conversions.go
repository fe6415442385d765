package quaternion

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/moble/SphericalFunctions/internal/mathutil"
	"github.com/moble/SphericalFunctions/internal/numerr"
)

// rotationMatrixTolerance bounds |RᵀR - I| and |det R - 1| in FromMatrix.
const rotationMatrixTolerance = 1e-8

var zHat = r3.Vec{Z: 1}

// FromAxisAngle returns the rotation by angle (radians, right-handed) about
// axis. The axis need not be normalized but must be non-zero.
func FromAxisAngle(axis r3.Vec, angle float64) (Quaternion, error) {
	n := r3.Norm(axis)
	if n < ZeroNormTolerance || !mathutil.AllFinite(axis.X, axis.Y, axis.Z, angle) {
		return Quaternion{}, numerr.Domainf("invalid rotation axis %v", axis)
	}
	c, s := mathutil.HalfAngles(angle)
	q := Pure(r3.Scale(s/n, axis))
	q.Real = c
	return q, nil
}

// AxisAngle returns the unit axis and the angle in [0, π] of the rotation q.
// The identity yields axis ẑ and angle 0.
func (q Quaternion) AxisAngle() (r3.Vec, float64) {
	c := q.Canonical()
	v := c.Vector()
	vn := r3.Norm(v)
	if vn < mathutil.Epsilon*c.Norm() {
		return zHat, 0
	}
	return r3.Scale(1/vn, v), 2 * math.Atan2(vn, c.Real)
}

// FromRotationVector returns exp(v/2): the rotation by |v| about v.
func FromRotationVector(v r3.Vec) Quaternion {
	return Pure(r3.Scale(0.5, v)).Exp()
}

// RotationVector returns 2 log q for unit q, the rotation vector whose
// length is the rotation angle in [0, 2π].
func (q Quaternion) RotationVector() r3.Vec {
	return r3.Scale(2, q.Log().Vector())
}

// FromSpherical returns exp(φẑ/2)·exp(θŷ/2), the rotation taking ẑ to the
// direction with polar angle theta and azimuth phi.
func FromSpherical(theta, phi float64) Quaternion {
	ct, st := mathutil.HalfAngles(theta)
	cp, sp := mathutil.HalfAngles(phi)
	return New(cp*ct, -sp*st, cp*st, sp*ct)
}

// FromEulerZYZ returns exp(αẑ/2)·exp(βŷ/2)·exp(γẑ/2).
func FromEulerZYZ(alpha, beta, gamma float64) Quaternion {
	ca, sa := mathutil.HalfAngles(alpha)
	cb, sb := mathutil.HalfAngles(beta)
	cg, sg := mathutil.HalfAngles(gamma)
	return New(ca, 0, 0, sa).Mul(New(cb, 0, sb, 0)).Mul(New(cg, 0, 0, sg))
}

// EulerZYZ returns the z-y-z Euler angles of the rotation q, with β in
// [0, π] and α, γ in (-π, π]. At β = 0 all of the rotation is assigned to
// γ; at β = π all of it is assigned to α.
func (q Quaternion) EulerZYZ() (alpha, beta, gamma float64) {
	n := q.Norm()
	ra := math.Hypot(q.Real, q.Kmag) / n
	rb := math.Hypot(q.Jmag, q.Imag) / n
	phiA := math.Atan2(q.Kmag, q.Real)
	phiB := math.Atan2(q.Imag, q.Jmag)
	beta = 2 * math.Atan2(rb, ra)
	switch {
	case rb < mathutil.Epsilon:
		return 0, beta, mathutil.WrapAngle(2 * phiA)
	case ra < mathutil.Epsilon:
		return mathutil.WrapAngle(-2 * phiB), beta, 0
	}
	return mathutil.WrapAngle(phiA - phiB), beta, mathutil.WrapAngle(phiA + phiB)
}

// Matrix returns the active 3×3 rotation matrix of q, so that
// Matrix()·v == Rotate(v). Non-unit q acts as its normalization.
func (q Quaternion) Matrix() *mat.Dense {
	s := 2 / q.Norm2()
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag
	return mat.NewDense(3, 3, []float64{
		1 - s*(y*y+z*z), s * (x*y - w*z), s * (x*z + w*y),
		s * (x*y + w*z), 1 - s*(x*x+z*z), s * (y*z - w*x),
		s * (x*z - w*y), s * (y*z + w*x), 1 - s*(x*x+y*y),
	})
}

// FromMatrix returns the unit quaternion, with non-negative scalar part, of
// the active rotation matrix m using Shepperd's method. It fails with
// ErrDomain unless m is a 3×3 proper orthogonal matrix within tolerance.
func FromMatrix(m mat.Matrix) (Quaternion, error) {
	if r, c := m.Dims(); r != 3 || c != 3 {
		return Quaternion{}, numerr.Domainf("rotation matrix must be 3x3, got %dx%d", r, c)
	}
	for i := range 3 {
		for j := range 3 {
			if !mathutil.IsFinite(m.At(i, j)) {
				return Quaternion{}, numerr.Domainf("rotation matrix has non-finite entry at (%d, %d)", i, j)
			}
		}
	}

	var gram mat.Dense
	gram.Mul(m.T(), m)
	eye := mat.NewDiagDense(3, []float64{1, 1, 1})
	if !mat.EqualApprox(&gram, eye, rotationMatrixTolerance) {
		return Quaternion{}, numerr.Domainf("matrix is not orthogonal")
	}
	if det := mat.Det(m); math.Abs(det-1) > rotationMatrixTolerance {
		return Quaternion{}, numerr.Domainf("matrix has determinant %g, want 1", det)
	}

	r00, r01, r02 := m.At(0, 0), m.At(0, 1), m.At(0, 2)
	r10, r11, r12 := m.At(1, 0), m.At(1, 1), m.At(1, 2)
	r20, r21, r22 := m.At(2, 0), m.At(2, 1), m.At(2, 2)
	trace := r00 + r11 + r22

	var q Quaternion
	switch {
	case trace >= r00 && trace >= r11 && trace >= r22:
		w := math.Sqrt(1+trace) / 2
		q = New(w, (r21-r12)/(4*w), (r02-r20)/(4*w), (r10-r01)/(4*w))
	case r00 >= r11 && r00 >= r22:
		x := math.Sqrt(1+r00-r11-r22) / 2
		q = New((r21-r12)/(4*x), x, (r01+r10)/(4*x), (r02+r20)/(4*x))
	case r11 >= r22:
		y := math.Sqrt(1-r00+r11-r22) / 2
		q = New((r02-r20)/(4*y), (r01+r10)/(4*y), y, (r12+r21)/(4*y))
	default:
		z := math.Sqrt(1-r00-r11+r22) / 2
		q = New((r10-r01)/(4*z), (r02+r20)/(4*z), (r12+r21)/(4*z), z)
	}

	q, err := q.Normalize()
	if err != nil {
		return Quaternion{}, err
	}
	return q.Canonical(), nil
}
