package spherical

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/moble/SphericalFunctions/frame"
	"github.com/moble/SphericalFunctions/internal/mathutil"
	"github.com/moble/SphericalFunctions/internal/numerr"
	"github.com/moble/SphericalFunctions/quaternion"
	"github.com/moble/SphericalFunctions/swsh"
	"github.com/moble/SphericalFunctions/wigner"
)

// EvaluateSWSH returns ₛY_{ℓm}(direction) for every |s| ≤ ℓ ≤ ellMax and
// |m| ≤ ℓ, keyed by (ℓ, m).
// It fails with ErrDomain if ellMax < |s| or direction is not a unit
// quaternion.
func EvaluateSWSH(s, ellMax int, direction Quaternion) (map[Key]complex128, error) {
	modes, err := swsh.Modes(s, ellMax, direction)
	if err != nil {
		return nil, err
	}
	return modes.Map(), nil
}

// EvaluateSWSHAt is EvaluateSWSH in the direction with polar angle theta and
// azimuth phi.
func EvaluateSWSHAt(s, ellMax int, theta, phi float64) (map[Key]complex128, error) {
	if !mathutil.AllFinite(theta, phi) {
		return nil, numerr.Domainf("non-finite direction (theta=%g, phi=%g)", theta, phi)
	}
	return EvaluateSWSH(s, ellMax, quaternion.FromSpherical(theta, phi))
}

// WignerD returns the D-matrices of R for 0 ≤ ℓ ≤ ellMax with the default
// evaluator settings.
func WignerD(ellMax int, R Quaternion) (*wigner.Matrix, error) {
	ev, err := wigner.New(wigner.DefaultConfig())
	if err != nil {
		return nil, err
	}
	r, err := ev.Rotor(R)
	if err != nil {
		return nil, err
	}
	return r.Matrix(ellMax)
}

// IntegrateCorotatingFrame integrates body-frame angular velocity samples
// into the frames R(t_i), starting from initial at times[0].
// It fails with ErrDomain for empty or mismatched input and with
// ErrNumerical for non-finite samples or non-increasing times.
func IntegrateCorotatingFrame(times []float64, omega []r3.Vec, initial Quaternion) (*frame.Series, error) {
	return frame.Integrate(times, omega, initial)
}

// CorotatingFrame returns the frame that follows the rotation of a time
// series of mode sets, starting at the identity, together with the modes
// expressed in that frame.
func CorotatingFrame(times []float64, modes []*ModeSet) (*frame.Series, []*ModeSet, error) {
	omega, err := frame.AngularVelocity(times, modes)
	if err != nil {
		return nil, nil, err
	}

	cfg := frame.DefaultConfig()
	cfg.Convention = frame.InertialFrame
	in, err := frame.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	series, err := in.Integrate(times, omega)
	if err != nil {
		return nil, nil, err
	}

	corotating, err := series.Corotate(modes)
	if err != nil {
		return nil, nil, err
	}
	return series, corotating, nil
}
