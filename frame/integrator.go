// Package frame integrates an angular-velocity time series into a series of
// rotation quaternions, and measures the angular velocity of a time series
// of spin-weighted mode sets.
//
// Integration uses the classical fourth-order Runge-Kutta method on
//
//	dR/dt = ½ R ω(t)    (BodyFrame)
//	dR/dt = ½ ω(t) R    (InertialFrame)
//
// with ω between samples taken from a spline through the samples, and R
// renormalized after every step.
package frame

import (
	"fmt"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/moble/SphericalFunctions/internal/mathutil"
	"github.com/moble/SphericalFunctions/internal/numerr"
	"github.com/moble/SphericalFunctions/quaternion"
)

// minSplineSamples is the shortest series fitted with a spline.
const minSplineSamples = 4

// State is the lifecycle state of an Integrator.
type State int

const (
	// Uninitialized is the state before Integrate and after rejected input.
	Uninitialized State = iota

	// Integrating is the state while Integrate runs.
	Integrating

	// Finalized is the state after a successful Integrate. A finalized
	// integrator rejects further calls until Reset.
	Finalized
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Integrating:
		return "integrating"
	case Finalized:
		return "finalized"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Integrator integrates one angular-velocity series. It is not safe for
// concurrent use; callers integrate independent series on independent
// integrators.
type Integrator struct {
	config Config
	state  State
	logger *zap.Logger
}

// New creates an integrator.
func New(config Config) (*Integrator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	config = config.withDefaults()
	initial, err := config.Initial.AsRotation()
	if err != nil {
		return nil, err
	}
	config.Initial = initial

	return &Integrator{
		config: config,
		logger: config.Logger.Named("frame"),
	}, nil
}

// State returns the lifecycle state.
func (in *Integrator) State() State {
	return in.state
}

// Reset returns a finalized integrator to Uninitialized.
func (in *Integrator) Reset() {
	in.state = Uninitialized
}

// Integrate returns the frames R(t_i) for every sample time, starting from
// the configured initial frame at times[0].
//
// It fails with ErrDomain if the slices are empty or differ in length, and
// with ErrNumerical (wrapped in *numerr.StepError) for non-finite samples,
// non-increasing times or a non-finite step. Rejected input returns the
// integrator to Uninitialized.
func (in *Integrator) Integrate(times []float64, omega []r3.Vec) (*Series, error) {
	if in.state == Finalized {
		return nil, ErrFinalized
	}
	in.state = Integrating

	series, err := in.integrate(times, omega)
	if err != nil {
		in.state = Uninitialized
		return nil, err
	}
	in.state = Finalized
	return series, nil
}

func (in *Integrator) integrate(times []float64, omega []r3.Vec) (*Series, error) {
	if err := checkSamples(times, omega); err != nil {
		return nil, err
	}

	n := len(times)
	frames := make([]quaternion.Quaternion, n)
	frames[0] = in.config.Initial
	if n == 1 {
		return &Series{Times: append([]float64(nil), times...), Frames: frames}, nil
	}

	w, err := fitOmega(times, omega, in.config.Interpolation)
	if err != nil {
		return nil, err
	}

	rhs := bodyRHS
	if in.config.Convention == InertialFrame {
		rhs = inertialRHS
	}

	R := frames[0]
	var maxDrift float64
	steps := in.config.Substeps
	for i := 1; i < n; i++ {
		t0, t1 := times[i-1], times[i]
		h := (t1 - t0) / float64(steps)
		for k := range steps {
			t := t0 + float64(k)*h
			next := rk4Step(rhs, w, t, h, R)
			if !next.IsFinite() {
				return nil, &numerr.StepError{Index: i, Time: t, Wrapped: numerr.Numericalf("step produced non-finite frame")}
			}
			norm := next.Norm()
			maxDrift = max(maxDrift, math.Abs(norm-1))
			if norm < quaternion.ZeroNormTolerance {
				return nil, &numerr.StepError{Index: i, Time: t, Wrapped: numerr.Numericalf("step collapsed the frame to zero norm")}
			}
			R = next.Scale(1 / norm)
		}
		frames[i] = R
	}

	in.logger.Debug("integrated angular velocity",
		zap.Int("samples", n),
		zap.Int("substeps", steps),
		zap.Stringer("convention", in.config.Convention),
		zap.Stringer("interpolation", in.config.Interpolation),
		zap.Float64("max_drift", maxDrift))

	return &Series{Times: append([]float64(nil), times...), Frames: frames}, nil
}

// Integrate integrates body-frame ω samples from the given initial frame
// with the default configuration.
func Integrate(times []float64, omega []r3.Vec, initial quaternion.Quaternion) (*Series, error) {
	cfg := DefaultConfig()
	cfg.Initial = initial
	in, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return in.Integrate(times, omega)
}

func checkSamples(times []float64, omega []r3.Vec) error {
	if len(times) == 0 {
		return numerr.Domainf("no samples")
	}
	if len(times) != len(omega) {
		return numerr.Domainf("%d times but %d angular velocities", len(times), len(omega))
	}
	for i, t := range times {
		o := omega[i]
		if !mathutil.AllFinite(t, o.X, o.Y, o.Z) {
			return &numerr.StepError{Index: i, Time: t, Wrapped: numerr.Numericalf("non-finite sample")}
		}
		if i > 0 && t <= times[i-1] {
			return &numerr.StepError{Index: i, Time: t, Wrapped: numerr.Numericalf("times not strictly increasing (previous %g)", times[i-1])}
		}
	}
	return nil
}

func newPredictor(kind Interpolation, n int) interp.FittablePredictor {
	if n < minSplineSamples {
		return &interp.PiecewiseLinear{}
	}
	switch kind {
	case Akima:
		return &interp.AkimaSpline{}
	case Linear:
		return &interp.PiecewiseLinear{}
	default:
		return &interp.NaturalCubic{}
	}
}

// fitCurve fits ys against xs, which must be finite and strictly increasing.
func fitCurve(kind Interpolation, xs, ys []float64) (interp.Predictor, error) {
	c := newPredictor(kind, len(xs))
	if err := c.Fit(xs, ys); err != nil {
		return nil, numerr.Numericalf("fitting %v interpolant: %v", kind, err)
	}
	return c, nil
}

// fitDerivative fits a natural cubic spline through at least two samples.
// With two samples its derivative is the chord slope.
func fitDerivative(xs, ys []float64) (interp.DerivativePredictor, error) {
	var c interp.NaturalCubic
	if err := c.Fit(xs, ys); err != nil {
		return nil, numerr.Numericalf("fitting %v interpolant: %v", NaturalCubic, err)
	}
	return &c, nil
}

// omegaCurve evaluates ω(t) componentwise.
type omegaCurve [3]interp.Predictor

func (w omegaCurve) at(t float64) r3.Vec {
	return r3.Vec{X: w[0].Predict(t), Y: w[1].Predict(t), Z: w[2].Predict(t)}
}

func fitOmega(times []float64, omega []r3.Vec, kind Interpolation) (omegaCurve, error) {
	var w omegaCurve
	comp := make([]float64, len(omega))
	for axis := range 3 {
		for i, o := range omega {
			switch axis {
			case 0:
				comp[i] = o.X
			case 1:
				comp[i] = o.Y
			default:
				comp[i] = o.Z
			}
		}
		c, err := fitCurve(kind, times, comp)
		if err != nil {
			return omegaCurve{}, err
		}
		w[axis] = c
	}
	return w, nil
}

type rhsFunc func(R quaternion.Quaternion, omega r3.Vec) quaternion.Quaternion

func bodyRHS(R quaternion.Quaternion, omega r3.Vec) quaternion.Quaternion {
	return R.Mul(quaternion.Pure(omega)).Scale(0.5)
}

func inertialRHS(R quaternion.Quaternion, omega r3.Vec) quaternion.Quaternion {
	return quaternion.Pure(omega).Mul(R).Scale(0.5)
}

// rk4Step advances R from t to t+h with the classical Runge-Kutta method.
func rk4Step(f rhsFunc, w omegaCurve, t, h float64, R quaternion.Quaternion) quaternion.Quaternion {
	wMid := w.at(t + h/2)
	k1 := f(R, w.at(t))
	k2 := f(R.Add(k1.Scale(h/2)), wMid)
	k3 := f(R.Add(k2.Scale(h/2)), wMid)
	k4 := f(R.Add(k3.Scale(h)), w.at(t+h))
	sum := k1.Add(k2.Scale(2)).Add(k3.Scale(2)).Add(k4)
	return R.Add(sum.Scale(h / 6))
}
