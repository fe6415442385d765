package frame

import (
	"sort"

	"github.com/moble/SphericalFunctions/internal/mathutil"
	"github.com/moble/SphericalFunctions/internal/numerr"
	"github.com/moble/SphericalFunctions/quaternion"
	"github.com/moble/SphericalFunctions/swsh"
)

// Series is a time series of unit rotation quaternions.
type Series struct {
	Times  []float64
	Frames []quaternion.Quaternion
}

// Len returns the number of samples.
func (s *Series) Len() int {
	return len(s.Times)
}

// Interpolate returns the frame at time t by spherical linear interpolation
// between the neighbouring samples. It fails with ErrDomain if t lies
// outside the sampled interval.
func (s *Series) Interpolate(t float64) (quaternion.Quaternion, error) {
	n := len(s.Times)
	if n == 0 || !mathutil.IsFinite(t) || t < s.Times[0] || t > s.Times[n-1] {
		return quaternion.Quaternion{}, numerr.Domainf("time %g outside sampled interval", t)
	}
	i := sort.SearchFloat64s(s.Times, t)
	if s.Times[i] == t {
		return s.Frames[i], nil
	}
	t0, t1 := s.Times[i-1], s.Times[i]
	return s.Frames[i-1].Slerp(s.Frames[i], (t-t0)/(t1-t0)), nil
}

// Corotate returns the mode sets expressed in the frames of s: the result
// g_i satisfies g_i(R') = f_i(R_i R'). When s is the frame that follows the
// rotation of the modes, the result varies slowly.
func (s *Series) Corotate(modes []*swsh.ModeSet) ([]*swsh.ModeSet, error) {
	if len(modes) != len(s.Frames) {
		return nil, numerr.Domainf("%d mode sets for %d frames", len(modes), len(s.Frames))
	}
	out := make([]*swsh.ModeSet, len(modes))
	for i, f := range modes {
		g, err := f.Rotate(s.Frames[i])
		if err != nil {
			return nil, &numerr.StepError{Index: i, Time: s.Times[i], Wrapped: err}
		}
		out[i] = g
	}
	return out, nil
}
