// Package numerr defines the error kinds shared by every numerical package
// in this module.
//
// Call sites wrap the sentinels with context:
//
//	return fmt.Errorf("%w: ell=%d is below |s|=%d", numerr.ErrDomain, ell, s)
//
// so callers can match them with errors.Is regardless of which package
// raised them.
package numerr

import (
	"errors"
	"fmt"
)

var (
	// ErrDomain indicates arguments outside the domain of an operation:
	// invalid index ranges, negative sizes, zero-norm or non-unit
	// quaternions where a rotation is required.
	ErrDomain = errors.New("spherical: domain error")

	// ErrNumerical indicates non-finite input data, non-monotonic sample
	// times, or a result that failed a numerical consistency check.
	ErrNumerical = errors.New("spherical: numerical error")

	// ErrInvalidConfig indicates invalid configuration parameters. It is a
	// domain error.
	ErrInvalidConfig = fmt.Errorf("%w: invalid configuration", ErrDomain)
)

// StepError wraps an error raised while integrating a time series with the
// index and time of the offending sample.
type StepError struct {
	Index   int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("sample %d (t=%g): %v", e.Index, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}

// Domainf returns an ErrDomain wrapped with a formatted message.
func Domainf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDomain, fmt.Sprintf(format, args...))
}

// Numericalf returns an ErrNumerical wrapped with a formatted message.
func Numericalf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNumerical, fmt.Sprintf(format, args...))
}
