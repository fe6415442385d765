package spherical

import (
	"github.com/moble/SphericalFunctions/combinatorics"
	"github.com/moble/SphericalFunctions/internal/numerr"
	"github.com/moble/SphericalFunctions/quaternion"
	"github.com/moble/SphericalFunctions/swsh"
)

// MaxEll is the largest degree ℓ supported by the combinatorics table.
const MaxEll = combinatorics.MaxEll

// Errors returned by every package in this module.
var (
	// ErrDomain indicates arguments outside the domain of an operation.
	ErrDomain = numerr.ErrDomain

	// ErrNumerical indicates non-finite data or a failed numerical check.
	ErrNumerical = numerr.ErrNumerical
)

type (
	// Quaternion is a (rotation) quaternion.
	Quaternion = quaternion.Quaternion

	// ModeSet holds one value per (ℓ, m) mode of a spin weight.
	ModeSet = swsh.ModeSet

	// Key identifies a mode by degree and order.
	Key = swsh.Key

	// StepError locates a failure in a time series.
	StepError = numerr.StepError
)
