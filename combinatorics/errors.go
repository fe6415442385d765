package combinatorics

import "github.com/moble/SphericalFunctions/internal/numerr"

// Errors returned by table accessors
var (
	ErrDomain = numerr.ErrDomain
)
