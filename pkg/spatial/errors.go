package spatial

import "errors"

// Validation errors surfaced by projection and conversion helpers.
var (
	ErrDegenerateFrustum = errors.New("degenerate viewing frustum")
	ErrInvalidAxes       = errors.New("unknown euler axis sequence")
)
