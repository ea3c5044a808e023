package engine

import "errors"

// Sentinel errors for engine operations.
var (
	ErrUnavailable = errors.New("conversion engine not available")
	ErrTimeout     = errors.New("conversion engine timed out")
	ErrInvocation  = errors.New("conversion engine failed")
	ErrNoOutput    = errors.New("conversion engine produced no output")
)
