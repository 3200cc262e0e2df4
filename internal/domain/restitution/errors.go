package restitution

import "errors"

// Sentinel kinds for solver errors.
var (
	ErrInvalidAngle       = errors.New("invalid angle")
	ErrInvalidMeasurement = errors.New("invalid measurement")
)
