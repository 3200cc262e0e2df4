package service

import "errors"

// Sentinel kinds for analysis errors.
var (
	ErrNoMeasurements = errors.New("no measurements")
	ErrTooFewPoints   = errors.New("too few points for trend")
)
