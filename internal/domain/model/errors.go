package model

import "errors"

// Sentinel kinds for model errors.
var (
	ErrUnknownMaterial = errors.New("unknown material")
)
