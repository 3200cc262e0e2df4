package chart

import "errors"

// Sentinel kinds for chart errors.
var (
	ErrEmptyReport = errors.New("report has no solved measurements")
	ErrRender      = errors.New("chart render failed")
)
