package chart

import "gonum.org/v1/plot/vg"

// Option applies a configuration option to the Renderer.
type Option func(*Renderer)

// WithSize sets the canvas size.
func WithSize(width, height vg.Length) Option {
	return func(r *Renderer) {
		if width > 0 && height > 0 {
			r.width, r.height = width, height
		}
	}
}

// WithXRange sets the angle axis range.
func WithXRange(lo, hi float64) Option {
	return func(r *Renderer) {
		if lo < hi {
			r.xMin, r.xMax = lo, hi
		}
	}
}

// WithYRange sets the coefficient axis range.
func WithYRange(lo, hi float64) Option {
	return func(r *Renderer) {
		if lo < hi {
			r.yMin, r.yMax = lo, hi
		}
	}
}

// WithAverageLabelX sets the angle at which the average labels start.
func WithAverageLabelX(x float64) Option {
	return func(r *Renderer) {
		r.labelX = x
	}
}
