package service

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/okian/restitution/internal/domain/model"
)

// trendDegree is the polynomial degree of the per-material trend.
const trendDegree = 2

// Summary aggregates the solved coefficients of one material.
type Summary struct {
	Material model.Material
	Count    int
	Failed   int
	Mean     float64
	StdDev   float64
	Min      float64
	Max      float64
}

// Trend is the least-squares fit e(θ) = P[0] + P[1]·θ + P[2]·θ².
type Trend struct {
	Material model.Material
	P        [trendDegree + 1]float64
}

// At evaluates the trend at angleDegrees.
func (t Trend) At(angleDegrees float64) float64 {
	v := 0.0
	for i := len(t.P) - 1; i >= 0; i-- {
		v = v*angleDegrees + t.P[i]
	}
	return v
}

// Report is the outcome of one analysis run.
type Report struct {
	RunID    string
	Height   float64
	Started  time.Time
	Finished time.Time
	Outcomes []model.Outcome
	Trends   map[model.Material]Trend
}

// Results returns every solved result in input order.
func (r *Report) Results() []model.Result {
	out := make([]model.Result, 0, len(r.Outcomes))
	for _, o := range r.Outcomes {
		if o.OK() {
			out = append(out, o.Result)
		}
	}
	return out
}

// Failures returns the outcomes that could not be solved, in input order.
func (r *Report) Failures() []model.Outcome {
	var out []model.Outcome
	for _, o := range r.Outcomes {
		if !o.OK() {
			out = append(out, o)
		}
	}
	return out
}

// ByMaterial returns the solved results of one material in input order.
func (r *Report) ByMaterial(m model.Material) []model.Result {
	var out []model.Result
	for _, o := range r.Outcomes {
		if o.OK() && o.Measurement.Material == m {
			out = append(out, o.Result)
		}
	}
	return out
}

// Summary aggregates one material. Count is zero when nothing was solved.
func (r *Report) Summary(m model.Material) Summary {
	s := Summary{Material: m}
	for _, o := range r.Outcomes {
		if o.Measurement.Material == m && !o.OK() {
			s.Failed++
		}
	}
	results := r.ByMaterial(m)
	if len(results) == 0 {
		return s
	}
	xs := make([]float64, len(results))
	for i, res := range results {
		xs[i] = res.Coefficient
	}
	s.Count = len(xs)
	s.Mean = stat.Mean(xs, nil)
	if len(xs) > 1 {
		s.StdDev = stat.StdDev(xs, nil)
	}
	s.Min, s.Max = xs[0], xs[0]
	for _, x := range xs[1:] {
		s.Min = math.Min(s.Min, x)
		s.Max = math.Max(s.Max, x)
	}
	return s
}

// Summaries aggregates every known material in report order.
func (r *Report) Summaries() []Summary {
	out := make([]Summary, 0, len(model.Materials))
	for _, m := range model.Materials {
		out = append(out, r.Summary(m))
	}
	return out
}

// FitTrend fits a least-squares quadratic through (angle, coefficient).
// It needs at least three distinct angles.
func FitTrend(results []model.Result) (Trend, error) {
	distinct := make(map[float64]struct{}, len(results))
	for _, r := range results {
		distinct[r.AngleDegrees] = struct{}{}
	}
	if len(distinct) <= trendDegree {
		return Trend{}, fmt.Errorf("%w: %d distinct angles", ErrTooFewPoints, len(distinct))
	}

	n := len(results)
	vandermonde := mat.NewDense(n, trendDegree+1, nil)
	y := mat.NewVecDense(n, nil)
	for i, r := range results {
		x := 1.0
		for j := 0; j <= trendDegree; j++ {
			vandermonde.Set(i, j, x)
			x *= r.AngleDegrees
		}
		y.SetVec(i, r.Coefficient)
	}

	var qr mat.QR
	qr.Factorize(vandermonde)
	var p mat.VecDense
	if err := qr.SolveVecTo(&p, false, y); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return Trend{}, fmt.Errorf("trend fit: %w", err)
		}
	}

	t := Trend{}
	if len(results) > 0 {
		t.Material = results[0].Material
	}
	for j := 0; j <= trendDegree; j++ {
		t.P[j] = p.AtVec(j)
	}
	return t, nil
}
