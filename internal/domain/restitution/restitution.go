// Package restitution solves for the coefficient of restitution of a
// projectile that drops from a fixed height, strikes an angled deflector and
// travels a measured horizontal distance before landing.
//
// The projectile model is
//
//	d = 2h·sin(2θ)·(e·cos²θ − sin²θ)·(1+e)
//
// which expands to the quadratic a·e² + b·e + c = 0 with
//
//	a = 2h·sin(2θ)·cos²θ
//	b = 2h·sin(2θ)·(cos²θ − sin²θ)
//	c = −2h·sin(2θ)·sin²θ − d
package restitution

import (
	"fmt"
	"math"

	"github.com/okian/restitution/internal/domain/model"
)

// Solver configuration constants.
const (
	// DefaultHeight is the drop height used in every lab trial, in metres.
	DefaultHeight = 0.35

	// degenerateTolerance bounds |a| below which the quadratic collapses.
	// sin(2θ) at 90° evaluates to ~1.2e-16 rather than zero.
	degenerateTolerance = 1e-12
)

// Root names the branch of the quadratic formula the solver returns.
type Root int

const (
	// PositiveRoot is e = (−b + √Δ) / 2a. The solver always takes it: the
	// other branch is negative for every deflector angle in (0°, 90°).
	PositiveRoot Root = iota
)

// RootPolicy is the branch selected by Solve. The negative branch is never
// evaluated or compared.
const RootPolicy = PositiveRoot

// Quadratic holds the coefficients of a·e² + b·e + c = 0 for one trial.
type Quadratic struct {
	A, B, C      float64
	Discriminant float64
}

// trig caches the angle terms shared by a, b and c so that all three are
// built from the same rounded values.
type trig struct {
	sin2Theta  float64
	cosThetaSq float64
	sinThetaSq float64
}

func newTrig(angleDegrees float64) trig {
	theta := angleDegrees * math.Pi / 180
	sin, cos := math.Sincos(theta)
	return trig{
		sin2Theta:  math.Sin(2 * theta),
		cosThetaSq: cos * cos,
		sinThetaSq: sin * sin,
	}
}

// Coefficients builds the quadratic for a trial.
func Coefficients(distance, angleDegrees, height float64) (Quadratic, error) {
	if err := validate(distance, angleDegrees, height); err != nil {
		return Quadratic{}, err
	}
	t := newTrig(angleDegrees)
	k := 2 * height * t.sin2Theta

	q := Quadratic{
		A: k * t.cosThetaSq,
		B: k * (t.cosThetaSq - t.sinThetaSq),
		C: -k*t.sinThetaSq - distance,
	}
	q.Discriminant = q.B*q.B - 4*q.A*q.C
	return q, nil
}

// Solve returns the coefficient of restitution for a ball dropped from
// height that strikes a deflector at angleDegrees and lands distance metres
// away. The result is the positive root (see RootPolicy) and is not clamped
// to (0,1).
//
// It fails with ErrInvalidAngle when the angle makes the quadratic
// degenerate (0°, 90°) and with ErrInvalidMeasurement when the inputs are
// not finite and positive or the discriminant is negative.
func Solve(distance, angleDegrees, height float64) (float64, error) {
	q, err := Coefficients(distance, angleDegrees, height)
	if err != nil {
		return 0, err
	}
	if math.Abs(q.A) < degenerateTolerance {
		return 0, fmt.Errorf("%w: %g° makes the quadratic degenerate", ErrInvalidAngle, angleDegrees)
	}
	if q.Discriminant < 0 {
		return 0, fmt.Errorf("%w: negative discriminant %g for distance %g m at %g°",
			ErrInvalidMeasurement, q.Discriminant, distance, angleDegrees)
	}
	return (-q.B + math.Sqrt(q.Discriminant)) / (2 * q.A), nil
}

// Distance is the forward model: the horizontal distance travelled for a
// given coefficient of restitution.
func Distance(e, angleDegrees, height float64) float64 {
	t := newTrig(angleDegrees)
	return 2 * height * t.sin2Theta * (e*t.cosThetaSq - t.sinThetaSq) * (1 + e)
}

func validate(distance, angleDegrees, height float64) error {
	switch {
	case !finite(angleDegrees):
		return fmt.Errorf("%w: angle %g is not finite", ErrInvalidAngle, angleDegrees)
	case !finite(distance) || distance <= 0:
		return fmt.Errorf("%w: distance %g m must be positive", ErrInvalidMeasurement, distance)
	case !finite(height) || height <= 0:
		return fmt.Errorf("%w: height %g m must be positive", ErrInvalidMeasurement, height)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Solver solves measurements against a fixed drop height.
type Solver struct {
	height float64
}

// Option applies a configuration option to the Solver.
type Option func(*Solver)

// WithHeight sets the drop height in metres.
func WithHeight(height float64) Option {
	return func(s *Solver) {
		if height > 0 {
			s.height = height
		}
	}
}

// New creates a Solver using DefaultHeight unless overridden.
func New(opts ...Option) *Solver {
	s := &Solver{height: DefaultHeight}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Height returns the configured drop height.
func (s *Solver) Height() float64 {
	return s.height
}

// SolveMeasurement solves a single trial.
func (s *Solver) SolveMeasurement(m model.Measurement) (model.Result, error) {
	e, err := Solve(m.DistanceMeters, m.AngleDegrees, s.height)
	if err != nil {
		return model.Result{}, fmt.Errorf("%s at %g°: %w", m.Material, m.AngleDegrees, err)
	}
	return model.Result{Measurement: m, Coefficient: e}, nil
}
