// Package service runs the restitution analysis over a set of trials and
// assembles the report consumed by the console, chart and HTTP adapters.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/restitution/internal/domain/model"
	"github.com/okian/restitution/internal/domain/restitution"
	"github.com/okian/restitution/pkg/logger"
	"github.com/okian/restitution/pkg/metrics"
)

// Failure reasons used as metric labels.
const (
	reasonInvalidAngle       = "invalid_angle"
	reasonInvalidMeasurement = "invalid_measurement"
	reasonOther              = "other"
)

// Service solves trials and keeps the last report.
type Service struct {
	mu sync.RWMutex

	height  float64
	trend   bool
	metrics *metrics.Manager
	logger  logger.Logger
	newID   func() string
	now     func() time.Time

	last *Report
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithHeight sets the drop height in metres.
func WithHeight(height float64) Option {
	return func(s *Service) {
		if height > 0 {
			s.height = height
		}
	}
}

// WithTrend enables the per-material quadratic trend.
func WithTrend(enabled bool) Option {
	return func(s *Service) {
		s.trend = enabled
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics sets the metrics manager. Defaults to the global one.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithRunID fixes the id generator, mainly for tests.
func WithRunID(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		height:  restitution.DefaultHeight,
		metrics: metrics.Default(),
		newID:   uuid.NewString,
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("analysis")
	}

	return s
}

// Run solves every measurement in input order. A measurement the solver
// rejects is recorded as a failed outcome and the run continues. Run fails
// only when there is nothing to solve or ctx is cancelled.
func (s *Service) Run(ctx context.Context, measurements []model.Measurement) (*Report, error) {
	if len(measurements) == 0 {
		return nil, ErrNoMeasurements
	}

	solver := restitution.New(restitution.WithHeight(s.height))
	report := &Report{
		RunID:    s.newID(),
		Height:   solver.Height(),
		Started:  s.now(),
		Outcomes: make([]model.Outcome, 0, len(measurements)),
	}
	log := s.logger.With(logger.String("run_id", report.RunID))
	log.Info(ctx, "analysis started",
		logger.Int("measurements", len(measurements)),
		logger.Float64("height_m", report.Height),
	)

	for _, m := range measurements {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("analysis cancelled: %w", err)
		}
		report.Outcomes = append(report.Outcomes, s.solve(ctx, log, solver, m))
	}

	if s.trend {
		report.Trends = make(map[model.Material]Trend, len(model.Materials))
		for _, m := range model.Materials {
			t, err := FitTrend(report.ByMaterial(m))
			if err != nil {
				log.Warn(ctx, "trend skipped", logger.String("material", m.String()), logger.Error(err))
				continue
			}
			report.Trends[m] = t
		}
	}

	report.Finished = s.now()
	for _, sum := range report.Summaries() {
		if sum.Count > 0 {
			s.metrics.UpdateMean(sum.Material.String(), sum.Mean)
		}
	}
	s.metrics.RecordRun(
		float64(report.Finished.Sub(report.Started).Milliseconds()),
		float64(report.Finished.Unix()),
	)

	log.Info(ctx, "analysis finished",
		logger.Int("solved", len(report.Results())),
		logger.Int("failed", len(report.Failures())),
	)

	s.mu.Lock()
	s.last = report
	s.mu.Unlock()

	return report, nil
}

func (s *Service) solve(ctx context.Context, log logger.Logger, solver *restitution.Solver, m model.Measurement) model.Outcome {
	material := m.Material.String()
	res, err := solver.SolveMeasurement(m)
	if err != nil {
		s.metrics.RecordSolveFailure(material, failureReason(err))
		log.Error(ctx, "measurement rejected",
			logger.String("material", material),
			logger.Float64("angle_deg", m.AngleDegrees),
			logger.Float64("distance_m", m.DistanceMeters),
			logger.Error(err),
		)
		return model.Outcome{Measurement: m, Err: err}
	}

	s.metrics.RecordSolve(material, res.Coefficient)
	if !res.Physical() {
		log.Warn(ctx, "coefficient outside (0,1)",
			logger.String("material", material),
			logger.Float64("angle_deg", m.AngleDegrees),
			logger.Float64("coefficient", res.Coefficient),
		)
	} else {
		log.Debug(ctx, "measurement solved",
			logger.String("material", material),
			logger.Float64("angle_deg", m.AngleDegrees),
			logger.Float64("coefficient", res.Coefficient),
		)
	}
	return model.Outcome{Measurement: m, Result: res}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, restitution.ErrInvalidAngle):
		return reasonInvalidAngle
	case errors.Is(err, restitution.ErrInvalidMeasurement):
		return reasonInvalidMeasurement
	default:
		return reasonOther
	}
}

// Last returns the most recent report, or nil before the first run.
func (s *Service) Last() *Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}
