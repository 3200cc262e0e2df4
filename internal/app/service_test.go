package service_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"

	service "github.com/okian/restitution/internal/app"
	"github.com/okian/restitution/internal/config"
	"github.com/okian/restitution/internal/domain/model"
	"github.com/okian/restitution/internal/domain/restitution"
	"github.com/okian/restitution/pkg/logger"
	"github.com/okian/restitution/pkg/metrics"
)

func labTrials(t *testing.T) []model.Measurement {
	t.Helper()
	trials, err := config.New().Trials()
	if err != nil {
		t.Fatalf("lab trials: %v", err)
	}
	return trials
}

func newService(registry *prometheus.Registry, opts ...service.Option) *service.Service {
	opts = append([]service.Option{
		service.WithMetrics(metrics.NewManager(metrics.WithPrometheusRegistry(registry))),
		service.WithRunID(func() string { return "run-1" }),
	}, opts...)
	return service.New(opts...)
}

func TestServiceRun(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatalf("logger init: %v", err)
	}
	ctx := context.Background()

	Convey("Given a service and the lab trials", t, func() {
		registry := prometheus.NewRegistry()
		svc := newService(registry)
		trials := labTrials(t)

		So(svc.Last(), ShouldBeNil)

		Convey("When the analysis runs", func() {
			report, err := svc.Run(ctx, trials)
			So(err, ShouldBeNil)

			Convey("Then every trial should be solved in input order", func() {
				So(report.RunID, ShouldEqual, "run-1")
				So(report.Height, ShouldEqual, restitution.DefaultHeight)
				So(report.Outcomes, ShouldHaveLength, 8)
				So(report.Failures(), ShouldBeEmpty)
				for i, o := range report.Outcomes {
					So(o.Measurement, ShouldResemble, trials[i])
					So(o.OK(), ShouldBeTrue)
				}
			})

			Convey("And results should partition by material", func() {
				glass := report.ByMaterial(model.Glass)
				steel := report.ByMaterial(model.Steel)
				So(glass, ShouldHaveLength, 4)
				So(steel, ShouldHaveLength, 4)
				So([]float64{glass[0].AngleDegrees, glass[1].AngleDegrees, glass[2].AngleDegrees, glass[3].AngleDegrees},
					ShouldResemble, []float64{10, 15, 20, 25})
				So(glass[0].Coefficient, ShouldAlmostEqual, 0.7728, 5e-5)
				So(steel[0].Coefficient, ShouldAlmostEqual, 0.6295, 5e-5)
			})

			Convey("And summaries should aggregate the computed values", func() {
				g := report.Summary(model.Glass)
				So(g.Count, ShouldEqual, 4)
				So(g.Failed, ShouldEqual, 0)
				So(g.Mean, ShouldAlmostEqual, (0.772777+0.825854+0.873115+0.860621)/4, 1e-5)
				So(g.Min, ShouldAlmostEqual, 0.772777, 1e-5)
				So(g.Max, ShouldAlmostEqual, 0.873115, 1e-5)
				So(g.StdDev, ShouldBeGreaterThan, 0)

				So(report.Summaries(), ShouldHaveLength, 2)
				So(report.Summaries()[1].Material, ShouldEqual, model.Steel)
			})

			Convey("And no trend should be fitted by default", func() {
				So(report.Trends, ShouldBeNil)
			})

			Convey("And the report should be kept as the last one", func() {
				So(svc.Last(), ShouldEqual, report)
			})

			Convey("And metrics should be recorded", func() {
				count, err := testutil.GatherAndCount(registry, "restitution_analysis_solves_total")
				So(err, ShouldBeNil)
				So(count, ShouldEqual, 2)
				runs, err := testutil.GatherAndCount(registry, "restitution_analysis_runs_total")
				So(err, ShouldBeNil)
				So(runs, ShouldEqual, 1)
			})
		})

		Convey("When a trial is degenerate", func() {
			bad := append([]model.Measurement{}, trials[:2]...)
			bad = append(bad, model.NewMeasurementMM(90, model.Glass, 300))
			bad = append(bad, trials[2:]...)

			report, err := svc.Run(ctx, bad)

			Convey("Then the failure should be isolated and the rest solved", func() {
				So(err, ShouldBeNil)
				So(report.Outcomes, ShouldHaveLength, 9)
				So(report.Results(), ShouldHaveLength, 8)
				failures := report.Failures()
				So(failures, ShouldHaveLength, 1)
				So(errors.Is(failures[0].Err, restitution.ErrInvalidAngle), ShouldBeTrue)
				So(report.Outcomes[2].OK(), ShouldBeFalse)
				So(report.Summary(model.Glass).Failed, ShouldEqual, 1)
				So(report.Summary(model.Glass).Count, ShouldEqual, 4)
			})
		})

		Convey("When there is nothing to solve", func() {
			report, err := svc.Run(ctx, nil)

			Convey("Then it should fail", func() {
				So(errors.Is(err, service.ErrNoMeasurements), ShouldBeTrue)
				So(report, ShouldBeNil)
			})
		})

		Convey("When the context is cancelled", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()

			report, err := svc.Run(cancelled, trials)

			Convey("Then it should stop with the context error", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
				So(report, ShouldBeNil)
			})
		})
	})

	Convey("Given a service with trends enabled", t, func() {
		svc := newService(prometheus.NewRegistry(), service.WithTrend(true))

		Convey("When the analysis runs", func() {
			report, err := svc.Run(ctx, labTrials(t))
			So(err, ShouldBeNil)

			Convey("Then each material should get a quadratic trend close to its points", func() {
				So(report.Trends, ShouldHaveLength, 2)
				for _, m := range model.Materials {
					trend := report.Trends[m]
					So(trend.Material, ShouldEqual, m)
					for _, r := range report.ByMaterial(m) {
						So(math.Abs(trend.At(r.AngleDegrees)-r.Coefficient), ShouldBeLessThan, 0.02)
					}
				}
			})
		})
	})
}

func TestFitTrend(t *testing.T) {
	Convey("Given points on an exact parabola", t, func() {
		var results []model.Result
		for _, angle := range []float64{10, 15, 20, 25} {
			results = append(results, model.Result{
				Measurement: model.Measurement{AngleDegrees: angle, Material: model.Glass},
				Coefficient: 0.5 + 0.02*angle - 0.0005*angle*angle,
			})
		}

		Convey("When fitting the trend", func() {
			trend, err := service.FitTrend(results)

			Convey("Then it should recover the coefficients", func() {
				So(err, ShouldBeNil)
				So(trend.P[0], ShouldAlmostEqual, 0.5, 1e-9)
				So(trend.P[1], ShouldAlmostEqual, 0.02, 1e-9)
				So(trend.P[2], ShouldAlmostEqual, -0.0005, 1e-9)
				So(trend.At(30), ShouldAlmostEqual, 0.65, 1e-9)
			})
		})
	})

	Convey("Given fewer than three distinct angles", t, func() {
		results := []model.Result{
			{Measurement: model.Measurement{AngleDegrees: 10}, Coefficient: 0.7},
			{Measurement: model.Measurement{AngleDegrees: 10}, Coefficient: 0.72},
			{Measurement: model.Measurement{AngleDegrees: 15}, Coefficient: 0.8},
		}

		Convey("Then fitting should fail", func() {
			_, err := service.FitTrend(results)
			So(errors.Is(err, service.ErrTooFewPoints), ShouldBeTrue)
		})
	})
}
