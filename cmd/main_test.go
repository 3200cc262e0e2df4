package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/restitution/pkg/logger"
)

func TestRun(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatalf("logger init: %v", err)
	}

	convey.Convey("Given the lab configuration", t, func() {
		dir := t.TempDir()
		chartPath := filepath.Join(dir, "restitution.svg")
		metricsPath := filepath.Join(dir, "restitution.prom")
		t.Setenv("RESTITUTION_CHART_PATH", chartPath)
		t.Setenv("RESTITUTION_METRICS_PATH", metricsPath)
		t.Setenv("RESTITUTION_TREND", "true")

		convey.Convey("When the analysis runs", func() {
			var stdout bytes.Buffer
			err := run(context.Background(), &stdout)

			convey.Convey("Then it should print both tables", func() {
				convey.So(err, convey.ShouldBeNil)
				out := stdout.String()
				convey.So(out, convey.ShouldStartWith, "Glass Coefficients of Restitution:\n")
				convey.So(out, convey.ShouldContainSubstring, "\nSteel Coefficients of Restitution:\n")
				convey.So(out, convey.ShouldContainSubstring, "           10 | 0.7728\n")
				convey.So(out, convey.ShouldContainSubstring, "           25 | 0.7260\n")
				convey.So(out, convey.ShouldNotContainSubstring, "Rejected")
			})

			convey.Convey("And it should write the chart and the metrics", func() {
				convey.So(err, convey.ShouldBeNil)
				svg, readErr := os.ReadFile(chartPath)
				convey.So(readErr, convey.ShouldBeNil)
				convey.So(string(svg), convey.ShouldContainSubstring, "Glass avg")

				prom, readErr := os.ReadFile(metricsPath)
				convey.So(readErr, convey.ShouldBeNil)
				convey.So(string(prom), convey.ShouldContainSubstring, "restitution_analysis_solves_total")
			})
		})
	})

	convey.Convey("Given an invalid configuration", t, func() {
		t.Setenv("RESTITUTION_HEIGHT_M", "0")

		convey.Convey("Then run should fail before solving", func() {
			var stdout bytes.Buffer
			err := run(context.Background(), &stdout)
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(stdout.Len(), convey.ShouldEqual, 0)
		})
	})
}
