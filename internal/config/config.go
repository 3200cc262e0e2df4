// Package config defines analysis configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Loading functions accept context.Context as the first parameter.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"fmt"

	"github.com/okian/restitution/internal/domain/model"
)

// MeasurementConfig is one trial as recorded on the lab sheet.
type MeasurementConfig struct {
	AngleDegrees float64 `koanf:"angle_deg"`
	Material     string  `koanf:"material"`
	DistanceMM   float64 `koanf:"distance_mm"`
}

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// HeightM is the drop height in metres shared by every trial.
	HeightM float64 `koanf:"height_m"`

	// Measurements lists the trials in report order.
	Measurements []MeasurementConfig `koanf:"measurements"`

	// ChartPath is where the comparison chart is written. The extension
	// selects the format. Empty disables the chart.
	ChartPath string `koanf:"chart_path"`

	// ChartWidthCM and ChartHeightCM size the chart canvas.
	ChartWidthCM  float64 `koanf:"chart_width_cm"`
	ChartHeightCM float64 `koanf:"chart_height_cm"`

	// Axis ranges of the chart.
	XMin float64 `koanf:"x_min"`
	XMax float64 `koanf:"x_max"`
	YMin float64 `koanf:"y_min"`
	YMax float64 `koanf:"y_max"`

	// Trend overlays a least-squares quadratic per material.
	Trend bool `koanf:"trend"`

	// MetricsPath dumps the metrics registry in text format after the run.
	MetricsPath string `koanf:"metrics_path"`

	// Addr serves the report over HTTP when set, e.g. ":9080".
	Addr string `koanf:"addr"`
}

// LabTrials returns the eight trials recorded in the lab session.
func LabTrials() []MeasurementConfig {
	return []MeasurementConfig{
		{AngleDegrees: 10, Material: "Glass", DistanceMM: 305.3},
		{AngleDegrees: 10, Material: "Steel", DistanceMM: 226.4},
		{AngleDegrees: 15, Material: "Glass", DistanceMM: 449.6},
		{AngleDegrees: 15, Material: "Steel", DistanceMM: 331.9},
		{AngleDegrees: 20, Material: "Glass", DistanceMM: 551.2},
		{AngleDegrees: 20, Material: "Steel", DistanceMM: 374.8},
		{AngleDegrees: 25, Material: "Glass", DistanceMM: 527.1},
		{AngleDegrees: 25, Material: "Steel", DistanceMM: 386.6},
	}
}

// New creates a Config holding the lab defaults.
func New() *Config {
	return &Config{
		LogLevel:      "info",
		HeightM:       0.35,
		Measurements:  LabTrials(),
		ChartPath:     "restitution.png",
		ChartWidthCM:  25.4,
		ChartHeightCM: 15.24,
		XMin:          8,
		XMax:          27,
		YMin:          0.6,
		YMax:          0.9,
	}
}

// Validate checks the configuration for values the analysis cannot use.
func (c *Config) Validate() error {
	switch {
	case c.HeightM <= 0:
		return fmt.Errorf("%w: height_m must be positive", ErrInvalidConfig)
	case len(c.Measurements) == 0:
		return fmt.Errorf("%w: measurements must not be empty", ErrInvalidConfig)
	case c.XMin >= c.XMax:
		return fmt.Errorf("%w: x_min must be below x_max", ErrInvalidConfig)
	case c.YMin >= c.YMax:
		return fmt.Errorf("%w: y_min must be below y_max", ErrInvalidConfig)
	case c.ChartPath != "" && (c.ChartWidthCM <= 0 || c.ChartHeightCM <= 0):
		return fmt.Errorf("%w: chart size must be positive", ErrInvalidConfig)
	}
	for i, m := range c.Measurements {
		if _, err := model.ParseMaterial(m.Material); err != nil {
			return fmt.Errorf("%w: measurements[%d]: %w", ErrInvalidConfig, i, err)
		}
		if m.AngleDegrees <= 0 {
			return fmt.Errorf("%w: measurements[%d]: angle_deg must be positive", ErrInvalidConfig, i)
		}
		if m.DistanceMM <= 0 {
			return fmt.Errorf("%w: measurements[%d]: distance_mm must be positive", ErrInvalidConfig, i)
		}
	}
	return nil
}

// Trials converts the configured measurements into domain values.
// Call Validate first; unknown materials are reported as errors here too.
func (c *Config) Trials() ([]model.Measurement, error) {
	out := make([]model.Measurement, 0, len(c.Measurements))
	for i, m := range c.Measurements {
		material, err := model.ParseMaterial(m.Material)
		if err != nil {
			return nil, fmt.Errorf("%w: measurements[%d]: %w", ErrInvalidConfig, i, err)
		}
		out = append(out, model.NewMeasurementMM(m.AngleDegrees, material, m.DistanceMM))
	}
	return out, nil
}
