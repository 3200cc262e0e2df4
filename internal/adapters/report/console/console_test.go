package console_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okian/restitution/internal/adapters/report/console"
	service "github.com/okian/restitution/internal/app"
	"github.com/okian/restitution/internal/domain/model"
	"github.com/okian/restitution/internal/domain/restitution"
)

func result(angle float64, m model.Material, e float64) model.Outcome {
	meas := model.Measurement{AngleDegrees: angle, Material: m, DistanceMeters: 0.3}
	return model.Outcome{Measurement: meas, Result: model.Result{Measurement: meas, Coefficient: e}}
}

func TestWrite(t *testing.T) {
	report := &service.Report{
		Outcomes: []model.Outcome{
			result(10, model.Glass, 0.772777),
			result(10, model.Steel, 0.629471),
			result(15, model.Glass, 0.825854),
			result(15, model.Steel, 0.677632),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, console.Write(&buf, report))

	want := "Glass Coefficients of Restitution:\n" +
		"Angle (degrees) | Coefficient\n" +
		"------------------------------\n" +
		"           10 | 0.7728\n" +
		"           15 | 0.8259\n" +
		"\n" +
		"Steel Coefficients of Restitution:\n" +
		"Angle (degrees) | Coefficient\n" +
		"------------------------------\n" +
		"           10 | 0.6295\n" +
		"           15 | 0.6776\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteRejected(t *testing.T) {
	bad := model.Measurement{AngleDegrees: 90, Material: model.Steel, DistanceMeters: 0.3}
	report := &service.Report{
		Outcomes: []model.Outcome{
			result(12.5, model.Glass, 0.8),
			{Measurement: bad, Err: restitution.ErrInvalidAngle},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, console.Write(&buf, report))

	out := buf.String()
	assert.Contains(t, out, "         12.5 | 0.8000\n")
	assert.Contains(t, out, "Rejected measurements:\n")
	assert.Contains(t, out, "Steel            90 | invalid angle\n")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestWriteError(t *testing.T) {
	report := &service.Report{Outcomes: []model.Outcome{result(10, model.Glass, 0.77)}}
	err := console.Write(failingWriter{}, report)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write report")
}
