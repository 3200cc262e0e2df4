// Package console prints the restitution report as plain-text tables.
package console

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	service "github.com/okian/restitution/internal/app"
	"github.com/okian/restitution/internal/domain/model"
)

const (
	header    = "Angle (degrees) | Coefficient"
	ruleWidth = 30
)

// Write prints one table per material, in model.Materials order, followed
// by any rejected measurements.
func Write(w io.Writer, report *service.Report) error {
	bw := bufio.NewWriter(w)

	for i, m := range model.Materials {
		if i > 0 {
			bw.WriteString("\n")
		}
		writeTable(bw, m, report.ByMaterial(m))
	}

	if failures := report.Failures(); len(failures) > 0 {
		bw.WriteString("\nRejected measurements:\n")
		for _, f := range failures {
			fmt.Fprintf(bw, "%s %13s | %v\n", f.Measurement.Material, formatAngle(f.Measurement.AngleDegrees), f.Err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func writeTable(w *bufio.Writer, m model.Material, results []model.Result) {
	fmt.Fprintf(w, "%s Coefficients of Restitution:\n", m)
	w.WriteString(header + "\n")
	w.WriteString(strings.Repeat("-", ruleWidth) + "\n")
	for _, r := range results {
		fmt.Fprintf(w, "%13s | %.4f\n", formatAngle(r.AngleDegrees), r.Coefficient)
	}
}

// formatAngle drops the decimal part of whole angles.
func formatAngle(a float64) string {
	return strconv.FormatFloat(a, 'f', -1, 64)
}
