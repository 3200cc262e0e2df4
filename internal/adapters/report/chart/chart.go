// Package chart renders the restitution comparison chart: coefficient
// against deflector angle per material, with dashed mean lines.
package chart

import (
	"fmt"
	"image/color"
	"io"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	service "github.com/okian/restitution/internal/app"
	"github.com/okian/restitution/internal/domain/model"
)

// Chart layout defaults. The canvas is 10x6 inches.
const (
	defaultWidth  = 10 * vg.Inch
	defaultHeight = 6 * vg.Inch
	defaultXMin   = 8
	defaultXMax   = 27
	defaultYMin   = 0.6
	defaultYMax   = 0.9
	defaultLabelX = 22

	labelLift   = 0.01
	glyphRadius = vg.Length(5)
	lineAlpha   = 128
	gridAlpha   = 178
)

var (
	dashes     = []vg.Length{vg.Points(6), vg.Points(4)} //nolint:gochecknoglobals // line style
	gridDashes = []vg.Length{vg.Points(3), vg.Points(3)} //nolint:gochecknoglobals // line style
	palette    = map[model.Material]color.NRGBA{         //nolint:gochecknoglobals // material colours
		model.Glass: {R: 0, G: 0, B: 255, A: 255},
		model.Steel: {R: 255, G: 0, B: 0, A: 255},
	}
)

// Renderer draws a report into a chart.
type Renderer struct {
	width, height vg.Length
	xMin, xMax    float64
	yMin, yMax    float64
	labelX        float64
}

// New creates a Renderer with the lab chart layout.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		width:  defaultWidth,
		height: defaultHeight,
		xMin:   defaultXMin,
		xMax:   defaultXMax,
		yMin:   defaultYMin,
		yMax:   defaultYMax,
		labelX: defaultLabelX,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Plot builds the chart for report.
func (r *Renderer) Plot(report *service.Report) (*plot.Plot, error) {
	if len(report.Results()) == 0 {
		return nil, ErrEmptyReport
	}

	p := plot.New()
	p.Title.Text = "Coefficient of Restitution vs Deflector Angle"
	p.X.Label.Text = "Deflector Angle (˚)"
	p.Y.Label.Text = "Coefficient of Restitution (e)"
	p.X.Min, p.X.Max = r.xMin, r.xMax
	p.Y.Min, p.Y.Max = r.yMin, r.yMax
	p.Legend.Top = true
	p.Legend.Left = true

	grid := plotter.NewGrid()
	grid.Vertical.Dashes = gridDashes
	grid.Horizontal.Dashes = gridDashes
	grid.Vertical.Color = color.Gray{Y: gridAlpha}
	grid.Horizontal.Color = color.Gray{Y: gridAlpha}
	p.Add(grid)

	for _, m := range model.Materials {
		results := report.ByMaterial(m)
		if len(results) == 0 {
			continue
		}
		if err := r.addMaterial(p, m, results, report.Summary(m)); err != nil {
			return nil, err
		}
		if trend, ok := report.Trends[m]; ok {
			f := plotter.NewFunction(trend.At)
			f.XMin, f.XMax = results[0].AngleDegrees, results[0].AngleDegrees
			for _, res := range results[1:] {
				f.XMin = min(f.XMin, res.AngleDegrees)
				f.XMax = max(f.XMax, res.AngleDegrees)
			}
			f.LineStyle.Color = faded(palette[m])
			p.Add(f)
		}
	}

	return p, nil
}

func (r *Renderer) addMaterial(p *plot.Plot, m model.Material, results []model.Result, sum service.Summary) error {
	c := palette[m]

	pts := make(plotter.XYs, len(results))
	for i, res := range results {
		pts[i].X = res.AngleDegrees
		pts[i].Y = res.Coefficient
	}
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("%w: %s scatter: %w", ErrRender, m, err)
	}
	scatter.GlyphStyle.Shape = draw.CrossGlyph{}
	scatter.GlyphStyle.Color = c
	scatter.GlyphStyle.Radius = glyphRadius

	mean, err := plotter.NewLine(plotter.XYs{{X: r.xMin, Y: sum.Mean}, {X: r.xMax, Y: sum.Mean}})
	if err != nil {
		return fmt.Errorf("%w: %s mean line: %w", ErrRender, m, err)
	}
	mean.LineStyle.Color = faded(c)
	mean.LineStyle.Dashes = dashes

	labels, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    []plotter.XY{{X: r.labelX, Y: sum.Mean + labelLift}},
		Labels: []string{fmt.Sprintf("%s avg: %.3f", m, sum.Mean)},
	})
	if err != nil {
		return fmt.Errorf("%w: %s label: %w", ErrRender, m, err)
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].Color = c
	}

	p.Add(scatter, mean, labels)
	p.Legend.Add(m.String(), scatter)
	return nil
}

func faded(c color.NRGBA) color.NRGBA {
	c.A = lineAlpha
	return c
}

// Save renders report to path. The file extension selects the format.
func (r *Renderer) Save(report *service.Report, path string) error {
	p, err := r.Plot(report)
	if err != nil {
		return err
	}
	if err := p.Save(r.width, r.height, path); err != nil {
		return fmt.Errorf("%w: save %s: %w", ErrRender, path, err)
	}
	return nil
}

// WriteTo renders report to w in format ("png", "svg", "pdf", ...).
func (r *Renderer) WriteTo(report *service.Report, w io.Writer, format string) error {
	p, err := r.Plot(report)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(r.width, r.height, format)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrRender, format, err)
	}
	return nil
}

// FormatOf returns the image format implied by path's extension.
func FormatOf(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}
