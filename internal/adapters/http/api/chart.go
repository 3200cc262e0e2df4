package api

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/okian/restitution/internal/adapters/report/chart"
)

// ChartHandler renders the last report as a PNG.
type ChartHandler struct {
	deps     Dependencies
	renderer *chart.Renderer
}

// NewChartHandler creates a new chart handler.
func NewChartHandler(deps Dependencies, renderer *chart.Renderer) *ChartHandler {
	if renderer == nil {
		renderer = chart.New()
	}
	return &ChartHandler{deps: deps, renderer: renderer}
}

// HandleChart handles GET /chart.png requests.
func (h *ChartHandler) HandleChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	report := h.deps.Last()
	if report == nil {
		writeError(w, http.StatusNotFound, "no_report", ErrNoReport)
		return
	}

	var buf bytes.Buffer
	if err := h.renderer.WriteTo(report, &buf, "png"); err != nil {
		if errors.Is(err, chart.ErrEmptyReport) {
			writeError(w, http.StatusNotFound, "empty_report", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "render_failed", err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
