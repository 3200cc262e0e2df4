package api

import (
	"net/http"
	"time"

	service "github.com/okian/restitution/internal/app"
	"github.com/okian/restitution/internal/domain/model"
)

type outcomeResponse struct {
	AngleDegrees   float64        `json:"angle_deg"`
	Material       model.Material `json:"material"`
	DistanceMeters float64        `json:"distance_m"`
	Coefficient    *float64       `json:"coefficient,omitempty"`
	Physical       bool           `json:"physical"`
	Error          string         `json:"error,omitempty"`
}

type summaryResponse struct {
	Material model.Material `json:"material"`
	Count    int            `json:"count"`
	Failed   int            `json:"failed"`
	Mean     float64        `json:"mean"`
	StdDev   float64        `json:"std_dev"`
	Min      float64        `json:"min"`
	Max      float64        `json:"max"`
}

type resultsResponse struct {
	RunID     string            `json:"run_id"`
	HeightM   float64           `json:"height_m"`
	Finished  time.Time         `json:"finished"`
	Outcomes  []outcomeResponse `json:"outcomes"`
	Summaries []summaryResponse `json:"summaries"`
}

// ResultsHandler handles results requests.
type ResultsHandler struct {
	deps Dependencies
}

// NewResultsHandler creates a new results handler.
func NewResultsHandler(deps Dependencies) *ResultsHandler {
	return &ResultsHandler{deps: deps}
}

// HandleResults handles GET /results requests.
func (h *ResultsHandler) HandleResults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	report := h.deps.Last()
	if report == nil {
		writeError(w, http.StatusNotFound, "no_report", ErrNoReport)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(report))
}

func toResponse(report *service.Report) resultsResponse {
	resp := resultsResponse{
		RunID:     report.RunID,
		HeightM:   report.Height,
		Finished:  report.Finished,
		Outcomes:  make([]outcomeResponse, 0, len(report.Outcomes)),
		Summaries: make([]summaryResponse, 0, len(model.Materials)),
	}
	for _, o := range report.Outcomes {
		out := outcomeResponse{
			AngleDegrees:   o.Measurement.AngleDegrees,
			Material:       o.Measurement.Material,
			DistanceMeters: o.Measurement.DistanceMeters,
		}
		if o.OK() {
			e := o.Result.Coefficient
			out.Coefficient = &e
			out.Physical = o.Result.Physical()
		} else {
			out.Error = o.Err.Error()
		}
		resp.Outcomes = append(resp.Outcomes, out)
	}
	for _, s := range report.Summaries() {
		resp.Summaries = append(resp.Summaries, summaryResponse(s))
	}
	return resp
}
