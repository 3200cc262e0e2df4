// Package api serves the last restitution report over HTTP.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/restitution/internal/adapters/report/chart"
	service "github.com/okian/restitution/internal/app"
)

// Dependencies required by HTTP handlers.
type Dependencies interface {
	// Last returns the most recent report, or nil before the first run.
	Last() *service.Report
}

// Server wires HTTP routes for the report.
type Server struct {
	healthHandler  *HealthHandler
	resultsHandler *ResultsHandler
	chartHandler   *ChartHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, renderer *chart.Renderer) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		resultsHandler: NewResultsHandler(deps),
		chartHandler:   NewChartHandler(deps, renderer),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/results", MetricsMiddleware(s.resultsHandler.HandleResults, "results"))
	mux.HandleFunc("/chart.png", MetricsMiddleware(s.chartHandler.HandleChart, "chart"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
