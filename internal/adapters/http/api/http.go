// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	service "github.com/maulas/quiniela/internal/app"
	"github.com/maulas/quiniela/internal/domain/ledger"
	"github.com/maulas/quiniela/internal/domain/model"
	"github.com/maulas/quiniela/internal/domain/outcome"
	"github.com/maulas/quiniela/internal/domain/prize"
	"github.com/maulas/quiniela/internal/domain/season"
	"github.com/maulas/quiniela/pkg/metrics"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Standings(ctx context.Context, limit int) ([]season.MemberTotals, error)
	Rounds(ctx context.Context) ([]service.RoundInfo, error)
	RoundScores(ctx context.Context, number int) ([]outcome.MemberEval, error)
	RoundOutcome(ctx context.Context, number int) (outcome.Result, error)
	Eligibility(ctx context.Context, roundNumber, memberID int) (outcome.Eligibility, error)
	SubmitPrediction(ctx context.Context, roundID string, memberID int, selection []string, late bool) error
	SubmitDoubles(ctx context.Context, roundID string, memberID int, selection []string) error
	AddIncome(ctx context.Context, memberID int, date string, amount float64, note string) (model.Income, error)
	LedgerLines(ctx context.Context) ([]ledger.Line, error)
	Fund(ctx context.Context) (float64, error)
	SeasonPrizes(ctx context.Context) (prize.Totals, error)
	ExportCSV(ctx context.Context, w io.Writer) error
	Reload(ctx context.Context) error
}

// StatsProvider exposes service statistics for monitoring.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// Server wires HTTP routes for the business API.
type Server struct {
	deps  Dependencies
	stats StatsProvider
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, stats StatsProvider) *Server {
	return &Server{deps: deps, stats: stats}
}

// Router builds the full route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestIDMiddleware)

	r.Handle("/healthz", MetricsMiddleware(s.handleHealth, "healthz")).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	r.Handle("/stats", MetricsMiddleware(s.handleStats, "stats")).Methods(http.MethodGet)

	v1 := r.PathPrefix("/api/v1").Subrouter()
	v1.Handle("/standings", MetricsMiddleware(s.handleStandings, "standings")).Methods(http.MethodGet)
	v1.Handle("/rounds", MetricsMiddleware(s.handleRounds, "rounds")).Methods(http.MethodGet)
	v1.Handle("/rounds/{number}/scores", MetricsMiddleware(s.handleRoundScores, "round_scores")).Methods(http.MethodGet)
	v1.Handle("/rounds/{number}/outcome", MetricsMiddleware(s.handleRoundOutcome, "round_outcome")).Methods(http.MethodGet)
	v1.Handle("/rounds/{number}/eligibility/{member}", MetricsMiddleware(s.handleEligibility, "eligibility")).Methods(http.MethodGet)
	v1.Handle("/predictions", MetricsMiddleware(s.handlePostPrediction, "predictions")).Methods(http.MethodPost)
	v1.Handle("/predictions/doubles", MetricsMiddleware(s.handlePostDoubles, "doubles")).Methods(http.MethodPost)
	v1.Handle("/incomes", MetricsMiddleware(s.handlePostIncome, "incomes")).Methods(http.MethodPost)
	v1.Handle("/ledger", MetricsMiddleware(s.handleLedger, "ledger")).Methods(http.MethodGet)
	v1.Handle("/ledger/export", MetricsMiddleware(s.handleLedgerExport, "ledger_export")).Methods(http.MethodGet)
	v1.Handle("/reload", MetricsMiddleware(s.handleReload, "reload")).Methods(http.MethodPost)

	return r
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

// writeServiceError translates service sentinels to HTTP statuses.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, service.ErrRoundNotFound), errors.Is(err, service.ErrMemberNotFound):
		writeError(w, http.StatusNotFound, "not_found", Wrap(op, err))
	case errors.Is(err, service.ErrRoundNotPlayed):
		writeError(w, http.StatusConflict, "round_not_played", Wrap(op, err))
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "not_ready", Wrap(op, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}
