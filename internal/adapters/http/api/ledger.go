package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/maulas/quiniela/internal/domain/prize"
)

// incomeRequest mirrors the JSON body of POST /api/v1/incomes.
type incomeRequest struct {
	MemberID int     `json:"memberId"`
	Date     string  `json:"date"`
	Amount   float64 `json:"amount"`
	Note     string  `json:"note"`
}

func (i incomeRequest) validate() error {
	switch {
	case i.MemberID <= 0:
		return errors.New("missing memberId")
	case strings.TrimSpace(i.Date) == "":
		return errors.New("missing date")
	case i.Amount <= 0:
		return errors.New("amount must be positive")
	}
	return nil
}

type ledgerResponse struct {
	Lines  any          `json:"lines"`
	Fund   float64      `json:"fund"`
	Prizes prize.Totals `json:"prizes"`
}

// handleLedger handles GET /api/v1/ledger.
func (s *Server) handleLedger(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_ledger"
	lines, err := s.deps.LedgerLines(r.Context())
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	fund, err := s.deps.Fund(r.Context())
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	prizes, err := s.deps.SeasonPrizes(r.Context())
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, ledgerResponse{Lines: lines, Fund: fund, Prizes: prizes})
}

// handleLedgerExport handles GET /api/v1/ledger/export as CSV.
func (s *Server) handleLedgerExport(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_ledger_export"
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="ledger.csv"`)
	if err := s.deps.ExportCSV(r.Context(), w); err != nil {
		// Headers are committed; nothing sensible left to send.
		return
	}
}

// handlePostIncome handles POST /api/v1/incomes.
func (s *Server) handlePostIncome(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_income"
	var req incomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
		return
	}
	in, err := s.deps.AddIncome(r.Context(), req.MemberID, req.Date, req.Amount, req.Note)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, in)
}

// handleReload handles POST /api/v1/reload.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_reload"
	if err := s.deps.Reload(r.Context()); err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reloaded"})
}
