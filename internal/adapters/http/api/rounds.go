package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// scoreEntry is the wire shape of one member's round evaluation.
type scoreEntry struct {
	MemberID  int    `json:"memberId"`
	Name      string `json:"name"`
	Hits      int    `json:"hits"`
	Points    int    `json:"points"`
	Submitted bool   `json:"submitted"`
	Late      bool   `json:"late,omitempty"`
	Pardoned  bool   `json:"pardoned,omitempty"`
}

// handleRounds handles GET /api/v1/rounds.
func (s *Server) handleRounds(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_rounds"
	rounds, err := s.deps.Rounds(r.Context())
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, rounds)
}

// handleRoundScores handles GET /api/v1/rounds/{number}/scores.
func (s *Server) handleRoundScores(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_round_scores"
	number, ok := pathInt(w, r, "number", op)
	if !ok {
		return
	}
	evals, err := s.deps.RoundScores(r.Context(), number)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}

	entries := make([]scoreEntry, 0, len(evals))
	for _, e := range evals {
		entries = append(entries, scoreEntry{
			MemberID:  e.MemberID,
			Name:      e.Name,
			Hits:      e.Hits,
			Points:    e.Points,
			Submitted: e.HasSubmission,
			Late:      e.Late,
			Pardoned:  e.Pardoned,
		})
	}
	writeJSON(w, http.StatusOK, entries)
}

// handleRoundOutcome handles GET /api/v1/rounds/{number}/outcome.
func (s *Server) handleRoundOutcome(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_round_outcome"
	number, ok := pathInt(w, r, "number", op)
	if !ok {
		return
	}
	result, err := s.deps.RoundOutcome(r.Context(), number)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleEligibility handles GET /api/v1/rounds/{number}/eligibility/{member}.
func (s *Server) handleEligibility(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_eligibility"
	number, ok := pathInt(w, r, "number", op)
	if !ok {
		return
	}
	member, ok := pathInt(w, r, "member", op)
	if !ok {
		return
	}
	e, err := s.deps.Eligibility(r.Context(), number, member)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// pathInt parses an integer path variable, answering 400 on garbage.
func pathInt(w http.ResponseWriter, r *http.Request, name, op string) (int, bool) {
	n, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return 0, false
	}
	return n, true
}
