package api

import (
	"net/http"
	"strconv"
)

// handleStandings handles GET /api/v1/standings?limit=N.
func (s *Server) handleStandings(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_standings"

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		limit = n
	}

	totals, err := s.deps.Standings(r.Context(), limit)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

// handleStats handles GET /stats.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.stats.GetStats())
}
