package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	service "github.com/maulas/quiniela/internal/app"
	"github.com/maulas/quiniela/internal/domain/model"
	"github.com/maulas/quiniela/internal/domain/scoring"
)

// predictionRequest mirrors the JSON body of POST /api/v1/predictions
// and POST /api/v1/predictions/doubles.
type predictionRequest struct {
	RoundID   string   `json:"roundId"`
	MemberID  int      `json:"memberId"`
	Selection []string `json:"selection"`
	Late      bool     `json:"late"`
}

func (p predictionRequest) validate() error {
	switch {
	case strings.TrimSpace(p.RoundID) == "":
		return errors.New("missing roundId")
	case p.MemberID <= 0:
		return errors.New("missing memberId")
	case len(p.Selection) != model.MatchCount:
		return errors.New("selection must carry fifteen slots")
	}
	return nil
}

type ackResponse struct {
	Status string `json:"status"`
	ID     string `json:"id"`
}

// handlePostPrediction handles POST /api/v1/predictions.
func (s *Server) handlePostPrediction(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_prediction"
	req, ok := decodePrediction(w, r, op)
	if !ok {
		return
	}
	if err := s.deps.SubmitPrediction(r.Context(), req.RoundID, req.MemberID, req.Selection, req.Late); err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{
		Status: "saved",
		ID:     model.PredictionID(req.RoundID, req.MemberID),
	})
}

// handlePostDoubles handles POST /api/v1/predictions/doubles. A
// reduction-shape violation maps to 422; nothing is persisted.
func (s *Server) handlePostDoubles(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_doubles"
	req, ok := decodePrediction(w, r, op)
	if !ok {
		return
	}
	err := s.deps.SubmitDoubles(r.Context(), req.RoundID, req.MemberID, req.Selection)
	switch {
	case err == nil:
	case isReductionViolation(err):
		writeError(w, http.StatusUnprocessableEntity, "invalid_reduction", Wrap(op, err))
		return
	case errors.Is(err, service.ErrRoundNotFound), errors.Is(err, service.ErrMemberNotFound):
		writeServiceError(w, op, err)
		return
	default:
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{
		Status: "saved",
		ID:     model.PredictionID(req.RoundID, req.MemberID),
	})
}

func decodePrediction(w http.ResponseWriter, r *http.Request, op string) (predictionRequest, bool) {
	var req predictionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return predictionRequest{}, false
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
		return predictionRequest{}, false
	}
	return req, true
}

func isReductionViolation(err error) bool {
	return errors.Is(err, scoring.ErrMixedReduction) ||
		errors.Is(err, scoring.ErrTooManyDoubles) ||
		errors.Is(err, scoring.ErrTooManyTriples) ||
		errors.Is(err, scoring.ErrMultiSignPleno) ||
		errors.Is(err, scoring.ErrSelectionLength) ||
		errors.Is(err, scoring.ErrInvalidSignCount)
}
