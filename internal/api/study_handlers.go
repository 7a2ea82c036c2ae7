package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/studyflash/internal/errors"
	"github.com/vytor/studyflash/internal/models"
	"github.com/vytor/studyflash/internal/services"
)

type rateRequest struct {
	Rating         string  `json:"rating" validate:"required,rating"`
	SessionID      string  `json:"session_id,omitempty" validate:"omitempty,uuid"`
	IdempotencyKey string  `json:"idempotency_key,omitempty" validate:"omitempty,max=128"`
	TimeSeconds    float64 `json:"time_seconds" validate:"gte=0"`
	Tags           []int   `json:"tags,omitempty" validate:"omitempty,dive,gt=0"`
}

func (s *Server) handleDueCards(w http.ResponseWriter, r *http.Request) {
	batch := 0
	if raw := r.URL.Query().Get("batch"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			handleError(w, r, errors.NewValidationError("batch", "must be an integer"))
			return
		}
		batch = n
	}
	tagIDs, err := parseTagIDs(r.URL.Query().Get("tags"))
	if err != nil {
		handleError(w, r, err)
		return
	}

	res, err := s.Study.GetDueCards(r.Context(), userIDFromContext(r.Context()), batch, tagIDs)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// parseTagIDs parses "1,4,7". Empty input means no filter.
func parseTagIDs(raw string) ([]int, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var ids []int
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, errors.NewValidationError("tags", "must be a comma separated list of tag ids")
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *Server) handleRateCard(w http.ResponseWriter, r *http.Request) {
	cardID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || cardID <= 0 {
		handleError(w, r, errors.NewValidationError("id", "must be a positive integer"))
		return
	}

	var req rateRequest
	if err := s.decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	rating, err := models.ParseRating(req.Rating)
	if err != nil {
		handleError(w, r, errors.NewValidationError("rating", err.Error()))
		return
	}

	key := req.IdempotencyKey
	if key == "" {
		key = r.Header.Get("Idempotency-Key")
	}

	res, err := s.Study.RateCard(r.Context(), userIDFromContext(r.Context()), cardID, rating, services.RateOptions{
		SessionID:      req.SessionID,
		IdempotencyKey: key,
		TimeSeconds:    req.TimeSeconds,
		TagIDs:         req.Tags,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	id, err := s.Study.StartSession(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"session_id": id})
}

func (s *Server) handleSessionTally(w http.ResponseWriter, r *http.Request) {
	tally, err := s.Study.SessionTally(r.Context(), userIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tally)
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	summary, err := s.Study.EndSession(r.Context(), userIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
