package api

import (
	"net/http"
)

type goalRequest struct {
	DailyGoal *int `json:"daily_goal" validate:"omitempty,gt=0"`
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	p, err := s.Progress.GetDailyProgress(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handleSetGoal sets the daily goal. A null goal clears it.
func (s *Server) handleSetGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := s.decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	userID := userIDFromContext(r.Context())
	if err := s.Progress.SetDailyGoal(r.Context(), userID, req.DailyGoal); err != nil {
		handleError(w, r, err)
		return
	}

	p, err := s.Progress.GetDailyProgress(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
