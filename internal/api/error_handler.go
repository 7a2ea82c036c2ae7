package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/vytor/studyflash/internal/errors"
	"github.com/vytor/studyflash/internal/logger"
)

type errorDetail struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Details   map[string]string `json:"details,omitempty"`
	Retryable bool              `json:"retryable,omitempty"`
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

// handleError centralizes error handling for HTTP responses
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	appErr := errors.As(err)

	if appErr.Status >= 500 {
		log.Error("server error: %v", appErr)
	} else {
		log.Warn("client error: %v", appErr)
	}

	if appErr.Retryable {
		w.Header().Set("Retry-After", "1")
	}
	writeJSON(w, appErr.Status, errorBody{Error: errorDetail{
		Code:      appErr.Code,
		Message:   appErr.Message,
		Details:   appErr.Details,
		Retryable: appErr.Retryable,
	}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

const maxBodyBytes = 1 << 16

// decodeJSON decodes the request body into dst and validates it. An empty body
// leaves dst untouched.
func (s *Server) decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && err != io.EOF {
		return errors.NewBadRequestError("invalid JSON body: " + err.Error())
	}
	return s.Validator.Validate(dst)
}
