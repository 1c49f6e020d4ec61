package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/cgr-group/prospect-api/internal/search"
)

// errorBody is the stable error shape; the UI branches on Type.
type errorBody struct {
	Error   string `json:"error"`
	Type    string `json:"type,omitempty"`
	Details string `json:"details,omitempty"`
}

// statusOf maps the error taxonomy to HTTP status codes. Extraction,
// repair and provider failures are all internal from the caller's point
// of view: the request was fine, the pipeline was not.
func statusOf(errType string) int {
	switch errType {
	case search.TypeValidation:
		return http.StatusBadRequest
	case search.TypeNoResults:
		return http.StatusNotFound
	case search.TypeTimeout:
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps a pipeline error onto the wire. Internal failure details
// are only surfaced in development; production callers get a generic
// message with the stable type discriminator.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	errType := search.TypeOf(err)
	status := statusOf(errType)

	body := errorBody{Type: errType}
	switch status {
	case http.StatusBadRequest, http.StatusNotFound, http.StatusRequestTimeout:
		body.Error = err.Error()
	default:
		body.Error = "une erreur interne est survenue"
		if s.cfg.IsDevelopment() {
			body.Details = err.Error()
		}
		zap.L().Error("api: internal error", zap.String("type", errType), zap.Error(err))
	}

	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("api: response encode failed", zap.Error(err))
	}
}
