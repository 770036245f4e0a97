package server

import (
	"encoding/json"
	"errors"
	"net/http"

	terrors "github.com/iloginov/tasker/pkg/errors"
)

type errorBody struct {
	Error     errorDetail `json:"error"`
	RequestID string      `json:"request_id,omitempty"`
}

type errorDetail struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Cycle   []string `json:"cycle,omitempty"`
}

// statusFor maps an error code to an HTTP status.
func statusFor(code terrors.Code) int {
	switch code {
	case terrors.ErrCodeInvalidInput, terrors.ErrCodeInvalidFormat, terrors.ErrCodeInvalidID:
		return http.StatusBadRequest
	case terrors.ErrCodeInvalidGraph:
		return http.StatusUnprocessableEntity
	case terrors.ErrCodeCycleDetected:
		return http.StatusConflict
	case terrors.ErrCodeNotFound, terrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case terrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case terrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as a JSON error body. Uncoded errors are logged and
// reported as INTERNAL_ERROR without their details.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, r, http.StatusRequestEntityTooLarge, string(terrors.ErrCodeInvalidInput), "request body too large", nil)
		return
	}

	code := terrors.GetCode(err)
	status := statusFor(code)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err, "request_id", RequestID(r.Context()))
		writeError(w, r, status, string(terrors.ErrCodeInternal), "internal error", nil)
		return
	}
	writeError(w, r, status, string(code), terrors.UserMessage(err), terrors.CycleNodes(err))
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, cycle []string) {
	writeJSON(w, status, errorBody{
		Error:     errorDetail{Code: code, Message: message, Cycle: cycle},
		RequestID: RequestID(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
