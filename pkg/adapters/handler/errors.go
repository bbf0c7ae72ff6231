package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/lizdek/lizdek-api/pkg/core/domain"
)

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// statusFor maps every error kind to its HTTP status.
func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindTooManyRequests:
		return http.StatusTooManyRequests
	case domain.KindInternal:
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

// errorWriter is the single place errors become HTTP responses.
type errorWriter struct {
	logger     *log.Logger
	production bool
}

func (e *errorWriter) write(w http.ResponseWriter, r *http.Request, err error) {
	var de *domain.Error
	if !errors.As(err, &de) {
		de = &domain.Error{Kind: domain.KindInternal, Message: "Internal server error", Err: err}
	}

	resp := errorResponse{Error: de.Message}
	if de.Kind == domain.KindInternal {
		kv := []any{
			"err", err,
			"method", r.Method,
			"url", r.URL.String(),
			"remote_addr", clientIP(r),
			"request_id", RequestIDFrom(r.Context()),
		}
		if len(de.Stack) > 0 {
			kv = append(kv, "stack", string(de.Stack))
		}
		e.logger.Error(de.Message, kv...)
		if !e.production && de.Err != nil {
			resp.Details = de.Err.Error()
		}
	}
	writeJSON(w, statusFor(de.Kind), resp)
}
