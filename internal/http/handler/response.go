package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/jaekwang-park/agenda-api/internal/agenda"
	"github.com/jaekwang-park/agenda-api/internal/middleware"
	"github.com/jaekwang-park/agenda-api/internal/recurrence"
	"github.com/jaekwang-park/agenda-api/internal/service"
)

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, ErrorResponse{
		Error: ErrorBody{
			Code:    code,
			Message: message,
		},
	})
}

func writeValidationError(w http.ResponseWriter, field, message string) {
	WriteJSON(w, http.StatusBadRequest, ErrorResponse{
		Error: ErrorBody{
			Code:    "VALIDATION_ERROR",
			Message: message,
			Field:   field,
		},
	})
}

func getUserID(r *http.Request) string {
	return middleware.GetUserID(r)
}

func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validationErr *agenda.ValidationError
		ruleErr       *recurrence.InvalidRuleError
		explosionErr  *recurrence.RuleExplosionError
	)

	switch {
	case errors.As(err, &validationErr):
		writeValidationError(w, validationErr.Field, validationErr.Error())
	case errors.As(err, &ruleErr):
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: ErrorBody{Code: "INVALID_RULE", Message: ruleErr.Error(), Field: "rule"},
		})
	case errors.As(err, &explosionErr):
		slog.WarnContext(r.Context(), "agenda query exceeded expansion bound", "error", err)
		WriteError(w, http.StatusUnprocessableEntity, "RULE_EXPLOSION", err.Error())
	case errors.Is(err, service.ErrNotFound):
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "resource not found")
	case errors.Is(err, service.ErrInvalidInput):
		WriteError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
	case errors.Is(err, service.ErrForbidden):
		WriteError(w, http.StatusForbidden, "FORBIDDEN", "access denied")
	default:
		slog.ErrorContext(r.Context(), "request failed", "error", err)
		WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
