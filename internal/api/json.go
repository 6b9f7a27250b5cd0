package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/starford/dagaz/internal/apperr"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

type errResponse struct {
	Error string `json:"error" validate:"required"`
	Field string `json:"field,omitempty"`
}

func errorBody(msg string) errResponse {
	return errResponse{Error: msg}
}

// respondError maps service errors onto the API error contract: validation
// and duplicate names are 400, unresolvable ids on non-delete operations are
// 404, everything else is a logged 500.
func respondError(w http.ResponseWriter, err error, logMsg string) {
	var ve *apperr.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, errResponse{Error: ve.Message, Field: ve.Field})
	case errors.Is(err, apperr.ErrDuplicateName):
		writeJSON(w, http.StatusBadRequest, errorBody("name already in use"))
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, apperr.ErrAssistantUnavailable):
		slog.Error(logMsg, slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("assistant unavailable"))
	default:
		slog.Error(logMsg, slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}
