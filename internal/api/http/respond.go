// Package http exposes the quiz service over HTTP.
package http

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"github.com/mind-engage/mindengage-quiz/internal/catalog"
	"github.com/mind-engage/mindengage-quiz/internal/quiz"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case quiz.IsValidation(err):
		return http.StatusBadRequest
	case quiz.IsStateTransition(err):
		return http.StatusConflict
	case errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func respondError(w http.ResponseWriter, err error) {
	body := errorBody{Error: err.Error()}
	var v *quiz.ValidationError
	if errors.As(err, &v) {
		body = errorBody{Error: v.Error(), Field: v.Field}
	}
	respondJSON(w, statusFor(err), body)
}
