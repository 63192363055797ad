package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	authmw "github.com/mind-engage/mindengage-quiz/internal/auth/middleware"
	"github.com/mind-engage/mindengage-quiz/internal/delivery"
	"github.com/mind-engage/mindengage-quiz/internal/quiz"
	"github.com/mind-engage/mindengage-quiz/internal/session"
)

type attemptResp struct {
	Attempt delivery.AttemptView `json:"attempt"`
	Error   string               `json:"error,omitempty"`
}

// respondAttempt writes the view. Rejected transitions still carry the view
// so clients can render the state the attempt ended up in.
func respondAttempt(w http.ResponseWriter, v delivery.AttemptView, err error) {
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, attemptResp{Attempt: v})
	case quiz.IsStateTransition(err):
		respondJSON(w, http.StatusConflict, attemptResp{Attempt: v, Error: err.Error()})
	default:
		respondError(w, err)
	}
}

func sessionOr401(w http.ResponseWriter, r *http.Request) *session.Session {
	sess := authmw.SessionFromContext(r.Context())
	if sess == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}
	return sess
}

// GET /quizzes/{quizID}/attempt
func GetAttemptHandler(svc *delivery.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionOr401(w, r)
		if sess == nil {
			return
		}
		v, err := svc.View(sess, chi.URLParam(r, "quizID"))
		respondAttempt(w, v, err)
	}
}

// POST /quizzes/{quizID}/attempt/start
func StartAttemptHandler(svc *delivery.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionOr401(w, r)
		if sess == nil {
			return
		}
		v, err := svc.Start(sess, chi.URLParam(r, "quizID"))
		respondAttempt(w, v, err)
	}
}

// POST /quizzes/{quizID}/attempt/submit  { "answers": { "0": "B", "1": "A" } }
func SubmitAttemptHandler(svc *delivery.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionOr401(w, r)
		if sess == nil {
			return
		}
		var req struct {
			Answers quiz.Answers `json:"answers"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		v, err := svc.Submit(r.Context(), sess, chi.URLParam(r, "quizID"), req.Answers)
		respondAttempt(w, v, err)
	}
}
