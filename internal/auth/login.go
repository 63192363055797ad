// Package auth implements the shared-password login and logout endpoints.
package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	authmw "github.com/mind-engage/mindengage-quiz/internal/auth/middleware"
	"github.com/mind-engage/mindengage-quiz/internal/session"
)

const (
	MsgPasswordRequired = "Please enter a password."
	MsgInvalidPassword  = "Invalid password. Please try again."
)

// LoginHook runs after a successful login, e.g. to reload the catalog. A
// non-empty return is passed to the client as a warning.
type LoginHook func(ctx context.Context, sess *session.Session) string

type loginReq struct {
	Role     string `json:"role"`
	Password string `json:"password"`
	Username string `json:"username"`
}

type loginResp struct {
	AccessToken string `json:"access_token"`
	SessionID   string `json:"session_id"`
	Role        string `json:"role"`
	StudentID   string `json:"student_id,omitempty"`
	Warning     string `json:"warning,omitempty"`
}

// POST /auth/login  { "role": "admin|student", "password": "...", "username": "..." }
func LoginHandler(a *authmw.AuthService, sessions *session.Manager, pw *SharedPassword, hook LoginHook, log logrus.FieldLogger) http.HandlerFunc {
	log = log.WithField("component", "auth")
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		role := session.Role(strings.ToLower(strings.TrimSpace(req.Role)))
		if !role.Valid() {
			http.Error(w, "role must be admin or student", http.StatusBadRequest)
			return
		}
		if req.Password == "" {
			http.Error(w, MsgPasswordRequired, http.StatusBadRequest)
			return
		}
		if !pw.Check(req.Password) {
			log.WithField("role", role).Warn("login rejected")
			http.Error(w, MsgInvalidPassword, http.StatusUnauthorized)
			return
		}

		studentID := ""
		if role == session.RoleStudent {
			studentID = strings.TrimSpace(req.Username)
		}
		sess := sessions.Open(role, studentID)
		tok, err := a.IssueJWT(sess.ID, string(role))
		if err != nil {
			sessions.Close(sess.ID)
			http.Error(w, "issue token", http.StatusInternalServerError)
			return
		}

		out := loginResp{AccessToken: tok, SessionID: sess.ID, Role: string(role), StudentID: sess.StudentID}
		if hook != nil {
			out.Warning = hook(r.Context(), sess)
		}
		log.WithFields(logrus.Fields{"role": role, "student_id": sess.StudentID}).Info("logged in")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	}
}

// POST /auth/logout ends the session and discards its attempts.
func LogoutHandler(sessions *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessions.Close(authmw.SubjectFromContext(r.Context()))
		w.WriteHeader(http.StatusNoContent)
	}
}
