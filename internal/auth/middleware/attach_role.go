package auth

import (
	"net/http"

	"github.com/mind-engage/mindengage-quiz/internal/rbac"
	"github.com/mind-engage/mindengage-quiz/internal/session"
)

// AttachSession resolves the token subject to a live session. The session's
// role is authoritative over the claim; a closed or reaped session is
// rejected even while its token is unexpired.
func AttachSession(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			sess, ok := sessions.Get(SubjectFromContext(ctx))
			if !ok {
				http.Error(w, "session expired", http.StatusUnauthorized)
				return
			}
			ctx = rbac.WithRole(ctx, string(sess.Role))
			ctx = WithSession(ctx, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
