package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mind-engage/mindengage-quiz/internal/rbac"
	"github.com/mind-engage/mindengage-quiz/internal/session"
)

func TestIssueAndParse(t *testing.T) {
	a := NewAuthService("k", time.Hour)
	tok, err := a.IssueJWT("sess-1", "student")
	require.NoError(t, err)

	c, err := a.Parse(tok)
	require.NoError(t, err)
	require.Equal(t, "sess-1", c.Subject)
	require.Equal(t, "student", c.Role)

	_, err = NewAuthService("other", time.Hour).Parse(tok)
	require.Error(t, err)
}

func TestParse_Expired(t *testing.T) {
	a := NewAuthService("k", time.Minute)
	a.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, err := a.IssueJWT("s", "admin")
	require.NoError(t, err)

	a.now = time.Now
	_, err = a.Parse(tok)
	require.Error(t, err)
}

func TestMiddlewareChain(t *testing.T) {
	a := NewAuthService("k", time.Hour)
	mgr := session.NewManager(nil)
	sess := mgr.Open(session.RoleStudent, "ada")

	var gotRole string
	var gotSess *session.Session
	h := JWTMiddleware(a)(AttachSession(mgr)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRole = rbac.RoleFromContext(r.Context())
		gotSess = SessionFromContext(r.Context())
	})))

	// role claim says admin, the session says student
	tok, err := a.IssueJWT(sess.ID, "admin")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/quizzes", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "student", gotRole)
	require.Same(t, sess, gotSess)

	// query parameter works for websocket clients
	req = httptest.NewRequest(http.MethodGet, "/quizzes?access_token="+tok, nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	mgr.Close(sess.ID)
	req = httptest.NewRequest(http.MethodGet, "/quizzes", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/quizzes", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
