package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

func TestRequestLogger_OneEntryPerRequest(t *testing.T) {
	log, hook := test.NewNullLogger()
	h := middleware.RequestID(RequestLogger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("hi"))
	})))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/quizzes", nil))

	require.Len(t, hook.AllEntries(), 1)
	e := hook.LastEntry()
	require.Equal(t, logrus.InfoLevel, e.Level)
	require.Equal(t, "request", e.Message)
	require.Equal(t, http.StatusTeapot, e.Data["status"])
	require.Equal(t, 2, e.Data["bytes"])
	require.Equal(t, "/quizzes", e.Data["path"])
	require.NotEmpty(t, e.Data["req_id"])
}
