package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// requestLogger plugs logrus into chi's RequestLogger.
type requestLogger struct{ log logrus.FieldLogger }

func RequestLogger(log logrus.FieldLogger) func(http.Handler) http.Handler {
	return middleware.RequestLogger(&requestLogger{log: log})
}

func (l *requestLogger) NewLogEntry(r *http.Request) middleware.LogEntry {
	return &requestEntry{log: l.log.WithFields(logrus.Fields{
		"req_id": middleware.GetReqID(r.Context()),
		"method": r.Method,
		"path":   r.URL.Path,
		"remote": r.RemoteAddr,
	})}
}

type requestEntry struct{ log logrus.FieldLogger }

func (e *requestEntry) Write(status, bytes int, _ http.Header, elapsed time.Duration, _ interface{}) {
	e.log.WithFields(logrus.Fields{
		"status":     status,
		"bytes":      bytes,
		"elapsed_ms": float64(elapsed.Nanoseconds()) / 1e6,
	}).Info("request")
}

func (e *requestEntry) Panic(v interface{}, stack []byte) {
	e.log.WithFields(logrus.Fields{
		"panic": fmt.Sprintf("%+v", v),
		"stack": string(stack),
	}).Error("request panicked")
}
