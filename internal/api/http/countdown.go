package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/mind-engage/mindengage-quiz/internal/delivery"
)

const (
	DefaultCountdownInterval = time.Second
	writeWait                = 5 * time.Second
)

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		set[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || set["*"] || set[origin]
	}
}

// GET /quizzes/{quizID}/attempt/countdown upgrades to a websocket and pushes
// the attempt view every interval. Each push applies the timeout rule. The
// socket is closed once the attempt is submitted or timed out.
func CountdownHandler(svc *delivery.Service, interval time.Duration, origins []string, log logrus.FieldLogger) http.HandlerFunc {
	if interval <= 0 {
		interval = DefaultCountdownInterval
	}
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(origins),
	}
	log = log.WithField("component", "countdown")

	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionOr401(w, r)
		if sess == nil {
			return
		}
		quizID := chi.URLParam(r, "quizID")
		if _, err := svc.View(sess, quizID); err != nil {
			respondError(w, err)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.WithError(err).Debug("websocket upgrade failed")
			return
		}
		defer conn.Close()

		// drain client frames so close and ping are processed
		gone := make(chan struct{})
		go func() {
			defer close(gone)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			v, err := svc.View(sess, quizID)
			if err != nil {
				closeWith(conn, websocket.CloseNormalClosure, "quiz unavailable")
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(v); err != nil {
				return
			}
			if v.Status.Terminal() {
				closeWith(conn, websocket.CloseNormalClosure, string(v.Status))
				return
			}
			select {
			case <-gone:
				return
			case <-t.C:
			}
		}
	}
}

func closeWith(conn *websocket.Conn, code int, text string) {
	msg := websocket.FormatCloseMessage(code, text)
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}
