package http

import (
	"net/http"

	"github.com/mind-engage/mindengage-quiz/internal/ledger"
)

type feedItem struct {
	ledger.Record
	Line string `json:"line"`
}

type feedResp struct {
	Submissions []feedItem `json:"submissions"`
	Message     string     `json:"message,omitempty"`
	Warning     string     `json:"warning,omitempty"`
}

// GET /submissions returns the notification feed, newest first. An
// unreadable ledger yields what could be read plus a warning.
func SubmissionsHandler(l *ledger.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recs, err := l.Feed(r.Context())
		out := feedResp{Submissions: make([]feedItem, 0, len(recs))}
		for _, rec := range recs {
			out.Submissions = append(out.Submissions, feedItem{Record: rec, Line: ledger.Line(rec)})
		}
		if err != nil {
			out.Warning = "Submissions file is not in the expected format. Showing what could be read."
		}
		if len(out.Submissions) == 0 {
			out.Message = "No student submissions yet."
		}
		respondJSON(w, http.StatusOK, out)
	}
}
