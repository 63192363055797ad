// Package ledger appends finalized attempt outcomes to the submissions
// collection and renders them as the admin notification feed.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/mind-engage/mindengage-quiz/internal/quiz"
	"github.com/mind-engage/mindengage-quiz/internal/recordstore"
)

const TimeDisplayLayout = "2006-01-02 15:04:05"

// Record is an immutable submission outcome.
type Record struct {
	QuizTitle           string       `json:"quiz_title"`
	QuizID              string       `json:"quiz_id"`
	StudentID           string       `json:"student_id"`
	Answers             quiz.Answers `json:"answers"`
	Score               int          `json:"score"`
	TotalQuestions      int          `json:"total_questions"`
	SubmissionTimestamp float64      `json:"submission_timestamp"`
	SubmissionTimeStr   string       `json:"submission_time_str"`
}

// Notifier is told about every record after it has been persisted.
type Notifier interface {
	Notify(ctx context.Context, rec Record) error
}

// NewRecord builds the record for a submitted attempt.
func NewRecord(a *quiz.Attempt, q quiz.Quiz, score, total int, now time.Time) Record {
	answers := make(quiz.Answers, len(a.Answers))
	for k, v := range a.Answers {
		answers[k] = v
	}
	return Record{
		QuizTitle:           q.Title,
		QuizID:              a.QuizID,
		StudentID:           a.StudentID,
		Answers:             answers,
		Score:               score,
		TotalQuestions:      total,
		SubmissionTimestamp: float64(now.UnixNano()) / float64(time.Second),
		SubmissionTimeStr:   now.Local().Format(TimeDisplayLayout),
	}
}

// Line is the admin feed text for a record.
func Line(r Record) string {
	return fmt.Sprintf("Student '%s' completed quiz: '%s' on %s. Score: %d/%d.",
		orDefault(r.StudentID, "Unknown"), orDefault(r.QuizTitle, "Untitled"),
		orDefault(r.SubmissionTimeStr, "N/A"), r.Score, r.TotalQuestions)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

type Ledger struct {
	mu       sync.Mutex // single writer for read-modify-write appends
	store    recordstore.Store
	notifier Notifier
	log      logrus.FieldLogger
}

func New(store recordstore.Store, notifier Notifier, log logrus.FieldLogger) *Ledger {
	return &Ledger{store: store, notifier: notifier, log: log.WithField("component", "ledger")}
}

// Append reads the whole ledger, appends rec and writes it back. Stored
// entries are kept verbatim. Writers in other processes can still overwrite
// each other.
func (l *Ledger) Append(ctx context.Context, rec Record) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, "encode submission")
	}

	l.mu.Lock()
	current, lerr := recordstore.LoadOrEmpty(ctx, l.store, recordstore.Submissions, l.log)
	if lerr != nil {
		l.log.WithError(lerr).Warn("unreadable submissions ledger will be replaced")
	}
	err = l.store.Save(ctx, recordstore.Submissions, append(current, b))
	l.mu.Unlock()
	if err != nil {
		return &quiz.PersistenceError{Op: "save", Collection: recordstore.Submissions, Err: err}
	}

	l.log.WithFields(logrus.Fields{
		"quiz_id": rec.QuizID, "student_id": rec.StudentID, "score": rec.Score, "total": rec.TotalQuestions,
	}).Info("submission recorded")

	if l.notifier != nil {
		if err := l.notifier.Notify(ctx, rec); err != nil {
			l.log.WithError(err).Warn("submission notifier failed")
		}
	}
	return nil
}

// Feed returns the records newest first; equal timestamps keep insertion
// order. Entries that cannot be decoded are skipped.
func (l *Ledger) Feed(ctx context.Context) ([]Record, error) {
	raw, lerr := recordstore.LoadOrEmpty(ctx, l.store, recordstore.Submissions, l.log)

	out := make([]Record, 0, len(raw))
	for i, r := range raw {
		var rec Record
		if err := json.Unmarshal(r, &rec); err != nil {
			l.log.WithError(err).WithField("index", i).Warn("skipping unreadable submission")
			continue
		}
		out = append(out, rec)
	}
	SortNewestFirst(out)

	if lerr != nil {
		return out, &quiz.PersistenceError{Op: "load", Collection: recordstore.Submissions, Err: lerr}
	}
	return out, nil
}

// SortNewestFirst orders by SubmissionTimestamp descending, stable on ties.
func SortNewestFirst(recs []Record) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].SubmissionTimestamp > recs[j].SubmissionTimestamp
	})
}
