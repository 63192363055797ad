// Package delivery drives a student's attempts: every operation first applies
// the timeout rule under the session lock, then acts on the resulting state.
package delivery

import (
	"context"
	"math"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/mind-engage/mindengage-quiz/internal/catalog"
	"github.com/mind-engage/mindengage-quiz/internal/grading"
	"github.com/mind-engage/mindengage-quiz/internal/ledger"
	"github.com/mind-engage/mindengage-quiz/internal/quiz"
	"github.com/mind-engage/mindengage-quiz/internal/session"
)

const (
	MsgTimedOut     = "Time's up! This quiz was not submitted in time."
	MsgSubmitted    = "This quiz has been submitted."
	MsgLedgerFailed = "Your answers were graded but could not be saved to the submissions log."
)

// AttemptView is what a student sees for one quiz.
type AttemptView struct {
	QuizID           string          `json:"quiz_id"`
	Title            string          `json:"title"`
	Status           quiz.Status     `json:"status"`
	DurationMinutes  int             `json:"duration"`
	StartDate        string          `json:"start_date"`
	StartTime        string          `json:"start_time"`
	RemainingSeconds int             `json:"remaining_seconds"`
	Questions        []quiz.Question `json:"questions,omitempty"`
	Score            int             `json:"score,omitempty"`
	Total            int             `json:"total,omitempty"`
	Review           []grading.Line  `json:"review,omitempty"`
	Message          string          `json:"message,omitempty"`
	Warning          string          `json:"warning,omitempty"`
}

type Service struct {
	Catalog *catalog.Catalog
	Ledger  *ledger.Ledger
	Now     func() time.Time
	log     logrus.FieldLogger
}

func New(cat *catalog.Catalog, l *ledger.Ledger, now func() time.Time, log logrus.FieldLogger) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{Catalog: cat, Ledger: l, Now: now, log: log.WithField("component", "delivery")}
}

// quizFor resolves quizID for the session. Students only reach quizzes that
// are open today.
func (s *Service) quizFor(sess *session.Session, quizID string, now time.Time) (quiz.Quiz, error) {
	q, err := s.Catalog.Get(quizID)
	if err != nil {
		return quiz.Quiz{}, err
	}
	if sess.Role == session.RoleStudent && !q.OpenOn(now) {
		return quiz.Quiz{}, errors.Wrap(catalog.ErrNotFound, quizID)
	}
	return q, nil
}

// View returns the attempt view, creating the attempt on first sight.
func (s *Service) View(sess *session.Session, quizID string) (AttemptView, error) {
	now := s.Now()
	q, err := s.quizFor(sess, quizID, now)
	if err != nil {
		return AttemptView{}, err
	}
	sess.Lock()
	defer sess.Unlock()
	a := sess.Attempt(q.Key())
	s.tick(a, q, now)
	return render(a, q, now), nil
}

// Start begins the countdown. A second start is rejected with the current
// view.
func (s *Service) Start(sess *session.Session, quizID string) (AttemptView, error) {
	now := s.Now()
	q, err := s.quizFor(sess, quizID, now)
	if err != nil {
		return AttemptView{}, err
	}
	sess.Lock()
	defer sess.Unlock()
	a := sess.Attempt(q.Key())
	s.tick(a, q, now)
	if err := a.Start(now); err != nil {
		return render(a, q, now), err
	}
	s.log.WithFields(logrus.Fields{"quiz_id": q.Key(), "student_id": a.StudentID}).Info("attempt started")
	return render(a, q, now), nil
}

// Submit grades and records the answers. A submit at or after the deadline
// leaves the attempt timed_out and records nothing. If the ledger cannot be
// written the attempt stays submitted and the view carries a warning.
func (s *Service) Submit(ctx context.Context, sess *session.Session, quizID string, answers quiz.Answers) (AttemptView, error) {
	now := s.Now()
	q, err := s.quizFor(sess, quizID, now)
	if err != nil {
		return AttemptView{}, err
	}
	sess.Lock()
	defer sess.Unlock()
	a := sess.Attempt(q.Key())
	if err := a.Submit(q, answers, now); err != nil {
		if a.Status == quiz.StatusTimedOut {
			s.logTimeout(a)
		}
		return render(a, q, now), err
	}

	res := grading.Score(q, a.Answers)
	a.Score, a.Total = res.Score, res.Total
	v := render(a, q, now)

	rec := ledger.NewRecord(a, q, res.Score, res.Total, now)
	if err := s.Ledger.Append(ctx, rec); err != nil {
		s.log.WithError(err).WithField("quiz_id", q.Key()).Error("submission not recorded")
		v.Warning = MsgLedgerFailed
	}
	return v, nil
}

// Sweep times out expired attempts in every open session and drops sessions
// idle for longer than idle. Requests tick on their own; this only keeps
// abandoned attempts and sessions from lingering.
func (s *Service) Sweep(sessions *session.Manager, idle time.Duration) (timedOut, reaped int) {
	now := s.Now()
	sessions.Each(func(sess *session.Session) {
		sess.Lock()
		defer sess.Unlock()
		for quizID, a := range sess.Attempts() {
			if a.Status != quiz.StatusInProgress {
				continue
			}
			q, err := s.Catalog.Get(quizID)
			if err != nil {
				continue
			}
			if s.tick(a, q, now) {
				timedOut++
			}
		}
	})
	reaped = sessions.Reap(idle)
	if timedOut > 0 || reaped > 0 {
		s.log.WithFields(logrus.Fields{"timed_out": timedOut, "reaped": reaped}).Debug("sweep")
	}
	return timedOut, reaped
}

func (s *Service) tick(a *quiz.Attempt, q quiz.Quiz, now time.Time) bool {
	if !a.Tick(q, now) {
		return false
	}
	s.logTimeout(a)
	return true
}

func (s *Service) logTimeout(a *quiz.Attempt) {
	s.log.WithFields(logrus.Fields{"quiz_id": a.QuizID, "student_id": a.StudentID}).Info("attempt timed out")
}

func render(a *quiz.Attempt, q quiz.Quiz, now time.Time) AttemptView {
	v := AttemptView{
		QuizID:          q.Key(),
		Title:           q.Title,
		Status:          a.Status,
		DurationMinutes: q.DurationMinutes,
		StartDate:       q.StartDate,
		StartTime:       q.StartTime,
	}
	switch a.Status {
	case quiz.StatusNotStarted:
		v.RemainingSeconds = seconds(q.Duration())
	case quiz.StatusInProgress:
		v.RemainingSeconds = seconds(a.Remaining(q, now))
		v.Questions = q.Redacted().Questions
	case quiz.StatusSubmitted:
		v.Score, v.Total = a.Score, a.Total
		v.Review = grading.Review(q, a.Answers)
		v.Message = MsgSubmitted
	case quiz.StatusTimedOut:
		v.Message = MsgTimedOut
	}
	return v
}

// seconds rounds up so a countdown never shows 0 while time is left.
func seconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Seconds()))
}
