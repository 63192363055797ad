package quiz

import "time"

type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusSubmitted  Status = "submitted"
	StatusTimedOut   Status = "timed_out"
)

// Terminal reports whether no further transition is defined.
func (s Status) Terminal() bool {
	return s == StatusSubmitted || s == StatusTimedOut
}

// Attempt is one student's interaction with one quiz. It is not safe for
// concurrent use; the owning session serializes access.
type Attempt struct {
	QuizID    string    `json:"quiz_id"`
	StudentID string    `json:"student_id"`
	Status    Status    `json:"status"`
	StartedAt time.Time `json:"started_at"`
	Answers   Answers   `json:"answers,omitempty"`
	Score     int       `json:"score"`
	Total     int       `json:"total"`
}

func NewAttempt(quizID, studentID string) *Attempt {
	return &Attempt{QuizID: quizID, StudentID: studentID, Status: StatusNotStarted}
}

// Start moves a fresh attempt to in_progress. Calls from any other state are
// rejected and change nothing.
func (a *Attempt) Start(now time.Time) error {
	if a.Status != StatusNotStarted {
		return &StateTransitionError{Op: "start", From: a.Status}
	}
	a.StartedAt = now
	a.Status = StatusInProgress
	return nil
}

// Remaining is the quiz duration minus the time elapsed since Start. It may be
// negative. Attempts that never started report the full duration.
func (a *Attempt) Remaining(q Quiz, now time.Time) time.Duration {
	if a.StartedAt.IsZero() {
		return q.Duration()
	}
	return q.Duration() - now.Sub(a.StartedAt)
}

// Tick times out an in-progress attempt whose remaining time is <= 0 and
// discards any collected answers. It reports whether the status changed.
func (a *Attempt) Tick(q Quiz, now time.Time) bool {
	if a.Status != StatusInProgress || a.Remaining(q, now) > 0 {
		return false
	}
	a.Status = StatusTimedOut
	a.Answers = nil
	return true
}

// Submit records answers and finalizes the attempt. A submit at or after the
// deadline forces timed_out instead.
func (a *Attempt) Submit(q Quiz, answers Answers, now time.Time) error {
	if a.Tick(q, now) {
		return &StateTransitionError{Op: "submit", From: StatusTimedOut}
	}
	if a.Status != StatusInProgress {
		return &StateTransitionError{Op: "submit", From: a.Status}
	}
	a.Answers = make(Answers, len(answers))
	for k, v := range answers {
		a.Answers[k] = v
	}
	a.Status = StatusSubmitted
	return nil
}
