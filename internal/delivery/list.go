package delivery

import (
	"github.com/mind-engage/mindengage-quiz/internal/catalog"
	"github.com/mind-engage/mindengage-quiz/internal/quiz"
	"github.com/mind-engage/mindengage-quiz/internal/session"
)

// QuizSummary is one row of a student's quiz list.
type QuizSummary struct {
	ID               string      `json:"id"`
	Title            string      `json:"title"`
	DurationMinutes  int         `json:"duration"`
	StartDate        string      `json:"start_date"`
	StartTime        string      `json:"start_time"`
	NumQuestions     int         `json:"num_questions"`
	Status           quiz.Status `json:"status"`
	RemainingSeconds int         `json:"remaining_seconds"`
}

// List returns the quizzes open to the session today with the state of the
// session's attempt at each. Listing does not create attempts.
func (s *Service) List(sess *session.Session) []QuizSummary {
	now := s.Now()
	visible := catalog.VisibleToStudent(s.Catalog.All(), now)

	sess.Lock()
	defer sess.Unlock()
	attempts := sess.Attempts()

	out := make([]QuizSummary, 0, len(visible))
	for _, q := range visible {
		row := QuizSummary{
			ID:               q.Key(),
			Title:            q.Title,
			DurationMinutes:  q.DurationMinutes,
			StartDate:        q.StartDate,
			StartTime:        q.StartTime,
			NumQuestions:     len(q.Questions),
			Status:           quiz.StatusNotStarted,
			RemainingSeconds: seconds(q.Duration()),
		}
		if a, ok := attempts[q.Key()]; ok {
			s.tick(a, q, now)
			row.Status = a.Status
			row.RemainingSeconds = render(a, q, now).RemainingSeconds
		}
		out = append(out, row)
	}
	return out
}
