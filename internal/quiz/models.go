package quiz

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO calendar date used for start_date.
const DateLayout = "2006-01-02"

// Upper bounds on a quiz's size and time limit.
const (
	MaxQuestions       = 200
	MaxDurationMinutes = 24 * 60
)

type Question struct {
	Text          string            `json:"question_text"`
	Options       map[string]string `json:"options"`
	CorrectAnswer string            `json:"correct_answer"`
}

type Quiz struct {
	ID              string     `json:"id,omitempty"`
	Title           string     `json:"title"`
	Questions       []Question `json:"questions"`
	DurationMinutes int        `json:"duration"`
	StartDate       string     `json:"start_date"`
	StartTime       string     `json:"start_time"`
	SourceFile      string     `json:"source_file,omitempty"`
}

// Answers maps a zero-based question index to the selected option key.
type Answers map[int]string

// Key returns the quiz identity: the stored id, or the title-derived id for
// records written before ids were assigned.
func (q Quiz) Key() string {
	if q.ID != "" {
		return q.ID
	}
	return LegacyID(q.Title)
}

// LegacyID derives an id from the title. Titles that differ only in case or
// spacing collide.
func LegacyID(title string) string {
	return "quiz_" + strings.ToLower(strings.ReplaceAll(title, " ", "_"))
}

// Duration is the time limit, capped at MaxDurationMinutes so stored records
// with absurd values cannot overflow into a negative deadline.
func (q Quiz) Duration() time.Duration {
	m := q.DurationMinutes
	if m > MaxDurationMinutes {
		m = MaxDurationMinutes
	}
	return time.Duration(m) * time.Minute
}

// StartDay parses StartDate as a calendar date in UTC.
func (q Quiz) StartDay() (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(q.StartDate))
}

// OpenOn reports whether the quiz start date is on or before day.
func (q Quiz) OpenOn(day time.Time) bool {
	start, err := q.StartDay()
	if err != nil {
		return false
	}
	y, m, d := day.Date()
	return !start.After(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// Validate checks the bounds and the answer key of every question.
func (q Quiz) Validate() error {
	if strings.TrimSpace(q.Title) == "" {
		return &ValidationError{Field: "title", Msg: "quiz title is required"}
	}
	if q.DurationMinutes < 0 || q.DurationMinutes > MaxDurationMinutes {
		return &ValidationError{Field: "duration", Msg: fmt.Sprintf("must be between 1 and %d minutes", MaxDurationMinutes)}
	}
	if len(q.Questions) > MaxQuestions {
		return &ValidationError{Field: "questions", Msg: fmt.Sprintf("at most %d questions", MaxQuestions)}
	}
	for i, qq := range q.Questions {
		if _, ok := qq.Options[qq.CorrectAnswer]; !ok {
			return &ValidationError{
				Field: "questions",
				Msg:   fmt.Sprintf("question %d: correct answer %q is not an option", i+1, qq.CorrectAnswer),
			}
		}
	}
	return nil
}

// Redacted returns a copy with answer keys removed, for students.
func (q Quiz) Redacted() Quiz {
	out := q
	out.Questions = make([]Question, len(q.Questions))
	for i, qq := range q.Questions {
		qq.CorrectAnswer = ""
		out.Questions[i] = qq
	}
	return out
}
