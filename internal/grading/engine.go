package grading

import "github.com/mind-engage/mindengage-quiz/internal/quiz"

// Result is the outcome of grading one attempt.
type Result struct {
	Score int `json:"score"`
	Total int `json:"total"`
}

// Line is the graded view of a single question response.
type Line struct {
	Index        int    `json:"index"`
	Question     string `json:"question_text"`
	Selected     string `json:"selected,omitempty"`
	SelectedText string `json:"selected_text,omitempty"`
	Correct      bool   `json:"correct"`
}

// Score counts the questions whose selected option equals the answer key.
// Unanswered questions are simply not correct. Score has no side effects.
func Score(q quiz.Quiz, answers quiz.Answers) Result {
	res := Result{Total: len(q.Questions)}
	for i, qq := range q.Questions {
		if correct(qq, answers, i) {
			res.Score++
		}
	}
	return res
}

// Review lists every question with the student's selection.
func Review(q quiz.Quiz, answers quiz.Answers) []Line {
	out := make([]Line, 0, len(q.Questions))
	for i, qq := range q.Questions {
		sel, ok := answers[i]
		l := Line{Index: i, Question: qq.Text, Correct: correct(qq, answers, i)}
		if ok {
			l.Selected = sel
			l.SelectedText = qq.Options[sel]
		}
		out = append(out, l)
	}
	return out
}

func correct(q quiz.Question, answers quiz.Answers, i int) bool {
	sel, ok := answers[i]
	return ok && sel != "" && sel == q.CorrectAnswer
}
