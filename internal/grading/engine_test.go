package grading

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mind-engage/mindengage-quiz/internal/quiz"
)

func twoQuestionQuiz() quiz.Quiz {
	opts := map[string]string{"A": "alpha", "B": "beta", "C": "gamma"}
	return quiz.Quiz{
		Title: "Greek",
		Questions: []quiz.Question{
			{Text: "first?", Options: opts, CorrectAnswer: "A"},
			{Text: "second?", Options: opts, CorrectAnswer: "B"},
		},
	}
}

func TestScore_PartiallyCorrect(t *testing.T) {
	res := Score(twoQuestionQuiz(), quiz.Answers{0: "A", 1: "C"})
	require.Equal(t, Result{Score: 1, Total: 2}, res)
}

func TestScore_EmptyAnswers(t *testing.T) {
	require.Equal(t, Result{Score: 0, Total: 2}, Score(twoQuestionQuiz(), quiz.Answers{}))
	require.Equal(t, Result{Score: 0, Total: 2}, Score(twoQuestionQuiz(), nil))
}

func TestScore_Idempotent(t *testing.T) {
	q := twoQuestionQuiz()
	answers := quiz.Answers{0: "A", 1: "B", 7: "A"}
	first := Score(q, answers)
	second := Score(q, answers)
	require.Equal(t, first, second)
	require.Equal(t, Result{Score: 2, Total: 2}, first)
}

func TestReview(t *testing.T) {
	lines := Review(twoQuestionQuiz(), quiz.Answers{1: "C"})
	require.Len(t, lines, 2)

	require.False(t, lines[0].Correct)
	require.Empty(t, lines[0].Selected)

	require.Equal(t, "C", lines[1].Selected)
	require.Equal(t, "gamma", lines[1].SelectedText)
	require.False(t, lines[1].Correct)
}
