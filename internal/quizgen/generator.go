// Package quizgen produces the questions of a new quiz. Only a placeholder
// generator exists; the uploaded source document is not read.
package quizgen

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/mind-engage/mindengage-quiz/internal/quiz"
)

type Request struct {
	NumQuestions int
	SourceName   string
}

type Generator interface {
	Generate(ctx context.Context, req Request) ([]quiz.Question, error)
}

// Dummy emits numbered four-option questions whose answer is always B.
type Dummy struct{}

func (Dummy) Generate(_ context.Context, req Request) ([]quiz.Question, error) {
	if req.NumQuestions < 1 || req.NumQuestions > quiz.MaxQuestions {
		return nil, errors.Errorf("num_questions must be between 1 and %d, got %d", quiz.MaxQuestions, req.NumQuestions)
	}
	out := make([]quiz.Question, 0, req.NumQuestions)
	for i := 1; i <= req.NumQuestions; i++ {
		out = append(out, quiz.Question{
			Text: fmt.Sprintf("This is dummy question %d. What is the placeholder answer?", i),
			Options: map[string]string{
				"A": fmt.Sprintf("Option A for Q%d", i),
				"B": fmt.Sprintf("Option B for Q%d (Correct)", i),
				"C": fmt.Sprintf("Option C for Q%d", i),
				"D": fmt.Sprintf("Option D for Q%d", i),
			},
			CorrectAnswer: "B",
		})
	}
	return out, nil
}
