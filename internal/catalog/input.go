package catalog

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/mind-engage/mindengage-quiz/internal/quiz"
)

// CreateInput is the admin's quiz creation form.
type CreateInput struct {
	Title           string `json:"title" validate:"required"`
	NumQuestions    int    `json:"num_questions" validate:"min=1,max=200"`
	DurationMinutes int    `json:"duration" validate:"min=1,max=1440"`
	StartDate       string `json:"start_date" validate:"required,datetime=2006-01-02"`
	StartTime       string `json:"start_time" validate:"omitempty,max=16"`
	SourceFile      string `json:"source_file" validate:"omitempty,max=255"`
}

const (
	DefaultNumQuestions = 20
	DefaultDuration     = 10
	DefaultStartTime    = "09:00:00"
)

// WithDefaults fills the form defaults: 20 questions, 10 minutes, starting
// today at 09:00.
func (in CreateInput) WithDefaults(today time.Time) CreateInput {
	if in.NumQuestions == 0 {
		in.NumQuestions = DefaultNumQuestions
	}
	if in.DurationMinutes == 0 {
		in.DurationMinutes = DefaultDuration
	}
	if in.StartDate == "" {
		in.StartDate = today.Format(quiz.DateLayout)
	}
	if in.StartTime == "" {
		in.StartTime = DefaultStartTime
	}
	return in
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate reports the first failing field as a *quiz.ValidationError.
func (in CreateInput) Validate() error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &quiz.ValidationError{Msg: err.Error()}
	}
	fe := verrs[0]
	msg := "failed " + fe.Tag()
	switch fe.Tag() {
	case "required":
		msg = "is required"
	case "min":
		msg = "must be at least " + fe.Param()
	case "max":
		msg = "must be at most " + fe.Param()
	case "datetime":
		msg = "must be a date like " + fe.Param()
	}
	return &quiz.ValidationError{Field: fe.Field(), Msg: msg}
}
