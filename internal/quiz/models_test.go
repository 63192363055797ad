package quiz

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLegacyID(t *testing.T) {
	require.Equal(t, "quiz_biology_week_1", LegacyID("Biology Week 1"))
	// the derived form collides for titles differing only in case
	require.Equal(t, LegacyID("Biology week 1"), LegacyID("biology Week 1"))

	require.Equal(t, "abc", Quiz{ID: "abc", Title: "Biology"}.Key())
	require.Equal(t, "quiz_biology", Quiz{Title: "Biology"}.Key())
}

func TestQuiz_OpenOn(t *testing.T) {
	today := time.Date(2024, 3, 10, 15, 30, 0, 0, time.Local)

	tests := []struct {
		name  string
		start string
		want  bool
	}{
		{"yesterday", "2024-03-09", true},
		{"today", "2024-03-10", true},
		{"tomorrow", "2024-03-11", false},
		{"garbage", "next tuesday", false},
		{"empty", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Quiz{Title: "x", StartDate: tc.start}.OpenOn(today))
		})
	}
}

func TestQuiz_Validate(t *testing.T) {
	q := Quiz{Title: "  "}
	require.True(t, IsValidation(q.Validate()))

	q = Quiz{Title: "ok", Questions: []Question{{Text: "x", Options: map[string]string{"A": "a"}, CorrectAnswer: "Z"}}}
	err := q.Validate()
	require.True(t, IsValidation(err))
	require.Contains(t, err.Error(), `"Z"`)

	q.Questions[0].CorrectAnswer = "A"
	require.NoError(t, q.Validate())
}

func TestQuiz_DurationBounds(t *testing.T) {
	q := Quiz{Title: "ok", DurationMinutes: 200_000_000_000}
	require.Equal(t, MaxDurationMinutes*time.Minute, q.Duration())
	require.Positive(t, q.Duration())

	var ve *ValidationError
	require.ErrorAs(t, q.Validate(), &ve)
	require.Equal(t, "duration", ve.Field)

	q.DurationMinutes = MaxDurationMinutes
	require.NoError(t, q.Validate())
	require.Equal(t, 24*time.Hour, q.Duration())
}

func TestQuiz_JSONShape(t *testing.T) {
	raw := `{"title":"T","questions":[{"question_text":"Q?","options":{"A":"a","B":"b"},"correct_answer":"B"}],
		"duration":10,"start_date":"2024-01-01","start_time":"09:00:00","source_file":"notes.pdf"}`

	var q Quiz
	require.NoError(t, json.Unmarshal([]byte(raw), &q))
	require.Equal(t, 10, q.DurationMinutes)
	require.Equal(t, "B", q.Questions[0].CorrectAnswer)
	require.Equal(t, "notes.pdf", q.SourceFile)
	require.Equal(t, "quiz_t", q.Key())

	red := q.Redacted()
	require.Empty(t, red.Questions[0].CorrectAnswer)
	require.Equal(t, "B", q.Questions[0].CorrectAnswer)
}
