package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/mindengage-quiz/internal/quiz"
	"github.com/mind-engage/mindengage-quiz/internal/quizgen"
	"github.com/mind-engage/mindengage-quiz/internal/recordstore"
)

/* ---------------- in-memory fake satisfying recordstore.Store ---------------- */

type fakeStore struct {
	data    map[string][]json.RawMessage
	loadErr error
	saveErr error
	saves   int
}

func newFakeStore() *fakeStore { return &fakeStore{data: map[string][]json.RawMessage{}} }

func (f *fakeStore) Load(_ context.Context, c string) ([]json.RawMessage, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return append([]json.RawMessage(nil), f.data[c]...), nil
}

func (f *fakeStore) Save(_ context.Context, c string, recs []json.RawMessage) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	f.data[c] = append([]json.RawMessage(nil), recs...)
	return nil
}

func (f *fakeStore) Close() error { return nil }

// gatedStore parks the first Load until release is closed.
type gatedStore struct {
	*fakeStore
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (g *gatedStore) Load(ctx context.Context, c string) ([]json.RawMessage, error) {
	recs, err := g.fakeStore.Load(ctx, c)
	g.once.Do(func() {
		close(g.entered)
		<-g.release
	})
	return recs, err
}

func newCatalog(t *testing.T, st recordstore.Store) *Catalog {
	t.Helper()
	log, _ := test.NewNullLogger()
	c := New(st, log)
	n := 0
	c.newID = func() string { n++; return fmt.Sprintf("id-%d", n) }
	return c
}

func validInput() CreateInput {
	return CreateInput{Title: "Week 1", NumQuestions: 2, DurationMinutes: 10, StartDate: "2024-01-01", StartTime: "09:00:00"}
}

/* ---------------- tests ---------------- */

func TestLoad_DiscardsUntitled(t *testing.T) {
	st := newFakeStore()
	st.data[recordstore.Quizzes] = []json.RawMessage{
		json.RawMessage(`{"title":"A","duration":5,"start_date":"2024-01-01"}`),
		json.RawMessage(`{"duration":5}`),
		json.RawMessage(`{"title":""}`),
		json.RawMessage(`"not an object"`),
		json.RawMessage(`{"title":"B"}`),
	}
	c := newCatalog(t, st)

	discarded, err := c.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, discarded)

	all := c.All()
	require.Len(t, all, 2)
	require.Equal(t, "A", all[0].Title)
	require.Equal(t, "B", all[1].Title)
}

func TestLoad_StoreFailureLeavesEmptyCatalog(t *testing.T) {
	st := newFakeStore()
	st.data[recordstore.Quizzes] = []json.RawMessage{json.RawMessage(`{"title":"A"}`)}
	c := newCatalog(t, st)
	_, err := c.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, c.All(), 1)

	st.loadErr = errors.Wrap(recordstore.ErrMalformed, "bad file")
	_, err = c.Load(context.Background())
	require.True(t, quiz.IsPersistence(err))
	require.True(t, errors.Is(err, recordstore.ErrMalformed))
	require.Empty(t, c.All())
}

func TestLoad_DoesNotLoseConcurrentCreate(t *testing.T) {
	st := &gatedStore{fakeStore: newFakeStore(), entered: make(chan struct{}), release: make(chan struct{})}
	c := newCatalog(t, st)

	loaded := make(chan error, 1)
	go func() {
		_, err := c.Load(context.Background())
		loaded <- err
	}()
	<-st.entered

	created := make(chan error, 1)
	go func() {
		_, err := c.Create(context.Background(), validInput(), quizgen.Dummy{})
		created <- err
	}()
	time.Sleep(20 * time.Millisecond)
	close(st.release)

	require.NoError(t, <-loaded)
	require.NoError(t, <-created)

	all := c.All()
	require.Len(t, all, 1)
	require.Equal(t, "Week 1", all[0].Title)
	require.Len(t, st.data[recordstore.Quizzes], 1)
}

func TestVisibleToStudent(t *testing.T) {
	today := time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC)
	qs := []quiz.Quiz{
		{Title: "past", StartDate: "2024-05-01"},
		{Title: "today", StartDate: "2024-05-10"},
		{Title: "future", StartDate: "2024-05-11"},
		{Title: "broken", StartDate: "10/05/2024"},
	}
	got := VisibleToStudent(qs, today)
	require.Len(t, got, 2)
	require.Equal(t, "past", got[0].Title)
	require.Equal(t, "today", got[1].Title)
}

func TestCreate_PersistsQuiz(t *testing.T) {
	st := newFakeStore()
	c := newCatalog(t, st)

	q, err := c.Create(context.Background(), validInput(), quizgen.Dummy{})
	require.NoError(t, err)
	require.Equal(t, "id-1", q.ID)
	require.Len(t, q.Questions, 2)
	require.Equal(t, 1, st.saves)
	require.Len(t, st.data[recordstore.Quizzes], 1)

	got, err := c.Get("id-1")
	require.NoError(t, err)
	require.Equal(t, "Week 1", got.Title)

	_, err = c.Get("nope")
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestCreate_ValidationMutatesNothing(t *testing.T) {
	st := newFakeStore()
	c := newCatalog(t, st)

	for name, mutate := range map[string]func(*CreateInput){
		"empty title":    func(in *CreateInput) { in.Title = "   " },
		"zero duration":  func(in *CreateInput) { in.DurationMinutes = 0 },
		"bad start date": func(in *CreateInput) { in.StartDate = "tomorrow" },
		"huge duration":  func(in *CreateInput) { in.DurationMinutes = 200_000_000_000 },
		"huge count":     func(in *CreateInput) { in.NumQuestions = 2_000_000_000 },
	} {
		t.Run(name, func(t *testing.T) {
			in := validInput()
			mutate(&in)
			_, err := c.Create(context.Background(), in, quizgen.Dummy{})
			require.True(t, quiz.IsValidation(err), "got %v", err)
		})
	}
	require.Empty(t, c.All())
	require.Zero(t, st.saves)
}

func TestCreate_TitleErrorNamesField(t *testing.T) {
	c := newCatalog(t, newFakeStore())
	in := validInput()
	in.Title = ""
	_, err := c.Create(context.Background(), in, quizgen.Dummy{})
	var ve *quiz.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "title", ve.Field)
}

func TestCreate_UpperBoundsNameField(t *testing.T) {
	c := newCatalog(t, newFakeStore())
	tests := []struct {
		name  string
		in    func(*CreateInput)
		field string
	}{
		{"duration", func(in *CreateInput) { in.DurationMinutes = quiz.MaxDurationMinutes + 1 }, "duration"},
		{"num_questions", func(in *CreateInput) { in.NumQuestions = quiz.MaxQuestions + 1 }, "num_questions"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.in(&in)
			_, err := c.Create(context.Background(), in, quizgen.Dummy{})
			var ve *quiz.ValidationError
			require.ErrorAs(t, err, &ve)
			require.Equal(t, tc.field, ve.Field)
			require.Contains(t, ve.Msg, "at most")
		})
	}

	in := validInput()
	in.DurationMinutes = quiz.MaxDurationMinutes
	in.NumQuestions = quiz.MaxQuestions
	q, err := c.Create(context.Background(), in, quizgen.Dummy{})
	require.NoError(t, err)
	require.Len(t, q.Questions, quiz.MaxQuestions)
}

func TestCreate_RollsBackOnSaveFailure(t *testing.T) {
	st := newFakeStore()
	c := newCatalog(t, st)
	_, err := c.Create(context.Background(), validInput(), quizgen.Dummy{})
	require.NoError(t, err)

	st.saveErr = errors.New("disk full")
	in := validInput()
	in.Title = "Week 2"
	_, err = c.Create(context.Background(), in, quizgen.Dummy{})
	require.True(t, quiz.IsPersistence(err))

	all := c.All()
	require.Len(t, all, 1)
	require.Equal(t, "Week 1", all[0].Title)
}

func TestCreateInput_WithDefaults(t *testing.T) {
	today := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	in := CreateInput{Title: "x"}.WithDefaults(today)
	require.Equal(t, DefaultNumQuestions, in.NumQuestions)
	require.Equal(t, DefaultDuration, in.DurationMinutes)
	require.Equal(t, "2024-02-29", in.StartDate)
	require.Equal(t, DefaultStartTime, in.StartTime)
	require.NoError(t, in.Validate())
}
