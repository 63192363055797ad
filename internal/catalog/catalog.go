// Package catalog holds the validated working set of quiz definitions.
package catalog

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/mind-engage/mindengage-quiz/internal/quiz"
	"github.com/mind-engage/mindengage-quiz/internal/quizgen"
	"github.com/mind-engage/mindengage-quiz/internal/recordstore"
)

var ErrNotFound = errors.New("quiz not found")

type Catalog struct {
	mu      sync.RWMutex
	store   recordstore.Store
	log     logrus.FieldLogger
	quizzes []quiz.Quiz
	newID   func() string
}

func New(store recordstore.Store, log logrus.FieldLogger) *Catalog {
	return &Catalog{
		store: store,
		log:   log.WithField("component", "catalog"),
		newID: uuid.NewString,
	}
}

// Load replaces the working set with the stored quizzes. Records that cannot
// be decoded or have no title are dropped and counted. A store failure leaves
// the catalog empty and is returned as a *quiz.PersistenceError. The lock is
// held from read to swap so a concurrent Create is not overwritten.
func (c *Catalog) Load(ctx context.Context) (discarded int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	raw, lerr := recordstore.LoadOrEmpty(ctx, c.store, recordstore.Quizzes, c.log)

	kept := make([]quiz.Quiz, 0, len(raw))
	for i, r := range raw {
		var q quiz.Quiz
		if err := json.Unmarshal(r, &q); err != nil || q.Title == "" {
			c.log.WithField("index", i).Debug("dropping incomplete quiz record")
			discarded++
			continue
		}
		kept = append(kept, q)
	}
	if discarded > 0 {
		c.log.WithField("discarded", discarded).
			Warn("some quiz records were incomplete (e.g. missing a title) and are not shown")
	}

	c.quizzes = kept

	if lerr != nil {
		return discarded, &quiz.PersistenceError{Op: "load", Collection: recordstore.Quizzes, Err: lerr}
	}
	return discarded, nil
}

// All returns every quiz in catalog order.
func (c *Catalog) All() []quiz.Quiz {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]quiz.Quiz, len(c.quizzes))
	copy(out, c.quizzes)
	return out
}

func (c *Catalog) Get(id string) (quiz.Quiz, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, q := range c.quizzes {
		if q.Key() == id {
			return q, nil
		}
	}
	return quiz.Quiz{}, errors.Wrap(ErrNotFound, id)
}

// VisibleToStudent keeps quizzes whose start date is on or before today.
// Quizzes with unparsable dates are left out.
func VisibleToStudent(quizzes []quiz.Quiz, today time.Time) []quiz.Quiz {
	out := make([]quiz.Quiz, 0, len(quizzes))
	for _, q := range quizzes {
		if q.OpenOn(today) {
			out = append(out, q)
		}
	}
	return out
}

// Create validates the input, generates questions, appends the quiz and
// persists the catalog. A failed save rolls the append back.
func (c *Catalog) Create(ctx context.Context, in CreateInput, gen quizgen.Generator) (quiz.Quiz, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := in.Validate(); err != nil {
		return quiz.Quiz{}, err
	}
	questions, err := gen.Generate(ctx, quizgen.Request{NumQuestions: in.NumQuestions, SourceName: in.SourceFile})
	if err != nil {
		return quiz.Quiz{}, errors.Wrap(err, "generate questions")
	}
	q := quiz.Quiz{
		ID:              c.newID(),
		Title:           in.Title,
		Questions:       questions,
		DurationMinutes: in.DurationMinutes,
		StartDate:       in.StartDate,
		StartTime:       in.StartTime,
		SourceFile:      in.SourceFile,
	}
	if err := q.Validate(); err != nil {
		return quiz.Quiz{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.quizzes = append(c.quizzes, q)
	if err := c.persistLocked(ctx); err != nil {
		c.quizzes = c.quizzes[:len(c.quizzes)-1]
		c.log.WithError(err).WithField("title", q.Title).Error("failed to save the new quiz")
		return quiz.Quiz{}, &quiz.PersistenceError{Op: "save", Collection: recordstore.Quizzes, Err: err}
	}
	c.log.WithFields(logrus.Fields{"quiz_id": q.ID, "title": q.Title, "questions": len(q.Questions)}).
		Info("quiz created")
	return q, nil
}

func (c *Catalog) persistLocked(ctx context.Context) error {
	recs := make([]json.RawMessage, 0, len(c.quizzes))
	for _, q := range c.quizzes {
		b, err := json.Marshal(q)
		if err != nil {
			return errors.Wrapf(err, "encode quiz %s", q.Key())
		}
		recs = append(recs, b)
	}
	return c.store.Save(ctx, recordstore.Quizzes, recs)
}
