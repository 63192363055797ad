package notify

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/mindengage-quiz/internal/db"
	"github.com/mind-engage/mindengage-quiz/internal/ledger"
)

type fakeChannel struct {
	exchange, key string
	msgs          []amqp.Publishing
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.exchange, f.key = exchange, key
	f.msgs = append(f.msgs, msg)
	return nil
}

type failing struct{}

func (failing) Notify(context.Context, ledger.Record) error { return errors.New("nope") }

func TestAMQP_PublishesRecord(t *testing.T) {
	ch := &fakeChannel{}
	n := NewAMQP(ch)

	rec := ledger.Record{QuizID: "q1", StudentID: "Student", Score: 3, TotalQuestions: 4}
	require.NoError(t, n.Notify(context.Background(), rec))

	require.Equal(t, Exchange, ch.exchange)
	require.Equal(t, SubmissionRecordedRoutingKey, ch.key)
	require.Len(t, ch.msgs, 1)
	require.Equal(t, "application/json", ch.msgs[0].ContentType)

	var got ledger.Record
	require.NoError(t, json.Unmarshal(ch.msgs[0].Body, &got))
	require.Equal(t, 3, got.Score)
	require.NoError(t, n.Close())
}

func TestEventLog_SQLite(t *testing.T) {
	ctx := context.Background()
	dbh, err := db.Open(ctx, db.DriverSQLite, "file:notify_test?mode=memory&cache=shared")
	require.NoError(t, err)
	defer dbh.Close()

	el := NewEventLog(dbh, "")
	require.NoError(t, el.Notify(ctx, ledger.Record{QuizID: "q1", StudentID: "s1", Score: 1}))
	require.NoError(t, el.Notify(ctx, ledger.Record{QuizID: "q2", StudentID: "s1", Score: 2}))

	events, err := el.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, "q2/s1", events[0].Key)
	require.Equal(t, TypeSubmissionRecorded, events[0].Type)
	require.Equal(t, "local", events[0].SiteID)

	events, err = el.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Contains(t, events[0].Line(), "\tlocal\tSubmissionRecorded\tq2/s1")
}

func TestEvent_Line(t *testing.T) {
	e := Event{Offset: 7, SiteID: "lab", Type: TypeSubmissionRecorded, Key: "q1/s1", CreatedAt: 1704103200}
	require.Equal(t, "#7\t2024-01-01T10:00:00Z\tlab\tSubmissionRecorded\tq1/s1", e.Line())
}

func TestMulti_CallsAllAndReportsFirstError(t *testing.T) {
	ch := &fakeChannel{}
	m := Multi{failing{}, nil, NewAMQP(ch)}
	err := m.Notify(context.Background(), ledger.Record{QuizID: "q"})
	require.Error(t, err)
	require.Len(t, ch.msgs, 1)
}
