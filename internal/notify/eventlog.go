package notify

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/mind-engage/mindengage-quiz/internal/ledger"
)

const TypeSubmissionRecorded = "SubmissionRecorded"

type Event struct {
	Offset    int64
	SiteID    string
	Type      string
	Key       string
	DataJSON  string
	CreatedAt int64
}

// Line renders the event for terminal output.
func (e Event) Line() string {
	return fmt.Sprintf("#%d\t%s\t%s\t%s\t%s",
		e.Offset, time.Unix(e.CreatedAt, 0).UTC().Format(time.RFC3339), e.SiteID, e.Type, e.Key)
}

// EventLog appends submission events to the event_log table.
type EventLog struct {
	db     *sql.DB
	siteID string
	now    func() time.Time
}

func NewEventLog(db *sql.DB, siteID string) *EventLog {
	if siteID == "" {
		siteID = "local"
	}
	return &EventLog{db: db, siteID: siteID, now: time.Now}
}

func (r *EventLog) Append(ctx context.Context, e Event) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO event_log (site_id, typ, key, data, created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		e.SiteID, e.Type, e.Key, e.DataJSON, r.now().Unix())
	return err
}

func (r *EventLog) Notify(ctx context.Context, rec ledger.Record) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, "encode event")
	}
	return errors.Wrap(r.Append(ctx, Event{
		SiteID:   r.siteID,
		Type:     TypeSubmissionRecorded,
		Key:      rec.QuizID + "/" + rec.StudentID,
		DataJSON: string(b),
	}), "append event")
}

// Recent returns up to limit events, newest first.
func (r *EventLog) Recent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT "offset", site_id, typ, key, data, created_at FROM event_log ORDER BY "offset" DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.Offset, &e.SiteID, &e.Type, &e.Key, &e.DataJSON, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
