package recordstore

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/pkg/errors"
)

// SQLStore keeps records in the `records` table, one row per element.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) DB() *sql.DB { return s.db }

func (s *SQLStore) Load(ctx context.Context, collection string) ([]json.RawMessage, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT data FROM records WHERE collection=$1 ORDER BY seq`, collection)
	if err != nil {
		return nil, errors.Wrapf(err, "query %s", collection)
	}
	defer rows.Close()

	out := []json.RawMessage{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, errors.Wrapf(err, "scan %s", collection)
		}
		if !json.Valid([]byte(data)) {
			return nil, errors.Wrapf(ErrMalformed, "%s row %d", collection, len(out))
		}
		out = append(out, json.RawMessage(data))
	}
	return out, errors.Wrapf(rows.Err(), "iterate %s", collection)
}

// Save replaces the collection inside one transaction.
func (s *SQLStore) Save(ctx context.Context, collection string, records []json.RawMessage) error {
	for i, r := range records {
		if !json.Valid(r) {
			return errors.Errorf("record %d is not valid JSON", i)
		}
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE collection=$1`, collection); err != nil {
		return errors.Wrapf(err, "clear %s", collection)
	}
	for i, r := range records {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO records (collection, seq, data) VALUES ($1,$2,$3)`,
			collection, i, string(r)); err != nil {
			return errors.Wrapf(err, "insert %s[%d]", collection, i)
		}
	}
	return errors.Wrap(tx.Commit(), "commit")
}

func (s *SQLStore) Close() error { return s.db.Close() }
