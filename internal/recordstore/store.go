// Package recordstore persists ordered lists of JSON records, one list per
// named collection.
package recordstore

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	Quizzes     = "quizzes"
	Submissions = "submissions"
)

// ErrMalformed marks stored content that is not a JSON list of records.
var ErrMalformed = errors.New("malformed record collection")

// Store loads and saves whole collections. Load of a collection that was never
// saved returns an empty list and no error.
type Store interface {
	Load(ctx context.Context, collection string) ([]json.RawMessage, error)
	Save(ctx context.Context, collection string, records []json.RawMessage) error
	Close() error
}

// LoadOrEmpty is the tolerant load path: failures are logged and an empty
// list is returned along with the error so callers can surface a warning.
func LoadOrEmpty(ctx context.Context, s Store, collection string, log logrus.FieldLogger) ([]json.RawMessage, error) {
	recs, err := s.Load(ctx, collection)
	if err != nil {
		log.WithError(err).WithField("collection", collection).
			Warn("record collection unreadable, starting with an empty list")
		return []json.RawMessage{}, err
	}
	return recs, nil
}

// decodeList parses a JSON array into its raw elements.
func decodeList(b []byte) ([]json.RawMessage, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return []json.RawMessage{}, nil
	}
	if b[0] != '[' {
		return nil, errors.Wrap(ErrMalformed, "not a list")
	}
	var out []json.RawMessage
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, errors.Wrapf(ErrMalformed, "decode: %v", err)
	}
	if out == nil {
		out = []json.RawMessage{}
	}
	return out, nil
}

// encodeList renders records as an indented JSON array.
func encodeList(records []json.RawMessage) ([]byte, error) {
	if records == nil {
		records = []json.RawMessage{}
	}
	for i, r := range records {
		if !json.Valid(r) {
			return nil, errors.Errorf("record %d is not valid JSON", i)
		}
	}
	return json.MarshalIndent(records, "", "    ")
}
