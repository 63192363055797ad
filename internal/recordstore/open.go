package recordstore

import (
	"context"

	"github.com/pkg/errors"

	"github.com/mind-engage/mindengage-quiz/internal/db"
)

type Options struct {
	Driver string // file|sqlite|postgres|redis

	Dir             string // file
	QuizFile        string // file
	SubmissionsFile string // file

	DSN      string // sqlite|postgres
	RedisURL string // redis
}

// Open builds the configured backend.
func Open(ctx context.Context, o Options) (Store, error) {
	switch o.Driver {
	case "", "file":
		return NewFileStore(o.Dir, map[string]string{
			Quizzes:     o.QuizFile,
			Submissions: o.SubmissionsFile,
		})
	case string(db.DriverSQLite), string(db.DriverPostgres):
		dbh, err := db.Open(ctx, db.Driver(o.Driver), o.DSN)
		if err != nil {
			return nil, errors.Wrapf(err, "open %s", o.Driver)
		}
		return NewSQLStore(dbh), nil
	case "redis":
		rdb, err := DialRedis(ctx, o.RedisURL)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(rdb, "quiz"), nil
	default:
		return nil, errors.Errorf("unsupported store driver: %s", o.Driver)
	}
}
