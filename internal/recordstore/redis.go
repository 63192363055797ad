package recordstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// RedisClient is the part of *redis.Client the store uses.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Close() error
}

// RedisStore keeps each collection as one JSON array value.
type RedisStore struct {
	rdb    RedisClient
	prefix string
}

func NewRedisStore(rdb RedisClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "quiz"
	}
	return &RedisStore{rdb: rdb, prefix: prefix}
}

// DialRedis parses a redis:// URL and pings the server.
func DialRedis(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(err, "parse redis url")
	}
	c := redis.NewClient(opt)
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, errors.Wrap(err, "ping redis")
	}
	return c, nil
}

func (s *RedisStore) key(collection string) string {
	return fmt.Sprintf("%s:records:%s", s.prefix, collection)
}

func (s *RedisStore) Load(ctx context.Context, collection string) ([]json.RawMessage, error) {
	b, err := s.rdb.Get(ctx, s.key(collection)).Bytes()
	if errors.Is(err, redis.Nil) {
		return []json.RawMessage{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get %s", collection)
	}
	return decodeList(b)
}

func (s *RedisStore) Save(ctx context.Context, collection string, records []json.RawMessage) error {
	b, err := encodeList(records)
	if err != nil {
		return err
	}
	return errors.Wrapf(s.rdb.Set(ctx, s.key(collection), b, 0).Err(), "set %s", collection)
}

func (s *RedisStore) Close() error { return s.rdb.Close() }
