package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/mind-engage/mindengage-quiz/internal/recordstore"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type Config struct {
	Mode     Mode
	HTTPAddr string
	LogLevel string

	// record store
	StoreDriver     string // file|sqlite|postgres|redis
	DataDir         string
	QuizFile        string
	SubmissionsFile string
	DBDSN           string
	RedisURL        string

	AMQPURL      string // empty disables the broker notifier
	BlobBasePath string

	AuthHMACSecret string
	QuizPassword   string
	QuizPassHash   string // bcrypt; wins over QuizPassword
	SessionTTL     time.Duration
	SweepSchedule  string

	CORSOrigins []string
}

// FromEnv reads the process environment after loading an optional .env file.
func FromEnv() Config {
	_ = godotenv.Load()

	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeOffline
	}
	defOrigins := "http://localhost:3000"
	if mode == ModeOnline {
		defOrigins = "https://quiz.mindengage.ai"
	}
	return Config{
		Mode:            mode,
		HTTPAddr:        envOr("HTTP_ADDR", ":8080"),
		LogLevel:        envOr("LOG_LEVEL", "info"),
		StoreDriver:     envOr("STORE_DRIVER", "file"),
		DataDir:         envOr("DATA_DIR", "."),
		QuizFile:        envOr("QUIZ_FILE", "quiz_data.json"),
		SubmissionsFile: envOr("SUBMISSIONS_FILE", "quiz_submissions.json"),
		DBDSN:           os.Getenv("DB_DSN"),
		RedisURL:        envOr("REDIS_URL", "redis://localhost:6379/0"),
		AMQPURL:         os.Getenv("AMQP_URL"),
		BlobBasePath:    envOr("BLOB_BASE_PATH", "./data"),
		AuthHMACSecret:  envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),
		QuizPassword:    os.Getenv("QUIZ_PASSWORD"),
		QuizPassHash:    os.Getenv("QUIZ_PASS_HASH"),
		SessionTTL:      envDuration("SESSION_TTL", 8*time.Hour),
		SweepSchedule:   envOr("SWEEP_SCHEDULE", "@every 30s"),
		CORSOrigins:     csvOr("CORS_ORIGINS", defOrigins),
	}
}

func (c Config) StoreOptions() recordstore.Options {
	return recordstore.Options{
		Driver:          c.StoreDriver,
		Dir:             c.DataDir,
		QuizFile:        c.QuizFile,
		SubmissionsFile: c.SubmissionsFile,
		DSN:             c.DBDSN,
		RedisURL:        c.RedisURL,
	}
}

// Logger builds the process logger. Online mode logs JSON.
func (c Config) Logger() *logrus.Logger {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	var f logrus.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	if c.Mode == ModeOnline {
		f = &logrus.JSONFormatter{}
	}
	return &logrus.Logger{
		Out:       os.Stderr,
		Formatter: f,
		Hooks:     make(logrus.LevelHooks),
		Level:     lvl,
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
func envDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return def
}
func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
