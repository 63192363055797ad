package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"MODE", "STORE_DRIVER", "QUIZ_FILE", "SUBMISSIONS_FILE", "SESSION_TTL", "SWEEP_SCHEDULE", "CORS_ORIGINS", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	c := FromEnv()
	require.Equal(t, ModeOffline, c.Mode)
	require.Equal(t, "file", c.StoreDriver)
	require.Equal(t, "quiz_data.json", c.QuizFile)
	require.Equal(t, "quiz_submissions.json", c.SubmissionsFile)
	require.Equal(t, 8*time.Hour, c.SessionTTL)
	require.Equal(t, "@every 30s", c.SweepSchedule)
	require.Equal(t, []string{"http://localhost:3000"}, c.CORSOrigins)
	require.Equal(t, logrus.InfoLevel, c.Logger().Level)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("MODE", "online")
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("SESSION_TTL", "90")
	t.Setenv("CORS_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("LOG_LEVEL", "debug")

	c := FromEnv()
	require.Equal(t, ModeOnline, c.Mode)
	require.Equal(t, "sqlite", c.StoreOptions().Driver)
	require.Equal(t, 90*time.Second, c.SessionTTL)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, c.CORSOrigins)

	l := c.Logger()
	require.Equal(t, logrus.DebugLevel, l.Level)
	require.IsType(t, &logrus.JSONFormatter{}, l.Formatter)
}

func TestEnvDuration(t *testing.T) {
	t.Setenv("X_DUR", "2m")
	require.Equal(t, 2*time.Minute, envDuration("X_DUR", time.Second))
	t.Setenv("X_DUR", "junk")
	require.Equal(t, time.Second, envDuration("X_DUR", time.Second))
}
