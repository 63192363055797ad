package delivery

import (
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"

	"github.com/mind-engage/mindengage-quiz/internal/session"
)

const DefaultSweepSchedule = "@every 30s"

// StartSweeper runs Sweep on schedule until the returned cron is stopped.
func (s *Service) StartSweeper(schedule string, sessions *session.Manager, idle time.Duration) (*cron.Cron, error) {
	if schedule == "" {
		schedule = DefaultSweepSchedule
	}
	c := cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger)))
	if _, err := c.AddFunc(schedule, func() { s.Sweep(sessions, idle) }); err != nil {
		return nil, errors.Wrapf(err, "sweep schedule %q", schedule)
	}
	c.Start()
	s.log.WithField("schedule", schedule).Info("attempt sweeper started")
	return c, nil
}
