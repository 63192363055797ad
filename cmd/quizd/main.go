package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	api "github.com/mind-engage/mindengage-quiz/internal/api/http"
	"github.com/mind-engage/mindengage-quiz/internal/auth"
	authmw "github.com/mind-engage/mindengage-quiz/internal/auth/middleware"
	"github.com/mind-engage/mindengage-quiz/internal/catalog"
	"github.com/mind-engage/mindengage-quiz/internal/config"
	"github.com/mind-engage/mindengage-quiz/internal/delivery"
	"github.com/mind-engage/mindengage-quiz/internal/ledger"
	"github.com/mind-engage/mindengage-quiz/internal/notify"
	"github.com/mind-engage/mindengage-quiz/internal/quizgen"
	"github.com/mind-engage/mindengage-quiz/internal/recordstore"
	"github.com/mind-engage/mindengage-quiz/internal/session"
	"github.com/mind-engage/mindengage-quiz/internal/storage"
)

func main() {
	cfg := config.FromEnv()
	log := cfg.Logger()

	// --- record store ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := recordstore.Open(ctx, cfg.StoreOptions())
	if err != nil {
		log.WithError(err).Fatal("record store open failed")
	}
	defer store.Close()

	cat := catalog.New(store, log)
	if _, err := cat.Load(ctx); err != nil {
		// degraded, not fatal: the catalog starts empty
		log.WithError(err).Warn("quiz catalog unavailable")
	}

	// --- submission notifiers ---
	var notifiers notify.Multi
	if s, ok := store.(*recordstore.SQLStore); ok {
		notifiers = append(notifiers, notify.NewEventLog(s.DB(), os.Getenv("SITE_ID")))
	}
	if cfg.AMQPURL != "" {
		mq, err := notify.DialAMQP(cfg.AMQPURL)
		if err != nil {
			log.WithError(err).Warn("amqp unavailable; submissions will not be published")
		} else {
			defer mq.Close()
			notifiers = append(notifiers, mq)
		}
	}
	var notifier ledger.Notifier
	if len(notifiers) > 0 {
		notifier = notifiers
	}
	led := ledger.New(store, notifier, log)

	// --- sessions, delivery, sweeper ---
	sessions := session.NewManager(time.Now)
	svc := delivery.New(cat, led, time.Now, log)
	sweeper, err := svc.StartSweeper(cfg.SweepSchedule, sessions, cfg.SessionTTL)
	if err != nil {
		log.WithError(err).Fatal("sweeper")
	}
	defer sweeper.Stop()

	// --- auth ---
	pw, err := auth.NewSharedPassword(cfg.QuizPassword, cfg.QuizPassHash)
	if err != nil {
		log.WithError(err).Fatal("shared password")
	}
	authSvc := authmw.NewAuthService(cfg.AuthHMACSecret, cfg.SessionTTL)

	bs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		log.WithError(err).Fatal("blob store")
	}

	r := api.NewRouter(api.Deps{
		Auth:        authSvc,
		Sessions:    sessions,
		Password:    pw,
		Catalog:     cat,
		Delivery:    svc,
		Ledger:      led,
		Generator:   quizgen.Dummy{},
		Blobs:       bs,
		Log:         log,
		CORSOrigins: cfg.CORSOrigins,
		Ready: func(ctx context.Context) error {
			if s, ok := store.(*recordstore.SQLStore); ok {
				return s.DB().PingContext(ctx)
			}
			return nil
		},
	})

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		log.WithFields(logrus.Fields{
			"addr": cfg.HTTPAddr, "mode": cfg.Mode, "store": cfg.StoreDriver,
		}).Info("listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("http server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdown, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdown); err != nil {
		log.WithError(err).Warn("shutdown")
	}
}
