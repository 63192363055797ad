package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/mind-engage/mindengage-quiz/internal/auth"
	"github.com/mind-engage/mindengage-quiz/internal/catalog"
	"github.com/mind-engage/mindengage-quiz/internal/config"
	"github.com/mind-engage/mindengage-quiz/internal/ledger"
	"github.com/mind-engage/mindengage-quiz/internal/notify"
	"github.com/mind-engage/mindengage-quiz/internal/quiz"
	"github.com/mind-engage/mindengage-quiz/internal/recordstore"
)

var (
	feedCmd   = kingpin.Command("feed", "Print the submissions feed, newest first")
	feedLimit = feedCmd.Flag("limit", "Only print this many lines (0 = all)").Default("0").Int()

	catalogCmd     = kingpin.Command("catalog", "List the quizzes in the catalog")
	catalogStudent = catalogCmd.Flag("student", "Only quizzes open to students").Bool()
	catalogToday   = catalogCmd.Flag("today", "Day to evaluate availability on (YYYY-MM-DD)").String()

	eventsCmd   = kingpin.Command("events", "Print the newest submission events from the event log (SQL stores only)")
	eventsLimit = eventsCmd.Flag("limit", "Number of events to print").Default("50").Int()

	hashCmd      = kingpin.Command("hash-password", "Print a bcrypt hash for QUIZ_PASS_HASH")
	hashPassword = hashCmd.Arg("password", "The shared password").Required().String()
)

func main() {
	kingpin.UsageTemplate(kingpin.CompactUsageTemplate).Version("0.1")
	kingpin.CommandLine.Help = "Quiz service maintenance utilities"
	cmd := kingpin.Parse()

	cfg := config.FromEnv()
	log := cfg.Logger()

	if cmd == hashCmd.FullCommand() {
		h, err := auth.HashPassword(*hashPassword)
		if err != nil {
			log.WithError(err).Fatal("hash failed")
		}
		fmt.Println(h)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	store, err := recordstore.Open(ctx, cfg.StoreOptions())
	if err != nil {
		log.WithError(err).Fatal("record store open failed")
	}
	defer store.Close()

	switch cmd {
	case feedCmd.FullCommand():
		recs, err := ledger.New(store, nil, log).Feed(ctx)
		if err != nil {
			log.WithError(err).Warn("submissions ledger partly unreadable")
		}
		if len(recs) == 0 {
			fmt.Println("No student submissions yet.")
		}
		for i, r := range recs {
			if *feedLimit > 0 && i >= *feedLimit {
				break
			}
			fmt.Println(ledger.Line(r))
		}

	case eventsCmd.FullCommand():
		s, ok := store.(*recordstore.SQLStore)
		if !ok {
			kingpin.Fatalf("events require STORE_DRIVER=sqlite or postgres")
		}
		events, err := notify.NewEventLog(s.DB(), "").Recent(ctx, *eventsLimit)
		if err != nil {
			log.WithError(err).Fatal("event log read failed")
		}
		if len(events) == 0 {
			fmt.Println("No events.")
		}
		for _, e := range events {
			fmt.Println(e.Line())
		}

	case catalogCmd.FullCommand():
		cat := catalog.New(store, log)
		if _, err := cat.Load(ctx); err != nil {
			log.WithError(err).Fatal("catalog load failed")
		}
		quizzes := cat.All()
		if *catalogStudent {
			today := time.Now()
			if *catalogToday != "" {
				if today, err = time.Parse(quiz.DateLayout, *catalogToday); err != nil {
					kingpin.Fatalf("invalid --today: %v", err)
				}
			}
			quizzes = catalog.VisibleToStudent(quizzes, today)
		}
		if len(quizzes) == 0 {
			fmt.Println("No quizzes.")
		}
		for _, q := range quizzes {
			fmt.Fprintf(os.Stdout, "%s\t%s\t%d questions\t%d min\tstarts %s %s\n",
				q.Key(), q.Title, len(q.Questions), q.DurationMinutes, q.StartDate, q.StartTime)
		}
	}
}
