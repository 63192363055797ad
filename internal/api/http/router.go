package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/mind-engage/mindengage-quiz/internal/auth"
	authmw "github.com/mind-engage/mindengage-quiz/internal/auth/middleware"
	"github.com/mind-engage/mindengage-quiz/internal/catalog"
	"github.com/mind-engage/mindengage-quiz/internal/delivery"
	"github.com/mind-engage/mindengage-quiz/internal/ledger"
	"github.com/mind-engage/mindengage-quiz/internal/quizgen"
	"github.com/mind-engage/mindengage-quiz/internal/rbac"
	"github.com/mind-engage/mindengage-quiz/internal/session"
	"github.com/mind-engage/mindengage-quiz/internal/storage"
)

type Deps struct {
	Auth      *authmw.AuthService
	Sessions  *session.Manager
	Password  *auth.SharedPassword
	Catalog   *catalog.Catalog
	Delivery  *delivery.Service
	Ledger    *ledger.Ledger
	Generator quizgen.Generator
	Blobs     storage.BlobStore
	Log       logrus.FieldLogger

	CORSOrigins       []string
	CountdownInterval time.Duration
	Ready             func(ctx context.Context) error
}

// ReloadCatalogOnLogin refreshes the catalog from the store at every login and
// reports incomplete records as a warning.
func ReloadCatalogOnLogin(cat *catalog.Catalog) auth.LoginHook {
	return func(ctx context.Context, _ *session.Session) string {
		n, err := cat.Load(ctx)
		switch {
		case err != nil:
			return "Quiz data could not be read. Starting with an empty quiz list."
		case n > 0:
			return fmt.Sprintf("%d quiz record(s) were incomplete (e.g. missing a title) and are not shown.", n)
		}
		return ""
	}
}

func NewRouter(d Deps) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, RequestLogger(d.Log), middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.With(middleware.Timeout(30*time.Second)).
		Post("/auth/login", auth.LoginHandler(d.Auth, d.Sessions, d.Password, ReloadCatalogOnLogin(d.Catalog), d.Log))

	// JWT → live session → role in context → RBAC
	r.Group(func(pr chi.Router) {
		pr.Use(authmw.JWTMiddleware(d.Auth), authmw.AttachSession(d.Sessions))

		// long-lived; no request timeout
		pr.With(rbac.Require(rbac.PermAttemptView)).
			Get("/quizzes/{quizID}/attempt/countdown", CountdownHandler(d.Delivery, d.CountdownInterval, d.CORSOrigins, d.Log))

		pr.Group(func(tr chi.Router) {
			tr.Use(middleware.Timeout(30 * time.Second))

			tr.Post("/auth/logout", auth.LogoutHandler(d.Sessions))

			tr.With(rbac.RequireAny(rbac.PermQuizViewAll, rbac.PermQuizView)).
				Get("/quizzes", ListQuizzesHandler(d.Catalog, d.Delivery))
			tr.With(rbac.Require(rbac.PermQuizCreate)).
				Post("/quizzes", CreateQuizHandler(d.Catalog, d.Generator, d.Blobs, d.Delivery.Now, d.Log))

			tr.With(rbac.Require(rbac.PermAttemptView)).
				Get("/quizzes/{quizID}/attempt", GetAttemptHandler(d.Delivery))
			tr.With(rbac.Require(rbac.PermAttemptStart)).
				Post("/quizzes/{quizID}/attempt/start", StartAttemptHandler(d.Delivery))
			tr.With(rbac.Require(rbac.PermAttemptSubmit)).
				Post("/quizzes/{quizID}/attempt/submit", SubmitAttemptHandler(d.Delivery))

			tr.With(rbac.Require(rbac.PermSubmissionsView)).
				Get("/submissions", SubmissionsHandler(d.Ledger))
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if d.Ready != nil {
			if err := d.Ready(r.Context()); err != nil {
				http.Error(w, "not ready: "+err.Error(), http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(200)
	})
	return r
}
