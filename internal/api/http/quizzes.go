package http

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	authmw "github.com/mind-engage/mindengage-quiz/internal/auth/middleware"
	"github.com/mind-engage/mindengage-quiz/internal/catalog"
	"github.com/mind-engage/mindengage-quiz/internal/delivery"
	"github.com/mind-engage/mindengage-quiz/internal/quiz"
	"github.com/mind-engage/mindengage-quiz/internal/quizgen"
	"github.com/mind-engage/mindengage-quiz/internal/rbac"
	"github.com/mind-engage/mindengage-quiz/internal/storage"
)

const maxUploadBytes = 32 << 20

// GET /quizzes: admins get every quiz with its answer key, students get the
// quizzes open today with their attempt status.
func ListQuizzesHandler(cat *catalog.Catalog, svc *delivery.Service) http.HandlerFunc {
	checker := rbac.NewChecker(nil)
	return func(w http.ResponseWriter, r *http.Request) {
		if checker.Has(rbac.RoleFromContext(r.Context()), rbac.PermQuizViewAll) {
			respondJSON(w, http.StatusOK, map[string]any{"quizzes": cat.All()})
			return
		}
		sess := authmw.SessionFromContext(r.Context())
		if sess == nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"quizzes": svc.List(sess)})
	}
}

type createResp struct {
	Quiz    quiz.Quiz `json:"quiz"`
	Message string    `json:"message"`
	Warning string    `json:"warning,omitempty"`
}

// POST /quizzes accepts catalog.CreateInput as JSON, or the same fields as a
// multipart form with the source document in "file".
func CreateQuizHandler(cat *catalog.Catalog, gen quizgen.Generator, bs storage.BlobStore, now func() time.Time, log logrus.FieldLogger) http.HandlerFunc {
	log = log.WithField("component", "api")
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			in     catalog.CreateInput
			upload multipart.File
		)
		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
				http.Error(w, "bad multipart form", http.StatusBadRequest)
				return
			}
			f, h, err := r.FormFile("file")
			if err != nil {
				respondError(w, &quiz.ValidationError{Field: "file", Msg: "Please upload a file to base the quiz on."})
				return
			}
			defer f.Close()
			upload = f
			if in, err = formInput(r); err != nil {
				respondError(w, err)
				return
			}
			in.SourceFile = h.Filename
		} else if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}

		in = in.WithDefaults(now())
		q, err := cat.Create(r.Context(), in, gen)
		if err != nil {
			if quiz.IsPersistence(err) {
				respondJSON(w, http.StatusInternalServerError, errorBody{Error: "Failed to save the new quiz."})
				return
			}
			respondError(w, err)
			return
		}

		out := createResp{Quiz: q, Message: "Quiz '" + q.Title + "' generated and saved successfully!"}
		if upload != nil && bs != nil {
			key := storage.SourceKey(q.Key(), in.SourceFile)
			if _, err := bs.Put(key, upload); err != nil {
				log.WithError(err).WithField("key", key).Warn("source document not stored")
				out.Warning = "The quiz was saved but its source document could not be stored."
			}
		}
		respondJSON(w, http.StatusCreated, out)
	}
}

func formInput(r *http.Request) (catalog.CreateInput, error) {
	in := catalog.CreateInput{
		Title:     r.FormValue("title"),
		StartDate: r.FormValue("start_date"),
		StartTime: r.FormValue("start_time"),
	}
	var err error
	if in.NumQuestions, err = formInt(r, "num_questions"); err != nil {
		return in, err
	}
	if in.DurationMinutes, err = formInt(r, "duration"); err != nil {
		return in, err
	}
	return in, nil
}

func formInt(r *http.Request, field string) (int, error) {
	s := strings.TrimSpace(r.FormValue(field))
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &quiz.ValidationError{Field: field, Msg: "must be a whole number"}
	}
	return n, nil
}
