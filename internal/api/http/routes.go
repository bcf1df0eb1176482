package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/mindengage-quiz/internal/grading"
	"github.com/mind-engage/mindengage-quiz/internal/ingest"
	"github.com/mind-engage/mindengage-quiz/internal/session"
	"github.com/mind-engage/mindengage-quiz/internal/storage"
	syncx "github.com/mind-engage/mindengage-quiz/internal/sync"
)

// Deps are the collaborators the quiz API needs. Blobs and Events may be nil;
// without Events nothing is logged and the events route is not mounted.
type Deps struct {
	Store          session.Store
	Grader         *grading.Grader
	Builder        *ingest.Builder
	Blobs          storage.BlobStore
	Events         syncx.Log
	MaxUploadBytes int64
}

// Mount registers the quiz API under /api, the figure assets and the
// status endpoints on r.
func Mount(r chi.Router, d Deps) {
	if d.Grader == nil {
		d.Grader = grading.NewGrader()
	}

	r.Route("/api", func(ar chi.Router) {
		ar.Post("/upload", UploadHandler(d.Builder, d.Store, d.Blobs, d.Events, d.MaxUploadBytes))

		ar.Route("/quiz", func(qr chi.Router) {
			qr.Get("/", ListSessionsHandler(d.Store))
			qr.Post("/", ImportSessionHandler(d.Store, d.Events))
			qr.Get("/{sessionID}", GetQuizHandler(d.Store))
			qr.Delete("/{sessionID}", DeleteSessionHandler(d.Store, d.Events))
			qr.Post("/{sessionID}/submit", SubmitHandler(d.Store, d.Grader, d.Events))
			qr.Get("/{sessionID}/results/{questionNumber}", QuestionResultHandler(d.Store))
			if d.Events != nil {
				qr.Get("/{sessionID}/events", EventsHandler(d.Events))
			}
		})
	})

	if d.Blobs != nil {
		r.Route("/assets/"+ingest.FigureDir, func(ar chi.Router) {
			MountAssets(ar, d.Blobs, ingest.FigureDir)
		})
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Exam Quiz API", "status": "running"})
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
}
