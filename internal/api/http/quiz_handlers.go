// internal/api/http/quiz_handlers.go
package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mind-engage/mindengage-quiz/internal/ingest"
	"github.com/mind-engage/mindengage-quiz/internal/quiz"
	"github.com/mind-engage/mindengage-quiz/internal/session"
	"github.com/mind-engage/mindengage-quiz/internal/storage"
	syncx "github.com/mind-engage/mindengage-quiz/internal/sync"
)

type uploadResponse struct {
	SessionID      string `json:"session_id"`
	TotalQuestions int    `json:"total_questions"`
	Message        string `json:"message"`
}

// UploadHandler accepts a question paper and its answer key as multipart
// fields questions_pdf and answer_key_pdf and creates a quiz session.
func UploadHandler(b *ingest.Builder, store session.Store, bs storage.BlobStore, events syncx.Recorder, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if maxBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		}
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				http.Error(w, "upload too large", http.StatusRequestEntityTooLarge)
				return
			}
			http.Error(w, "multipart form required", http.StatusBadRequest)
			return
		}

		files := map[string][]byte{}
		for _, field := range []string{"questions_pdf", "answer_key_pdf"} {
			f, hdr, err := r.FormFile(field)
			if err != nil {
				http.Error(w, field+" required", http.StatusBadRequest)
				return
			}
			if !strings.HasSuffix(strings.ToLower(hdr.Filename), ".pdf") {
				f.Close()
				http.Error(w, "Only PDF files are allowed", http.StatusBadRequest)
				return
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				http.Error(w, "read "+field+": "+err.Error(), http.StatusBadRequest)
				return
			}
			files[field] = data
		}

		s, err := b.Build(r.Context(), bytes.NewReader(files["questions_pdf"]), bytes.NewReader(files["answer_key_pdf"]))
		switch {
		case errors.Is(err, ingest.ErrNoAnswerKey):
			http.Error(w, "Answer key parsing failed", http.StatusUnprocessableEntity)
			return
		case errors.Is(err, ingest.ErrNoQuestions):
			http.Error(w, "Question parsing failed", http.StatusUnprocessableEntity)
			return
		case err != nil:
			http.Error(w, "pdf extraction failed: "+err.Error(), http.StatusInternalServerError)
			return
		}

		if bs != nil {
			for name, field := range map[string]string{"questions.pdf": "questions_pdf", "answers.pdf": "answer_key_pdf"} {
				if _, err := bs.Put(uploadKey(s.ID, name), bytes.NewReader(files[field])); err != nil {
					dropBlobs(bs, s.ID)
					http.Error(w, "store error: "+err.Error(), http.StatusInternalServerError)
					return
				}
			}
		}
		if err := store.Put(r.Context(), s); err != nil {
			dropBlobs(bs, s.ID)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		record(r, events, syncx.EventQuizCreated, s.ID, s.Summary())

		writeJSON(w, http.StatusOK, uploadResponse{
			SessionID:      s.ID,
			TotalQuestions: s.TotalQuestions,
			Message:        "Quiz ready.",
		})
	}
}

// ImportSessionHandler creates a session from questions posted as JSON,
// correct answers included.
func ImportSessionHandler(store session.Store, events syncx.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 8<<20))
		if err != nil {
			http.Error(w, "read body: "+err.Error(), http.StatusBadRequest)
			return
		}
		var req struct {
			Title     string          `json:"title"`
			Questions []quiz.Question `json:"questions"`
		}
		if err := quiz.DecodeDocument(raw, &req); err != nil {
			http.Error(w, "bad quiz document: "+err.Error(), http.StatusBadRequest)
			return
		}
		s := quiz.NewSession(uuid.NewString(), req.Questions)
		s.Title = strings.TrimSpace(req.Title)
		if err := s.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := store.Put(r.Context(), s); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		record(r, events, syncx.EventQuizCreated, s.ID, s.Summary())

		writeJSON(w, http.StatusCreated, uploadResponse{
			SessionID:      s.ID,
			TotalQuestions: s.TotalQuestions,
			Message:        "Quiz imported.",
		})
	}
}

func ListSessionsHandler(store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := parseIntDefault(r.URL.Query().Get("limit"), 50)
		offset := parseIntDefault(r.URL.Query().Get("offset"), 0)

		list, err := store.List(r.Context(), session.ListOpts{Limit: limit, Offset: offset})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if list == nil {
			list = []quiz.Summary{}
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// GetQuizHandler serves the session without correct answers.
func GetQuizHandler(store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := loadSession(w, r, store)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, s.Public())
	}
}

func DeleteSessionHandler(store session.Store, events syncx.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionID")
		if err := store.Delete(r.Context(), id); err != nil {
			sessionError(w, err)
			return
		}
		record(r, events, syncx.EventQuizDeleted, id, nil)
		w.WriteHeader(http.StatusNoContent)
	}
}

func uploadKey(sessionID, name string) string {
	return "uploads/" + sessionID + "/" + name
}

// UploadPrefix is the blob prefix holding a session's uploaded PDFs.
func UploadPrefix(sessionID string) string {
	return "uploads/" + sessionID
}

// DropSessionBlobs removes a session's uploaded PDFs and rendered figures.
func DropSessionBlobs(bs storage.BlobStore, sessionID string) error {
	return errors.Join(
		bs.DeletePrefix(UploadPrefix(sessionID)),
		bs.DeletePrefix(ingest.FigurePrefix(sessionID)),
	)
}

func dropBlobs(bs storage.BlobStore, sessionID string) {
	if bs == nil {
		return
	}
	if err := DropSessionBlobs(bs, sessionID); err != nil {
		log.Printf("drop blobs for %s: %v", sessionID, err)
	}
}

func loadSession(w http.ResponseWriter, r *http.Request, store session.Store) (quiz.Session, bool) {
	s, err := store.Get(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		sessionError(w, err)
		return quiz.Session{}, false
	}
	return s, true
}

func sessionError(w http.ResponseWriter, err error) {
	if errors.Is(err, session.ErrNotFound) {
		http.Error(w, "Quiz session not found", http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

// record appends to the event log; failures are logged, never returned.
func record(r *http.Request, events syncx.Recorder, typ, key string, data any) {
	if events == nil {
		return
	}
	if err := events.Record(r.Context(), typ, key, data); err != nil {
		log.Printf("event log %s %s: %v", typ, key, err)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
