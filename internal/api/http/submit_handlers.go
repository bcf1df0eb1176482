package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/mindengage-quiz/internal/grading"
	"github.com/mind-engage/mindengage-quiz/internal/quiz"
	"github.com/mind-engage/mindengage-quiz/internal/session"
	syncx "github.com/mind-engage/mindengage-quiz/internal/sync"
)

// SubmitHandler scores a full set of answers. Results are never stored;
// resubmitting the same answers gives the same result.
func SubmitHandler(store session.Store, g *grading.Grader, events syncx.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := loadSession(w, r, store)
		if !ok {
			return
		}
		var sub quiz.QuizSubmission
		if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}

		res := g.ScoreQuiz(s.ID, s.Questions, sub.Answers)
		record(r, events, syncx.EventQuizSubmitted, s.ID, map[string]any{
			"attempted":        res.Attempted,
			"correct":          res.Correct,
			"score_percentage": res.ScorePercentage,
		})
		writeJSON(w, http.StatusOK, res)
	}
}

// QuestionResultHandler serves one question with its correct answer, for review.
func QuestionResultHandler(store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := strconv.Atoi(chi.URLParam(r, "questionNumber"))
		if err != nil {
			http.Error(w, "question number must be an integer", http.StatusBadRequest)
			return
		}
		s, ok := loadSession(w, r, store)
		if !ok {
			return
		}
		q, ok := s.Question(n)
		if !ok {
			http.Error(w, "Question not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, q)
	}
}

// EventsHandler lists the logged events of a session, oldest first. The
// history outlives the session itself.
func EventsHandler(events syncx.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := parseIntDefault(r.URL.Query().Get("limit"), 100)
		list, err := events.List(r.Context(), chi.URLParam(r, "sessionID"), limit)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if list == nil {
			list = []syncx.Event{}
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil && v >= 0 {
		return v
	}
	return def
}
