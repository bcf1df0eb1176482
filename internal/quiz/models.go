package quiz

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Kind decides how a question's answer is compared.
type Kind string

const (
	KindSingleChoice   Kind = "mcq_single"
	KindMultipleChoice Kind = "mcq_multiple"
	KindInteger        Kind = "nat_integer"
	KindDecimal        Kind = "nat_decimal"
)

// Kinds lists every supported kind in a stable order.
var Kinds = []Kind{KindSingleChoice, KindMultipleChoice, KindInteger, KindDecimal}

func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case KindSingleChoice, KindMultipleChoice, KindInteger, KindDecimal:
		return k, nil
	}
	return "", fmt.Errorf("unknown question type %q", s)
}

// IsChoice reports whether options are meaningful for the kind.
func (k Kind) IsChoice() bool {
	return k == KindSingleChoice || k == KindMultipleChoice
}

// Label is the human readable name shown in the UI and CLI output.
func (k Kind) Label() string {
	switch k {
	case KindSingleChoice:
		return "MCQ (Single Correct)"
	case KindMultipleChoice:
		return "MCQ (Multiple Correct)"
	case KindInteger:
		return "Numerical Answer Type (Integer)"
	case KindDecimal:
		return "Numerical Answer Type (Decimal)"
	}
	return "Unknown"
}

// Question is immutable once extracted. Correct is nil when the answer key
// had no usable entry for the question.
type Question struct {
	Number  int               `json:"number"`
	Text    string            `json:"text"`
	Kind    Kind              `json:"question_type"`
	Options map[string]string `json:"options,omitempty"` // letter -> text, choice kinds only
	Correct Key               `json:"correct_answer"`
	Images  []string          `json:"images,omitempty"` // asset URLs
}

// Public returns the question as served before submission.
func (q Question) Public() PublicQuestion {
	return PublicQuestion{
		Number:  q.Number,
		Text:    q.Text,
		Kind:    q.Kind,
		Options: q.Options,
		Images:  q.Images,
	}
}

// PublicQuestion is a Question without its correct answer.
type PublicQuestion struct {
	Number  int               `json:"number"`
	Text    string            `json:"text"`
	Kind    Kind              `json:"question_type"`
	Options map[string]string `json:"options,omitempty"`
	Images  []string          `json:"images,omitempty"`
}

type Submission struct {
	QuestionNumber int      `json:"question_number"`
	Answer         Response `json:"answer"`
}

type QuizSubmission struct {
	Answers []Submission `json:"answers"`
}

type Session struct {
	ID             string     `json:"id"`
	Title          string     `json:"title,omitempty"`
	Questions      []Question `json:"questions"`
	TotalQuestions int        `json:"total_questions"`
	CreatedAt      int64      `json:"created_at,omitempty"`
}

// NewSession stamps the derived fields of a session.
func NewSession(id string, questions []Question) Session {
	return Session{
		ID:             id,
		Questions:      questions,
		TotalQuestions: len(questions),
		CreatedAt:      time.Now().Unix(),
	}
}

// Question looks up a question by its ordinal number.
func (s Session) Question(number int) (Question, bool) {
	for _, q := range s.Questions {
		if q.Number == number {
			return q, true
		}
	}
	return Question{}, false
}

var ErrDuplicateQuestion = errors.New("duplicate question number")

// Validate checks the per-session invariants.
func (s Session) Validate() error {
	seen := make(map[int]struct{}, len(s.Questions))
	for _, q := range s.Questions {
		if _, ok := seen[q.Number]; ok {
			return fmt.Errorf("%w: %d", ErrDuplicateQuestion, q.Number)
		}
		seen[q.Number] = struct{}{}
		if _, err := ParseKind(string(q.Kind)); err != nil {
			return fmt.Errorf("question %d: %w", q.Number, err)
		}
	}
	return nil
}

// PublicSession is the student facing view of a session.
type PublicSession struct {
	ID             string           `json:"id"`
	Title          string           `json:"title,omitempty"`
	Questions      []PublicQuestion `json:"questions"`
	TotalQuestions int              `json:"total_questions"`
}

func (s Session) Public() PublicSession {
	out := PublicSession{
		ID:             s.ID,
		Title:          s.Title,
		Questions:      make([]PublicQuestion, len(s.Questions)),
		TotalQuestions: s.TotalQuestions,
	}
	for i, q := range s.Questions {
		out.Questions[i] = q.Public()
	}
	return out
}

// Summary is a list row for a stored session.
type Summary struct {
	ID             string `json:"id"`
	Title          string `json:"title,omitempty"`
	TotalQuestions int    `json:"total_questions"`
	CreatedAt      int64  `json:"created_at"`
}

func (s Session) Summary() Summary {
	return Summary{ID: s.ID, Title: s.Title, TotalQuestions: s.TotalQuestions, CreatedAt: s.CreatedAt}
}

// QuestionResult is one scored row of a Result.
type QuestionResult struct {
	QuestionNumber int      `json:"question_number"`
	UserAnswer     Response `json:"user_answer"`
	CorrectAnswer  Key      `json:"correct_answer"`
	IsCorrect      bool     `json:"is_correct"`
	Kind           Kind     `json:"question_type"`
}

// Result is computed per submission and never stored.
type Result struct {
	SessionID       string           `json:"session_id"`
	TotalQuestions  int              `json:"total_questions"`
	Attempted       int              `json:"attempted"`
	Correct         int              `json:"correct"`
	Incorrect       int              `json:"incorrect"`
	Unattempted     int              `json:"unattempted"`
	ScorePercentage float64          `json:"score_percentage"`
	Results         []QuestionResult `json:"results"`
}
