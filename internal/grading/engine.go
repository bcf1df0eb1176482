package grading

import (
	"github.com/mind-engage/mindengage-quiz/internal/quiz"
)

// DefaultTolerance is the absolute margin for single-value decimal answers.
const DefaultTolerance = 0.01

// Strategy compares one raw response with a correct answer for a single kind.
// Strategies hold no per-call state and must never panic on user input.
type Strategy interface {
	Score(key quiz.Key, resp quiz.Response) bool
}

// Grader routes by question kind to the matching Strategy.
// A Grader is immutable after construction and safe for concurrent use.
type Grader struct {
	strategies map[quiz.Kind]Strategy
}

// Engine options

type Option func(*config)

type config struct {
	Tolerance        float64 // absolute tolerance for nat_decimal
	TruncateIntegers bool    // 42.9 scores as 42 for nat_integer
}

func WithTolerance(t float64) Option      { return func(c *config) { c.Tolerance = t } }
func WithIntegerTruncation(b bool) Option { return func(c *config) { c.TruncateIntegers = b } }

// NewGrader installs the built-in strategies.
func NewGrader(opts ...Option) *Grader {
	cfg := &config{
		Tolerance:        DefaultTolerance,
		TruncateIntegers: true,
	}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.Tolerance < 0 {
		cfg.Tolerance = 0
	}
	return &Grader{
		strategies: map[quiz.Kind]Strategy{
			quiz.KindSingleChoice:   singleChoiceStrategy{},
			quiz.KindMultipleChoice: multipleChoiceStrategy{},
			quiz.KindInteger:        integerStrategy{truncate: cfg.TruncateIntegers},
			quiz.KindDecimal:        decimalStrategy{tolerance: cfg.Tolerance},
		},
	}
}

// Score returns the verdict for one question. Absent answers, absent keys
// and uninterpretable input are all incorrect.
func (g *Grader) Score(q quiz.Question, resp quiz.Response) bool {
	if resp.IsAbsent() || q.Correct == nil {
		return false
	}
	s, ok := g.strategies[q.Kind]
	if !ok {
		return false
	}
	return s.Score(q.Correct, resp)
}

var defaultGrader = NewGrader()

// ScoreAnswer scores a single answer with the default rules.
func ScoreAnswer(q quiz.Question, resp quiz.Response) bool {
	return defaultGrader.Score(q, resp)
}

// --- Strategies ---

type singleChoiceStrategy struct{}

func (singleChoiceStrategy) Score(key quiz.Key, resp quiz.Response) bool {
	want, ok := keyLetter(key)
	if !ok {
		return false
	}
	got, ok := resp.Letter()
	return ok && got == want
}

// multipleChoiceStrategy is all-or-nothing: subsets and supersets score zero.
type multipleChoiceStrategy struct{}

func (multipleChoiceStrategy) Score(key quiz.Key, resp quiz.Response) bool {
	want, ok := keyLetters(key)
	if !ok {
		return false
	}
	got, ok := resp.Letters()
	if !ok || len(got) != len(want) {
		return false
	}
	for i := range want {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

// key conversions

func keyLetter(k quiz.Key) (string, bool) {
	switch t := k.(type) {
	case quiz.SingleKey:
		return t.Letter, t.Letter != ""
	case quiz.MultiKey:
		if len(t.Letters) == 1 {
			return t.Letters[0], true
		}
	}
	return "", false
}

func keyLetters(k quiz.Key) ([]string, bool) {
	switch t := k.(type) {
	case quiz.MultiKey:
		return t.Letters, len(t.Letters) > 0
	case quiz.SingleKey:
		if t.Letter != "" {
			return []string{t.Letter}, true
		}
	}
	return nil, false
}
