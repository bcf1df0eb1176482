package grading

import (
	"math"

	"github.com/mind-engage/mindengage-quiz/internal/quiz"
)

// ScoreQuiz scores every question of a session in question order. Questions
// without a submission count as unattempted; when a question number is
// submitted more than once the last submission wins.
func (g *Grader) ScoreQuiz(sessionID string, questions []quiz.Question, subs []quiz.Submission) quiz.Result {
	answers := make(map[int]quiz.Response, len(subs))
	for _, s := range subs {
		answers[s.QuestionNumber] = s.Answer
	}

	res := quiz.Result{
		SessionID:      sessionID,
		TotalQuestions: len(questions),
		Results:        make([]quiz.QuestionResult, 0, len(questions)),
	}
	for _, q := range questions {
		resp := answers[q.Number]

		correct := false
		if !resp.Attempted() {
			res.Unattempted++
		} else if correct = g.Score(q, resp); correct {
			res.Correct++
		} else {
			res.Incorrect++
		}

		res.Results = append(res.Results, quiz.QuestionResult{
			QuestionNumber: q.Number,
			UserAnswer:     resp,
			CorrectAnswer:  q.Correct,
			IsCorrect:      correct,
			Kind:           q.Kind,
		})
	}

	res.Attempted = res.Correct + res.Incorrect
	if res.TotalQuestions > 0 {
		res.ScorePercentage = round2(float64(res.Correct) / float64(res.TotalQuestions) * 100)
	}
	return res
}

// ScoreQuiz scores a whole submission with the default rules.
func ScoreQuiz(sessionID string, questions []quiz.Question, subs []quiz.Submission) quiz.Result {
	return defaultGrader.ScoreQuiz(sessionID, questions, subs)
}

// round2 rounds halves away from zero; correct/total*100 never lands on an
// exact binary half at realistic totals, so half-even would agree.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
