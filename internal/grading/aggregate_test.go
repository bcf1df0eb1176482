package grading

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/mindengage-quiz/internal/quiz"
)

func fiveQuestions() []quiz.Question {
	return []quiz.Question{
		{Number: 1, Kind: quiz.KindSingleChoice, Correct: quiz.NewSingleKey("A")},
		{Number: 2, Kind: quiz.KindMultipleChoice, Correct: quiz.NewMultiKey("A", "C")},
		{Number: 3, Kind: quiz.KindInteger, Correct: quiz.IntegerKey{Value: 42}},
		{Number: 4, Kind: quiz.KindDecimal, Correct: quiz.DecimalKey{Value: 3.14}},
		{Number: 5, Kind: quiz.KindDecimal, Correct: quiz.NewRangeKey(2, 2.5)},
	}
}

func TestScoreQuizTally(t *testing.T) {
	subs := []quiz.Submission{
		{QuestionNumber: 1, Answer: quiz.Text("a")},
		{QuestionNumber: 2, Answer: quiz.Choices("C", "A")},
		{QuestionNumber: 3, Answer: quiz.Number(41)},
		{QuestionNumber: 4, Answer: quiz.Text("   ")},
	}

	res := ScoreQuiz("s-1", fiveQuestions(), subs)

	assert.Equal(t, "s-1", res.SessionID)
	assert.Equal(t, 5, res.TotalQuestions)
	assert.Equal(t, 3, res.Attempted)
	assert.Equal(t, 2, res.Correct)
	assert.Equal(t, 1, res.Incorrect)
	assert.Equal(t, 2, res.Unattempted)
	assert.Equal(t, 40.0, res.ScorePercentage)

	require.Len(t, res.Results, 5)
	for i, r := range res.Results {
		assert.Equal(t, i+1, r.QuestionNumber)
	}
	assert.True(t, res.Results[0].IsCorrect)
	assert.False(t, res.Results[2].IsCorrect)
	assert.False(t, res.Results[3].IsCorrect)
	assert.True(t, res.Results[4].UserAnswer.IsAbsent())
	assert.Equal(t, quiz.KindDecimal, res.Results[4].Kind)
}

func TestScoreQuizCountsAddUp(t *testing.T) {
	subs := []quiz.Submission{
		{QuestionNumber: 2, Answer: quiz.Choices()},
		{QuestionNumber: 3, Answer: quiz.Text("abc")},
		{QuestionNumber: 5, Answer: quiz.Number(2.2)},
		{QuestionNumber: 99, Answer: quiz.Text("A")},
	}
	res := ScoreQuiz("s", fiveQuestions(), subs)
	assert.Equal(t, res.Correct+res.Incorrect, res.Attempted)
	assert.Equal(t, res.TotalQuestions, res.Attempted+res.Unattempted)
	assert.Equal(t, 1, res.Correct)
	assert.Equal(t, 1, res.Incorrect)
}

func TestScoreQuizLastSubmissionWins(t *testing.T) {
	subs := []quiz.Submission{
		{QuestionNumber: 1, Answer: quiz.Text("B")},
		{QuestionNumber: 1, Answer: quiz.Text("A")},
	}
	res := ScoreQuiz("s", fiveQuestions()[:1], subs)
	assert.Equal(t, 1, res.Correct)
	assert.Equal(t, "A", res.Results[0].UserAnswer.String())
}

func TestScoreQuizFollowsQuestionOrder(t *testing.T) {
	qs := []quiz.Question{
		{Number: 9, Kind: quiz.KindInteger, Correct: quiz.IntegerKey{Value: 1}},
		{Number: 3, Kind: quiz.KindInteger, Correct: quiz.IntegerKey{Value: 2}},
	}
	subs := []quiz.Submission{
		{QuestionNumber: 3, Answer: quiz.Number(2)},
		{QuestionNumber: 9, Answer: quiz.Number(1)},
	}
	res := ScoreQuiz("s", qs, subs)
	require.Len(t, res.Results, 2)
	assert.Equal(t, 9, res.Results[0].QuestionNumber)
	assert.Equal(t, 3, res.Results[1].QuestionNumber)
}

func TestScoreQuizEmpty(t *testing.T) {
	res := ScoreQuiz("empty", nil, []quiz.Submission{{QuestionNumber: 1, Answer: quiz.Text("A")}})
	assert.Equal(t, 0, res.TotalQuestions)
	assert.Equal(t, 0.0, res.ScorePercentage)
	assert.Empty(t, res.Results)
}

func TestScoreQuizRounding(t *testing.T) {
	qs := fiveQuestions()[:3]
	subs := []quiz.Submission{{QuestionNumber: 1, Answer: quiz.Text("A")}}
	res := ScoreQuiz("s", qs, subs)
	assert.Equal(t, 33.33, res.ScorePercentage)
}

func TestScoreQuizMissingKeyCountsIncorrect(t *testing.T) {
	qs := []quiz.Question{{Number: 1, Kind: quiz.KindSingleChoice}}
	res := ScoreQuiz("s", qs, []quiz.Submission{{QuestionNumber: 1, Answer: quiz.Text("A")}})
	assert.Equal(t, 1, res.Incorrect)
	assert.Equal(t, 0, res.Correct)
}

func TestScoreQuizIdempotent(t *testing.T) {
	qs := fiveQuestions()
	subs := []quiz.Submission{
		{QuestionNumber: 2, Answer: quiz.Choices("c", "a")},
		{QuestionNumber: 4, Answer: quiz.Text("3.15")},
	}
	a, err := json.Marshal(ScoreQuiz("s", qs, subs))
	require.NoError(t, err)
	b, err := json.Marshal(ScoreQuiz("s", qs, subs))
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))

	// inputs are left untouched
	assert.Equal(t, []string{"A", "C"}, qs[1].Correct.(quiz.MultiKey).Letters)
	assert.Equal(t, `["c","a"]`, mustJSON(t, subs[0].Answer))
}

func mustJSON(t *testing.T, v interface{}) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{100.0 / 3, 33.33},
		{200.0 / 3, 66.67},
		{100.0 / 8, 12.5},
		{7.0 / 65 * 100, 10.77},
		{2.675, 2.67}, // stored just below the half
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, round2(tt.in), "round2(%v)", tt.in)
	}
}
