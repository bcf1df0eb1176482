package quiz

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" MCQ_Single ")
	require.NoError(t, err)
	assert.Equal(t, KindSingleChoice, k)

	_, err = ParseKind("essay")
	assert.Error(t, err)
}

func TestQuestionJSONRoundTripShapes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Key
		wire string
	}{
		{"single", `{"number":1,"text":"t","question_type":"mcq_single","correct_answer":"b"}`, SingleKey{Letter: "B"}, `"B"`},
		{"multi list", `{"number":2,"text":"t","question_type":"mcq_multiple","correct_answer":["c","A","c"]}`, MultiKey{Letters: []string{"A", "C"}}, `["A","C"]`},
		{"multi text", `{"number":3,"text":"t","question_type":"mcq_multiple","correct_answer":"A;D"}`, MultiKey{Letters: []string{"A", "D"}}, `["A","D"]`},
		{"integer", `{"number":4,"text":"t","question_type":"nat_integer","correct_answer":42}`, IntegerKey{Value: 42}, `42`},
		{"decimal", `{"number":5,"text":"t","question_type":"nat_decimal","correct_answer":3.14}`, DecimalKey{Value: 3.14}, `3.14`},
		{"range", `{"number":6,"text":"t","question_type":"nat_decimal","correct_answer":[2.5,2.0]}`, RangeKey{Min: 2, Max: 2.5}, `[2,2.5]`},
		{"absent", `{"number":7,"text":"t","question_type":"nat_decimal","correct_answer":null}`, nil, `null`},
		{"missing", `{"number":8,"text":"t","question_type":"mcq_single"}`, nil, `null`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var q Question
			require.NoError(t, json.Unmarshal([]byte(tt.in), &q))
			assert.Equal(t, tt.want, q.Correct)

			out, err := json.Marshal(q)
			require.NoError(t, err)
			var back map[string]json.RawMessage
			require.NoError(t, json.Unmarshal(out, &back))
			assert.JSONEq(t, tt.wire, string(back["correct_answer"]))
		})
	}
}

func TestQuestionJSONRejectsMismatchedKey(t *testing.T) {
	var q Question
	err := json.Unmarshal([]byte(`{"number":1,"question_type":"nat_integer","correct_answer":["A"]}`), &q)
	assert.Error(t, err)

	err = json.Unmarshal([]byte(`{"number":1,"question_type":"essay"}`), &q)
	assert.Error(t, err)
}

func TestResponseDecode(t *testing.T) {
	var sub QuizSubmission
	body := `{"answers":[
		{"question_number":1,"answer":"a"},
		{"question_number":2,"answer":["A","c"]},
		{"question_number":3,"answer":42.5},
		{"question_number":4,"answer":null},
		{"question_number":5},
		{"question_number":6,"answer":{"x":1}},
		{"question_number":7,"answer":[1,2]}
	]}`
	require.NoError(t, json.Unmarshal([]byte(body), &sub))
	require.Len(t, sub.Answers, 7)

	l, ok := sub.Answers[0].Answer.Letter()
	assert.True(t, ok)
	assert.Equal(t, "A", l)

	ls, ok := sub.Answers[1].Answer.Letters()
	assert.True(t, ok)
	assert.Equal(t, []string{"A", "C"}, ls)

	f, ok := sub.Answers[2].Answer.Float()
	assert.True(t, ok)
	assert.Equal(t, 42.5, f)

	assert.True(t, sub.Answers[3].Answer.IsAbsent())
	assert.True(t, sub.Answers[4].Answer.IsAbsent())

	for _, i := range []int{5, 6} {
		r := sub.Answers[i].Answer
		assert.True(t, r.Attempted())
		_, ok := r.Letter()
		assert.False(t, ok)
		_, ok = r.Float()
		assert.False(t, ok)
	}

	out, err := json.Marshal(sub)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"answer":{"x":1}`)
	assert.Contains(t, string(out), `"answer":["A","c"]`)
}

func TestResponseAttempted(t *testing.T) {
	tests := []struct {
		name string
		r    Response
		want bool
	}{
		{"absent", NoAnswer(), false},
		{"empty text", Text(""), false},
		{"blank text", Text("  \t"), false},
		{"empty list", Choices(), false},
		{"blank list", Choices(" ", ""), false},
		{"letter", Text("A"), true},
		{"list", Choices("B"), true},
		{"zero", Number(0), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.r.Attempted())
		})
	}
}

func TestSessionValidateAndPublic(t *testing.T) {
	s := NewSession("abc", []Question{
		{Number: 1, Kind: KindSingleChoice, Options: map[string]string{"A": "x", "B": "y"}, Correct: NewSingleKey("A")},
		{Number: 2, Kind: KindInteger, Correct: IntegerKey{Value: 3}},
	})
	require.NoError(t, s.Validate())
	assert.Equal(t, 2, s.TotalQuestions)

	out, err := json.Marshal(s.Public())
	require.NoError(t, err)
	assert.NotContains(t, string(out), "correct_answer")

	q, ok := s.Question(2)
	assert.True(t, ok)
	assert.Equal(t, IntegerKey{Value: 3}, q.Correct)
	_, ok = s.Question(3)
	assert.False(t, ok)

	s.Questions = append(s.Questions, Question{Number: 1, Kind: KindDecimal})
	assert.ErrorIs(t, s.Validate(), ErrDuplicateQuestion)
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "A;C", NewMultiKey("c", "a").String())
	assert.Equal(t, "1.5 to 2", NewRangeKey(2, 1.5).String())
	assert.Equal(t, "-7", IntegerKey{Value: -7}.String())
}
