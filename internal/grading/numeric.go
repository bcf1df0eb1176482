package grading

import (
	"math"

	"github.com/mind-engage/mindengage-quiz/internal/quiz"
)

// floatSlack absorbs binary rounding so that 3.15 vs 3.14 stays inside a
// 0.01 band. It is far below any tolerance a key would use.
const floatSlack = 1e-9

// integerStrategy compares whole numbers. With truncate set, a decimal
// submission is cut toward zero first, so 42.9 scores against 42.
type integerStrategy struct{ truncate bool }

func (s integerStrategy) Score(key quiz.Key, resp quiz.Response) bool {
	want, ok := keyInt(key)
	if !ok {
		return false
	}
	f, ok := resp.Float()
	if !ok {
		return false
	}
	if !s.truncate && f != math.Trunc(f) {
		return false
	}
	got, ok := truncInt(f)
	return ok && got == want
}

// decimalStrategy accepts a value inside an inclusive range key, or within
// tolerance of a single-value key.
type decimalStrategy struct{ tolerance float64 }

func (s decimalStrategy) Score(key quiz.Key, resp quiz.Response) bool {
	got, ok := resp.Float()
	if !ok {
		return false
	}
	if r, ok := key.(quiz.RangeKey); ok {
		return r.Min <= got && got <= r.Max
	}
	want, ok := keyFloat(key)
	if !ok {
		return false
	}
	return math.Abs(got-want) <= s.tolerance+floatSlack
}

func keyInt(k quiz.Key) (int64, bool) {
	switch t := k.(type) {
	case quiz.IntegerKey:
		return t.Value, true
	case quiz.DecimalKey:
		return truncInt(t.Value)
	}
	return 0, false
}

func keyFloat(k quiz.Key) (float64, bool) {
	switch t := k.(type) {
	case quiz.DecimalKey:
		return t.Value, true
	case quiz.IntegerKey:
		return float64(t.Value), true
	}
	return 0, false
}

// truncInt converts toward zero, refusing values int64 cannot hold.
func truncInt(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	t := math.Trunc(f)
	if t < math.MinInt64 || t >= math.MaxInt64 {
		return 0, false
	}
	return int64(t), true
}
