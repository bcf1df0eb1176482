package quiz

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Key is the typed correct answer of a question. The variant set is closed:
// SingleKey, MultiKey, IntegerKey, DecimalKey and RangeKey.
type Key interface {
	// Kind is the kind the variant naturally belongs to.
	Kind() Kind
	String() string
	isKey()
}

type SingleKey struct{ Letter string }

type MultiKey struct{ Letters []string }

type IntegerKey struct{ Value int64 }

type DecimalKey struct{ Value float64 }

// RangeKey accepts any value in [Min, Max], both ends inclusive.
type RangeKey struct{ Min, Max float64 }

func NewSingleKey(letter string) SingleKey {
	return SingleKey{Letter: normLetter(letter)}
}

// NewMultiKey uppercases, de-duplicates and sorts the letters.
func NewMultiKey(letters ...string) MultiKey {
	return MultiKey{Letters: letterSet(letters).sorted()}
}

func NewRangeKey(a, b float64) RangeKey {
	if a > b {
		a, b = b, a
	}
	return RangeKey{Min: a, Max: b}
}

func (SingleKey) isKey()  {}
func (MultiKey) isKey()   {}
func (IntegerKey) isKey() {}
func (DecimalKey) isKey() {}
func (RangeKey) isKey()   {}

func (SingleKey) Kind() Kind  { return KindSingleChoice }
func (MultiKey) Kind() Kind   { return KindMultipleChoice }
func (IntegerKey) Kind() Kind { return KindInteger }
func (DecimalKey) Kind() Kind { return KindDecimal }
func (RangeKey) Kind() Kind   { return KindDecimal }

func (k SingleKey) String() string  { return k.Letter }
func (k MultiKey) String() string   { return strings.Join(k.Letters, ";") }
func (k IntegerKey) String() string { return strconv.FormatInt(k.Value, 10) }
func (k DecimalKey) String() string { return formatFloat(k.Value) }
func (k RangeKey) String() string {
	return formatFloat(k.Min) + " to " + formatFloat(k.Max)
}

func (k SingleKey) MarshalJSON() ([]byte, error)  { return json.Marshal(k.Letter) }
func (k MultiKey) MarshalJSON() ([]byte, error)   { return json.Marshal(nonNil(k.Letters)) }
func (k IntegerKey) MarshalJSON() ([]byte, error) { return json.Marshal(k.Value) }
func (k DecimalKey) MarshalJSON() ([]byte, error) { return json.Marshal(k.Value) }
func (k RangeKey) MarshalJSON() ([]byte, error)   { return json.Marshal([2]float64{k.Min, k.Max}) }

// DecodeKey reads a correct answer in its wire shape for the given kind.
// JSON null (or no value) yields a nil Key.
func DecodeKey(kind Kind, raw json.RawMessage) (Key, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	var v interface{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("correct_answer: %w", err)
	}

	switch kind {
	case KindSingleChoice:
		switch t := v.(type) {
		case string:
			return NewSingleKey(t), nil
		case []interface{}:
			if ls, ok := stringList(t); ok && len(ls) == 1 {
				return NewSingleKey(ls[0]), nil
			}
		}
	case KindMultipleChoice:
		switch t := v.(type) {
		case string:
			return NewMultiKey(splitLetters(t)...), nil
		case []interface{}:
			if ls, ok := stringList(t); ok && len(ls) > 0 {
				return NewMultiKey(ls...), nil
			}
		}
	case KindInteger:
		if f, ok := numberOf(v); ok && !math.IsInf(f, 0) && !math.IsNaN(f) {
			return IntegerKey{Value: int64(math.Trunc(f))}, nil
		}
	case KindDecimal:
		if t, ok := v.([]interface{}); ok && len(t) == 2 {
			lo, okLo := numberOf(t[0])
			hi, okHi := numberOf(t[1])
			if okLo && okHi {
				return NewRangeKey(lo, hi), nil
			}
			break
		}
		if f, ok := numberOf(v); ok {
			return DecimalKey{Value: f}, nil
		}
	default:
		return nil, fmt.Errorf("unknown question type %q", kind)
	}
	return nil, fmt.Errorf("correct_answer %s does not fit question type %s", raw, kind)
}

type questionWire struct {
	Number  int               `json:"number"`
	Text    string            `json:"text"`
	Kind    Kind              `json:"question_type"`
	Options map[string]string `json:"options,omitempty"`
	Correct json.RawMessage   `json:"correct_answer"`
	Images  []string          `json:"images,omitempty"`
}

func (q *Question) UnmarshalJSON(b []byte) error {
	var w questionWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	kind, err := ParseKind(string(w.Kind))
	if err != nil {
		return fmt.Errorf("question %d: %w", w.Number, err)
	}
	key, err := DecodeKey(kind, w.Correct)
	if err != nil {
		return fmt.Errorf("question %d: %w", w.Number, err)
	}
	*q = Question{
		Number:  w.Number,
		Text:    w.Text,
		Kind:    kind,
		Options: w.Options,
		Correct: key,
		Images:  w.Images,
	}
	return nil
}

func (r *QuestionResult) UnmarshalJSON(b []byte) error {
	var w struct {
		QuestionNumber int             `json:"question_number"`
		UserAnswer     Response        `json:"user_answer"`
		CorrectAnswer  json.RawMessage `json:"correct_answer"`
		IsCorrect      bool            `json:"is_correct"`
		Kind           Kind            `json:"question_type"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	key, err := DecodeKey(w.Kind, w.CorrectAnswer)
	if err != nil {
		return fmt.Errorf("result %d: %w", w.QuestionNumber, err)
	}
	*r = QuestionResult{
		QuestionNumber: w.QuestionNumber,
		UserAnswer:     w.UserAnswer,
		CorrectAnswer:  key,
		IsCorrect:      w.IsCorrect,
		Kind:           w.Kind,
	}
	return nil
}

// helpers

func numberOf(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case float64:
		return t, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	}
	return 0, false
}

func stringList(arr []interface{}) ([]string, bool) {
	out := make([]string, 0, len(arr))
	for _, e := range arr {
		s, ok := e.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

func splitLetters(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == ';' || r == ',' })
}

func normLetter(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

type set map[string]struct{}

// letterSet normalises letters and drops blank entries.
func letterSet(letters []string) set {
	m := make(set, len(letters))
	for _, l := range letters {
		if n := normLetter(l); n != "" {
			m[n] = struct{}{}
		}
	}
	return m
}

func (s set) sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
