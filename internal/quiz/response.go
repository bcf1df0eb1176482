package quiz

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

type shape uint8

const (
	shapeAbsent shape = iota
	shapeText
	shapeList
	shapeNumber
	shapeUnusable // well-formed JSON that no kind can interpret
)

// Response is a raw submitted answer. Its shape is not checked against the
// question kind until scoring. The zero value is an absent answer.
type Response struct {
	shape shape
	text  string
	list  []string
	num   float64
	raw   json.RawMessage
}

func NoAnswer() Response        { return Response{} }
func Text(s string) Response    { return Response{shape: shapeText, text: s} }
func Number(f float64) Response { return Response{shape: shapeNumber, num: f} }

func Choices(letters ...string) Response {
	return Response{shape: shapeList, list: append([]string{}, letters...)}
}

// IsAbsent reports whether no answer value was submitted at all.
func (r Response) IsAbsent() bool { return r.shape == shapeAbsent }

// Attempted is true when the value is non-empty after normalisation:
// blank text, an empty list and no value at all are not attempts.
func (r Response) Attempted() bool {
	switch r.shape {
	case shapeText:
		return strings.TrimSpace(r.text) != ""
	case shapeList:
		return len(letterSet(r.list)) > 0
	case shapeNumber, shapeUnusable:
		return true
	}
	return false
}

// Letter reads the response as exactly one option letter. A list must hold
// exactly one entry; repeated or blank extra entries disqualify it.
func (r Response) Letter() (string, bool) {
	var l string
	switch r.shape {
	case shapeText:
		l = normLetter(r.text)
	case shapeList:
		if len(r.list) == 1 {
			l = normLetter(r.list[0])
		}
	}
	if l != "" {
		return l, true
	}
	return "", false
}

// Letters reads the response as a set of option letters, sorted.
func (r Response) Letters() ([]string, bool) {
	switch r.shape {
	case shapeText:
		if l := normLetter(r.text); l != "" {
			return []string{l}, true
		}
	case shapeList:
		if s := letterSet(r.list); len(s) > 0 {
			return s.sorted(), true
		}
	}
	return nil, false
}

// Float reads the response as a finite number.
func (r Response) Float() (float64, bool) {
	var f float64
	switch r.shape {
	case shapeNumber:
		f = r.num
	case shapeText:
		v, err := strconv.ParseFloat(strings.TrimSpace(r.text), 64)
		if err != nil {
			return 0, false
		}
		f = v
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func (r Response) String() string {
	switch r.shape {
	case shapeText:
		return r.text
	case shapeList:
		return strings.Join(r.list, ";")
	case shapeNumber:
		return formatFloat(r.num)
	case shapeUnusable:
		return string(r.raw)
	}
	return ""
}

func (r Response) MarshalJSON() ([]byte, error) {
	switch r.shape {
	case shapeText:
		return json.Marshal(r.text)
	case shapeList:
		return json.Marshal(nonNil(r.list))
	case shapeNumber:
		return json.Marshal(r.num)
	case shapeUnusable:
		return r.raw, nil
	}
	return []byte("null"), nil
}

func (r *Response) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*r = Response{}
		return nil
	}
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case string:
		*r = Text(t)
	case float64:
		*r = Number(t)
	case []interface{}:
		if ls, ok := stringList(t); ok {
			*r = Choices(ls...)
			return nil
		}
		*r = Response{shape: shapeUnusable, raw: append(json.RawMessage{}, b...)}
	default:
		*r = Response{shape: shapeUnusable, raw: append(json.RawMessage{}, b...)}
	}
	return nil
}
