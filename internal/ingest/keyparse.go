package ingest

import (
	"bufio"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/mind-engage/mindengage-quiz/internal/quiz"
)

var (
	ErrNoAnswerKey = errors.New("answer key parsing failed")
	ErrNoQuestions = errors.New("question parsing failed")
)

// KeyEntry is one parsed row of an answer key table.
type KeyEntry struct {
	Number int
	Kind   quiz.Kind
	Key    quiz.Key
}

var (
	natRange   = regexp.MustCompile(`(?i)^([-+]?\d*\.?\d+)\s*to\s*([-+]?\d*\.?\d+)`)
	natInteger = regexp.MustCompile(`^-?\d+$`)
	cellSep    = regexp.MustCompile(`\s{2,}`)
)

// ParseKeyValue interprets one Key/Range cell. qtype is the table's type
// column: MCQ (single choice), MSQ (multiple select) or NAT (numerical).
// A NAT range whose ends are the same whole number is an integer answer.
func ParseKeyValue(raw, qtype string) (quiz.Kind, quiz.Key, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil, errors.New("empty key")
	}

	switch strings.ToUpper(strings.TrimSpace(qtype)) {
	case "MCQ":
		return quiz.KindSingleChoice, quiz.NewSingleKey(raw), nil

	case "MSQ":
		k := quiz.NewMultiKey(strings.FieldsFunc(raw, func(r rune) bool { return r == ';' || r == ',' })...)
		if len(k.Letters) == 0 {
			return "", nil, fmt.Errorf("no options in MSQ key %q", raw)
		}
		return quiz.KindMultipleChoice, k, nil

	case "NAT":
		if m := natRange.FindStringSubmatch(raw); m != nil {
			a, errA := strconv.ParseFloat(m[1], 64)
			b, errB := strconv.ParseFloat(m[2], 64)
			if errA != nil || errB != nil {
				return "", nil, fmt.Errorf("bad NAT range %q", raw)
			}
			if a == b && a == math.Trunc(a) {
				return quiz.KindInteger, quiz.IntegerKey{Value: int64(a)}, nil
			}
			return quiz.KindDecimal, quiz.NewRangeKey(a, b), nil
		}
		if natInteger.MatchString(raw) {
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return "", nil, fmt.Errorf("bad NAT integer %q: %w", raw, err)
			}
			return quiz.KindInteger, quiz.IntegerKey{Value: n}, nil
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return "", nil, fmt.Errorf("bad NAT value %q", raw)
		}
		return quiz.KindDecimal, quiz.DecimalKey{Value: f}, nil
	}
	return "", nil, fmt.Errorf("unknown question type %q", qtype)
}

type columns struct{ number, qtype, key int }

func (c columns) width() int {
	return max(c.number, c.qtype, c.key) + 1
}

// headerColumns recognises the "Q. No. | Q. Type | Key/Range" header row.
func headerColumns(cells []string) (columns, bool) {
	c := columns{-1, -1, -1}
	for i, cell := range cells {
		switch foldCell(cell) {
		case "qno", "qnum", "questionno":
			c.number = i
		case "qtype", "questiontype":
			c.qtype = i
		case "keyrange", "key", "answerkey":
			c.key = i
		}
	}
	return c, c.number >= 0 && c.qtype >= 0 && c.key >= 0
}

// foldCell lowercases s and drops spaces and punctuation, so "Q.No." and
// "Q. No" compare equal.
func foldCell(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r) {
			continue
		}
		out = append(out, unicode.ToLower(r))
	}
	return string(out)
}

// ParseAnswerKey reads an answer key laid out as a text table (columns
// separated by two or more spaces). The column layout found in a header row
// carries over to later pages that repeat the table without a header.
// Rows that cannot be parsed are skipped.
func ParseAnswerKey(text string) (map[int]KeyEntry, error) {
	out := map[int]KeyEntry{}
	var (
		cols   columns
		haveHd bool
	)
	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(strings.ReplaceAll(sc.Text(), "\f", ""))
		if line == "" {
			continue
		}
		cells := cellSep.Split(line, -1)
		if c, ok := headerColumns(cells); ok {
			cols, haveHd = c, true
			continue
		}
		if !haveHd || len(cells) < cols.width() {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(cells[cols.number]))
		if err != nil {
			continue
		}
		kind, key, err := ParseKeyValue(cells[cols.key], cells[cols.qtype])
		if err != nil {
			continue
		}
		out[n] = KeyEntry{Number: n, Kind: kind, Key: key}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read answer key: %w", err)
	}
	if len(out) == 0 {
		return nil, ErrNoAnswerKey
	}
	return out, nil
}
