package ingest

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/mind-engage/mindengage-quiz/internal/quiz"
)

var (
	questionStart = regexp.MustCompile(`\n[ \t]*Q\.\s*(\d+)`)
	optionLine    = regexp.MustCompile(`\(([A-D])\)\s*([^\n]+)`)
	optionMarker  = regexp.MustCompile(`\([A-D]\)`)
)

// FigureIndex maps a 1-based page number to figure asset URLs on that page.
type FigureIndex map[int][]string

type rawQuestion struct {
	text    string
	options map[string]string
	images  []string
}

// ParseQuestions splits question paper text into questions. Pages are
// separated by form feeds; a question starts at a line beginning "Q.<n>", indentation allowed.
// Kinds and correct answers come from key; questions the key does not
// cover become single choice when they have options, integer otherwise,
// and carry no correct answer.
func ParseQuestions(text string, key map[int]KeyEntry, figs FigureIndex) ([]quiz.Question, error) {
	found := map[int]rawQuestion{}

	for i, page := range strings.Split(text, "\f") {
		page = "\n" + page
		locs := questionStart.FindAllStringSubmatchIndex(page, -1)
		for j, loc := range locs {
			n, err := strconv.Atoi(page[loc[2]:loc[3]])
			if err != nil {
				continue
			}
			end := len(page)
			if j+1 < len(locs) {
				end = locs[j+1][0]
			}
			body := page[loc[1]:end]

			var opts map[string]string
			for _, m := range optionLine.FindAllStringSubmatch(body, -1) {
				if opts == nil {
					opts = map[string]string{}
				}
				opts[m[1]] = strings.TrimSpace(m[2])
			}
			qtext := body
			if at := optionMarker.FindStringIndex(body); at != nil {
				qtext = body[:at[0]]
			}
			found[n] = rawQuestion{
				text:    strings.TrimSpace(qtext),
				options: opts,
				images:  figs[i+1],
			}
		}
	}
	if len(found) == 0 {
		return nil, ErrNoQuestions
	}

	numbers := make([]int, 0, len(found))
	for n := range found {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	out := make([]quiz.Question, 0, len(numbers))
	for _, n := range numbers {
		rq := found[n]
		q := quiz.Question{Number: n, Text: rq.text, Images: rq.images}
		if k, ok := key[n]; ok {
			q.Kind, q.Correct = k.Kind, k.Key
		} else if rq.options != nil {
			q.Kind = quiz.KindSingleChoice
		} else {
			q.Kind = quiz.KindInteger
		}
		if q.Kind.IsChoice() {
			q.Options = rq.options
		}
		out = append(out, q)
	}
	return out, nil
}
