package file

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"civics-quiz-service/internal/domain"
)

const (
	maxCorrectColumns = 4
	maxWrongColumns   = 5
)

// ErrMalformedTSV is returned for a question sheet that cannot be imported.
var ErrMalformedTSV = errors.New("malformed question sheet")

// ParseTSV reads a tab-separated question sheet with the header
// Category, Question, Correct1..Correct4, Wrong1..Wrong5. Empty answer cells
// are skipped.
func ParseTSV(r io.Reader) ([]domain.RawQuestion, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", ErrMalformedTSV, err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	if _, ok := columns["Question"]; !ok {
		return nil, fmt.Errorf("%w: missing Question column", ErrMalformedTSV)
	}

	cell := func(row []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	answers := func(row []string, prefix string, n int) []string {
		out := []string{}
		for i := 1; i <= n; i++ {
			if v := cell(row, prefix+strconv.Itoa(i)); v != "" {
				out = append(out, v)
			}
		}
		return out
	}

	var questions []domain.RawQuestion
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedTSV, err)
		}
		line, _ := reader.FieldPos(0)

		q := domain.RawQuestion{
			Question:       cell(row, "Question"),
			Theme:          cell(row, "Category"),
			CorrectAnswers: answers(row, "Correct", maxCorrectColumns),
			WrongAnswers:   answers(row, "Wrong", maxWrongColumns),
		}
		if q.Question == "" && len(q.CorrectAnswers) == 0 && len(q.WrongAnswers) == 0 {
			continue
		}
		if q.Question == "" {
			return nil, fmt.Errorf("%w: line %d: missing question", ErrMalformedTSV, line)
		}
		if len(q.CorrectAnswers) == 0 {
			return nil, fmt.Errorf("%w: line %d: no correct answer", ErrMalformedTSV, line)
		}
		questions = append(questions, q)
	}
	return questions, nil
}
