package file

import (
	"errors"
	"strings"
	"testing"
)

func TestParseTSV(t *testing.T) {
	sheet := strings.Join([]string{
		"Category\tQuestion\tCorrect1\tCorrect2\tCorrect3\tCorrect4\tWrong1\tWrong2\tWrong3\tWrong4\tWrong5",
		"Congress\tHow long is a senator's term?\tSix years\t\t\t\tTwo years\tFour years\tEight years\t\t",
		"Rights\tName a First Amendment freedom.\tSpeech\tPress\t\t\tTo vote\tTo own land\tTo travel\tTo work\t",
		"",
		"\t\t\t\t\t\t\t\t\t\t",
	}, "\n")

	questions, err := ParseTSV(strings.NewReader(sheet))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(questions))
	}
	first := questions[0]
	if first.Theme != "Congress" || len(first.CorrectAnswers) != 1 || len(first.WrongAnswers) != 3 {
		t.Fatalf("unexpected first question %+v", first)
	}
	second := questions[1]
	if len(second.CorrectAnswers) != 2 || len(second.WrongAnswers) != 4 {
		t.Fatalf("unexpected second question %+v", second)
	}
}

func TestParseTSVRejectsQuestionWithoutCorrectAnswer(t *testing.T) {
	sheet := "Category\tQuestion\tCorrect1\tWrong1\n" +
		"Congress\tWho makes federal laws?\t\tThe president\n"

	_, err := ParseTSV(strings.NewReader(sheet))
	if !errors.Is(err, ErrMalformedTSV) {
		t.Fatalf("expected malformed sheet error, got %v", err)
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("expected line number in error, got %v", err)
	}
}

func TestParseTSVRequiresQuestionColumn(t *testing.T) {
	_, err := ParseTSV(strings.NewReader("Category\tCorrect1\nX\tY\n"))
	if !errors.Is(err, ErrMalformedTSV) {
		t.Fatalf("expected malformed sheet error, got %v", err)
	}
}
