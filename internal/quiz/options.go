package quiz

import (
	"fmt"
	"slices"

	"civics-quiz-service/internal/domain"
)

// DefaultQuestionCountOptions are the session lengths offered when none are configured.
var DefaultQuestionCountOptions = []int{10, 20, 40, 80}

// AvailableQuestionCountOptions keeps the options that fit a pool of poolSize
// questions. The default is DefaultQuestionCount when available, otherwise the
// first remaining option, otherwise zero. A nil options slice means
// DefaultQuestionCountOptions.
func AvailableQuestionCountOptions(poolSize int, options []int) (domain.QuestionCountOptions, error) {
	return availableQuestionCountOptions(poolSize, options, DefaultQuestionCount)
}

func availableQuestionCountOptions(poolSize int, options []int, preferred int) (domain.QuestionCountOptions, error) {
	if poolSize <= 0 {
		return domain.QuestionCountOptions{}, fmt.Errorf("%w: got %d", domain.ErrInvalidPoolSize, poolSize)
	}
	if options == nil {
		options = DefaultQuestionCountOptions
	}
	for _, value := range options {
		if value <= 0 {
			return domain.QuestionCountOptions{}, fmt.Errorf("%w: got %d", domain.ErrInvalidQuestionCountOptions, value)
		}
	}

	available := make([]int, 0, len(options))
	for _, value := range options {
		if value <= poolSize {
			available = append(available, value)
		}
	}

	result := domain.QuestionCountOptions{Options: available}
	switch {
	case slices.Contains(available, preferred):
		result.Default = preferred
	case len(available) > 0:
		result.Default = available[0]
	}
	return result, nil
}
