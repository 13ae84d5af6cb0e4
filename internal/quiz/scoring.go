package quiz

import "civics-quiz-service/internal/domain"

// Score thresholds (percent) for rating a finished session.
const (
	ThresholdExcellent = 90
	ThresholdGood      = 70
	ThresholdPass      = 50
)

// IsAnswerCorrect reports whether answerIDs, taken as a set, equals the set of
// correct answer IDs on question. There is no partial credit.
func IsAnswerCorrect(question *domain.FormattedQuestion, answerIDs []string) bool {
	if question == nil || len(answerIDs) == 0 {
		return false
	}

	selected := make(map[string]struct{}, len(answerIDs))
	for _, id := range answerIDs {
		selected[id] = struct{}{}
	}

	correct := 0
	for _, answer := range question.Answers {
		if !answer.IsCorrect {
			continue
		}
		if _, ok := selected[answer.ID]; !ok {
			return false
		}
		correct++
	}
	return correct > 0 && correct == len(selected)
}

// CalculateScore counts the correct user answers.
func CalculateScore(userAnswers []domain.UserAnswer) int {
	score := 0
	for _, answer := range userAnswers {
		if answer.IsCorrect {
			score++
		}
	}
	return score
}

// CalculatePercentage returns round-half-up(correct / total * 100), or 0 when
// total is not positive.
func CalculatePercentage(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*correct + total) / (2 * total)
}

// RatingFor buckets a percentage score.
func RatingFor(percentage int) domain.Rating {
	switch {
	case percentage >= ThresholdExcellent:
		return domain.RatingExcellent
	case percentage >= ThresholdGood:
		return domain.RatingGood
	case percentage >= ThresholdPass:
		return domain.RatingPass
	default:
		return domain.RatingFail
	}
}

// FormatResults builds the end-of-session summary.
func FormatResults(score, total int) domain.Results {
	percentage := CalculatePercentage(score, total)
	return domain.Results{
		Score:          score,
		Total:          total,
		Percentage:     percentage,
		CorrectAnswers: score,
		TotalQuestions: total,
		Rating:         RatingFor(percentage),
	}
}

// IsLastQuestion reports whether index points at the final question.
func IsLastQuestion(index, total int) bool {
	return index == total-1
}

// NextQuestionIndex advances index, staying put on the last question.
func NextQuestionIndex(index, total int) int {
	if IsLastQuestion(index, total) {
		return index
	}
	return index + 1
}
