package domain

// Difficulty controls how many correct answers a question may present.
type Difficulty string

const (
	// DifficultyNormal presents exactly one correct answer per question.
	DifficultyNormal Difficulty = "NORMAL"
	// DifficultyDifficult presents one to four correct answers (multi-select).
	DifficultyDifficult Difficulty = "DIFFICULT"
)

// Valid reports whether d is a known difficulty.
func (d Difficulty) Valid() bool {
	return d == DifficultyNormal || d == DifficultyDifficult
}

// Status is the quiz session status.
type Status string

const (
	StatusNotStarted      Status = "NOT_STARTED"
	StatusConfiguring     Status = "CONFIGURING"
	StatusAnswering       Status = "ANSWERING"
	StatusReviewingAnswer Status = "REVIEWING_ANSWER"
	StatusCompleted       Status = "COMPLETED"
)

// RawQuestion is a question record as supplied by the pool source.
type RawQuestion struct {
	Question       string   `json:"question" yaml:"question"`
	Theme          string   `json:"theme" yaml:"theme"`
	CorrectAnswers []string `json:"correctAnswers" yaml:"correctAnswers"`
	WrongAnswers   []string `json:"wrongAnswers" yaml:"wrongAnswers"`
}

// Pool is the on-disk shape of a question pool file.
type Pool struct {
	Questions []RawQuestion `json:"questions" yaml:"questions"`
}

// Answer is one option of a formatted question's slate.
type Answer struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// FormattedQuestion is a raw question sampled and shuffled for one session.
type FormattedQuestion struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Theme    string   `json:"theme"`
	Answers  []Answer `json:"answers"`
}

// UserAnswer records one submitted answer.
type UserAnswer struct {
	QuestionID string   `json:"questionId"`
	AnswerIDs  []string `json:"answerIds"`
	IsCorrect  bool     `json:"isCorrect"`
}

// Rating buckets a percentage score.
type Rating string

const (
	RatingExcellent Rating = "EXCELLENT"
	RatingGood      Rating = "GOOD"
	RatingPass      Rating = "PASS"
	RatingFail      Rating = "FAIL"
)

// Results is the end-of-session summary.
type Results struct {
	Score          int    `json:"score"`
	Total          int    `json:"total"`
	Percentage     int    `json:"percentage"`
	CorrectAnswers int    `json:"correctAnswers"`
	TotalQuestions int    `json:"totalQuestions"`
	Rating         Rating `json:"rating"`
}

// QuestionCountOptions lists the session lengths a user may pick for a pool.
// Default is zero when no option fits the pool.
type QuestionCountOptions struct {
	Options []int `json:"options"`
	Default int   `json:"defaultValue"`
}
