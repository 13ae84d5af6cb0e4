package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"strings"

	"civics-quiz-service/internal/config"
	"civics-quiz-service/internal/domain"
	"civics-quiz-service/internal/infra/file"
	"civics-quiz-service/internal/quiz"
	"github.com/spf13/cobra"
)

type playOptions struct {
	Count      int
	Difficulty domain.Difficulty
	Seed       int64
}

// NewPlayCmd runs a single quiz session in the terminal.
func NewPlayCmd(configPath *string) *cobra.Command {
	var (
		poolFile   string
		count      int
		difficulty string
		seed       int64
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a quiz session in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if errors.Is(err, fs.ErrNotExist) {
				cfg = config.Default()
			} else if err != nil {
				return err
			}

			opts := playOptions{
				Count:      count,
				Difficulty: domain.Difficulty(strings.ToUpper(difficulty)),
				Seed:       seed,
			}
			if !opts.Difficulty.Valid() {
				return fmt.Errorf("%w: %q", domain.ErrInvalidDifficulty, difficulty)
			}
			if opts.Count <= 0 {
				opts.Count = cfg.Quiz.DefaultQuestionCount
			}
			if opts.Seed == 0 {
				opts.Seed = cfg.Quiz.Seed
			}

			pool, err := loadPlayPool(cmd.Context(), cfg, poolFile)
			if err != nil {
				return err
			}
			_, err = runPlay(cmd.InOrStdin(), cmd.OutOrStdout(), pool, opts)
			return err
		},
	}
	cmd.Flags().StringVar(&poolFile, "pool-file", "", "JSON or YAML pool file (defaults to the configured pool source)")
	cmd.Flags().IntVarP(&count, "count", "n", 0, "number of questions (defaults to quiz.defaultQuestionCount)")
	cmd.Flags().StringVarP(&difficulty, "difficulty", "d", string(domain.DifficultyNormal), "NORMAL or DIFFICULT")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed for a reproducible session")
	return cmd
}

func loadPlayPool(ctx context.Context, cfg config.Config, poolFile string) ([]domain.RawQuestion, error) {
	if poolFile != "" {
		return file.ReadPoolFile(poolFile)
	}
	loader, closeLoader, err := openPoolLoader(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer closeLoader()
	return loader.LoadPool(ctx, cfg.Quiz.Pool)
}

// runPlay drives one session from in to out and returns the final state.
// Running out of input abandons the session without error.
func runPlay(in io.Reader, out io.Writer, pool []domain.RawQuestion, opts playOptions) (quiz.State, error) {
	reducer := quiz.NewReducer(newSelector(opts.Seed), opts.Count)
	state := reducer.Apply(reducer.Initial(), quiz.SelectDifficulty{Difficulty: opts.Difficulty})
	fmt.Fprintf(out, "%s quiz, %d questions requested\n", opts.Difficulty, reducer.DefaultQuestionCount())
	state = reducer.Apply(state, quiz.StartQuiz{Pool: pool})

	scanner := bufio.NewScanner(in)
	for {
		switch state.Status {
		case domain.StatusCompleted:
			results := state.Results()
			fmt.Fprintf(out, "\nScore: %d/%d (%d%%) %s\n", results.CorrectAnswers, results.TotalQuestions, results.Percentage, results.Rating)
			return state, nil

		case domain.StatusReviewingAnswer:
			printFeedback(out, state)
			state = reducer.Apply(state, quiz.GoToNextQuestion{})

		case domain.StatusAnswering:
			question, ok := state.CurrentQuestion()
			if !ok {
				fmt.Fprintln(out, "No questions available.")
				return state, nil
			}
			printQuestion(out, state, question)

			if !scanner.Scan() {
				if err := scanner.Err(); err != nil {
					return state, err
				}
				fmt.Fprintln(out, "\nQuiz abandoned.")
				return state, nil
			}
			selection, err := parseSelection(scanner.Text(), question, state.Difficulty)
			if err != nil {
				fmt.Fprintf(out, "  %v\n", err)
				continue
			}
			state = reducer.Apply(state, quiz.SelectAnswer{AnswerIDs: selection})
			state = reducer.Apply(state, quiz.SubmitAnswer{})

		default:
			return state, fmt.Errorf("unexpected quiz status %s", state.Status)
		}
	}
}

func printQuestion(out io.Writer, state quiz.State, question domain.FormattedQuestion) {
	fmt.Fprintf(out, "\nQuestion %d/%d", state.CurrentQuestionIndex+1, state.TotalQuestions())
	if question.Theme != "" {
		fmt.Fprintf(out, " [%s]", question.Theme)
	}
	fmt.Fprintf(out, "\n%s\n", question.Question)
	for i, answer := range question.Answers {
		fmt.Fprintf(out, "  %d) %s\n", i+1, answer.Text)
	}
	if state.Difficulty == domain.DifficultyDifficult {
		fmt.Fprint(out, "Select all that apply (e.g. 1 3): ")
	} else {
		fmt.Fprint(out, "Your answer: ")
	}
}

func printFeedback(out io.Writer, state quiz.State) {
	if n := len(state.UserAnswers); n > 0 && state.UserAnswers[n-1].IsCorrect {
		fmt.Fprintln(out, "Correct!")
		return
	}
	question, ok := state.CurrentQuestion()
	if !ok {
		fmt.Fprintln(out, "Incorrect.")
		return
	}
	var correct []string
	for _, answer := range question.Answers {
		if answer.IsCorrect {
			correct = append(correct, answer.Text)
		}
	}
	fmt.Fprintf(out, "Incorrect. Correct answer: %s\n", strings.Join(correct, ", "))
}

// parseSelection maps typed option numbers to answer IDs. NORMAL replaces the
// selection with each pick, so the last number wins; DIFFICULT toggles.
func parseSelection(line string, question domain.FormattedQuestion, difficulty domain.Difficulty) ([]string, error) {
	fields := strings.FieldsFunc(line, func(r rune) bool { return r == ' ' || r == ',' || r == '\t' })
	if len(fields) == 0 {
		return nil, errors.New("pick at least one answer")
	}

	selection := []string{}
	for _, field := range fields {
		n, err := strconv.Atoi(field)
		if err != nil || n < 1 || n > len(question.Answers) {
			return nil, fmt.Errorf("%q is not an answer number between 1 and %d", field, len(question.Answers))
		}
		selection = toggleSelection(selection, question.Answers[n-1].ID, difficulty)
	}
	if len(selection) == 0 {
		return nil, errors.New("pick at least one answer")
	}
	return selection, nil
}

func toggleSelection(current []string, id string, difficulty domain.Difficulty) []string {
	if difficulty != domain.DifficultyDifficult {
		return []string{id}
	}
	out := make([]string, 0, len(current)+1)
	removed := false
	for _, existing := range current {
		if existing == id {
			removed = true
			continue
		}
		out = append(out, existing)
	}
	if !removed {
		out = append(out, id)
	}
	return out
}
