package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/assess/internal/assessment"
	"github.com/abhisek/assess/internal/content"
	"github.com/abhisek/assess/internal/curriculum"
	"github.com/abhisek/assess/internal/llm"
	"github.com/abhisek/assess/internal/mastery"
	"github.com/abhisek/assess/internal/store"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an interactive assessment session",
	RunE:  runAssessment,
}

func init() {
	runCmd.Flags().StringP("student", "s", "", "Student identifier (required)")
	runCmd.Flags().String("subject", "Math", "Subject to assess")
	runCmd.Flags().IntP("grade", "g", 4, "Grade level")
	runCmd.Flags().StringP("type", "t", string(assessment.TypeDiagnostic), "Assessment type: diagnostic, progress or final")
	runCmd.Flags().IntP("questions", "n", assessment.DefaultMaxQuestions, "Number of questions in the session")
	runCmd.Flags().String("curriculum", "", "Path to a curriculum JSON file (default: built-in)")
	runCmd.Flags().String("provider", "", "LLM provider: anthropic, openai, gemini or mock (default: auto-detect)")
	_ = runCmd.MarkFlagRequired("student")
}

func runAssessment(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	student, _ := cmd.Flags().GetString("student")
	subject, _ := cmd.Flags().GetString("subject")
	grade, _ := cmd.Flags().GetInt("grade")
	typeFlag, _ := cmd.Flags().GetString("type")
	questions, _ := cmd.Flags().GetInt("questions")
	curriculumPath, _ := cmd.Flags().GetString("curriculum")

	log, err := newLogger(cmd)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	graph, err := loadCurriculum(curriculumPath)
	if err != nil {
		return err
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer st.Close()

	contentSvc, err := buildContentService(ctx, cmd, st)
	if err != nil {
		return err
	}

	svc := assessment.NewService(graph, st, contentSvc, mastery.DefaultConfig(),
		assessment.WithLogger(log),
		assessment.WithMaxQuestions(questions))

	sess, item, err := svc.Start(ctx, assessment.StartInput{
		StudentID:  student,
		Subject:    subject,
		GradeLevel: grade,
		Type:       assessment.Type(typeFlag),
	})
	if err != nil {
		return fmt.Errorf("start assessment: %w", err)
	}

	fmt.Printf("Assessment %s for %s (%s, grade %d)\n", sess.ID, student, subject, grade)
	fmt.Println("Type your answer and press Enter. Type 'quit' to abandon.")

	reader := bufio.NewReader(os.Stdin)
	for item != nil {
		printQuestion(item)
		started := time.Now()

		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("read answer: %w", err)
		}
		answer := strings.TrimSpace(line)
		if answer == "quit" {
			if _, err := svc.Abandon(ctx, sess.ID); err != nil {
				return err
			}
			fmt.Println("Assessment abandoned.")
			return nil
		}
		answer = expandChoice(item, answer)

		res, err := svc.SubmitAnswer(ctx, sess.ID, item.ID, answer, int(time.Since(started).Seconds()))
		if err != nil {
			var genErr *assessment.ErrQuestionGeneration
			if res != nil && errors.As(err, &genErr) {
				// The answer is recorded; only the next question failed.
				printFeedback(res.Item)
				fmt.Fprintln(os.Stderr, "could not generate the next question, retrying...")
				next, retryErr := svc.NextQuestion(ctx, sess.ID)
				if retryErr != nil {
					return fmt.Errorf("next question: %w", retryErr)
				}
				item = next
				continue
			}
			return fmt.Errorf("submit answer: %w", err)
		}

		printFeedback(res.Item)
		item = res.NextItem
	}

	final, err := svc.Complete(ctx, sess.ID)
	if err != nil {
		return fmt.Errorf("complete assessment: %w", err)
	}
	printResult(final)
	return nil
}

// loadCurriculum loads the curriculum file, or the built-in one when no path
// is given.
func loadCurriculum(path string) (*curriculum.Graph, error) {
	if path == "" {
		return curriculum.Seed(), nil
	}
	graph, err := curriculum.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load curriculum: %w", err)
	}
	return graph, nil
}

// buildContentService wires the LLM provider stack behind the content
// service, falling back to the deterministic mock when no provider is
// configured.
func buildContentService(ctx context.Context, cmd *cobra.Command, st *store.Store) (content.Service, error) {
	cfg := llm.ConfigFromEnv()
	if p, _ := cmd.Flags().GetString("provider"); p != "" {
		cfg.Provider = p
	} else if cfg.Provider == "mock" {
		if discovered, ok := llm.DiscoverConfig(); ok {
			cfg = discovered
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Provider == "mock" {
		fmt.Fprintln(os.Stderr, "no LLM provider configured, using built-in question bank")
		return content.NewMock(), nil
	}

	provider, err := llm.NewProvider(ctx, cfg, st.Events())
	if err != nil {
		return nil, fmt.Errorf("init LLM provider: %w", err)
	}
	return content.NewLLMService(provider, content.DefaultConfig()), nil
}

func printQuestion(item *assessment.Item) {
	q := item.Question
	fmt.Printf("\nQ%d [%s, %s]\n%s\n", item.Number, item.AreaID, item.Difficulty, q.Text)
	if q.Type == content.TypeMultipleChoice {
		for i, opt := range q.Options {
			fmt.Printf("  %c) %s\n", 'a'+i, opt)
		}
	}
	fmt.Print("> ")
}

// expandChoice maps a single-letter answer to the option text for
// multiple-choice questions.
func expandChoice(item *assessment.Item, answer string) string {
	if item.Question.Type != content.TypeMultipleChoice || len(answer) != 1 {
		return answer
	}
	idx := int(answer[0] - 'a')
	if idx < 0 || idx >= len(item.Question.Options) {
		return answer
	}
	return item.Question.Options[idx]
}

func printFeedback(item *assessment.Item) {
	if item.IsCorrect != nil && *item.IsCorrect {
		fmt.Println("Correct!")
	} else {
		fmt.Println("Incorrect.")
	}
	if item.Feedback != nil && *item.Feedback != "" {
		fmt.Println(*item.Feedback)
	}
}

func printResult(sess *assessment.Session) {
	fmt.Printf("\nAssessment complete: %d questions answered.\n", sess.QuestionsAnswered)
	if sess.OverallScore != nil {
		fmt.Printf("Overall score: %.1f\n", *sess.OverallScore)
	}
	if sess.Recommendations == nil {
		return
	}
	plan := sess.Recommendations
	fmt.Printf("\nStudy plan: %s\n", plan.Summary)
	for _, lesson := range plan.Lessons {
		fmt.Printf("  Week %d: %s (%s, %d min)\n",
			lesson.Week, lesson.Title, lesson.Topic, lesson.SuggestedDurationMins)
	}
}
