package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/abhisek/assess/internal/llm"
)

// Config holds generation limits for the LLM-backed service.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the default generation limits.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   800,
		Temperature: 0.4,
	}
}

// LLMService implements Service on top of an llm.Provider.
type LLMService struct {
	provider llm.Provider
	cfg      Config
}

// NewLLMService creates an LLM-backed content service.
func NewLLMService(provider llm.Provider, cfg Config) *LLMService {
	return &LLMService{provider: provider, cfg: cfg}
}

// GenerateQuestion produces a question via the provider. An unparseable
// response gets one stricter re-prompt before the error surfaces; provider
// errors are not re-prompted here (the transport retry layer owns those).
func (s *LLMService) GenerateQuestion(ctx context.Context, req QuestionRequest) (*Question, error) {
	ctx = llm.WithPurpose(ctx, "question-gen")
	userMsg := buildQuestionMessage(req)

	q, err := s.generateQuestionOnce(ctx, questionSystemPrompt, userMsg)
	if err == nil {
		return q, nil
	}

	var invalid *llm.ErrInvalidResponse
	if !errors.As(err, &invalid) {
		return nil, err
	}

	// Stricter re-prompt on unparseable output, once.
	q, rerr := s.generateQuestionOnce(ctx, questionSystemPrompt+strictReprompt, userMsg)
	if rerr != nil {
		return nil, fmt.Errorf("re-prompt after invalid response: %w", rerr)
	}
	return q, nil
}

func (s *LLMService) generateQuestionOnce(ctx context.Context, system, userMsg string) (*Question, error) {
	resp, err := s.provider.Generate(ctx, llm.Request{
		System: system,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: userMsg},
		},
		Schema:      QuestionSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return nil, err
	}

	var q Question
	if err := json.Unmarshal(resp.Content, &q); err != nil {
		return nil, &llm.ErrInvalidResponse{Content: resp.Content, Err: err}
	}
	if err := checkQuestion(&q); err != nil {
		return nil, &llm.ErrInvalidResponse{Content: resp.Content, Err: err}
	}
	return &q, nil
}

// checkQuestion enforces cross-field constraints the JSON schema cannot
// express.
func checkQuestion(q *Question) error {
	if q.Text == "" {
		return fmt.Errorf("empty question text")
	}
	if q.CorrectAnswer == "" {
		return fmt.Errorf("empty correct answer")
	}
	switch q.Type {
	case TypeMultipleChoice:
		if len(q.Options) != 4 {
			return fmt.Errorf("multiple_choice needs 4 options, got %d", len(q.Options))
		}
	case TypeTrueFalse:
		if len(q.Options) != 2 {
			return fmt.Errorf("true_false needs 2 options, got %d", len(q.Options))
		}
	case TypeShortAnswer:
		// Options optional.
	default:
		return fmt.Errorf("unknown question type %q", q.Type)
	}
	return nil
}

// GradeAnswer grades via the provider. Called exactly once per submission;
// grading is never re-prompted because a second grade could differ from the
// first.
func (s *LLMService) GradeAnswer(ctx context.Context, q *Question, studentAnswer string) (*GradeResult, error) {
	ctx = llm.WithPurpose(ctx, "grading")

	resp, err := s.provider.Generate(ctx, llm.Request{
		System: gradeSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildGradeMessage(q, studentAnswer)},
		},
		Schema:    GradeSchema,
		MaxTokens: s.cfg.MaxTokens,
	})
	if err != nil {
		return nil, err
	}

	var result GradeResult
	if err := json.Unmarshal(resp.Content, &result); err != nil {
		return nil, &llm.ErrInvalidResponse{Content: resp.Content, Err: err}
	}
	if result.Score < 0 || result.Score > 1 {
		return nil, &llm.ErrInvalidResponse{
			Content: resp.Content,
			Err:     fmt.Errorf("score %.3f outside [0,1]", result.Score),
		}
	}
	return &result, nil
}

// GenerateStudyPlan builds a plan via the provider, then normalizes lesson
// order and week numbering so callers always see weeks 1..n ascending.
func (s *LLMService) GenerateStudyPlan(ctx context.Context, masteryMap map[string]float64, subject string, gradeLevel, topN int) (*StudyPlan, error) {
	ctx = llm.WithPurpose(ctx, "study-plan")

	resp, err := s.provider.Generate(ctx, llm.Request{
		System: studyPlanSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildStudyPlanMessage(masteryMap, subject, gradeLevel, topN)},
		},
		Schema:      StudyPlanSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return nil, err
	}

	var plan StudyPlan
	if err := json.Unmarshal(resp.Content, &plan); err != nil {
		return nil, &llm.ErrInvalidResponse{Content: resp.Content, Err: err}
	}

	for i := range plan.Lessons {
		plan.Lessons[i].Week = i + 1
	}
	return &plan, nil
}
