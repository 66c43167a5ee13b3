package content

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/abhisek/assess/internal/curriculum"
	"github.com/abhisek/assess/internal/llm"
	"github.com/abhisek/assess/internal/mastery"
)

var validQuestionJSON = json.RawMessage(`{
	"question_text": "What is 3 + 4?",
	"question_type": "multiple_choice",
	"options": ["5", "6", "7", "8"],
	"correct_answer": "7"
}`)

func questionRequest() QuestionRequest {
	return QuestionRequest{
		Subject:    "Mathematics",
		GradeLevel: 4,
		Area:       curriculum.Area{ID: "math-addition", Subject: "Mathematics", Topic: "Addition"},
		Difficulty: mastery.LabelMedium,
	}
}

func TestGenerateQuestion_ParsesResponse(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: validQuestionJSON})
	svc := NewLLMService(mock, DefaultConfig())

	q, err := svc.GenerateQuestion(context.Background(), questionRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Text != "What is 3 + 4?" {
		t.Errorf("text = %q", q.Text)
	}
	if q.CorrectAnswer != "7" {
		t.Errorf("correct answer = %q, want 7", q.CorrectAnswer)
	}
	if mock.CallCount() != 1 {
		t.Errorf("calls = %d, want 1", mock.CallCount())
	}
}

func TestGenerateQuestion_RepromptsOnceOnInvalid(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(`not even json`)},
		llm.MockResponse{Content: validQuestionJSON},
	)
	svc := NewLLMService(mock, DefaultConfig())

	q, err := svc.GenerateQuestion(context.Background(), questionRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.CorrectAnswer != "7" {
		t.Errorf("correct answer = %q, want 7", q.CorrectAnswer)
	}
	if mock.CallCount() != 2 {
		t.Fatalf("calls = %d, want 2", mock.CallCount())
	}
	if !strings.Contains(mock.Calls[1].System, "IMPORTANT") {
		t.Error("second attempt did not use the stricter system prompt")
	}
}

func TestGenerateQuestion_FailsAfterSecondInvalid(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(`{}`)},
		llm.MockResponse{Content: json.RawMessage(`{}`)},
	)
	svc := NewLLMService(mock, DefaultConfig())

	_, err := svc.GenerateQuestion(context.Background(), questionRequest())
	var invalid *llm.ErrInvalidResponse
	if !errors.As(err, &invalid) {
		t.Fatalf("error = %v, want *llm.ErrInvalidResponse", err)
	}
	if mock.CallCount() != 2 {
		t.Errorf("calls = %d, want 2 (exactly one re-prompt)", mock.CallCount())
	}
}

func TestGenerateQuestion_RejectsWrongOptionCount(t *testing.T) {
	bad := json.RawMessage(`{
		"question_text": "Pick one",
		"question_type": "multiple_choice",
		"options": ["a", "b"],
		"correct_answer": "a"
	}`)
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: bad},
		llm.MockResponse{Content: validQuestionJSON},
	)
	svc := NewLLMService(mock, DefaultConfig())

	q, err := svc.GenerateQuestion(context.Background(), questionRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(q.Options) != 4 {
		t.Errorf("options = %d, want 4 after re-prompt", len(q.Options))
	}
}

func TestGenerateQuestion_ProviderErrorIsNotReprompted(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{}},
	)
	svc := NewLLMService(mock, DefaultConfig())

	_, err := svc.GenerateQuestion(context.Background(), questionRequest())
	var unavail *llm.ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("error = %v, want *llm.ErrProviderUnavailable", err)
	}
	if mock.CallCount() != 1 {
		t.Errorf("calls = %d, want 1 (transport retries are not this layer's job)", mock.CallCount())
	}
}

func TestGradeAnswer_ParsesResult(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(
		`{"is_correct": true, "score": 1.0, "feedback": "Nice work."}`,
	)})
	svc := NewLLMService(mock, DefaultConfig())

	q := &Question{Text: "2+2?", Type: TypeShortAnswer, CorrectAnswer: "4"}
	res, err := svc.GradeAnswer(context.Background(), q, "4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.IsCorrect || res.Score != 1.0 {
		t.Errorf("result = %+v, want correct with score 1.0", res)
	}
}

func TestGradeAnswer_CalledExactlyOnce(t *testing.T) {
	// Grading never re-prompts: a second grade could disagree with the first.
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(`broken`)},
		llm.MockResponse{Content: json.RawMessage(`{"is_correct": true, "score": 1.0, "feedback": ""}`)},
	)
	svc := NewLLMService(mock, DefaultConfig())

	q := &Question{Text: "2+2?", Type: TypeShortAnswer, CorrectAnswer: "4"}
	_, err := svc.GradeAnswer(context.Background(), q, "4")
	var invalid *llm.ErrInvalidResponse
	if !errors.As(err, &invalid) {
		t.Fatalf("error = %v, want *llm.ErrInvalidResponse", err)
	}
	if mock.CallCount() != 1 {
		t.Errorf("calls = %d, want 1", mock.CallCount())
	}
}

func TestGradeAnswer_RejectsOutOfRangeScore(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(
		`{"is_correct": true, "score": 1.5, "feedback": ""}`,
	)})
	svc := NewLLMService(mock, DefaultConfig())

	q := &Question{Text: "2+2?", Type: TypeShortAnswer, CorrectAnswer: "4"}
	_, err := svc.GradeAnswer(context.Background(), q, "4")
	var invalid *llm.ErrInvalidResponse
	if !errors.As(err, &invalid) {
		t.Fatalf("error = %v, want *llm.ErrInvalidResponse", err)
	}
}

func TestGenerateStudyPlan_NormalizesWeeks(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{
		"summary": "Focus on fractions first.",
		"lessons": [
			{"title": "Fractions basics", "topic": "Fractions", "suggested_duration_minutes": 20, "week": 7, "details": "Practice."},
			{"title": "Division drills", "topic": "Division", "suggested_duration_minutes": 25, "week": 3, "details": "Practice."}
		]
	}`)})
	svc := NewLLMService(mock, DefaultConfig())

	plan, err := svc.GenerateStudyPlan(context.Background(), map[string]float64{"Fractions": 0.2, "Division": 0.4}, "Mathematics", 4, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, lesson := range plan.Lessons {
		if lesson.Week != i+1 {
			t.Errorf("lesson %d week = %d, want %d", i, lesson.Week, i+1)
		}
	}
}
