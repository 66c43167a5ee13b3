package content

import (
	"context"
	"fmt"
	"strings"
)

// Mock is a deterministic Service for tests and offline runs. Questions,
// grades and plans depend only on the inputs, so a fixed knowledge state
// always produces the same assessment.
type Mock struct{}

// NewMock creates a deterministic content service.
func NewMock() *Mock {
	return &Mock{}
}

var mockOptions = []string{"A", "B", "C", "D"}

// GenerateQuestion returns a canned multiple-choice question. The correct
// option derives from the area ID so different areas get different answers
// without any randomness.
func (m *Mock) GenerateQuestion(_ context.Context, req QuestionRequest) (*Question, error) {
	correct := mockOptions[len(req.Area.ID)%len(mockOptions)]
	return &Question{
		Text:          fmt.Sprintf("Mock: %s (%s) - difficulty %s", req.Subject, req.Area.Label(), req.Difficulty),
		Type:          TypeMultipleChoice,
		Options:       mockOptions,
		CorrectAnswer: correct,
		Description:   fmt.Sprintf("Probes %s at %s difficulty", req.Area.Label(), req.Difficulty),
	}, nil
}

// GradeAnswer grades deterministically: exact match for multiple choice and
// true/false, a contains check for short answers.
func (m *Mock) GradeAnswer(_ context.Context, q *Question, studentAnswer string) (*GradeResult, error) {
	correct := strings.ToLower(strings.TrimSpace(q.CorrectAnswer))
	answer := strings.ToLower(strings.TrimSpace(studentAnswer))

	var isCorrect bool
	switch q.Type {
	case TypeMultipleChoice, TypeTrueFalse:
		isCorrect = answer == correct
	default:
		isCorrect = correct != "" && strings.Contains(answer, correct)
	}

	result := &GradeResult{IsCorrect: isCorrect}
	if isCorrect {
		result.Score = 1.0
		result.Feedback = "Correct!"
	} else {
		result.Feedback = "Not quite - try reviewing the method."
	}
	return result, nil
}

// GenerateStudyPlan builds a plan from the topN lowest-mastery topics,
// ascending by mastery, with week numbers from 1 and 20-minute lessons.
func (m *Mock) GenerateStudyPlan(_ context.Context, masteryMap map[string]float64, subject string, gradeLevel, topN int) (*StudyPlan, error) {
	weakest := weakestTopics(masteryMap, topN)

	plan := &StudyPlan{}
	names := make([]string, 0, len(weakest))
	for i, t := range weakest {
		names = append(names, t.topic)
		plan.Lessons = append(plan.Lessons, PlanLesson{
			Title:                 "Practice " + t.topic,
			Topic:                 t.topic,
			SuggestedDurationMins: 20,
			Week:                  i + 1,
			Details:               fmt.Sprintf("Work through fundamentals of %s. 3 practice problems, 1 short quiz.", t.topic),
		})
	}
	plan.Summary = "Focus on " + strings.Join(names, ", ")
	return plan, nil
}
