package content

import (
	"context"

	"github.com/abhisek/assess/internal/curriculum"
	"github.com/abhisek/assess/internal/mastery"
)

// QuestionType classifies how a question is answered.
type QuestionType string

const (
	TypeMultipleChoice QuestionType = "multiple_choice"
	TypeTrueFalse      QuestionType = "true_false"
	TypeShortAnswer    QuestionType = "short_answer"
)

// Question is a generated assessment question. The engine treats the payload
// as opaque beyond what grading needs.
type Question struct {
	Text               string       `json:"question_text"`
	Type               QuestionType `json:"question_type"`
	Options            []string     `json:"options,omitempty"`
	CorrectAnswer      string       `json:"correct_answer"`
	LearningObjectives []string     `json:"learning_objectives,omitempty"`
	Description        string       `json:"description,omitempty"`
}

// QuestionRequest describes the question to generate.
type QuestionRequest struct {
	Subject    string
	GradeLevel int
	Area       curriculum.Area
	Difficulty mastery.Label
}

// GradeResult is the grader's verdict on a student answer.
type GradeResult struct {
	IsCorrect bool    `json:"is_correct"`
	Score     float64 `json:"score"`
	Feedback  string  `json:"feedback"`
}

// StudyPlan is a generated post-assessment study plan.
type StudyPlan struct {
	Summary string       `json:"summary"`
	Lessons []PlanLesson `json:"lessons"`
}

// PlanLesson is one lesson in a study plan. Weeks start at 1 and increase
// with each lesson.
type PlanLesson struct {
	Title                 string `json:"title"`
	Topic                 string `json:"topic"`
	SuggestedDurationMins int    `json:"suggested_duration_minutes"`
	Week                  int    `json:"week"`
	Details               string `json:"details"`
}

// Service is the external collaborator contract the engine consumes:
// question content, answer grading, and study-plan synthesis. The LLM
// implementation and the deterministic mock both satisfy it, keeping the
// orchestrator provider-agnostic.
type Service interface {
	// GenerateQuestion produces a well-formed question for the area at the
	// target difficulty. A generative implementation re-prompts once with
	// stricter instructions on unparseable output before failing.
	GenerateQuestion(ctx context.Context, req QuestionRequest) (*Question, error)

	// GradeAnswer grades a free-form student answer: correctness, a
	// fractional score in [0,1], and feedback text.
	GradeAnswer(ctx context.Context, q *Question, studentAnswer string) (*GradeResult, error)

	// GenerateStudyPlan builds a plan from the topic-keyed mastery map,
	// covering the topN lowest-mastery topics in ascending mastery order.
	GenerateStudyPlan(ctx context.Context, masteryMap map[string]float64, subject string, gradeLevel int, topN int) (*StudyPlan, error)
}
