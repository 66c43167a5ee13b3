package assessment

import (
	"time"

	"github.com/abhisek/assess/internal/content"
	"github.com/abhisek/assess/internal/mastery"
)

// Status is a session's position in its lifecycle.
type Status string

const (
	StatusStarted    Status = "started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusAbandoned  Status = "abandoned"
)

// Terminal reports whether no further transitions are allowed.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusAbandoned
}

// Type classifies the purpose of an assessment.
type Type string

const (
	TypeDiagnostic Type = "diagnostic"
	TypeProgress   Type = "progress"
	TypeFinal      Type = "final"
)

// Session is one adaptive-assessment attempt: an ordered sequence of graded
// items owned exclusively by the session.
type Session struct {
	ID         string `db:"id"`
	StudentID  string `db:"student_id"`
	Subject    string `db:"subject"`
	GradeLevel int    `db:"grade_level"`
	Type       Type   `db:"assessment_type"`
	Status     Status `db:"status"`

	TotalQuestions    int `db:"total_questions"`
	QuestionsAnswered int `db:"questions_answered"`

	// OverallScore is the mean item score scaled to 0-100. Nil until
	// completion, and nil after completion when no item was scored:
	// "no data" is not "zero mastery".
	OverallScore *float64 `db:"overall_score"`

	// Recommendations is the study plan stored at explicit completion.
	Recommendations *content.StudyPlan `db:"-"`

	CreatedAt   time.Time  `db:"created_at"`
	CompletedAt *time.Time `db:"completed_at"`
}

// Item is a question instance within a session. The answer fields are
// write-once: they are all set together by the grading step and never
// mutated again.
type Item struct {
	ID         string        `db:"id"`
	SessionID  string        `db:"session_id"`
	AreaID     string        `db:"area_id"`
	Number     int           `db:"question_number"`
	Difficulty mastery.Label `db:"difficulty_level"`

	Question content.Question `db:"-"`

	StudentAnswer *string    `db:"student_answer"`
	IsCorrect     *bool      `db:"is_correct"`
	Score         *float64   `db:"score"`
	Feedback      *string    `db:"feedback"`
	TimeTakenSecs int        `db:"time_taken"`
	CreatedAt     time.Time  `db:"created_at"`
	AnsweredAt    *time.Time `db:"answered_at"`
}

// Answered reports whether the item has been graded.
func (i *Item) Answered() bool {
	return i.AnsweredAt != nil
}
