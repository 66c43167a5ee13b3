package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/abhisek/assess/internal/assessment"
	"github.com/abhisek/assess/internal/content"
)

type sessionRepo struct {
	q querier
}

var _ assessment.SessionRepo = (*sessionRepo)(nil)

// sessionRow adds the JSON-encoded study plan column to the domain struct.
type sessionRow struct {
	assessment.Session
	RecommendationsJSON []byte `db:"recommendations"`
}

func (r *sessionRepo) Create(ctx context.Context, s *assessment.Session) error {
	row, err := newSessionRow(s)
	if err != nil {
		return err
	}
	_, err = sqlx.NamedExecContext(ctx, r.q, `
		INSERT INTO sessions (id, student_id, subject, grade_level, assessment_type,
			status, total_questions, questions_answered, overall_score,
			recommendations, created_at, completed_at)
		VALUES (:id, :student_id, :subject, :grade_level, :assessment_type,
			:status, :total_questions, :questions_answered, :overall_score,
			:recommendations, :created_at, :completed_at)`, row)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (r *sessionRepo) Get(ctx context.Context, id string) (*assessment.Session, error) {
	var row sessionRow
	err := r.q.GetContext(ctx, &row, `
		SELECT id, student_id, subject, grade_level, assessment_type, status,
		       total_questions, questions_answered, overall_score,
		       recommendations, created_at, completed_at
		FROM sessions
		WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}

	if len(row.RecommendationsJSON) > 0 {
		var plan content.StudyPlan
		if err := json.Unmarshal(row.RecommendationsJSON, &plan); err != nil {
			return nil, fmt.Errorf("decode recommendations: %w", err)
		}
		row.Session.Recommendations = &plan
	}
	return &row.Session, nil
}

func (r *sessionRepo) Update(ctx context.Context, s *assessment.Session) error {
	row, err := newSessionRow(s)
	if err != nil {
		return err
	}
	res, err := sqlx.NamedExecContext(ctx, r.q, `
		UPDATE sessions
		SET status = :status, total_questions = :total_questions,
		    questions_answered = :questions_answered, overall_score = :overall_score,
		    recommendations = :recommendations, completed_at = :completed_at
		WHERE id = :id`, row)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("session %s not found", s.ID)
	}
	return nil
}

func newSessionRow(s *assessment.Session) (*sessionRow, error) {
	row := &sessionRow{Session: *s}
	if s.Recommendations != nil {
		data, err := json.Marshal(s.Recommendations)
		if err != nil {
			return nil, fmt.Errorf("encode recommendations: %w", err)
		}
		row.RecommendationsJSON = data
	}
	return row, nil
}
