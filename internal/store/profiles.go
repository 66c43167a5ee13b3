package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/abhisek/assess/internal/profile"
)

// maxUpdateRetries bounds the optimistic-concurrency retry loop on a single
// profile row.
const maxUpdateRetries = 3

type profileRepo struct {
	q querier
}

var _ profile.Store = (*profileRepo)(nil)

func (r *profileRepo) GetOrCreate(ctx context.Context, studentID, areaID string) (*profile.Profile, bool, error) {
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO knowledge_profiles (student_id, area_id, mastery, confidence, version)
		VALUES (?, ?, ?, ?, 1)
		ON CONFLICT (student_id, area_id) DO NOTHING`,
		studentID, areaID, profile.DefaultMastery, profile.DefaultConfidence)
	if err != nil {
		return nil, false, fmt.Errorf("create profile: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("rows affected: %w", err)
	}

	p, err := r.get(ctx, studentID, areaID)
	if err != nil {
		return nil, false, err
	}
	return p, affected > 0, nil
}

func (r *profileRepo) Update(ctx context.Context, studentID, areaID string, mutate func(*profile.Profile) error) (*profile.Profile, error) {
	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		p, _, err := r.GetOrCreate(ctx, studentID, areaID)
		if err != nil {
			return nil, err
		}

		if err := mutate(p); err != nil {
			return nil, err
		}

		now := time.Now().UTC()
		res, err := r.q.ExecContext(ctx, `
			UPDATE knowledge_profiles
			SET mastery = ?, confidence = ?, needs_review = ?,
			    assessment_count = assessment_count + 1,
			    last_assessed = ?, version = version + 1
			WHERE student_id = ? AND area_id = ? AND version = ?`,
			p.Mastery, p.Confidence, p.NeedsReview,
			now, studentID, areaID, p.Version)
		if err != nil {
			return nil, fmt.Errorf("update profile: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("rows affected: %w", err)
		}
		if affected == 0 {
			// Version moved underneath us; reload and retry.
			continue
		}

		p.AssessmentCount++
		p.LastAssessed = &now
		p.Version++
		return p, nil
	}
	return nil, &profile.ErrConcurrentUpdate{StudentID: studentID, AreaID: areaID}
}

func (r *profileRepo) ForStudent(ctx context.Context, studentID string, areaIDs []string) ([]*profile.Profile, error) {
	if len(areaIDs) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
		SELECT student_id, area_id, mastery, confidence, assessment_count,
		       last_assessed, needs_review, version
		FROM knowledge_profiles
		WHERE student_id = ? AND area_id IN (?)`, studentID, areaIDs)
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var profiles []*profile.Profile
	if err := r.q.SelectContext(ctx, &profiles, r.q.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}
	return profiles, nil
}

func (r *profileRepo) get(ctx context.Context, studentID, areaID string) (*profile.Profile, error) {
	var p profile.Profile
	err := r.q.GetContext(ctx, &p, `
		SELECT student_id, area_id, mastery, confidence, assessment_count,
		       last_assessed, needs_review, version
		FROM knowledge_profiles
		WHERE student_id = ? AND area_id = ?`, studentID, areaID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return &p, nil
}
