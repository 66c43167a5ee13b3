package profile

import (
	"context"
	"fmt"
	"time"
)

// Default values for a profile created on first contact with an area:
// "unknown, assume middling".
const (
	DefaultMastery    = 0.5
	DefaultConfidence = 0.5
)

// Profile is the per-(student, knowledge area) mastery record. Exactly one
// profile exists per pair; it is created lazily on the first answered
// question for that area and mutated only through Store.Update.
type Profile struct {
	StudentID       string     `db:"student_id"`
	AreaID          string     `db:"area_id"`
	Mastery         float64    `db:"mastery"`
	Confidence      float64    `db:"confidence"`
	AssessmentCount int        `db:"assessment_count"`
	LastAssessed    *time.Time `db:"last_assessed"`
	NeedsReview     bool       `db:"needs_review"`

	// Version supports optimistic concurrency in the store. Callers never
	// set it.
	Version int64 `db:"version"`
}

// New returns a profile with default values for the given pair.
func New(studentID, areaID string) *Profile {
	return &Profile{
		StudentID:  studentID,
		AreaID:     areaID,
		Mastery:    DefaultMastery,
		Confidence: DefaultConfidence,
	}
}

// ErrConcurrentUpdate indicates an optimistic write collision on a single
// profile row that persisted through the bounded retries.
type ErrConcurrentUpdate struct {
	StudentID string
	AreaID    string
}

func (e *ErrConcurrentUpdate) Error() string {
	return fmt.Sprintf("concurrent update conflict on profile (%s, %s)", e.StudentID, e.AreaID)
}

// Store is the knowledge state store contract.
//
// Update is the serializable read-modify-write for a single profile row:
// it loads (or lazily creates) the profile, applies mutate, persists the
// result, and bumps assessment_count and last_assessed. Concurrent updates
// to the same pair are retried transparently a bounded number of times;
// a persisting collision surfaces as *ErrConcurrentUpdate.
type Store interface {
	// GetOrCreate returns the profile and whether it was created by this call.
	// Creation is atomic with respect to concurrent submissions for the
	// same pair.
	GetOrCreate(ctx context.Context, studentID, areaID string) (*Profile, bool, error)

	// Update runs a serializable read-modify-write for one profile.
	// mutate may change mastery, confidence and needs_review; the store
	// bumps assessment_count and last_assessed itself.
	Update(ctx context.Context, studentID, areaID string, mutate func(*Profile) error) (*Profile, error)

	// ForStudent returns the student's existing profiles for the given
	// areas. Areas without a profile are simply absent from the result.
	ForStudent(ctx context.Context, studentID string, areaIDs []string) ([]*Profile, error)
}
