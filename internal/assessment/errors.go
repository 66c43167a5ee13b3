package assessment

import "fmt"

// ErrSessionTerminal indicates an operation on a session whose status is
// completed or abandoned. No item may be created or answered after that.
type ErrSessionTerminal struct {
	SessionID string
	Status    Status
}

func (e *ErrSessionTerminal) Error() string {
	return fmt.Sprintf("session %s is %s: no further operations accepted", e.SessionID, e.Status)
}

// ErrAlreadyAnswered indicates a double submission to a write-once item.
type ErrAlreadyAnswered struct {
	ItemID string
}

func (e *ErrAlreadyAnswered) Error() string {
	return fmt.Sprintf("item %s has already been answered", e.ItemID)
}

// ErrQuestionGeneration indicates the content provider failed to produce a
// usable question. The question ordinal is not consumed; the session does
// not advance.
type ErrQuestionGeneration struct {
	Err error
}

func (e *ErrQuestionGeneration) Error() string {
	return fmt.Sprintf("question generation failed: %v", e.Err)
}

func (e *ErrQuestionGeneration) Unwrap() error { return e.Err }

// ErrGrading indicates the answer grader failed. No session, item or profile
// state is mutated; the caller decides whether the student resubmits.
type ErrGrading struct {
	Err error
}

func (e *ErrGrading) Error() string {
	return fmt.Sprintf("grading failed: %v", e.Err)
}

func (e *ErrGrading) Unwrap() error { return e.Err }
