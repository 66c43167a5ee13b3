package assessment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/assess/internal/content"
	"github.com/abhisek/assess/internal/curriculum"
	"github.com/abhisek/assess/internal/mastery"
	"github.com/abhisek/assess/internal/profile"
	"github.com/abhisek/assess/internal/selector"
)

// DefaultMaxQuestions is the session length bound: answering this many
// questions auto-completes the session.
const DefaultMaxQuestions = 12

// DefaultPlanTopN is how many weakest topics the study plan covers.
const DefaultPlanTopN = 5

// Service drives the assessment lifecycle: it owns the session state
// machine and orchestrates the selector, the content provider, the mastery
// model and the knowledge state store.
type Service struct {
	graph    *curriculum.Graph
	repos    Repos
	content  content.Service
	cfg      mastery.Config
	selector *selector.Selector

	maxQuestions int
	planTopN     int
	log          *zap.Logger
	now          func() time.Time
	newID        func() string
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithMaxQuestions overrides the session length bound.
func WithMaxQuestions(n int) ServiceOption {
	return func(s *Service) { s.maxQuestions = n }
}

// WithPlanTopN overrides how many topics the study plan covers.
func WithPlanTopN(n int) ServiceOption {
	return func(s *Service) { s.planTopN = n }
}

// WithLogger sets the operational logger.
func WithLogger(log *zap.Logger) ServiceOption {
	return func(s *Service) { s.log = log }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// WithSelectorSeed enables seeded variety among equally-ranked selector
// candidates.
func WithSelectorSeed(seed uint64) ServiceOption {
	return func(s *Service) {
		s.selector = selector.New(s.graph, s.repos.Profiles(), s.cfg, selector.WithSeed(seed))
	}
}

// NewService creates an assessment service.
func NewService(graph *curriculum.Graph, repos Repos, contentSvc content.Service, cfg mastery.Config, opts ...ServiceOption) *Service {
	s := &Service{
		graph:        graph,
		repos:        repos,
		content:      contentSvc,
		cfg:          cfg,
		maxQuestions: DefaultMaxQuestions,
		planTopN:     DefaultPlanTopN,
		log:          zap.NewNop(),
		now:          time.Now,
		newID:        uuid.NewString,
	}
	s.selector = selector.New(graph, repos.Profiles(), cfg)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartInput describes the assessment to start.
type StartInput struct {
	StudentID  string
	Subject    string
	GradeLevel int
	Type       Type
}

// Start creates a session, selects the first topic and difficulty, and
// materializes question #1. On success the session is in_progress with
// total_questions = 1. Selection and question generation run before anything
// is written; a failure there persists nothing and the caller simply retries
// Start.
func (s *Service) Start(ctx context.Context, in StartInput) (*Session, *Item, error) {
	if in.StudentID == "" || in.Subject == "" {
		return nil, nil, fmt.Errorf("student and subject are required")
	}
	if in.Type == "" {
		in.Type = TypeDiagnostic
	}

	sess := &Session{
		ID:         s.newID(),
		StudentID:  in.StudentID,
		Subject:    in.Subject,
		GradeLevel: in.GradeLevel,
		Type:       in.Type,
		Status:     StatusStarted,
		CreatedAt:  s.now(),
	}

	item, err := s.buildNextItem(ctx, sess)
	if err != nil {
		return nil, nil, err
	}

	sess.Status = StatusInProgress
	sess.TotalQuestions = 1
	err = s.repos.Transact(ctx, func(tx Repos) error {
		if err := tx.Sessions().Create(ctx, sess); err != nil {
			return fmt.Errorf("create session: %w", err)
		}
		return tx.Items().Create(ctx, item)
	})
	if err != nil {
		return nil, nil, err
	}

	s.log.Info("assessment started",
		zap.String("session_id", sess.ID),
		zap.String("student_id", sess.StudentID),
		zap.String("subject", sess.Subject),
		zap.String("first_area", item.AreaID),
		zap.String("difficulty", string(item.Difficulty)))

	return sess, item, nil
}

// buildNextItem asks the selector for the next topic and difficulty and
// materializes a question for it. The item number is TotalQuestions+1 and is
// only consumed when generation succeeds. The item is not persisted; callers
// write it together with the session counters in one transaction.
func (s *Service) buildNextItem(ctx context.Context, sess *Session) (*Item, error) {
	choice, err := s.selector.Select(ctx, sess.StudentID, sess.Subject)
	if err != nil {
		return nil, err
	}

	q, err := s.content.GenerateQuestion(ctx, content.QuestionRequest{
		Subject:    sess.Subject,
		GradeLevel: sess.GradeLevel,
		Area:       choice.Area,
		Difficulty: choice.Difficulty,
	})
	if err != nil {
		return nil, &ErrQuestionGeneration{Err: err}
	}

	item := &Item{
		ID:         s.newID(),
		SessionID:  sess.ID,
		AreaID:     choice.Area.ID,
		Number:     sess.TotalQuestions + 1,
		Difficulty: choice.Difficulty,
		Question:   *q,
		CreatedAt:  s.now(),
	}
	return item, nil
}

// AnswerResult is the outcome of a submission.
type AnswerResult struct {
	Session *Session
	Item    *Item

	// NextItem is the next question, nil when the session completed or the
	// next question could not be generated.
	NextItem *Item
}

// SubmitAnswer grades the item, updates the student's knowledge state, and
// either creates the next question or completes the session when the length
// bound is reached.
//
// Grading happens exactly once; a failure there leaves all state unchanged.
// After a successful grade the answer, profile update and session counters
// land in one transaction. If the grade committed but the next question
// could not be generated, the graded result is returned alongside a
// *ErrQuestionGeneration and NextQuestion can retry without re-grading.
func (s *Service) SubmitAnswer(ctx context.Context, sessionID, itemID, answerText string, timeTakenSecs int) (*AnswerResult, error) {
	sess, err := s.repos.Sessions().Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Status.Terminal() {
		return nil, &ErrSessionTerminal{SessionID: sess.ID, Status: sess.Status}
	}

	item, err := s.repos.Items().Get(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.SessionID != sess.ID {
		return nil, fmt.Errorf("item %s does not belong to session %s", itemID, sessionID)
	}
	if item.Answered() {
		return nil, &ErrAlreadyAnswered{ItemID: item.ID}
	}

	// Resolve the difficulty before grading; an unrecognized label is a
	// caller bug and must not consume a grading call.
	diffValue, err := s.cfg.DifficultyValue(item.Difficulty)
	if err != nil {
		return nil, err
	}

	grade, err := s.content.GradeAnswer(ctx, &item.Question, answerText)
	if err != nil {
		return nil, &ErrGrading{Err: err}
	}

	answeredAt := s.now()
	item.StudentAnswer = &answerText
	item.IsCorrect = &grade.IsCorrect
	item.Score = &grade.Score
	item.Feedback = &grade.Feedback
	item.TimeTakenSecs = timeTakenSecs
	item.AnsweredAt = &answeredAt

	// Answer write, knowledge-state update and session counters land
	// together or not at all.
	err = s.repos.Transact(ctx, func(tx Repos) error {
		if err := tx.Items().SaveAnswer(ctx, item); err != nil {
			return err
		}

		_, err := tx.Profiles().Update(ctx, sess.StudentID, item.AreaID, func(p *profile.Profile) error {
			p.Mastery = s.cfg.Update(p.Mastery, diffValue, grade.IsCorrect)
			p.Confidence = s.cfg.UpdateConfidence(p.Confidence)
			if !grade.IsCorrect && p.Mastery < s.cfg.LowBand {
				p.NeedsReview = true
			}
			if p.Mastery >= s.cfg.HighBand {
				p.NeedsReview = false
			}
			return nil
		})
		if err != nil {
			return err
		}

		sess.QuestionsAnswered++
		if sess.QuestionsAnswered >= s.maxQuestions {
			items, err := tx.Items().BySession(ctx, sess.ID)
			if err != nil {
				return err
			}
			s.finalize(sess, items)
		}
		return tx.Sessions().Update(ctx, sess)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("answer recorded",
		zap.String("session_id", sess.ID),
		zap.String("item_id", item.ID),
		zap.Bool("correct", grade.IsCorrect),
		zap.Float64("score", grade.Score),
		zap.Int("answered", sess.QuestionsAnswered))

	result := &AnswerResult{Session: sess, Item: item}
	if sess.Status.Terminal() {
		return result, nil
	}

	// Next selection runs only after the profile write above committed:
	// the selector must see the just-updated mastery.
	next, err := s.buildNextItem(ctx, sess)
	if err != nil {
		s.log.Warn("next question unavailable",
			zap.String("session_id", sess.ID), zap.Error(err))
		return result, err
	}

	// The new item and the counter that accounts for it land together, so
	// total_questions always reflects the items on disk.
	sess.TotalQuestions++
	err = s.repos.Transact(ctx, func(tx Repos) error {
		if err := tx.Items().Create(ctx, next); err != nil {
			return err
		}
		return tx.Sessions().Update(ctx, sess)
	})
	if err != nil {
		return result, err
	}
	result.NextItem = next
	return result, nil
}

// NextQuestion returns the session's pending unanswered item, or creates one
// when the previous creation attempt failed. It never skips or repeats an
// ordinal.
func (s *Service) NextQuestion(ctx context.Context, sessionID string) (*Item, error) {
	sess, err := s.repos.Sessions().Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Status.Terminal() {
		return nil, &ErrSessionTerminal{SessionID: sess.ID, Status: sess.Status}
	}

	// Scan for a pending item unconditionally: an unanswered item must be
	// handed back even if the counters do not reflect it yet.
	items, err := s.repos.Items().BySession(ctx, sess.ID)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if !item.Answered() {
			return item, nil
		}
	}

	item, err := s.buildNextItem(ctx, sess)
	if err != nil {
		return nil, err
	}

	sess.TotalQuestions++
	if sess.Status == StatusStarted {
		sess.Status = StatusInProgress
	}
	err = s.repos.Transact(ctx, func(tx Repos) error {
		if err := tx.Items().Create(ctx, item); err != nil {
			return err
		}
		return tx.Sessions().Update(ctx, sess)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Complete explicitly finishes a session: aggregate the student's profiles
// across the subject into a topic-keyed mastery map, request a study plan,
// and store it in Recommendations. Calling Complete on an already-completed
// session is idempotent; a session that auto-completed by count gains its
// study plan here.
func (s *Service) Complete(ctx context.Context, sessionID string) (*Session, error) {
	sess, err := s.repos.Sessions().Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Status == StatusAbandoned {
		return nil, &ErrSessionTerminal{SessionID: sess.ID, Status: sess.Status}
	}
	if sess.Status == StatusCompleted && sess.Recommendations != nil {
		return sess, nil
	}

	masteryMap, err := s.masteryMap(ctx, sess.StudentID, sess.Subject)
	if err != nil {
		return nil, err
	}

	plan, err := s.content.GenerateStudyPlan(ctx, masteryMap, sess.Subject, sess.GradeLevel, s.planTopN)
	if err != nil {
		return nil, fmt.Errorf("generate study plan: %w", err)
	}

	if !sess.Status.Terminal() {
		items, err := s.repos.Items().BySession(ctx, sess.ID)
		if err != nil {
			return nil, err
		}
		s.finalize(sess, items)
	}
	sess.Recommendations = plan

	if err := s.repos.Sessions().Update(ctx, sess); err != nil {
		return nil, err
	}

	s.log.Info("assessment completed",
		zap.String("session_id", sess.ID),
		zap.Int("questions", sess.QuestionsAnswered),
		zap.Float64p("overall_score", sess.OverallScore))

	return sess, nil
}

// Abandon marks a non-terminal session abandoned. Abandoned is terminal:
// there is no resume.
func (s *Service) Abandon(ctx context.Context, sessionID string) (*Session, error) {
	sess, err := s.repos.Sessions().Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Status == StatusAbandoned {
		return sess, nil
	}
	if sess.Status == StatusCompleted {
		return nil, &ErrSessionTerminal{SessionID: sess.ID, Status: sess.Status}
	}

	completedAt := s.now()
	sess.Status = StatusAbandoned
	sess.CompletedAt = &completedAt
	if err := s.repos.Sessions().Update(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Get returns a session and its items.
func (s *Service) Get(ctx context.Context, sessionID string) (*Session, []*Item, error) {
	sess, err := s.repos.Sessions().Get(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.repos.Items().BySession(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	return sess, items, nil
}

// finalize stamps completion on a session. The overall score is the mean of
// the scored items scaled to 0-100; with no scored items it stays nil.
func (s *Service) finalize(sess *Session, items []*Item) {
	completedAt := s.now()
	sess.Status = StatusCompleted
	sess.CompletedAt = &completedAt

	var sum float64
	var n int
	for _, item := range items {
		if item.Score != nil {
			sum += *item.Score
			n++
		}
	}
	if n > 0 {
		score := sum / float64(n) * 100
		sess.OverallScore = &score
	}
}

// masteryMap aggregates the student's profiles across a subject into a
// topic-keyed mastery map. Areas without a profile contribute the default
// mastery so the plan still covers untouched topics. Topics spanning several
// areas get the mean of their areas' mastery, so the result does not depend
// on area ordering.
func (s *Service) masteryMap(ctx context.Context, studentID, subject string) (map[string]float64, error) {
	areas := s.graph.BySubject(subject)
	ids := make([]string, len(areas))
	for i, a := range areas {
		ids[i] = a.ID
	}

	profiles, err := s.repos.Profiles().ForStudent(ctx, studentID, ids)
	if err != nil {
		return nil, fmt.Errorf("load knowledge state: %w", err)
	}
	byArea := make(map[string]float64, len(profiles))
	for _, p := range profiles {
		byArea[p.AreaID] = p.Mastery
	}

	sums := make(map[string]float64, len(areas))
	counts := make(map[string]int, len(areas))
	for _, a := range areas {
		v, ok := byArea[a.ID]
		if !ok {
			v = profile.DefaultMastery
		}
		sums[a.Topic] += v
		counts[a.Topic]++
	}

	m := make(map[string]float64, len(sums))
	for topic, sum := range sums {
		m[topic] = sum / float64(counts[topic])
	}
	return m, nil
}
