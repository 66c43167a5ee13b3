package selector

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/abhisek/assess/internal/curriculum"
	"github.com/abhisek/assess/internal/mastery"
	"github.com/abhisek/assess/internal/profile"
)

// ErrNoEligibleTopic indicates that no knowledge area in the subject has all
// prerequisites satisfied. Callers must treat this as a hard stop for the
// session rather than retrying.
type ErrNoEligibleTopic struct {
	Subject string
}

func (e *ErrNoEligibleTopic) Error() string {
	return fmt.Sprintf("no eligible knowledge area in subject %q", e.Subject)
}

// Choice is the selector's output: the next area to probe and the target
// difficulty for it.
type Choice struct {
	Area       curriculum.Area
	Difficulty mastery.Label
}

// Selector picks the next knowledge area and target difficulty from the
// student's current knowledge state. Selection is a deterministic,
// side-effect-free function of that state; the optional rng only varies the
// pick among candidates that tie on every ranking key.
type Selector struct {
	graph *curriculum.Graph
	store profile.Store
	cfg   mastery.Config
	rng   *rand.Rand
}

// Option configures a Selector.
type Option func(*Selector)

// WithSeed enables seeded randomness among exactly-tied candidates.
// Runs with the same seed and knowledge state pick the same area.
func WithSeed(seed uint64) Option {
	return func(s *Selector) {
		s.rng = rand.New(rand.NewPCG(seed, 0))
	}
}

// New creates a Selector over the given curriculum and knowledge state store.
func New(graph *curriculum.Graph, store profile.Store, cfg mastery.Config, opts ...Option) *Selector {
	s := &Selector{graph: graph, store: store, cfg: cfg}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// candidate pairs an area with the student's knowledge of it.
type candidate struct {
	area            curriculum.Area
	mastery         float64
	assessmentCount int
}

// Select picks the knowledge area and target difficulty for the student's
// next question in the subject.
//
// Areas are eligible when every prerequisite is held at or above the
// configured threshold. Eligible areas rank by ascending mastery (weakest
// area first), then never-assessed first, then curriculum difficulty order,
// then ID. The chosen area's mastery is banded into the difficulty label.
func (s *Selector) Select(ctx context.Context, studentID, subject string) (Choice, error) {
	areas := s.graph.BySubject(subject)
	if len(areas) == 0 {
		return Choice{}, &ErrNoEligibleTopic{Subject: subject}
	}

	// One snapshot read covering the subject's areas and all their
	// prerequisites (prerequisites may live outside the subject).
	idSet := make(map[string]bool, len(areas))
	for _, a := range areas {
		idSet[a.ID] = true
		for _, p := range a.Prerequisites {
			idSet[p] = true
		}
	}
	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	profiles, err := s.store.ForStudent(ctx, studentID, ids)
	if err != nil {
		return Choice{}, fmt.Errorf("load knowledge state: %w", err)
	}
	byArea := make(map[string]*profile.Profile, len(profiles))
	for _, p := range profiles {
		byArea[p.AreaID] = p
	}

	masteryOf := func(areaID string) float64 {
		if p, ok := byArea[areaID]; ok {
			return p.Mastery
		}
		return profile.DefaultMastery
	}

	var eligible []candidate
	for _, a := range areas {
		if !s.prereqsSatisfied(a, masteryOf) {
			continue
		}
		c := candidate{area: a, mastery: masteryOf(a.ID)}
		if p, ok := byArea[a.ID]; ok {
			c.assessmentCount = p.AssessmentCount
		}
		eligible = append(eligible, c)
	}
	if len(eligible) == 0 {
		return Choice{}, &ErrNoEligibleTopic{Subject: subject}
	}

	sort.Slice(eligible, func(i, j int) bool {
		a, b := eligible[i], eligible[j]
		if a.mastery != b.mastery {
			return a.mastery < b.mastery
		}
		// Never-assessed areas first, to maximize initial coverage.
		if (a.assessmentCount == 0) != (b.assessmentCount == 0) {
			return a.assessmentCount == 0
		}
		if a.area.DifficultyOrder != b.area.DifficultyOrder {
			return a.area.DifficultyOrder < b.area.DifficultyOrder
		}
		return a.area.ID < b.area.ID
	})

	pick := eligible[0]
	if s.rng != nil {
		// Seeded variety among candidates tied on every ranking key.
		tied := 1
		for tied < len(eligible) && sameRank(eligible[0], eligible[tied]) {
			tied++
		}
		if tied > 1 {
			pick = eligible[s.rng.IntN(tied)]
		}
	}

	return Choice{
		Area:       pick.area,
		Difficulty: s.cfg.TargetLabel(pick.mastery),
	}, nil
}

func (s *Selector) prereqsSatisfied(a curriculum.Area, masteryOf func(string) float64) bool {
	for _, prereqID := range a.Prerequisites {
		if masteryOf(prereqID) < s.cfg.PrereqThreshold {
			return false
		}
	}
	return true
}

func sameRank(a, b candidate) bool {
	return a.mastery == b.mastery &&
		(a.assessmentCount == 0) == (b.assessmentCount == 0) &&
		a.area.DifficultyOrder == b.area.DifficultyOrder
}
