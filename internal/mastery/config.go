package mastery

// Label is a coarse difficulty category for an assessment item.
type Label string

const (
	LabelEasy   Label = "easy"
	LabelMedium Label = "medium"
	LabelHard   Label = "hard"

	// LabelAdaptive is a sentinel meaning "let the engine decide". It maps
	// to a middling numeric difficulty; the selector never emits it.
	LabelAdaptive Label = "adaptive"
)

// ErrInvalidDifficultyLabel indicates an unrecognized difficulty label
// reached the mastery model. This is a caller bug, not recoverable input.
type ErrInvalidDifficultyLabel struct {
	Label Label
}

func (e *ErrInvalidDifficultyLabel) Error() string {
	return "invalid difficulty label: " + string(e.Label)
}

// Config holds the mastery model's tunable constants: the difficulty
// label-to-numeric table, the mastery-to-label threshold bands, the
// prerequisite satisfaction threshold, and the update learning rate.
// The table is versioned so tests and future revisions can substitute
// fixture values without touching call sites.
type Config struct {
	Version int

	// LearningRate scales every mastery adjustment. Must be in (0, 1].
	LearningRate float64

	// Difficulty maps each recognized label to a numeric value in [0,1].
	Difficulty map[Label]float64

	// LowBand and HighBand translate mastery into a target label:
	// mastery < LowBand -> easy; < HighBand -> medium; otherwise hard.
	LowBand  float64
	HighBand float64

	// PrereqThreshold is the mastery a prerequisite area must reach before
	// its dependents become eligible for selection.
	PrereqThreshold float64

	// ConfidenceGain scales how fast confidence approaches 1 with each
	// observed answer.
	ConfidenceGain float64
}

// DefaultConfig returns version 1 of the mastery configuration.
func DefaultConfig() Config {
	return Config{
		Version:      1,
		LearningRate: 0.3,
		Difficulty: map[Label]float64{
			LabelEasy:     0.25,
			LabelMedium:   0.5,
			LabelHard:     0.85,
			LabelAdaptive: 0.5,
		},
		LowBand:         0.40,
		HighBand:        0.75,
		PrereqThreshold: 0.60,
		ConfidenceGain:  0.1,
	}
}

// DifficultyValue resolves a label to its numeric difficulty.
// Unrecognized labels fail with *ErrInvalidDifficultyLabel rather than
// silently defaulting.
func (c Config) DifficultyValue(label Label) (float64, error) {
	v, ok := c.Difficulty[label]
	if !ok {
		return 0, &ErrInvalidDifficultyLabel{Label: label}
	}
	return v, nil
}

// TargetLabel translates a mastery estimate into the difficulty label for the
// next question, pushing the student just beyond current mastery.
func (c Config) TargetLabel(mastery float64) Label {
	switch {
	case mastery < c.LowBand:
		return LabelEasy
	case mastery < c.HighBand:
		return LabelMedium
	default:
		return LabelHard
	}
}
