package mastery

import (
	"errors"
	"testing"
)

func TestUpdate_CorrectIncreases(t *testing.T) {
	cfg := DefaultConfig()
	for _, prior := range []float64{0, 0.25, 0.5, 0.75, 0.99} {
		got := cfg.Update(prior, 0.5, true)
		if got <= prior && prior < 1 {
			t.Errorf("Update(%v, 0.5, correct) = %v, want > prior", prior, got)
		}
		if got > 1 {
			t.Errorf("Update(%v, 0.5, correct) = %v, want <= 1", prior, got)
		}
	}
}

func TestUpdate_IncorrectDecreases(t *testing.T) {
	cfg := DefaultConfig()
	for _, prior := range []float64{0.01, 0.25, 0.5, 0.75, 1} {
		got := cfg.Update(prior, 0.5, false)
		if got >= prior && prior > 0 {
			t.Errorf("Update(%v, 0.5, incorrect) = %v, want < prior", prior, got)
		}
		if got < 0 {
			t.Errorf("Update(%v, 0.5, incorrect) = %v, want >= 0", prior, got)
		}
	}
}

func TestUpdate_HarderCorrectGainsMore(t *testing.T) {
	cfg := DefaultConfig()
	prior := 0.5

	easy := cfg.Update(prior, cfg.Difficulty[LabelEasy], true)
	hard := cfg.Update(prior, cfg.Difficulty[LabelHard], true)
	if hard <= easy {
		t.Errorf("hard gain %v, easy gain %v, want hard > easy", hard-prior, easy-prior)
	}
}

func TestUpdate_EasierMissCostsMore(t *testing.T) {
	cfg := DefaultConfig()
	prior := 0.5

	easy := cfg.Update(prior, cfg.Difficulty[LabelEasy], false)
	hard := cfg.Update(prior, cfg.Difficulty[LabelHard], false)
	if easy >= hard {
		t.Errorf("easy miss leaves %v, hard miss leaves %v, want easy miss to cost more", easy, hard)
	}
}

func TestUpdate_StaysBounded(t *testing.T) {
	cfg := DefaultConfig()

	m := 0.5
	for i := 0; i < 1000; i++ {
		m = cfg.Update(m, 0.85, true)
	}
	if m < 0 || m > 1 {
		t.Fatalf("after repeated correct answers mastery = %v, want within [0,1]", m)
	}

	m = 0.5
	for i := 0; i < 1000; i++ {
		m = cfg.Update(m, 0.25, false)
	}
	if m < 0 || m > 1 {
		t.Fatalf("after repeated incorrect answers mastery = %v, want within [0,1]", m)
	}
}

func TestUpdate_ClampsOutOfRangeInputs(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.Update(-0.5, 0.5, false); got < 0 {
		t.Errorf("Update(-0.5, ...) = %v, want >= 0", got)
	}
	if got := cfg.Update(1.5, 0.5, true); got > 1 {
		t.Errorf("Update(1.5, ...) = %v, want <= 1", got)
	}
}

func TestDifficultyValue_UnknownLabel(t *testing.T) {
	cfg := DefaultConfig()

	_, err := cfg.DifficultyValue(Label("expert"))
	var invalid *ErrInvalidDifficultyLabel
	if !errors.As(err, &invalid) {
		t.Fatalf("DifficultyValue(expert) error = %v, want *ErrInvalidDifficultyLabel", err)
	}
	if invalid.Label != "expert" {
		t.Errorf("error label = %q, want %q", invalid.Label, "expert")
	}
}

func TestDifficultyValue_AdaptiveIsMiddling(t *testing.T) {
	cfg := DefaultConfig()
	v, err := cfg.DifficultyValue(LabelAdaptive)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 0.5 {
		t.Errorf("adaptive difficulty = %v, want 0.5", v)
	}
}

func TestTargetLabel_Bands(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		mastery float64
		want    Label
	}{
		{0, LabelEasy},
		{0.39, LabelEasy},
		{0.40, LabelMedium},
		{0.5, LabelMedium}, // a brand-new student starts on medium
		{0.74, LabelMedium},
		{0.75, LabelHard},
		{1, LabelHard},
	}
	for _, tt := range tests {
		if got := cfg.TargetLabel(tt.mastery); got != tt.want {
			t.Errorf("TargetLabel(%v) = %v, want %v", tt.mastery, got, tt.want)
		}
	}
}

func TestUpdateConfidence(t *testing.T) {
	cfg := DefaultConfig()

	c := 0.5
	next := cfg.UpdateConfidence(c)
	if next <= c {
		t.Errorf("UpdateConfidence(%v) = %v, want increase", c, next)
	}

	for i := 0; i < 1000; i++ {
		c = cfg.UpdateConfidence(c)
	}
	if c > 1 {
		t.Errorf("confidence = %v, want <= 1", c)
	}
}
