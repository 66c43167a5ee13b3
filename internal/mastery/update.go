package mastery

// Update applies a one-step Elo-style adjustment to a mastery estimate.
//
// On a correct answer mastery moves up by LearningRate * difficulty * headroom,
// so correctly answering a hard item yields a larger increase. On an incorrect
// answer mastery moves down by LearningRate * (1 - difficulty) * mastery, so
// missing an easy item costs more than missing a hard one. Scaling by the
// remaining headroom (1 - m) and the current level (m) keeps every result
// strictly inside [0,1] no matter how many times the rule is applied; the
// final clamp is a guard against float drift only.
//
// Pure function: inputs outside [0,1] are clamped, nothing is persisted.
func (c Config) Update(prior, difficulty float64, correct bool) float64 {
	m := clamp01(prior)
	d := clamp01(difficulty)

	if correct {
		m += c.LearningRate * d * (1 - m)
	} else {
		m -= c.LearningRate * (1 - d) * m
	}

	return clamp01(m)
}

// UpdateConfidence moves a confidence estimate toward 1 after an observed
// answer. Each observation shrinks the remaining uncertainty by
// ConfidenceGain.
func (c Config) UpdateConfidence(prior float64) float64 {
	conf := clamp01(prior)
	return clamp01(conf + c.ConfidenceGain*(1-conf))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
