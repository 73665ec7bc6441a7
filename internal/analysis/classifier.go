package analysis

import "ArgusIntel/internal/domain"

// Classifier maps a score result onto a discrete threat level. It is a
// stateless total function: identical input always yields the same level.
type Classifier struct {
	mediumThreshold float64
	lowThreshold    float64
}

// NewClassifier captures the configured thresholds.
func NewClassifier(cfg Config) *Classifier {
	return &Classifier{
		mediumThreshold: cfg.MediumThreshold,
		lowThreshold:    cfg.LowThreshold,
	}
}

// Classify applies the banding rules:
//
//	high-impact match        -> HIGH, regardless of numeric score
//	score >= MediumThreshold -> MEDIUM
//	score >= LowThreshold    -> LOW, if any category matched
//	otherwise                -> ErrNotRelevant (filter, not a label)
//
// Both thresholds are closed lower bounds.
func (c *Classifier) Classify(res domain.ScoreResult) (domain.ThreatLevel, error) {
	switch {
	case res.MatchedHighImpact:
		return domain.ThreatHigh, nil
	case res.RelevanceScore >= c.mediumThreshold:
		return domain.ThreatMedium, nil
	case res.RelevanceScore >= c.lowThreshold && len(res.MatchedCategories) > 0:
		return domain.ThreatLow, nil
	default:
		return domain.ThreatLow, ErrNotRelevant
	}
}
