package analysis

import (
	"sort"
	"strings"

	"ArgusIntel/internal/domain"
)

// Scorer computes the defense-relevance score of an article text. It is a
// pure function of its input: no I/O, no clock, no randomness.
type Scorer struct {
	categories []scoredCategory
	highImpact []string
	highWeight float64
}

type scoredCategory struct {
	name     string
	keywords []string
	weight   float64
}

// NewScorer precomputes lowercased keyword tables from the configuration.
// Categories are ordered by name so MatchedCategories is deterministic.
func NewScorer(cfg Config) *Scorer {
	names := make([]string, 0, len(cfg.Categories))
	for name := range cfg.Categories {
		names = append(names, name)
	}
	sort.Strings(names)

	categories := make([]scoredCategory, 0, len(names))
	for _, name := range names {
		cat := cfg.Categories[name]
		categories = append(categories, scoredCategory{
			name:     name,
			keywords: lowerAll(cat.Keywords),
			weight:   cat.Weight,
		})
	}

	return &Scorer{
		categories: categories,
		highImpact: lowerAll(cfg.HighImpactKeywords),
		highWeight: cfg.HighImpactWeight,
	}
}

// Score counts general-tier keyword occurrences weighted per category and
// adds a fixed increment for each distinct high-impact keyword present.
// High-impact matching is presence-only so keyword stuffing cannot inflate
// an already-critical signal.
func (s *Scorer) Score(text string) domain.ScoreResult {
	lower := strings.ToLower(text)

	result := domain.ScoreResult{}
	for _, cat := range s.categories {
		var catScore float64
		for _, kw := range cat.keywords {
			if n := strings.Count(lower, kw); n > 0 {
				catScore += float64(n) * cat.weight
			}
		}
		if catScore > 0 {
			result.RelevanceScore += catScore
			result.MatchedCategories = append(result.MatchedCategories, cat.name)
		}
	}

	for _, kw := range s.highImpact {
		if strings.Contains(lower, kw) {
			result.RelevanceScore += s.highWeight
			result.MatchedHighImpact = true
			result.HighImpactMatches = append(result.HighImpactMatches, kw)
		}
	}

	return result
}

func lowerAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(strings.ToLower(v))
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
