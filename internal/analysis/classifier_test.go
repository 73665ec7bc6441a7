package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ArgusIntel/internal/domain"
)

func TestClassifyHighImpactDominates(t *testing.T) {
	t.Parallel()

	classifier := NewClassifier(testConfig())

	// A high-impact match wins regardless of the numeric score.
	level, err := classifier.Classify(domain.ScoreResult{
		RelevanceScore:    0.5,
		MatchedHighImpact: true,
		HighImpactMatches: []string{"bomb threat"},
	})

	require.NoError(t, err)
	assert.Equal(t, domain.ThreatHigh, level)
}

func TestClassifyMediumBoundaryIsClosed(t *testing.T) {
	t.Parallel()

	classifier := NewClassifier(testConfig())

	level, err := classifier.Classify(domain.ScoreResult{
		RelevanceScore:    6,
		MatchedCategories: []string{"defense"},
	})

	require.NoError(t, err)
	assert.Equal(t, domain.ThreatMedium, level)
}

func TestClassifyLowBand(t *testing.T) {
	t.Parallel()

	classifier := NewClassifier(testConfig())

	level, err := classifier.Classify(domain.ScoreResult{
		RelevanceScore:    4,
		MatchedCategories: []string{"defense"},
	})

	require.NoError(t, err)
	assert.Equal(t, domain.ThreatLow, level)
}

func TestClassifyLowBoundaryIsClosed(t *testing.T) {
	t.Parallel()

	classifier := NewClassifier(testConfig())

	level, err := classifier.Classify(domain.ScoreResult{
		RelevanceScore:    2,
		MatchedCategories: []string{"defense"},
	})

	require.NoError(t, err)
	assert.Equal(t, domain.ThreatLow, level)
}

func TestClassifyNotRelevant(t *testing.T) {
	t.Parallel()

	classifier := NewClassifier(testConfig())

	_, err := classifier.Classify(domain.ScoreResult{})

	assert.ErrorIs(t, err, ErrNotRelevant)
}

func TestClassifyScoreWithoutCategoryIsNotRelevant(t *testing.T) {
	t.Parallel()

	classifier := NewClassifier(testConfig())

	// Below medium and no contributing category: treated as noise.
	_, err := classifier.Classify(domain.ScoreResult{RelevanceScore: 3})

	assert.ErrorIs(t, err, ErrNotRelevant)
}

func TestClassifyDeterminism(t *testing.T) {
	t.Parallel()

	classifier := NewClassifier(testConfig())
	res := domain.ScoreResult{RelevanceScore: 7, MatchedCategories: []string{"defense"}}

	first, err := classifier.Classify(res)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		level, err := classifier.Classify(res)
		require.NoError(t, err)
		assert.Equal(t, first, level)
	}
}
