package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ArgusIntel/internal/domain"
)

func testArticle(content string) domain.Article {
	return domain.Article{
		Title:     "Daily briefing",
		Content:   content,
		URL:       "https://news.example.org/border-report",
		Source:    "test",
		ScrapedAt: time.Date(2026, time.August, 20, 10, 0, 0, 0, time.UTC),
	}
}

func TestAnalyzeLowThreatArticle(t *testing.T) {
	t.Parallel()

	engine := NewEngine(testConfig(), &fakeRecognizer{}, nil)

	record, err := engine.Analyze(context.Background(),
		testArticle("Army conducts border patrol near Line of Control"))

	require.NoError(t, err)
	assert.Equal(t, domain.ThreatLow, record.Level)
	assert.Empty(t, record.Alerts)
	assert.False(t, record.ExtractionDegraded)
	assert.Equal(t, []string{"defense"}, record.Score.MatchedCategories)
	assert.NotZero(t, record.WordCount)
	assert.NotZero(t, record.ContentLength)
}

func TestAnalyzeHighImpactForcesHighAndAlerts(t *testing.T) {
	t.Parallel()

	engine := NewEngine(testConfig(), &fakeRecognizer{}, nil)

	record, err := engine.Analyze(context.Background(),
		testArticle("Army conducts border patrol near Line of Control after terrorist attack"))

	require.NoError(t, err)
	assert.Equal(t, domain.ThreatHigh, record.Level)
	assert.True(t, record.Score.MatchedHighImpact)
	require.Len(t, record.Alerts, 1)
	assert.Equal(t, domain.AlertCriticalThreat, record.Alerts[0].Type)
}

func TestAnalyzeHighImpactInTitleOnly(t *testing.T) {
	t.Parallel()

	engine := NewEngine(testConfig(), &fakeRecognizer{}, nil)

	// Title and content are scanned uniformly.
	article := domain.Article{
		Title:   "Terrorist attack foiled",
		Content: "Officials declined to comment further on the incident.",
		URL:     "https://news.example.org/title-only",
	}

	record, err := engine.Analyze(context.Background(), article)

	require.NoError(t, err)
	assert.Equal(t, domain.ThreatHigh, record.Level)
}

func TestAnalyzeMediumWithLexiconEntityAlerts(t *testing.T) {
	t.Parallel()

	engine := NewEngine(testConfig(), &fakeRecognizer{}, nil)

	record, err := engine.Analyze(context.Background(),
		testArticle("Army and army reserves moved to the border as the border town watched INS Vikrant arrive"))

	require.NoError(t, err)
	assert.Equal(t, domain.ThreatMedium, record.Level)
	require.Len(t, record.Alerts, 1)
	assert.Equal(t, domain.AlertSecurityWatch, record.Alerts[0].Type)
	assert.Contains(t, record.Alerts[0].Description, "INS Vikrant")
}

func TestAnalyzeNotRelevantProducesNoRecord(t *testing.T) {
	t.Parallel()

	engine := NewEngine(testConfig(), &fakeRecognizer{}, nil)

	record, err := engine.Analyze(context.Background(),
		testArticle("Stock markets rallied on strong quarterly earnings"))

	assert.ErrorIs(t, err, ErrNotRelevant)
	assert.Nil(t, record)
}

func TestAnalyzeDegradedExtractionIsFlagged(t *testing.T) {
	t.Parallel()

	engine := NewEngine(testConfig(), &fakeRecognizer{err: errors.New("model crashed")}, nil)

	record, err := engine.Analyze(context.Background(),
		testArticle("Indian Army patrols the border after BrahMos deployment"))

	require.NoError(t, err)
	assert.True(t, record.ExtractionDegraded)

	var weapons []string
	for _, ent := range record.Entities {
		if ent.Type == domain.EntityWeapon {
			weapons = append(weapons, ent.Text)
		}
	}
	assert.Equal(t, []string{"BrahMos"}, weapons)
}

func TestAnalyzeInvalidArticle(t *testing.T) {
	t.Parallel()

	engine := NewEngine(testConfig(), &fakeRecognizer{}, nil)

	_, err := engine.Analyze(context.Background(), domain.Article{
		Title: "No content", URL: "https://news.example.org/empty", Content: "   ",
	})
	assert.ErrorIs(t, err, ErrInvalidArticle)

	_, err = engine.Analyze(context.Background(), domain.Article{
		Title: "No URL", Content: "army at the border",
	})
	assert.ErrorIs(t, err, ErrInvalidArticle)
}

func TestAnalyzeDeterministicOutcome(t *testing.T) {
	t.Parallel()

	engine := NewEngine(testConfig(), &fakeRecognizer{}, nil)
	article := testArticle("Army conducts border patrol near the INS Vikrant dock")

	first, err := engine.Analyze(context.Background(), article)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		next, err := engine.Analyze(context.Background(), article)
		require.NoError(t, err)
		assert.Equal(t, first.Score, next.Score)
		assert.Equal(t, first.Level, next.Level)
		assert.Equal(t, first.Entities, next.Entities)
	}
}
