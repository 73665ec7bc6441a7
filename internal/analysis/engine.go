package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"ArgusIntel/internal/domain"
	"ArgusIntel/internal/ports"
)

// Engine assembles the four analysis stages into one per-article call.
// Stages share no mutable state, so a single engine is safe for concurrent
// use across articles.
type Engine struct {
	extractor  *Extractor
	scorer     *Scorer
	classifier *Classifier
	alerts     *AlertGenerator
	logger     *slog.Logger
}

// NewEngine builds all components from one immutable configuration.
func NewEngine(cfg Config, recognizer ports.EntityRecognizer, logger *slog.Logger) *Engine {
	return &Engine{
		extractor:  NewExtractor(cfg, recognizer, logger),
		scorer:     NewScorer(cfg),
		classifier: NewClassifier(cfg),
		alerts:     NewAlertGenerator(),
		logger:     logger,
	}
}

// Analyze derives the intelligence record for one article. It returns
// ErrInvalidArticle for unusable input and ErrNotRelevant for articles with
// no defense signal; neither produces a record. A degraded extraction is
// flagged on the record instead of failing the call.
//
// High-impact and general keyword scans cover title and content uniformly.
func (e *Engine) Analyze(ctx context.Context, article domain.Article) (*domain.IntelligenceRecord, error) {
	if strings.TrimSpace(article.URL) == "" {
		return nil, fmt.Errorf("%w: missing url", ErrInvalidArticle)
	}
	if strings.TrimSpace(article.Content) == "" {
		return nil, fmt.Errorf("%w: empty content (%s)", ErrInvalidArticle, article.URL)
	}

	text := article.Title + "\n" + article.Content

	entities, degraded := e.extractor.Extract(ctx, text)
	score := e.scorer.Score(text)

	level, err := e.classifier.Classify(score)
	if err != nil {
		return nil, err
	}

	record := &domain.IntelligenceRecord{
		Article:            article,
		Score:              score,
		Level:              level,
		Entities:           entities,
		Alerts:             e.alerts.Generate(level, entities, score),
		ExtractionDegraded: degraded,
		ContentLength:      len(article.Content),
		WordCount:          len(strings.Fields(article.Content)),
		AnalyzedAt:         time.Now().UTC(),
	}

	if e.logger != nil {
		e.logger.Debug("article analyzed",
			"url", article.URL,
			"level", level.String(),
			"score", score.RelevanceScore,
			"entities", len(entities),
			"alerts", len(record.Alerts),
			"degraded", degraded)
	}

	return record, nil
}
