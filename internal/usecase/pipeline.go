package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"ArgusIntel/internal/analysis"
	"ArgusIntel/internal/ports"
)

const defaultWorkers = 4

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Source     ports.ArticleSource
	Engine     *analysis.Engine
	Repository ports.IntelligenceRepository
	Notifier   ports.Notifier
	Logger     *slog.Logger
	Workers    int
}

// BatchStats aggregates structured outcomes of one batch run so callers can
// track failure reasons without parsing log text.
type BatchStats struct {
	Fetched     int
	Skipped     int
	Saved       int
	NotRelevant int
	Invalid     int
	Degraded    int
	Failed      int
}

// Pipeline implements the article-intelligence workflow: fetch, analyze,
// persist, notify. Articles are processed independently; one article's
// failure never aborts the batch.
type Pipeline struct {
	source     ports.ArticleSource
	engine     *analysis.Engine
	repository ports.IntelligenceRepository
	notifier   ports.Notifier
	logger     *slog.Logger
	workers    int
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	workers := deps.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Pipeline{
		source:     deps.Source,
		engine:     deps.Engine,
		repository: deps.Repository,
		notifier:   deps.Notifier,
		logger:     deps.Logger,
		workers:    workers,
	}
}

// ProcessBatch fetches the current article batch, skips already-processed
// URLs, and analyzes the rest with per-article parallelism. Concurrency
// granularity is per article: each article's stages run sequentially.
func (p *Pipeline) ProcessBatch(ctx context.Context, now time.Time) (BatchStats, error) {
	var stats BatchStats

	if p.source == nil || p.engine == nil {
		return stats, nil
	}

	articles, err := p.source.FetchBatch(ctx, now)
	if err != nil {
		return stats, fmt.Errorf("fetch batch: %w", err)
	}
	stats.Fetched = len(articles)

	urls := make([]string, 0, len(articles))
	for _, art := range articles {
		if art.URL != "" {
			urls = append(urls, art.URL)
		}
	}

	skip := map[string]bool{}
	if p.repository != nil && len(urls) > 0 {
		skip, err = p.repository.AlreadyProcessed(ctx, urls)
		if err != nil {
			return stats, fmt.Errorf("load processed: %w", err)
		}
	}

	var mu sync.Mutex
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(p.workers)

	for _, article := range articles {
		if skip[article.URL] {
			mu.Lock()
			stats.Skipped++
			mu.Unlock()
			continue
		}

		article := article
		group.Go(func() error {
			record, err := p.engine.Analyze(ctx, article)

			mu.Lock()
			defer mu.Unlock()

			switch {
			case errors.Is(err, analysis.ErrNotRelevant):
				stats.NotRelevant++
				return nil
			case errors.Is(err, analysis.ErrInvalidArticle):
				stats.Invalid++
				p.warn("article skipped", "url", article.URL, "error", err)
				return nil
			case err != nil:
				stats.Failed++
				p.warn("analysis failed", "url", article.URL, "error", err)
				return nil
			}

			if p.repository != nil {
				if err := p.repository.SaveRecord(ctx, *record); err != nil {
					stats.Failed++
					p.warn("persist failed", "url", article.URL, "error", err)
					return nil
				}
			}

			stats.Saved++
			if record.ExtractionDegraded {
				stats.Degraded++
			}

			if p.notifier != nil && len(record.Alerts) > 0 {
				if err := p.notifier.PublishAlerts(ctx, *record); err != nil {
					p.warn("alert publish failed", "url", article.URL, "error", err)
				}
			}

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return stats, err
	}

	if p.logger != nil {
		p.logger.Info("batch processed",
			"fetched", stats.Fetched,
			"skipped", stats.Skipped,
			"saved", stats.Saved,
			"not_relevant", stats.NotRelevant,
			"invalid", stats.Invalid,
			"degraded", stats.Degraded,
			"failed", stats.Failed)
	}

	return stats, nil
}

func (p *Pipeline) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}
