package ports

import (
	"context"
	"time"

	"ArgusIntel/internal/domain"
)

// ArticleSource pulls fresh articles from upstream news providers.
type ArticleSource interface {
	FetchBatch(ctx context.Context, now time.Time) ([]domain.Article, error)
}

// EntityRecognizer is the external NLP capability producing raw entity
// candidates. Implementations may fail; the extractor degrades to
// lexicon-only entities when they do.
type EntityRecognizer interface {
	Recognize(ctx context.Context, text string) ([]domain.EntityCandidate, error)
}

// IntelligenceRepository persists assembled records and serves the
// read-only queries used by reports and the dashboard API.
type IntelligenceRepository interface {
	AlreadyProcessed(ctx context.Context, urls []string) (map[string]bool, error)
	SaveRecord(ctx context.Context, rec domain.IntelligenceRecord) error
	ThreatSummary(ctx context.Context) (domain.ThreatSummary, error)
	RecentByLevel(ctx context.Context, level domain.ThreatLevel, limit int) ([]domain.ArticleHeadline, error)
	DefenseEntityCounts(ctx context.Context) (map[domain.EntityType]int, error)
	AlertCountSince(ctx context.Context, since time.Time) (int, error)
}

// Notifier pushes high-priority alerts to an outbound channel (Telegram, etc.).
type Notifier interface {
	PublishAlerts(ctx context.Context, rec domain.IntelligenceRecord) error
}

// Scheduler controls when scan batches execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
