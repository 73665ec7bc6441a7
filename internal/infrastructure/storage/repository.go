package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"ArgusIntel/internal/domain"
	"ArgusIntel/internal/ports"
)

// Dialect selects backend-specific SQL where the engines differ.
type Dialect int

const (
	DialectSQLite Dialect = iota
	DialectPostgres
)

// Repository persists intelligence records into SQLite or Postgres. All
// queries are built with squirrel so both backends share one code path.
type Repository struct {
	db      *sql.DB
	sb      sq.StatementBuilderType
	dialect Dialect
}

var _ ports.IntelligenceRepository = (*Repository)(nil)

// Open picks the backend from the DSN: postgres:// URLs use lib/pq,
// anything else is treated as a SQLite database path.
func Open(dsn string) (*Repository, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		db, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return NewPostgresRepository(db), nil
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return NewSQLiteRepository(db), nil
}

// NewSQLiteRepository wires a SQLite-backed repository.
func NewSQLiteRepository(db *sql.DB) *Repository {
	return &Repository{
		db:      db,
		sb:      sq.StatementBuilder.PlaceholderFormat(sq.Question),
		dialect: DialectSQLite,
	}
}

// NewPostgresRepository wires a Postgres-backed repository.
func NewPostgresRepository(db *sql.DB) *Repository {
	return &Repository{
		db:      db,
		sb:      sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		dialect: DialectPostgres,
	}
}

// Close releases the underlying database handle.
func (r *Repository) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// AlreadyProcessed returns the subset of URLs that already have records.
func (r *Repository) AlreadyProcessed(ctx context.Context, urls []string) (map[string]bool, error) {
	result := make(map[string]bool)
	if r.db == nil || len(urls) == 0 {
		return result, nil
	}

	query, args, err := r.sb.
		Select("url").
		From("articles").
		Where(sq.Eq{"url": urls}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query processed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scan url: %w", err)
		}
		result[u] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return result, nil
}

// SaveRecord upserts the article row by URL and replaces its entities and
// alerts. Reprocessing the same URL reconciles to the latest record.
func (r *Repository) SaveRecord(ctx context.Context, rec domain.IntelligenceRecord) error {
	if r.db == nil {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	degraded := 0
	if rec.ExtractionDegraded {
		degraded = 1
	}

	query, args, err := r.sb.
		Insert("articles").
		Columns("title", "content", "url", "scraped_timestamp", "content_length",
			"word_count", "threat_level", "relevance_score", "detected_categories",
			"key_indicators", "extraction_degraded", "analyzed_timestamp").
		Values(rec.Article.Title, rec.Article.Content, rec.Article.URL,
			formatTime(rec.Article.ScrapedAt), rec.ContentLength, rec.WordCount,
			rec.Level.String(), rec.Score.RelevanceScore,
			strings.Join(rec.Score.MatchedCategories, ","),
			strings.Join(rec.Score.HighImpactMatches, ","),
			degraded, formatTime(rec.AnalyzedAt)).
		Suffix(`ON CONFLICT (url) DO UPDATE SET
			title = excluded.title,
			content = excluded.content,
			scraped_timestamp = excluded.scraped_timestamp,
			content_length = excluded.content_length,
			word_count = excluded.word_count,
			threat_level = excluded.threat_level,
			relevance_score = excluded.relevance_score,
			detected_categories = excluded.detected_categories,
			key_indicators = excluded.key_indicators,
			extraction_degraded = excluded.extraction_degraded,
			analyzed_timestamp = excluded.analyzed_timestamp
			RETURNING id`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	var articleID int64
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&articleID); err != nil {
		return fmt.Errorf("upsert article: %w", err)
	}

	for _, table := range []string{"entities", "defense_alerts"} {
		query, args, err := r.sb.Delete(table).Where(sq.Eq{"article_id": articleID}).ToSql()
		if err != nil {
			return fmt.Errorf("build delete %s: %w", table, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, ent := range rec.Entities {
		query, args, err := r.sb.
			Insert("entities").
			Columns("article_id", "text", "type", "entity_category").
			Values(articleID, ent.Text, string(ent.Type), ent.Category).
			ToSql()
		if err != nil {
			return fmt.Errorf("build entity insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert entity: %w", err)
		}
	}

	for _, alert := range rec.Alerts {
		query, args, err := r.sb.
			Insert("defense_alerts").
			Columns("article_id", "alert_id", "alert_type", "alert_level",
				"alert_description", "created_timestamp").
			Values(articleID, alert.ID, alert.Type, alert.Level.String(),
				alert.Description, formatTime(rec.AnalyzedAt)).
			ToSql()
		if err != nil {
			return fmt.Errorf("build alert insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert alert: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

// ThreatSummary counts stored articles per threat level.
func (r *Repository) ThreatSummary(ctx context.Context) (domain.ThreatSummary, error) {
	var summary domain.ThreatSummary
	if r.db == nil {
		return summary, nil
	}

	query, args, err := r.sb.
		Select("threat_level", "COUNT(*)").
		From("articles").
		GroupBy("threat_level").
		ToSql()
	if err != nil {
		return summary, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return summary, fmt.Errorf("query summary: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var level string
		var count int
		if err := rows.Scan(&level, &count); err != nil {
			return summary, fmt.Errorf("scan summary: %w", err)
		}
		switch domain.ParseThreatLevel(level) {
		case domain.ThreatHigh:
			summary.High = count
		case domain.ThreatMedium:
			summary.Medium = count
		default:
			summary.Low = count
		}
	}

	if err := rows.Err(); err != nil {
		return summary, fmt.Errorf("rows iteration: %w", err)
	}

	return summary, nil
}

// RecentByLevel lists the latest article headlines at the given level.
func (r *Repository) RecentByLevel(ctx context.Context, level domain.ThreatLevel, limit int) ([]domain.ArticleHeadline, error) {
	if r.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 5
	}

	query, args, err := r.sb.
		Select("title", "url", "threat_level", "relevance_score", "key_indicators", "scraped_timestamp").
		From("articles").
		Where(sq.Eq{"threat_level": level.String()}).
		OrderBy("scraped_timestamp DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query recent: %w", err)
	}
	defer rows.Close()

	var headlines []domain.ArticleHeadline
	for rows.Next() {
		var h domain.ArticleHeadline
		var levelText, indicators, scraped string
		if err := rows.Scan(&h.Title, &h.URL, &levelText, &h.RelevanceScore, &indicators, &scraped); err != nil {
			return nil, fmt.Errorf("scan headline: %w", err)
		}
		h.Level = domain.ParseThreatLevel(levelText)
		if indicators != "" {
			h.KeyIndicators = strings.Split(indicators, ",")
		}
		if ts, err := time.Parse(time.RFC3339, scraped); err == nil {
			h.ScrapedAt = ts
		}
		headlines = append(headlines, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return headlines, nil
}

// DefenseEntityCounts counts stored defense-category entities by type.
func (r *Repository) DefenseEntityCounts(ctx context.Context) (map[domain.EntityType]int, error) {
	counts := make(map[domain.EntityType]int)
	if r.db == nil {
		return counts, nil
	}

	query, args, err := r.sb.
		Select("type", "COUNT(*)").
		From("entities").
		Where(sq.Eq{"entity_category": domain.CategoryDefense}).
		GroupBy("type").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query entity counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var typ string
		var count int
		if err := rows.Scan(&typ, &count); err != nil {
			return nil, fmt.Errorf("scan entity count: %w", err)
		}
		counts[domain.EntityType(typ)] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return counts, nil
}

// AlertCountSince counts alerts created at or after the given time.
func (r *Repository) AlertCountSince(ctx context.Context, since time.Time) (int, error) {
	if r.db == nil {
		return 0, nil
	}

	query, args, err := r.sb.
		Select("COUNT(*)").
		From("defense_alerts").
		Where(sq.GtOrEq{"created_timestamp": formatTime(since)}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("query alert count: %w", err)
	}

	return count, nil
}

// Timestamps are stored as RFC3339 UTC strings so both backends compare
// them lexicographically.
func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(time.RFC3339)
}
