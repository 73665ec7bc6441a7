package storage

import (
	"context"
	"fmt"
)

// Init creates the intelligence tables and indexes if they do not exist.
func (r *Repository) Init(ctx context.Context) error {
	if r.db == nil {
		return nil
	}

	for _, stmt := range r.schema() {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}

	return nil
}

func (r *Repository) schema() []string {
	idColumn := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if r.dialect == DialectPostgres {
		idColumn = "BIGSERIAL PRIMARY KEY"
	}

	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS articles (
			id %s,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			url TEXT UNIQUE NOT NULL,
			scraped_timestamp TEXT NOT NULL,
			content_length INTEGER,
			word_count INTEGER,
			threat_level TEXT NOT NULL DEFAULT 'LOW',
			relevance_score REAL NOT NULL DEFAULT 0,
			detected_categories TEXT,
			key_indicators TEXT,
			extraction_degraded INTEGER NOT NULL DEFAULT 0,
			analyzed_timestamp TEXT NOT NULL
		)`, idColumn),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS entities (
			id %s,
			article_id BIGINT NOT NULL REFERENCES articles (id),
			text TEXT NOT NULL,
			type TEXT NOT NULL,
			entity_category TEXT NOT NULL DEFAULT 'STANDARD'
		)`, idColumn),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS defense_alerts (
			id %s,
			article_id BIGINT NOT NULL REFERENCES articles (id),
			alert_id TEXT NOT NULL,
			alert_type TEXT NOT NULL,
			alert_level TEXT NOT NULL,
			alert_description TEXT,
			created_timestamp TEXT NOT NULL
		)`, idColumn),
		`CREATE INDEX IF NOT EXISTS idx_articles_threat_level ON articles (threat_level)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_relevance ON articles (relevance_score)`,
		`CREATE INDEX IF NOT EXISTS idx_entities_article ON entities (article_id)`,
		`CREATE INDEX IF NOT EXISTS idx_entities_category ON entities (entity_category)`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_level ON defense_alerts (alert_level)`,
	}
}
