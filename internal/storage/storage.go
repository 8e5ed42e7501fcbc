// Package storage persists articles and per-category cache state in postgres.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const schema = `
CREATE TABLE IF NOT EXISTS articles (
	id BIGSERIAL PRIMARY KEY,
	url TEXT UNIQUE NOT NULL,
	category TEXT NOT NULL,
	title TEXT NOT NULL DEFAULT '',
	summary TEXT NOT NULL DEFAULT '',
	body TEXT NOT NULL DEFAULT '',
	content_hash TEXT NOT NULL DEFAULT '',
	scraped_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_articles_category ON articles(category);
CREATE INDEX IF NOT EXISTS idx_articles_scraped_at ON articles(scraped_at);

CREATE TABLE IF NOT EXISTS category_cache (
	id BIGSERIAL PRIMARY KEY,
	category TEXT UNIQUE NOT NULL,
	latest_seen_url TEXT NOT NULL DEFAULT '',
	cached_article_ids BIGINT[] NOT NULL DEFAULT '{}',
	cached_at TIMESTAMP NOT NULL DEFAULT NOW()
);
`

// InitSchema creates the articles and category_cache tables if missing.
func InitSchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
