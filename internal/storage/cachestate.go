package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"newsdigest/internal/model"
)

type CacheStateStorage struct {
	db *sqlx.DB
}

func NewCacheStateStorage(db *sqlx.DB) *CacheStateStorage {
	return &CacheStateStorage{db: db}
}

type dbCacheState struct {
	Category         string        `db:"category"`
	LatestSeenURL    string        `db:"latest_seen_url"`
	CachedArticleIDs pq.Int64Array `db:"cached_article_ids"`
	CachedAt         time.Time     `db:"cached_at"`
}

// Get returns the cache state for a category, or nil when none exists yet.
func (s *CacheStateStorage) Get(ctx context.Context, category string) (*model.CategoryCacheState, error) {
	var row dbCacheState
	err := s.db.GetContext(ctx, &row,
		`SELECT category, latest_seen_url, cached_article_ids, cached_at
		 FROM category_cache WHERE category = $1`, category)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cache state: %w", err)
	}

	return &model.CategoryCacheState{
		Category:         row.Category,
		LatestSeenURL:    row.LatestSeenURL,
		CachedArticleIDs: row.CachedArticleIDs,
		CachedAt:         row.CachedAt,
	}, nil
}

// Put overwrites the category's cache state, creating it on first refresh.
func (s *CacheStateStorage) Put(ctx context.Context, state model.CategoryCacheState) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO category_cache (category, latest_seen_url, cached_article_ids, cached_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (category) DO UPDATE SET
			latest_seen_url = EXCLUDED.latest_seen_url,
			cached_article_ids = EXCLUDED.cached_article_ids,
			cached_at = EXCLUDED.cached_at`,
		state.Category, state.LatestSeenURL, pq.Int64Array(state.CachedArticleIDs), state.CachedAt)
	if err != nil {
		return fmt.Errorf("put cache state: %w", err)
	}

	return nil
}
