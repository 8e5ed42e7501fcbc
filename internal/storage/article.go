package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/samber/lo"

	"newsdigest/internal/model"
)

type ArticleStorage struct {
	db *sqlx.DB
}

func NewArticleStorage(db *sqlx.DB) *ArticleStorage {
	return &ArticleStorage{db: db}
}

type dbArticle struct {
	ID          int64     `db:"id"`
	URL         string    `db:"url"`
	Category    string    `db:"category"`
	Title       string    `db:"title"`
	Summary     string    `db:"summary"`
	Body        string    `db:"body"`
	ContentHash string    `db:"content_hash"`
	ScrapedAt   time.Time `db:"scraped_at"`
}

func (a dbArticle) toModel() model.Article {
	return model.Article(a)
}

// FindByURL returns the stored article for url, or nil when absent.
func (s *ArticleStorage) FindByURL(ctx context.Context, url string) (*model.Article, error) {
	var row dbArticle
	err := s.db.GetContext(ctx, &row,
		`SELECT id, url, category, title, summary, body, content_hash, scraped_at
		 FROM articles WHERE url = $1`, url)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find article by url: %w", err)
	}

	article := row.toModel()
	return &article, nil
}

// Upsert stores content under its url and returns the row id. A url that is
// already stored keeps its existing row untouched and returns its id, so
// storing the same url twice never creates a duplicate.
func (s *ArticleStorage) Upsert(ctx context.Context, content model.ArticleContent) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO articles (url, category, title, summary, body, content_hash)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (url) DO NOTHING
		 RETURNING id`,
		content.URL, content.Category, content.Title, content.Summary,
		content.Body, content.ContentHash,
	).Scan(&id)
	if isNoRows(err) {
		// Conflict path: the url is already stored, reuse its id.
		if err := s.db.GetContext(ctx, &id,
			`SELECT id FROM articles WHERE url = $1`, content.URL); err != nil {
			return 0, fmt.Errorf("find existing article id: %w", err)
		}
		return id, nil
	}
	if err != nil {
		return 0, fmt.Errorf("insert article: %w", err)
	}

	return id, nil
}

// ListByIDs returns the stored articles for ids ordered by scraped_at
// descending. Ids with no matching row are silently missing from the result.
func (s *ArticleStorage) ListByIDs(ctx context.Context, ids []int64) ([]model.Article, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var rows []dbArticle
	err := s.db.SelectContext(ctx, &rows,
		`SELECT id, url, category, title, summary, body, content_hash, scraped_at
		 FROM articles WHERE id = ANY($1) ORDER BY scraped_at DESC`,
		pq.Int64Array(ids))
	if err != nil {
		return nil, fmt.Errorf("list articles by ids: %w", err)
	}

	return lo.Map(rows, func(row dbArticle, _ int) model.Article {
		return row.toModel()
	}), nil
}
