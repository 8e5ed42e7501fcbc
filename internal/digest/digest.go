// Package digest keeps per-category article caches fresh. For every requested
// category it decides whether the cached set is still usable, re-fetches
// incrementally from the last known newest url when it is not, merges new
// content with retained cached content under a target count, and writes the
// result back through the article and cache-state stores.
package digest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/samber/lo"

	"newsdigest/internal/model"
	"newsdigest/internal/summary"
)

// ListingFetcher produces ordered stubs for a category. It soft-fails by
// returning an empty slice.
type ListingFetcher interface {
	FetchListing(ctx context.Context, category string, limit int) []model.ArticleStub
}

// ContentFetcher resolves a stub url into full content, or reports absence on
// any retrieval or parsing failure.
type ContentFetcher interface {
	Fetch(ctx context.Context, url string) (*model.ArticleContent, bool)
}

// Summarizer always returns a usable heading and summary; degradation to
// placeholder text happens inside the implementation.
type Summarizer interface {
	Summarize(ctx context.Context, body, title string) summary.Result
}

type ArticleStore interface {
	Upsert(ctx context.Context, content model.ArticleContent) (int64, error)
	ListByIDs(ctx context.Context, ids []int64) ([]model.Article, error)
}

type CacheStateStore interface {
	Get(ctx context.Context, category string) (*model.CategoryCacheState, error)
	Put(ctx context.Context, state model.CategoryCacheState) error
}

var (
	// ErrNoContent marks a category that yielded zero articles after all
	// fallbacks. Soft per category.
	ErrNoContent = errors.New("no content for category")

	// ErrAllCategoriesEmpty is the only hard failure: every requested
	// category came back empty.
	ErrAllCategoriesEmpty = errors.New("no requested category yielded content")
)

// CategoryResult carries one category's outcome: either articles or a typed
// failure reason. A failed category never aborts the batch.
type CategoryResult struct {
	Category string
	Articles []model.Article
	Err      error
}

type Digester struct {
	listing     ListingFetcher
	content     ContentFetcher
	summarizer  Summarizer
	articles    ArticleStore
	cacheStates CacheStateStore

	cacheTTL time.Duration
	workers  int
	now      func() time.Time
}

func New(
	listing ListingFetcher,
	content ContentFetcher,
	summarizer Summarizer,
	articles ArticleStore,
	cacheStates CacheStateStore,
	cacheTTL time.Duration,
	workers int,
) *Digester {
	if workers < 1 {
		workers = 1
	}
	return &Digester{
		listing:     listing,
		content:     content,
		summarizer:  summarizer,
		articles:    articles,
		cacheStates: cacheStates,
		cacheTTL:    cacheTTL,
		workers:     workers,
		now:         time.Now,
	}
}

// Digest runs the evaluate/reconcile pipeline for each category and returns
// one result per category, in request order. Categories are independent: a
// fetch or store failure in one is logged and reported in its result only.
// Duplicate category names are collapsed so that each category has exactly
// one writer.
func (d *Digester) Digest(ctx context.Context, categories []string, perCategory int) ([]CategoryResult, error) {
	categories = lo.Uniq(categories)

	results := make([]CategoryResult, len(categories))

	jobs := make(chan int)
	var wg sync.WaitGroup

	workers := min(d.workers, len(categories))
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				category := categories[i]
				articles, err := d.processCategory(ctx, category, perCategory)
				if err != nil {
					log.Printf("[WARN] category %s yielded no result: %v", category, err)
				}
				results[i] = CategoryResult{Category: category, Articles: articles, Err: err}
			}
		}()
	}

	for i := range categories {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	yielded := lo.SomeBy(results, func(r CategoryResult) bool {
		return len(r.Articles) > 0
	})
	if !yielded {
		return results, ErrAllCategoriesEmpty
	}

	return results, nil
}

// processCategory drives one category: evaluate freshness, serve from cache
// when possible, otherwise reconcile and persist.
func (d *Digester) processCategory(ctx context.Context, category string, n int) ([]model.Article, error) {
	decision, state, err := d.evaluate(ctx, category)
	if err != nil {
		return nil, err
	}

	if decision == decisionFresh {
		cached, err := d.articles.ListByIDs(ctx, state.CachedArticleIDs)
		if err == nil && len(cached) > 0 {
			if len(cached) > n {
				cached = cached[:n]
			}
			log.Printf("[INFO] serving %d cached articles for %s", len(cached), category)
			return cached, nil
		}
		// Recorded ids point at nothing; heal with a full refresh.
		log.Printf("[WARN] cache state for %s references no stored articles, forcing full refresh", category)
		state = nil
	}

	var (
		fencepost string
		cached    []model.Article
	)
	if state != nil {
		fencepost = state.LatestSeenURL
		if cached, err = d.articles.ListByIDs(ctx, state.CachedArticleIDs); err != nil {
			return nil, fmt.Errorf("load cached articles for %s: %w", category, err)
		}
		// The state's id sequence is most-recent-first from the last
		// materialization; merging in that order keeps the fence-post at
		// the head when nothing new arrived.
		cached = orderByIDs(cached, state.CachedArticleIDs)
	}

	return d.reconcile(ctx, category, n, fencepost, cached)
}

func orderByIDs(articles []model.Article, ids []int64) []model.Article {
	byID := lo.KeyBy(articles, func(a model.Article) int64 { return a.ID })

	out := make([]model.Article, 0, len(articles))
	for _, id := range ids {
		if a, ok := byID[id]; ok {
			out = append(out, a)
		}
	}
	return out
}
