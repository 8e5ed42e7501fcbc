package digest

import (
	"context"
	"fmt"
	"log"
	"time"

	"newsdigest/internal/dedup"
	"newsdigest/internal/model"
)

// fetchWindowFactor sizes the listing window scanned for the fence-post url.
// Listing pages are cheap to re-fetch; article bodies are not, so a wide
// window that bounds body fetches to genuinely new content is the right trade.
const fetchWindowFactor = 3

// topUpFactor sizes the single additional listing fetch used when the merged
// list comes up short.
const topUpFactor = 2

// candidate is one final-list entry; id and scrapedAt are set when the entry
// came from an already-stored cached article.
type candidate struct {
	content   model.ArticleContent
	id        int64
	scrapedAt time.Time
}

// reconcile merges freshly fetched content for a category with previously
// cached articles under the target count n, persists the outcome, and returns
// the final list: new items in fetch order, then retained cached items, then
// top-up items, capped at n.
func (d *Digester) reconcile(ctx context.Context, category string, n int, fencepost string, cached []model.Article) ([]model.Article, error) {
	// Total body-resolution attempts per call are capped so a pathological
	// listing cannot stretch one refresh indefinitely.
	budget := fetchWindowFactor * n

	newStubs := d.newStubs(ctx, category, n, fencepost)

	// seenURLs tracks every url already in the candidate list plus every url
	// whose resolution failed this call: failed stubs are dropped, not
	// retried, so the top-up pass must skip them too.
	seenURLs := map[string]bool{}

	var resolved []model.ArticleContent
	for _, stub := range newStubs {
		if len(resolved) >= n || budget <= 0 {
			break
		}
		budget--
		seenURLs[stub.URL] = true

		content, ok := d.resolve(ctx, stub)
		if !ok {
			continue
		}
		resolved = append(resolved, content)
	}

	// New content first, then cached items whose urls it did not replace.
	newURLs := map[string]bool{}
	final := make([]candidate, 0, n)
	for _, c := range resolved {
		newURLs[c.URL] = true
		final = append(final, candidate{content: c})
	}

	for _, a := range cached {
		if newURLs[a.URL] {
			continue
		}
		seenURLs[a.URL] = true
		final = append(final, candidate{content: cachedContent(a), id: a.ID, scrapedAt: a.ScrapedAt})
	}

	if len(final) > n {
		final = final[:n]
	}

	// One top-up pass, and only when the shortfall is not an artifact of
	// already having enough new content.
	if len(final) < n && len(resolved) < n {
		log.Printf("[INFO] only %d articles for %s, fetching more", len(final), category)

		extra := dedup.Filter(d.listing.FetchListing(ctx, category, topUpFactor*n))
		for _, stub := range extra {
			if len(final) >= n || budget <= 0 {
				break
			}
			if seenURLs[stub.URL] {
				continue
			}
			budget--

			content, ok := d.resolve(ctx, stub)
			if !ok {
				continue
			}
			seenURLs[stub.URL] = true
			final = append(final, candidate{content: content})
		}
	}

	if len(final) == 0 {
		return nil, fmt.Errorf("%w %q", ErrNoContent, category)
	}

	return d.persist(ctx, category, final)
}

// newStubs returns the stubs considered new for this refresh. With a
// fence-post it scans a wide filtered window for the previously newest url
// and takes the strictly-newer prefix; a fence-post that has scrolled off the
// window degrades to the top n, as does having no fence-post at all.
func (d *Digester) newStubs(ctx context.Context, category string, n int, fencepost string) []model.ArticleStub {
	if fencepost == "" {
		return dedup.Filter(d.listing.FetchListing(ctx, category, n))
	}

	window := dedup.Filter(d.listing.FetchListing(ctx, category, fetchWindowFactor*n))

	for i, stub := range window {
		if stub.URL == fencepost {
			log.Printf("[INFO] %d new articles since last refresh for %s", i, category)
			return window[:i]
		}
	}

	log.Printf("[WARN] last cached article not in current listings for %s, taking top %d", category, n)
	if len(window) > n {
		window = window[:n]
	}
	return window
}

// resolve fetches a stub's full content and summarizes it. Stubs that fail to
// resolve are dropped without retry; summarization never fails the caller.
func (d *Digester) resolve(ctx context.Context, stub model.ArticleStub) (model.ArticleContent, bool) {
	content, ok := d.content.Fetch(ctx, stub.URL)
	if !ok {
		return model.ArticleContent{}, false
	}
	content.Category = stub.Category

	res := d.summarizer.Summarize(ctx, content.Body, content.Title)
	content.Heading = res.Heading
	content.Summary = res.Summary

	return *content, true
}

// persist upserts the final list's articles by url, overwrites the category's
// cache state with the resulting ids, and returns the final records. Entries
// without body text stay in the returned list but are never stored.
func (d *Digester) persist(ctx context.Context, category string, final []candidate) ([]model.Article, error) {
	now := d.now().UTC()

	articles := make([]model.Article, 0, len(final))
	ids := make([]int64, 0, len(final))

	for _, c := range final {
		id := c.id
		if id == 0 && c.content.Body != "" {
			var err error
			if id, err = d.articles.Upsert(ctx, c.content); err != nil {
				return nil, fmt.Errorf("store article %s: %w", c.content.URL, err)
			}
		}
		if id != 0 {
			ids = append(ids, id)
		}

		scrapedAt := c.scrapedAt
		if scrapedAt.IsZero() {
			scrapedAt = now
		}

		articles = append(articles, model.Article{
			ID:          id,
			URL:         c.content.URL,
			Category:    category,
			Title:       c.content.Title,
			Summary:     c.content.Summary,
			Body:        c.content.Body,
			ContentHash: c.content.ContentHash,
			ScrapedAt:   scrapedAt,
		})
	}

	if len(ids) > 0 {
		state := model.CategoryCacheState{
			Category:         category,
			LatestSeenURL:    articles[0].URL,
			CachedArticleIDs: ids,
			CachedAt:         now,
		}
		if err := d.cacheStates.Put(ctx, state); err != nil {
			return nil, fmt.Errorf("update cache state for %s: %w", category, err)
		}
		log.Printf("[INFO] refreshed cache for %s with %d articles", category, len(ids))
	}

	return articles, nil
}

// cachedContent lifts a stored article back into the transient content form
// used while merging.
func cachedContent(a model.Article) model.ArticleContent {
	return model.ArticleContent{
		URL:         a.URL,
		Title:       a.Title,
		Heading:     a.Title,
		Summary:     a.Summary,
		Body:        a.Body,
		ContentHash: a.ContentHash,
		Category:    a.Category,
	}
}
