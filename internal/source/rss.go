package source

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/SlyMarbo/rss"
	"github.com/samber/lo"

	"newsdigest/internal/dedup"
	"newsdigest/internal/model"
)

// contextTransport injects a context into every outgoing request so that
// context cancellation and deadlines propagate through the rss library.
type contextTransport struct {
	ctx  context.Context
	base http.RoundTripper
}

func (t contextTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.base.RoundTrip(req.WithContext(t.ctx))
}

// RSSSource reads category section feeds instead of scraping section pages.
// Useful for sites that publish per-section RSS; interchangeable with
// HTMLSource behind the digest engine's ListingFetcher interface.
type RSSSource struct {
	feedTemplate string
	timeout      time.Duration
}

func NewRSSSource(feedTemplate string, timeout time.Duration) *RSSSource {
	return &RSSSource{feedTemplate: feedTemplate, timeout: timeout}
}

// FetchListing returns up to limit stubs from the category's feed, in feed
// order, with near-duplicate titles suppressed. Failures yield an empty slice.
func (s *RSSSource) FetchListing(ctx context.Context, category string, limit int) []model.ArticleStub {
	feed, err := s.loadFeed(ctx, fmt.Sprintf(s.feedTemplate, category))
	if err != nil {
		log.Printf("[ERROR] failed to load feed for %s: %v", category, err)
		return nil
	}

	stubs := lo.FilterMap(feed.Items, func(item *rss.Item, _ int) (model.ArticleStub, bool) {
		title := cleanTitle(item.Title)
		if item.Link == "" || len(title) <= minTitleLen {
			return model.ArticleStub{}, false
		}
		return model.ArticleStub{URL: item.Link, Title: title, Category: category}, true
	})

	stubs = dedup.Filter(stubs)
	if len(stubs) > limit {
		stubs = stubs[:limit]
	}

	return stubs
}

func (s *RSSSource) loadFeed(ctx context.Context, url string) (*rss.Feed, error) {
	client := &http.Client{
		Transport: contextTransport{ctx: ctx, base: http.DefaultTransport},
		Timeout:   s.timeout,
	}
	return rss.FetchByClient(url, client)
}
