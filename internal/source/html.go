// Package source implements the listing fetchers that turn a category into an
// ordered sequence of article stubs: an HTML section-page scraper and an RSS
// section-feed reader. Both soft-fail by returning an empty slice.
package source

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"newsdigest/internal/dedup"
	"newsdigest/internal/model"
)

var headlineSelectors = []string{
	"h2 a", "h3 a", "h4 a", "h5 a", "h6 a",
	".title a", ".headline a", ".story-title a",
}

// HTMLSource scrapes a news site's category section pages for headline links.
type HTMLSource struct {
	urlTemplate string
	siteHost    string
	userAgent   string
	client      *http.Client
}

func NewHTMLSource(urlTemplate, siteHost, userAgent string, timeout time.Duration) *HTMLSource {
	return &HTMLSource{
		urlTemplate: urlTemplate,
		siteHost:    siteHost,
		userAgent:   userAgent,
		client:      &http.Client{Timeout: timeout},
	}
}

// FetchListing returns up to limit stubs for a category, newest first, with
// near-duplicate titles already suppressed. Any failure yields an empty slice.
func (s *HTMLSource) FetchListing(ctx context.Context, category string, limit int) []model.ArticleStub {
	sectionURL := fmt.Sprintf(s.urlTemplate, category)

	doc, err := s.load(ctx, sectionURL)
	if err != nil {
		log.Printf("[ERROR] failed to load listing for %s: %v", category, err)
		return nil
	}

	var stubs []model.ArticleStub
	found := map[string]bool{}

	for _, selector := range headlineSelectors {
		doc.Find(selector).Each(func(_ int, link *goquery.Selection) {
			if len(found) >= limit*2 {
				return
			}
			if stub, ok := s.stubFromLink(link, category, found); ok {
				stubs = append(stubs, stub)
			}
		})
	}

	// Headline selectors came up short, fall back to every anchor on the page.
	if len(stubs) < limit {
		doc.Find("a[href]").EachWithBreak(func(_ int, link *goquery.Selection) bool {
			if len(stubs) >= limit {
				return false
			}
			if stub, ok := s.stubFromLink(link, category, found); ok {
				stubs = append(stubs, stub)
			}
			return true
		})
	}

	stubs = dedup.Filter(stubs)
	if len(stubs) > limit {
		stubs = stubs[:limit]
	}

	log.Printf("[INFO] found %d listing entries for %s", len(stubs), category)
	return stubs
}

func (s *HTMLSource) stubFromLink(link *goquery.Selection, category string, found map[string]bool) (model.ArticleStub, bool) {
	href := strings.TrimSpace(link.AttrOr("href", ""))
	if href == "" {
		return model.ArticleStub{}, false
	}

	var fullURL string
	switch {
	case strings.HasPrefix(href, "/"):
		fullURL = "https://" + s.siteHost + href
	case strings.HasPrefix(href, "http"):
		fullURL = href
	default:
		return model.ArticleStub{}, false
	}

	if found[fullURL] || !validArticleURL(s.siteHost, fullURL) {
		return model.ArticleStub{}, false
	}

	title := cleanTitle(extractLinkTitle(link))
	if len(title) <= minTitleLen {
		return model.ArticleStub{}, false
	}

	found[fullURL] = true
	return model.ArticleStub{URL: fullURL, Title: title, Category: category}, true
}

// extractLinkTitle tries the anchor text, then its title attribute, then the
// alt text of a nested image.
func extractLinkTitle(link *goquery.Selection) string {
	title := strings.TrimSpace(link.Text())

	if len(title) < 10 {
		if t := strings.TrimSpace(link.AttrOr("title", "")); len(t) > len(title) {
			title = t
		}
	}

	if len(title) < 10 {
		img := link.Find("img").First()
		if t := strings.TrimSpace(img.AttrOr("alt", "")); len(t) > len(title) {
			title = t
		}
	}

	return title
}

func (s *HTMLSource) load(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}

	return goquery.NewDocumentFromReader(resp.Body)
}
