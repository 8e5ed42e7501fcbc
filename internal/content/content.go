// Package content resolves article stubs into full extracted text.
package content

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"

	"newsdigest/internal/model"
)

var redundantNewLines = regexp.MustCompile(`\n{3,}`)

// Fetcher downloads an article page and extracts its readable text.
type Fetcher struct {
	userAgent    string
	requestDelay time.Duration
	client       *http.Client
}

func NewFetcher(userAgent string, timeout, requestDelay time.Duration) *Fetcher {
	return &Fetcher{
		userAgent:    userAgent,
		requestDelay: requestDelay,
		client:       &http.Client{Timeout: timeout},
	}
}

// Fetch resolves a stub url into title, body, and content hash. It returns
// (nil, false) on any retrieval or parsing failure, and on pages that yield
// no readable text (paywalls, galleries).
func (f *Fetcher) Fetch(ctx context.Context, articleURL string) (*model.ArticleContent, bool) {
	// Polite delay between article requests; skipped once ctx is done.
	if f.requestDelay > 0 {
		select {
		case <-time.After(f.requestDelay):
		case <-ctx.Done():
			return nil, false
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, articleURL, nil)
	if err != nil {
		return nil, false
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		log.Printf("[WARN] failed to fetch article %s: %v", articleURL, err)
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[WARN] unexpected status %d for article %s", resp.StatusCode, articleURL)
		return nil, false
	}

	parsedURL, _ := url.Parse(articleURL)
	doc, err := readability.FromReader(resp.Body, parsedURL)
	if err != nil {
		log.Printf("[WARN] failed to extract article %s: %v", articleURL, err)
		return nil, false
	}

	body := cleanupText(doc.TextContent)
	if body == "" {
		return nil, false
	}

	title := strings.TrimSpace(doc.Title)
	if title == "" {
		title = "Untitled Article"
	}

	return &model.ArticleContent{
		URL:         articleURL,
		Title:       title,
		Body:        body,
		ContentHash: hashContent(body),
	}, true
}

func cleanupText(text string) string {
	return strings.TrimSpace(redundantNewLines.ReplaceAllString(text, "\n"))
}

func hashContent(body string) string {
	sum := sha256.Sum256([]byte(body))
	return hex.EncodeToString(sum[:])
}
