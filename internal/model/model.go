// Package model defines the data structures passed between the listing
// sources, the content fetcher, the digest engine, and the storage layer:
// ArticleStub, ArticleContent, Article, and CategoryCacheState.
package model

import "time"

// ArticleStub is a lightweight listing entry before full content resolution.
// Stubs are produced by a listing source and never persisted.
type ArticleStub struct {
	URL      string
	Title    string
	Category string
}

// ArticleContent is a fully resolved article. ContentHash is a sha256 hex
// digest of the normalized body, kept as an identity aid only; duplicate
// detection is title-based and happens before resolution.
type ArticleContent struct {
	URL         string
	Title       string
	Heading     string
	Summary     string
	Body        string
	ContentHash string
	Category    string
}

// Article is the persisted form. URL is the natural key: storing the same
// url twice reuses the existing row's ID.
type Article struct {
	ID          int64
	URL         string
	Category    string
	Title       string
	Summary     string
	Body        string
	ContentHash string
	ScrapedAt   time.Time
}

// CategoryCacheState records the most recent successful materialization of a
// category. LatestSeenURL is the fence-post for the next incremental refresh;
// CachedArticleIDs is ordered most-recent-first.
type CategoryCacheState struct {
	Category         string
	LatestSeenURL    string
	CachedArticleIDs []int64
	CachedAt         time.Time
}
