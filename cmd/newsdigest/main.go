package main

import (
	"context"
	"errors"
	"log"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"newsdigest/internal/config"
	"newsdigest/internal/content"
	"newsdigest/internal/digest"
	"newsdigest/internal/source"
	"newsdigest/internal/storage"
	"newsdigest/internal/summary"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg := config.Get()

	db, err := sqlx.Connect("postgres", cfg.DatabaseDSN)
	if err != nil {
		log.Printf("[ERROR] failed to connect to db: %v", err)
		return
	}
	defer db.Close()

	if err := storage.InitSchema(ctx, db); err != nil {
		log.Printf("[ERROR] failed to init schema: %v", err)
		return
	}

	sectionURL, err := url.Parse(cfg.SectionURLTemplate)
	if err != nil {
		log.Printf("[ERROR] invalid section_url_template: %v", err)
		return
	}

	var (
		articleStorage = storage.NewArticleStorage(db)
		cacheStorage   = storage.NewCacheStateStorage(db)
		fetcher        = content.NewFetcher(cfg.UserAgent, cfg.ContentTimeout, cfg.RequestDelay)
	)

	var listing digest.ListingFetcher
	switch cfg.ListingType {
	case "rss":
		listing = source.NewRSSSource(cfg.FeedURLTemplate, cfg.ListingTimeout)
	default:
		listing = source.NewHTMLSource(cfg.SectionURLTemplate, sectionURL.Host, cfg.UserAgent, cfg.ListingTimeout)
	}

	var model summary.Model
	switch cfg.AIType {
	case "openai":
		if cfg.AIKey == "" {
			log.Printf("[ERROR] ai_key is required when ai_type is \"openai\"")
			return
		}
		model = summary.NewOpenAISummarizer(cfg.AIBaseURL, cfg.AIKey, cfg.AIModel, cfg.AITimeout)
		log.Printf("[INFO] using OpenAI-compatible summarizer (model: %s)", cfg.AIModel)
	case "ollama":
		if cfg.AIBaseURL == "" {
			log.Printf("[ERROR] ai_base_url is required when ai_type is \"ollama\"")
			return
		}
		model = summary.NewOllamaSummarizer(cfg.AIBaseURL, cfg.AIModel, cfg.AITimeout)
		log.Printf("[INFO] using Ollama summarizer (model: %s)", cfg.AIModel)
	default:
		log.Printf("[INFO] no summarizer configured, using truncation fallback only")
	}

	digester := digest.New(
		listing,
		fetcher,
		summary.NewFallback(model),
		articleStorage,
		cacheStorage,
		cfg.CacheTTL,
		cfg.FetchWorkers,
	)

	results, err := digester.Digest(ctx, cfg.Categories, cfg.ArticlesPerCategory)
	if err != nil {
		if errors.Is(err, digest.ErrAllCategoriesEmpty) {
			log.Printf("[ERROR] %v", err)
			os.Exit(1)
		}
		log.Printf("[ERROR] digest failed: %v", err)
		os.Exit(1)
	}

	for _, res := range results {
		if res.Err != nil {
			log.Printf("[WARN] %s: %v", res.Category, res.Err)
			continue
		}
		log.Printf("[INFO] %s: %d articles", res.Category, len(res.Articles))
		for _, a := range res.Articles {
			log.Printf("[INFO]   %s (%s)", a.Title, a.URL)
		}
	}
}
