// Package ingest runs the aggregator and reconciles its output with the
// article store. Re-running against unchanged pages is a no-op: the source
// URL is the identity key, and existing rows are only ever enriched, never
// rewritten.
package ingest

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"papuanews/internal/aggregate"
	"papuanews/internal/store"
	"papuanews/internal/types"
)

// Substrings that mark a link as an ad redirect rather than an article.
var blockedURLFragments = []string{
	"doubleclick",
	"googleadservices",
	"googlesyndication",
	"/iklan/",
	"/ads/",
}

// Report summarizes one ingestion cycle.
type Report struct {
	Status         string                       `json:"status"`
	ArticlesFound  int                          `json:"articles_found"`
	ArticlesSaved  int                          `json:"articles_saved"`
	ArticlesMerged int                          `json:"articles_merged"`
	SiteResults    map[string]types.SiteOutcome `json:"site_results,omitempty"`
	Message        string                       `json:"message,omitempty"`
}

// Ingester ties the aggregator to a store.
type Ingester struct {
	aggregator *aggregate.Aggregator
	store      store.Store
	logger     *slog.Logger
}

// New creates an Ingester.
func New(ag *aggregate.Aggregator, st store.Store, logger *slog.Logger) *Ingester {
	return &Ingester{
		aggregator: ag,
		store:      st,
		logger:     logger.With("component", "ingest"),
	}
}

// Run executes a full scrape-and-persist cycle.
func (in *Ingester) Run(ctx context.Context) Report {
	result := in.aggregator.RunAll(ctx)
	if !result.OK() {
		return Report{Status: types.StatusError, Message: result.Message}
	}

	articles := result.Articles()
	report := Report{
		Status:        types.StatusSuccess,
		ArticlesFound: len(articles),
		SiteResults:   result.SiteResults,
	}

	for _, a := range articles {
		saved, merged, err := in.Upsert(ctx, a)
		if err != nil {
			in.logger.Error("upsert failed", "url", a.URL, "error", err)
			continue
		}
		if saved {
			report.ArticlesSaved++
		}
		if merged {
			report.ArticlesMerged++
		}
	}

	in.logger.Info("ingestion cycle complete",
		"found", report.ArticlesFound,
		"saved", report.ArticlesSaved,
		"merged", report.ArticlesMerged)
	return report
}

// Upsert persists one article. New URLs are inserted; known URLs are only
// enriched, with two allowed updates:
//
//   - image_url is backfilled when the stored row has none
//   - category is upgraded when the stored value is still the generic
//     "news" placeholder and the new value is more specific than Nasional
//
// Title, summary, date, and source name are never overwritten. Returns
// whether a row was inserted and whether one was enriched.
func (in *Ingester) Upsert(ctx context.Context, a types.Article) (saved, merged bool, err error) {
	if !AcceptableURL(a.URL) {
		in.logger.Debug("skipping article", "url", a.URL, "reason", "unacceptable url")
		return false, false, nil
	}

	existing, err := in.store.FindBySourceURL(ctx, a.URL)
	if errors.Is(err, types.ErrNotFound) {
		row := store.FromArticle(a)
		if err := in.store.Insert(ctx, &row); err != nil {
			return false, false, err
		}
		return true, false, nil
	}
	if err != nil {
		return false, false, err
	}

	fields := make(map[string]any)
	if existing.ImageURL == "" && a.ImageURL != "" {
		fields["image_url"] = a.ImageURL
	}
	if categoryUpgrade(existing.Category, a.Category) {
		fields["category"] = a.Category
	}
	if len(fields) == 0 {
		return false, false, nil
	}
	if err := in.store.UpdateFields(ctx, a.URL, fields); err != nil {
		return false, false, err
	}
	return false, true, nil
}

func categoryUpgrade(stored, incoming string) bool {
	if stored != "news" && stored != "News" {
		return false
	}
	return incoming != "" && incoming != "Nasional"
}

// AcceptableURL reports whether a link is a persistable article URL: an
// absolute http(s) URL that is not an ad redirect.
func AcceptableURL(rawURL string) bool {
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return false
	}
	lower := strings.ToLower(rawURL)
	for _, fragment := range blockedURLFragments {
		if strings.Contains(lower, fragment) {
			return false
		}
	}
	return true
}
