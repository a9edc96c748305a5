// Package scraper holds the per-site extractors. Every extractor walks a
// site's search/listing pages for a keyword, normalizes each hit into the
// canonical Article shape, and wraps the outcome in a RunResult envelope.
// Site-specific markup knowledge is confined to the extractor that needs it.
package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"papuanews/internal/config"
	"papuanews/internal/fetcher"
	"papuanews/internal/types"
)

// wib is the publication timezone used by the scraped sites.
var wib = time.FixedZone("WIB", 7*60*60)

// minTitleLength filters out navigation links and truncated fragments.
const minTitleLength = 10

// descriptionLimit bounds summary length in the canonical record.
const descriptionLimit = 200

// Scraper is a single news-site extractor.
type Scraper interface {
	// Name is the registry key, e.g. "detik".
	Name() string

	// Source is the human-readable site name, e.g. "Detik.com".
	Source() string

	// Scrape fetches and parses listing pages for the keyword. It never
	// panics and never returns nil: failures become error-status envelopes.
	Scrape(ctx context.Context, keyword string) *types.RunResult
}

// All returns every registered extractor in stable order.
func All(f *fetcher.Client, cfg *config.ScrapeConfig, logger *slog.Logger) []Scraper {
	return []Scraper{
		NewDetik(f, cfg, logger),
		NewKompas(f, cfg, logger),
		NewAntara(f, cfg, logger),
		NewCNN(f, cfg, logger),
		NewKumparan(f, cfg, logger),
		NewTribun(f, cfg, logger),
		NewSeputarPapua(f, cfg, logger),
	}
}

// finishRun dedupes page-local results, sorts newest-first when real
// timestamps were recovered, and wraps everything in a success envelope.
func finishRun(source string, articles []types.Article) *types.RunResult {
	unique := types.Dedupe(articles)

	// Stable sort: articles without a recovered timestamp keep their
	// discovery order at the tail.
	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].PublishedAt.After(unique[j].PublishedAt)
	})

	return types.Success([]string{source}, unique)
}

// failRun converts a whole-source failure into an error envelope. Extractor
// failures surface as data, never as panics into the aggregator.
func failRun(source string, err error) *types.RunResult {
	return types.Failure(fmt.Sprintf("%s scraping failed: %v", source, err))
}

// recoverRun is deferred at the top of every Scrape to convert panics into
// error envelopes.
func recoverRun(source string, logger *slog.Logger, result **types.RunResult) {
	if r := recover(); r != nil {
		logger.Error("scrape panicked", "source", source, "panic", r)
		*result = failRun(source, fmt.Errorf("panic: %v", r))
	}
}

// absoluteURL resolves href against base, returning "" for unusable links.
func absoluteURL(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	b, err := url.Parse(base)
	if err != nil {
		return ""
	}
	h, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := b.ResolveReference(h)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	return resolved.String()
}

// imageURL extracts an image source from a selection, preferring the
// lazy-load attribute over the eager src (which is often a placeholder).
func imageURL(sel *goquery.Selection) string {
	img := sel.Find("img").First()
	if img.Length() == 0 {
		return ""
	}
	if src, ok := img.Attr("data-src"); ok && src != "" {
		return src
	}
	src, _ := img.Attr("src")
	if strings.Contains(src, "placeholder") {
		if lazy, ok := img.Attr("data-src"); ok {
			return lazy
		}
		return ""
	}
	return src
}

// categorySegment pulls a raw category hint from a URL path, e.g.
// "ekonomi" from https://www.kompas.com/ekonomi/read/..., or "" when the
// path carries no usable segment.
func categorySegment(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	for _, seg := range strings.Split(strings.Trim(u.Path, "/"), "/") {
		if seg == "" || seg == "read" || strings.ContainsAny(seg, "0123456789") {
			continue
		}
		return seg
	}
	return ""
}
