// Package aggregate runs every registered extractor across the configured
// regional searches and merges the results into one deduplicated article
// set with a per-source outcome ledger.
package aggregate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"papuanews/internal/config"
	"papuanews/internal/scraper"
	"papuanews/internal/types"
)

// Aggregator orchestrates the extractors. Execution is strictly sequential:
// one extractor at a time, one region at a time, as a courtesy to the
// scraped sites. The accumulator is only touched by this single caller.
type Aggregator struct {
	scrapers []scraper.Scraper
	regions  []config.Region
	logger   *slog.Logger
}

// New creates an Aggregator over the given extractors and regions.
func New(scrapers []scraper.Scraper, regions []config.Region, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		scrapers: scrapers,
		regions:  regions,
		logger:   logger.With("component", "aggregator"),
	}
}

// Sites returns the registered extractor names in run order.
func (ag *Aggregator) Sites() []string {
	names := make([]string, len(ag.scrapers))
	for i, s := range ag.scrapers {
		names[i] = s.Name()
	}
	return names
}

// RunAll scrapes every region × site combination, tags articles with their
// region, and merges everything into a single deduplicated envelope with a
// cumulative SiteOutcome ledger. A failing source never aborts the others,
// and running twice against unchanged pages yields the same article set.
func (ag *Aggregator) RunAll(ctx context.Context) *types.RunResult {
	var all []types.Article
	var sources []string
	outcomes := make(map[string]types.SiteOutcome)

	for _, region := range ag.regions {
		ag.logger.Info("scraping region", "region", region.Name, "keyword", region.Keyword)

		for _, s := range ag.scrapers {
			articles, err := ag.runOne(ctx, s, region.Keyword)
			if err != nil {
				ag.logger.Error("source failed",
					"site", s.Name(), "region", region.Name, "error", err)
				outcomes[s.Name()] = types.SiteOutcome{
					Status: types.OutcomeError,
					Count:  outcomes[s.Name()].Count,
					Error:  err.Error(),
				}
				continue
			}

			if len(articles) == 0 {
				ag.logger.Warn("no articles found", "site", s.Name(), "region", region.Name)
				if _, seen := outcomes[s.Name()]; !seen {
					outcomes[s.Name()] = types.SiteOutcome{Status: types.OutcomeNoArticles}
				}
				continue
			}

			for i := range articles {
				articles[i].Region = region.Name
			}
			all = append(all, articles...)
			sources = append(sources, fmt.Sprintf("%s (%s)", s.Name(), region.Name))

			// Counts accumulate across region loops for the same site.
			outcomes[s.Name()] = types.SiteOutcome{
				Status: types.OutcomeSuccess,
				Count:  outcomes[s.Name()].Count + len(articles),
			}
			ag.logger.Info("source scraped",
				"site", s.Name(), "region", region.Name, "articles", len(articles))
		}
	}

	// First occurrence wins: a URL surfacing under two region tags keeps
	// the first-seen tag.
	unique := types.Dedupe(all)
	ag.logger.Info("aggregation complete", "total", len(all), "unique", len(unique))

	result := types.Success(sources, unique)
	result.SiteResults = outcomes
	return result
}

// RunOne scrapes a single site by registry name, using the keyword when
// given or the first configured region's keyword otherwise. An unknown name
// yields an error envelope listing the available sites.
func (ag *Aggregator) RunOne(ctx context.Context, siteName, keyword string) *types.RunResult {
	var target scraper.Scraper
	for _, s := range ag.scrapers {
		if s.Name() == siteName {
			target = s
			break
		}
	}
	if target == nil {
		return types.Failure(fmt.Sprintf("unknown site: %s (available: %s)",
			siteName, strings.Join(ag.Sites(), ", ")))
	}

	if keyword == "" && len(ag.regions) > 0 {
		keyword = ag.regions[0].Keyword
	}

	articles, err := ag.runOne(ctx, target, keyword)
	if err != nil {
		return types.Failure(fmt.Sprintf("error scraping %s: %v", siteName, err))
	}
	return types.Success([]string{target.Source()}, articles)
}

// runOne invokes one extractor with panic isolation and unwraps its
// envelope into an article list or an error.
func (ag *Aggregator) runOne(ctx context.Context, s scraper.Scraper, keyword string) (articles []types.Article, err error) {
	defer func() {
		if r := recover(); r != nil {
			articles = nil
			err = fmt.Errorf("panic in %s: %v", s.Name(), r)
		}
	}()

	result := s.Scrape(ctx, keyword)
	if result == nil {
		return nil, fmt.Errorf("%s returned no result", s.Name())
	}
	if !result.OK() {
		return nil, fmt.Errorf("%s", result.Message)
	}

	// Drop anything without the required identity fields before it can
	// reach the merged output.
	for _, a := range result.Articles() {
		if a.Valid() {
			articles = append(articles, a)
		}
	}
	return articles, nil
}
