package scraper

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"papuanews/internal/classify"
	"papuanews/internal/config"
	"papuanews/internal/fetcher"
	"papuanews/internal/textutil"
	"papuanews/internal/types"
)

// Tribun scrapes tribunnews.com section pages. The site has no usable
// keyword search for anonymous clients, so the extractor walks a fixed set
// of sections and visits each article page for its details; returned
// articles are untagged upstream and rely on the classifier for regional
// relevance.
type Tribun struct {
	fetcher *fetcher.Client
	cfg     *config.ScrapeConfig
	logger  *slog.Logger
	baseURL string

	sections []string
}

// NewTribun creates the Tribunnews extractor.
func NewTribun(f *fetcher.Client, cfg *config.ScrapeConfig, logger *slog.Logger) *Tribun {
	return &Tribun{
		fetcher: f,
		cfg:     cfg,
		logger:  logger.With("component", "scraper", "site", "tribun"),
		baseURL: "https://www.tribunnews.com",
		sections: []string{
			"/regional",
			"/ekonomi",
			"/techno",
			"/sport",
			"/entertainment",
		},
	}
}

func (t *Tribun) Name() string   { return "tribun" }
func (t *Tribun) Source() string { return "Tribunnews.com" }

// perSection bounds detail-page fetches; each article costs one request.
func (t *Tribun) perSection() int {
	if t.cfg.Constrained {
		return 2
	}
	return 5
}

// Scrape walks the configured sections; the keyword is unused.
func (t *Tribun) Scrape(ctx context.Context, _ string) (result *types.RunResult) {
	defer recoverRun(t.Source(), t.logger, &result)

	sections := t.sections
	if t.cfg.Constrained && len(sections) > 2 {
		sections = sections[:2]
	}

	var articles []types.Article
	for i, section := range sections {
		sectionURL := t.baseURL + section
		t.logger.Info("scraping section", "url", sectionURL)

		resp, err := t.fetcher.GetWithRetry(ctx, sectionURL, t.baseURL+"/")
		if err != nil {
			t.logger.Warn("section fetch failed, skipping", "url", sectionURL, "error", err)
			continue
		}
		doc, err := resp.Document()
		if err != nil {
			continue
		}

		for _, articleURL := range t.collectLinks(doc) {
			a, ok := t.fetchArticle(ctx, articleURL, strings.TrimPrefix(section, "/"))
			if ok {
				articles = append(articles, a)
			}
			t.fetcher.Throttle(ctx)
		}

		if i < len(sections)-1 {
			t.fetcher.Throttle(ctx)
		}
	}

	t.logger.Info("scrape finished", "articles", len(articles))
	return finishRun(t.Source(), articles)
}

// collectLinks gathers candidate article URLs from a section listing.
func (t *Tribun) collectLinks(doc *goquery.Document) []string {
	seen := make(map[string]bool)
	var links []string
	limit := t.perSection()

	doc.Find("a.title, h3 a, h4 a").EachWithBreak(func(_ int, link *goquery.Selection) bool {
		if len(links) >= limit {
			return false
		}
		href, _ := link.Attr("href")
		if !strings.Contains(href, "/202") && !strings.Contains(href, "/berita") && !strings.Contains(href, "/news") {
			return true
		}
		href = absoluteURL(t.baseURL, href)
		if href == "" || seen[href] {
			return true
		}
		seen[href] = true
		links = append(links, href)
		return true
	})
	return links
}

// fetchArticle visits one article page and extracts its details.
func (t *Tribun) fetchArticle(ctx context.Context, articleURL, section string) (types.Article, bool) {
	resp, err := t.fetcher.Get(ctx, articleURL, t.baseURL+"/")
	if err != nil {
		t.logger.Debug("article fetch failed", "url", articleURL, "error", err)
		return types.Article{}, false
	}
	doc, err := resp.Document()
	if err != nil {
		return types.Article{}, false
	}

	title := ""
	for _, sel := range []string{"h1", ".f50", ".title", "h2"} {
		title = textutil.CleanText(doc.Find(sel).First().Text())
		if len(title) >= minTitleLength {
			break
		}
	}
	if len(title) < minTitleLength {
		return types.Article{}, false
	}

	publishedAt := time.Time{}
	date := time.Now()
	for _, sel := range []string{"time", ".time", ".date", ".published"} {
		elem := doc.Find(sel).First()
		if elem.Length() == 0 {
			continue
		}
		dateText := textutil.CleanText(elem.Text())
		if dateText == "" {
			dateText, _ = elem.Attr("datetime")
		}
		if dateText != "" {
			if parsed, ok := textutil.ParseDate(dateText); ok {
				date = parsed
				publishedAt = parsed
			}
			break
		}
	}

	description := ""
	for _, sel := range []string{".baca", ".desc", ".summary"} {
		description = textutil.CleanText(doc.Find(sel).First().Text())
		if description != "" {
			break
		}
	}
	if description == "" {
		description, _ = doc.Find(`meta[name="description"]`).First().Attr("content")
		description = textutil.CleanText(description)
	}
	description = textutil.Truncate(description, descriptionLimit)

	image, _ := doc.Find(`meta[property="og:image"]`).First().Attr("content")

	return types.Article{
		Title:       title,
		URL:         articleURL,
		Description: description,
		Date:        textutil.FormatDate(date),
		Category:    classify.Normalize(section, title, articleURL),
		Source:      t.Source(),
		ImageURL:    image,
		PublishedAt: publishedAt,
	}, true
}
