package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"papuanews/internal/classify"
	"papuanews/internal/config"
	"papuanews/internal/fetcher"
	"papuanews/internal/textutil"
	"papuanews/internal/types"
)

// cnnMaxArticles caps the link scan: CNN's search page is a single listing,
// so the extractor harvests at most this many article links per run.
const cnnMaxArticles = 5

// CNN scrapes cnnindonesia.com search results. The search page exposes no
// structured listing, so the extractor scans anchor tags for article URLs.
type CNN struct {
	fetcher *fetcher.Client
	cfg     *config.ScrapeConfig
	logger  *slog.Logger
	baseURL string
}

// NewCNN creates the CNN Indonesia extractor.
func NewCNN(f *fetcher.Client, cfg *config.ScrapeConfig, logger *slog.Logger) *CNN {
	return &CNN{
		fetcher: f,
		cfg:     cfg,
		logger:  logger.With("component", "scraper", "site", "cnn"),
		baseURL: "https://www.cnnindonesia.com",
	}
}

func (c *CNN) Name() string   { return "cnn" }
func (c *CNN) Source() string { return "CNN Indonesia" }

// Scrape harvests article links from the single search listing page.
func (c *CNN) Scrape(ctx context.Context, keyword string) (result *types.RunResult) {
	defer recoverRun(c.Source(), c.logger, &result)

	searchURL := fmt.Sprintf("%s/search/?query=%s", c.baseURL, url.QueryEscape(keyword))
	c.logger.Info("scraping search page", "keyword", keyword)

	resp, err := c.fetcher.GetWithRetry(ctx, searchURL, c.baseURL+"/")
	if err != nil {
		return failRun(c.Source(), err)
	}

	doc, err := resp.Document()
	if err != nil {
		return failRun(c.Source(), err)
	}

	var articles []types.Article
	seen := make(map[string]bool)

	doc.Find("a[href]").EachWithBreak(func(_ int, link *goquery.Selection) bool {
		if len(articles) >= cnnMaxArticles {
			return false
		}

		href, _ := link.Attr("href")
		href = absoluteURL(c.baseURL, href)
		if href == "" || seen[href] {
			return true
		}
		if !strings.Contains(href, "cnnindonesia.com") || !strings.Contains(href, "/berita/") {
			return true
		}
		seen[href] = true

		if a, ok := c.parseLink(link, href); ok {
			articles = append(articles, a)
		}
		return true
	})

	c.logger.Info("scrape finished", "articles", len(articles), "keyword", keyword)
	return finishRun(c.Source(), articles)
}

func (c *CNN) parseLink(link *goquery.Selection, href string) (types.Article, bool) {
	title := ""
	if h := link.Find("h1,h2,h3,h4").First(); h.Length() > 0 {
		title = textutil.CleanText(h.Text())
	} else {
		title = textutil.CleanText(link.Text())
	}
	if len(title) < minTitleLength {
		return types.Article{}, false
	}

	// Best-effort summary from surrounding markup.
	description := ""
	if parent := link.Parent(); parent.Length() > 0 {
		if p := parent.Find("p").First(); p.Length() > 0 {
			description = textutil.CleanText(p.Text())
		}
	}
	description = textutil.Truncate(description, descriptionLimit)

	rawCategory := categorySegment(href)
	if rawCategory == "" {
		rawCategory = "news"
	}

	now := time.Now()
	return types.Article{
		Title:       title,
		URL:         href,
		Description: description,
		Date:        textutil.FormatDate(now),
		Category:    classify.Normalize(rawCategory, title, href),
		Source:      c.Source(),
		ImageURL:    imageURL(link),
	}, true
}
