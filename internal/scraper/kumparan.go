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

const kumparanMaxArticles = 5

// skipSegments are link fragments that never lead to article pages.
var kumparanSkip = []string{"login", "register", "search", "tag", "#"}

// Kumparan scrapes kumparan.com. The site is mostly client-rendered, so the
// extractor settles for whatever article links the initial HTML carries,
// from the homepage, the news channel, and the search page.
type Kumparan struct {
	fetcher *fetcher.Client
	cfg     *config.ScrapeConfig
	logger  *slog.Logger
	baseURL string
}

// NewKumparan creates the Kumparan extractor.
func NewKumparan(f *fetcher.Client, cfg *config.ScrapeConfig, logger *slog.Logger) *Kumparan {
	return &Kumparan{
		fetcher: f,
		cfg:     cfg,
		logger:  logger.With("component", "scraper", "site", "kumparan"),
		baseURL: "https://kumparan.com",
	}
}

func (k *Kumparan) Name() string   { return "kumparan" }
func (k *Kumparan) Source() string { return "Kumparan" }

// Scrape harvests article links from a small fixed set of listing URLs.
func (k *Kumparan) Scrape(ctx context.Context, keyword string) (result *types.RunResult) {
	defer recoverRun(k.Source(), k.logger, &result)

	pages := []string{
		k.baseURL + "/",
		k.baseURL + "/kumparannews",
		fmt.Sprintf("%s/search/%s", k.baseURL, url.PathEscape(keyword)),
	}

	var articles []types.Article
	seen := make(map[string]bool)

	for i, pageURL := range pages {
		if len(articles) >= kumparanMaxArticles {
			break
		}

		k.logger.Info("scraping listing", "url", pageURL)
		resp, err := k.fetcher.GetWithRetry(ctx, pageURL, k.baseURL+"/")
		if err != nil {
			k.logger.Warn("listing fetch failed, trying next", "url", pageURL, "error", err)
			continue
		}

		doc, err := resp.Document()
		if err != nil {
			continue
		}

		doc.Find("a[href]").EachWithBreak(func(_ int, link *goquery.Selection) bool {
			if len(articles) >= kumparanMaxArticles {
				return false
			}

			href, _ := link.Attr("href")
			if !k.looksLikeArticle(href) {
				return true
			}
			href = absoluteURL(k.baseURL, href)
			if href == "" || seen[href] {
				return true
			}
			seen[href] = true

			if a, ok := k.parseLink(link, href); ok {
				articles = append(articles, a)
			}
			return true
		})

		if i < len(pages)-1 {
			k.fetcher.Throttle(ctx)
		}
	}

	k.logger.Info("scrape finished", "articles", len(articles), "keyword", keyword)
	return finishRun(k.Source(), articles)
}

// looksLikeArticle filters out navigation and utility links.
func (k *Kumparan) looksLikeArticle(href string) bool {
	if len(href) <= 10 {
		return false
	}
	if !strings.Contains(href, "kumparan.com") && !strings.HasPrefix(href, "/") {
		return false
	}
	lower := strings.ToLower(href)
	for _, skip := range kumparanSkip {
		if strings.Contains(lower, skip) {
			return false
		}
	}
	return true
}

func (k *Kumparan) parseLink(link *goquery.Selection, href string) (types.Article, bool) {
	title := ""
	if h := link.Find("h1,h2,h3,h4").First(); h.Length() > 0 {
		title = textutil.CleanText(h.Text())
	} else {
		title = textutil.CleanText(link.Text())
	}
	if len(title) < minTitleLength {
		return types.Article{}, false
	}

	description := ""
	if parent := link.Parent(); parent.Length() > 0 {
		if p := parent.Find("p").First(); p.Length() > 0 {
			description = textutil.CleanText(p.Text())
		}
	}
	description = textutil.Truncate(description, descriptionLimit)

	now := time.Now()
	return types.Article{
		Title:       title,
		URL:         href,
		Description: description,
		Date:        textutil.FormatDate(now),
		Category:    classify.Normalize("news", title, href),
		Source:      k.Source(),
		ImageURL:    imageURL(link),
	}, true
}
