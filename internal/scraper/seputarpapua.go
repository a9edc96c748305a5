package scraper

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"

	"papuanews/internal/classify"
	"papuanews/internal/config"
	"papuanews/internal/fetcher"
	"papuanews/internal/textutil"
	"papuanews/internal/types"
)

const seputarPapuaMaxArticles = 5

// SeputarPapua scrapes seputarpapua.com, the one dedicated regional source.
// Listing pages carry no dates, so each hit costs a detail-page fetch; the
// published time is read from page metadata.
type SeputarPapua struct {
	fetcher *fetcher.Client
	cfg     *config.ScrapeConfig
	logger  *slog.Logger
	baseURL string
}

// NewSeputarPapua creates the SeputarPapua extractor.
func NewSeputarPapua(f *fetcher.Client, cfg *config.ScrapeConfig, logger *slog.Logger) *SeputarPapua {
	return &SeputarPapua{
		fetcher: f,
		cfg:     cfg,
		logger:  logger.With("component", "scraper", "site", "seputarpapua"),
		baseURL: "https://seputarpapua.com",
	}
}

func (s *SeputarPapua) Name() string   { return "seputarpapua" }
func (s *SeputarPapua) Source() string { return "SeputarPapua" }

// Scrape fetches the keyword search listing and resolves dates per article.
func (s *SeputarPapua) Scrape(ctx context.Context, keyword string) (result *types.RunResult) {
	defer recoverRun(s.Source(), s.logger, &result)

	searchURL := fmt.Sprintf("%s/?s=%s&post_type=post", s.baseURL, url.QueryEscape(keyword))
	s.logger.Info("scraping search page", "keyword", keyword)

	resp, err := s.fetcher.GetWithRetry(ctx, searchURL, s.baseURL+"/")
	if err != nil {
		return failRun(s.Source(), err)
	}
	doc, err := resp.Document()
	if err != nil {
		return failRun(s.Source(), err)
	}

	items := doc.Find("div.widget-content div.article-item")
	if items.Length() == 0 {
		items = doc.Find("div.article-item")
	}
	s.logger.Info("listing parsed", "items", items.Length())

	var articles []types.Article
	items.EachWithBreak(func(_ int, item *goquery.Selection) bool {
		if len(articles) >= seputarPapuaMaxArticles {
			return false
		}
		if a, ok := s.parseItem(ctx, item); ok {
			articles = append(articles, a)
			s.fetcher.Throttle(ctx)
		}
		return true
	})

	s.logger.Info("scrape finished", "articles", len(articles), "keyword", keyword)
	return finishRun(s.Source(), articles)
}

func (s *SeputarPapua) parseItem(ctx context.Context, item *goquery.Selection) (types.Article, bool) {
	textDiv := item.Find("div.article-text").First()
	if textDiv.Length() == 0 {
		return types.Article{}, false
	}
	link := textDiv.Find("h3 a").First()
	if link.Length() == 0 {
		return types.Article{}, false
	}

	title := textutil.CleanText(link.Text())
	if len(title) < minTitleLength {
		return types.Article{}, false
	}

	href, _ := link.Attr("href")
	href = absoluteURL(s.baseURL, href)
	if href == "" {
		return types.Article{}, false
	}

	description := textutil.Truncate(
		textutil.CleanText(textDiv.Find("div.snippet").First().Text()), descriptionLimit)

	image := imageURL(item.Find("div.article-image").First())

	// Listing rows carry no timestamp; the detail page does.
	publishedAt, ok := s.fetchPublishedAt(ctx, href)
	date := publishedAt
	if !ok {
		date = time.Now()
		publishedAt = time.Time{}
	}

	return types.Article{
		Title:       title,
		URL:         href,
		Description: description,
		Date:        textutil.FormatDate(date),
		Category:    classify.Normalize("news", title, href),
		Source:      s.Source(),
		ImageURL:    image,
		PublishedAt: publishedAt,
	}, true
}

// fetchPublishedAt reads the publication time from the article page,
// preferring the article:published_time metadata over visible date markup.
func (s *SeputarPapua) fetchPublishedAt(ctx context.Context, articleURL string) (time.Time, bool) {
	resp, err := s.fetcher.Get(ctx, articleURL, s.baseURL+"/")
	if err != nil {
		s.logger.Debug("detail fetch failed", "url", articleURL, "error", err)
		return time.Time{}, false
	}

	root, err := htmlquery.Parse(bytes.NewReader(resp.Body))
	if err != nil {
		return time.Time{}, false
	}

	if meta := htmlquery.FindOne(root, "//meta[@property='article:published_time']"); meta != nil {
		content := strings.TrimSpace(htmlquery.SelectAttr(meta, "content"))
		if content != "" {
			if t, err := time.Parse(time.RFC3339, content); err == nil {
				return t.In(wib), true
			}
		}
	}

	for _, expr := range []string{
		"//time",
		"//*[contains(@class,'post-date')]",
		"//*[contains(@class,'entry-date')]",
		"//*[contains(@class,'article-date')]",
		"//*[contains(@class,'date')]",
	} {
		node := htmlquery.FindOne(root, expr)
		if node == nil {
			continue
		}
		text := textutil.CleanText(htmlquery.InnerText(node))
		if text == "" {
			continue
		}
		if t, ok := textutil.ParseDate(text); ok {
			return t, true
		}
	}

	return time.Time{}, false
}
