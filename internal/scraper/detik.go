package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/PuerkitoBio/goquery"

	"papuanews/internal/classify"
	"papuanews/internal/config"
	"papuanews/internal/fetcher"
	"papuanews/internal/textutil"
	"papuanews/internal/types"
)

// Detik scrapes Detik.com search results. The search endpoint paginates and
// carries a unix timestamp per item, so real publication times are available.
type Detik struct {
	fetcher *fetcher.Client
	cfg     *config.ScrapeConfig
	logger  *slog.Logger
	baseURL string
}

// NewDetik creates the Detik.com extractor.
func NewDetik(f *fetcher.Client, cfg *config.ScrapeConfig, logger *slog.Logger) *Detik {
	return &Detik{
		fetcher: f,
		cfg:     cfg,
		logger:  logger.With("component", "scraper", "site", "detik"),
		baseURL: "https://www.detik.com",
	}
}

func (d *Detik) Name() string   { return "detik" }
func (d *Detik) Source() string { return "Detik.com" }

// Scrape walks Detik search pages for the keyword, newest first.
func (d *Detik) Scrape(ctx context.Context, keyword string) (result *types.RunResult) {
	defer recoverRun(d.Source(), d.logger, &result)

	var articles []types.Article
	ceiling := d.cfg.PageCeiling()

	for page := 1; page <= ceiling; page++ {
		searchURL := fmt.Sprintf("%s/search/searchall?query=%s&page=%d&sort=time",
			d.baseURL, url.QueryEscape(keyword), page)

		d.logger.Info("scraping page", "page", page, "keyword", keyword)
		resp, err := d.fetcher.GetWithRetry(ctx, searchURL, d.baseURL+"/")
		if err != nil {
			d.logger.Warn("page fetch failed, stopping pagination", "page", page, "error", err)
			break
		}

		doc, err := resp.Document()
		if err != nil {
			return failRun(d.Source(), err)
		}

		items := doc.Find("div.container-fluid div.column-6 div.list-content article.list-content__item")
		if items.Length() == 0 {
			d.logger.Info("no listing items found, stopping", "page", page)
			break
		}

		items.Each(func(_ int, item *goquery.Selection) {
			if a, ok := d.parseItem(item); ok {
				articles = append(articles, a)
			}
		})

		if page < ceiling {
			d.fetcher.Throttle(ctx)
		}
	}

	d.logger.Info("scrape finished", "articles", len(articles), "keyword", keyword)
	return finishRun(d.Source(), articles)
}

// parseItem converts one search hit into an Article. Malformed items are
// skipped, never fatal.
func (d *Detik) parseItem(item *goquery.Selection) (types.Article, bool) {
	title := textutil.CleanText(item.Find("h3.media__title").First().Text())
	if len(title) < minTitleLength {
		return types.Article{}, false
	}

	href, _ := item.Find("a").First().Attr("href")
	href = absoluteURL(d.baseURL, href)
	if href == "" {
		return types.Article{}, false
	}

	description := textutil.Truncate(
		textutil.CleanText(item.Find("div.media__desc").First().Text()), descriptionLimit)

	// The listing carries a unix timestamp on span[d-time].
	publishedAt := time.Now()
	if dt, ok := item.Find("div.media__date span").First().Attr("d-time"); ok {
		if ts, err := strconv.ParseInt(dt, 10, 64); err == nil {
			publishedAt = time.Unix(ts, 0).In(wib)
		}
	}

	image := imageURL(item.Find("div.media__image").First())
	if image == "" {
		image = imageURL(item)
	}

	return types.Article{
		Title:       title,
		URL:         href,
		Description: description,
		Date:        textutil.FormatDate(publishedAt),
		Category:    classify.Normalize("news", title, href),
		Source:      d.Source(),
		ImageURL:    image,
		PublishedAt: publishedAt,
	}, true
}
