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

// Antara scrapes antaranews.com search results. Pagination markers on the
// page decide whether another page exists, in addition to the ceiling.
type Antara struct {
	fetcher *fetcher.Client
	cfg     *config.ScrapeConfig
	logger  *slog.Logger
	baseURL string
}

// NewAntara creates the Antara News extractor.
func NewAntara(f *fetcher.Client, cfg *config.ScrapeConfig, logger *slog.Logger) *Antara {
	return &Antara{
		fetcher: f,
		cfg:     cfg,
		logger:  logger.With("component", "scraper", "site", "antara"),
		baseURL: "https://www.antaranews.com",
	}
}

func (a *Antara) Name() string   { return "antara" }
func (a *Antara) Source() string { return "Antara News" }

// Scrape walks Antara search pages for the keyword.
func (a *Antara) Scrape(ctx context.Context, keyword string) (result *types.RunResult) {
	defer recoverRun(a.Source(), a.logger, &result)

	var articles []types.Article
	ceiling := a.cfg.PageCeiling()

	for page := 1; page <= ceiling; page++ {
		searchURL := fmt.Sprintf("%s/search?q=%s&page=%d", a.baseURL, url.QueryEscape(keyword), page)

		a.logger.Info("scraping page", "page", page, "keyword", keyword)
		resp, err := a.fetcher.GetWithRetry(ctx, searchURL, a.baseURL+"/")
		if err != nil {
			a.logger.Warn("page fetch failed, stopping pagination", "page", page, "error", err)
			break
		}

		doc, err := resp.Document()
		if err != nil {
			return failRun(a.Source(), err)
		}

		section := doc.Find("div.wrapper__list__article").First()
		if section.Length() == 0 {
			a.logger.Info("no article section found, stopping", "page", page)
			break
		}

		cards := section.Find("div.card__post")
		if cards.Length() == 0 {
			a.logger.Info("no article cards found, stopping", "page", page)
			break
		}

		found := 0
		cards.Each(func(_ int, card *goquery.Selection) {
			if art, ok := a.parseCard(card); ok {
				articles = append(articles, art)
				found++
			}
		})
		if found == 0 {
			break
		}

		if !a.hasNextPage(doc, page) {
			a.logger.Info("no further pages", "page", page)
			break
		}

		if page < ceiling {
			a.fetcher.Throttle(ctx)
		}
	}

	a.logger.Info("scrape finished", "articles", len(articles), "keyword", keyword)
	return finishRun(a.Source(), articles)
}

// hasNextPage checks pagination markers for a link to the following page.
func (a *Antara) hasNextPage(doc *goquery.Document, page int) bool {
	next := fmt.Sprintf("page=%d", page+1)
	pagination := doc.Find("div.pagination").First()
	if pagination.Length() == 0 {
		// No pagination block at all: assume a single page of results.
		return false
	}
	found := false
	pagination.Find("a[href]").Each(func(_ int, link *goquery.Selection) {
		if href, ok := link.Attr("href"); ok && strings.Contains(href, next) {
			found = true
		}
	})
	return found
}

func (a *Antara) parseCard(card *goquery.Selection) (types.Article, bool) {
	row := card.Find("div.row").First()
	if row.Length() == 0 {
		return types.Article{}, false
	}

	imgCol := row.Find("div.col-md-5").First()
	detailCol := row.Find("div.col-md-7").First()
	if imgCol.Length() == 0 || detailCol.Length() == 0 {
		return types.Article{}, false
	}

	href, _ := imgCol.Find("a").First().Attr("href")
	href = absoluteURL(a.baseURL, href)
	if href == "" {
		return types.Article{}, false
	}

	title := textutil.CleanText(detailCol.Find("h2.h5").First().Text())
	if len(title) < minTitleLength {
		return types.Article{}, false
	}

	// Dates come as "10 Desember 2024 20:15 WIB".
	publishedAt := time.Time{}
	date := time.Now()
	if dateText := textutil.CleanText(detailCol.Find("span.text-dark.text-capitalize").First().Text()); dateText != "" {
		if t, ok := textutil.ParseDate(dateText); ok {
			date = t
			publishedAt = t
		}
	}

	description := textutil.Truncate(
		textutil.CleanText(detailCol.Find("p").First().Text()), descriptionLimit)

	image := imageURL(imgCol.Find("picture").First())
	if image == "" {
		image = imageURL(imgCol)
	}

	return types.Article{
		Title:       title,
		URL:         href,
		Description: description,
		Date:        textutil.FormatDate(date),
		Category:    classify.Normalize("news", title, href),
		Source:      a.Source(),
		ImageURL:    image,
		PublishedAt: publishedAt,
	}, true
}
