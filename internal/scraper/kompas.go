package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"

	"papuanews/internal/classify"
	"papuanews/internal/config"
	"papuanews/internal/fetcher"
	"papuanews/internal/textutil"
	"papuanews/internal/types"
)

// Kompas scrapes search.kompas.com. Its URLs usually embed the section
// (/regional/, /nasional/, ...) which feeds the classifier as a raw hint.
type Kompas struct {
	fetcher *fetcher.Client
	cfg     *config.ScrapeConfig
	logger  *slog.Logger
	baseURL string
}

// NewKompas creates the Kompas.com extractor.
func NewKompas(f *fetcher.Client, cfg *config.ScrapeConfig, logger *slog.Logger) *Kompas {
	return &Kompas{
		fetcher: f,
		cfg:     cfg,
		logger:  logger.With("component", "scraper", "site", "kompas"),
		baseURL: "https://search.kompas.com",
	}
}

func (k *Kompas) Name() string   { return "kompas" }
func (k *Kompas) Source() string { return "Kompas.com" }

// Scrape walks Kompas search pages until an empty page or the ceiling.
func (k *Kompas) Scrape(ctx context.Context, keyword string) (result *types.RunResult) {
	defer recoverRun(k.Source(), k.logger, &result)

	var articles []types.Article
	ceiling := k.cfg.PageCeiling()

	for page := 1; page <= ceiling; page++ {
		searchURL := fmt.Sprintf("%s/search?q=%s&page=%d&sort=latest&site_id=all",
			k.baseURL, url.QueryEscape(keyword), page)

		k.logger.Info("scraping page", "page", page, "keyword", keyword)
		resp, err := k.fetcher.GetWithRetry(ctx, searchURL, "https://www.kompas.com/")
		if err != nil {
			k.logger.Warn("page fetch failed, stopping pagination", "page", page, "error", err)
			break
		}

		doc, err := resp.Document()
		if err != nil {
			return failRun(k.Source(), err)
		}

		container := doc.Find("div.articleList").First()
		if container.Length() == 0 {
			// Alternative layout
			container = doc.Find("section.sectionBox").First()
		}
		if container.Length() == 0 {
			k.logger.Info("no article list container found, stopping", "page", page)
			break
		}

		items := container.Find("div.articleItem")
		if items.Length() == 0 {
			k.logger.Info("no more articles, stopping", "page", page)
			break
		}

		found := 0
		items.Each(func(_ int, item *goquery.Selection) {
			if a, ok := k.parseItem(item); ok {
				articles = append(articles, a)
				found++
			}
		})
		if found == 0 {
			break
		}

		if page < ceiling {
			k.fetcher.Throttle(ctx)
		}
	}

	k.logger.Info("scrape finished", "articles", len(articles), "keyword", keyword)
	return finishRun(k.Source(), articles)
}

func (k *Kompas) parseItem(item *goquery.Selection) (types.Article, bool) {
	link := item.Find("a.article-link").First()
	if link.Length() == 0 {
		link = item.Find("a").First()
	}
	href, _ := link.Attr("href")
	href = absoluteURL(k.baseURL, href)
	if href == "" {
		return types.Article{}, false
	}

	titleSel := item.Find("h2.articleTitle").First()
	if titleSel.Length() == 0 {
		titleSel = item.Find("h2").First()
	}
	title := textutil.CleanText(titleSel.Text())
	if len(title) < minTitleLength {
		return types.Article{}, false
	}

	publishedAt := time.Time{}
	date := time.Now()
	if dateText := textutil.CleanText(item.Find("div.articlePost-date").First().Text()); dateText != "" {
		if t, ok := textutil.ParseDate(dateText); ok {
			date = t
			publishedAt = t
		}
	}

	description := ""
	if lead := item.Find("div.articleLead").First(); lead.Length() > 0 {
		if p := lead.Find("p").First(); p.Length() > 0 {
			description = textutil.CleanText(p.Text())
		} else {
			description = textutil.CleanText(lead.Text())
		}
	}
	description = textutil.Truncate(description, descriptionLimit)

	image := imageURL(item.Find("div.articleItem-wrap div.articleItem-img").First())
	if image == "" {
		image = imageURL(item)
	}

	rawCategory := categorySegment(href)
	if rawCategory == "" {
		rawCategory = "news"
	}

	return types.Article{
		Title:       title,
		URL:         href,
		Description: description,
		Date:        textutil.FormatDate(date),
		Category:    classify.Normalize(rawCategory, title, href),
		Source:      k.Source(),
		ImageURL:    image,
		PublishedAt: publishedAt,
	}, true
}
