package types

import (
	"sort"
	"time"
)

// DateLayout is the canonical timestamp format carried on the wire.
const DateLayout = "2006-01-02 15:04:05"

// Region tags attached to articles by the aggregator.
const (
	RegionMimika  = "mimika"
	RegionTimika  = "timika"
	RegionGeneral = "general"
)

// Article is the canonical unit produced by every extractor.
type Article struct {
	// Title is the display headline. Records without one are discarded.
	Title string `json:"title"`

	// URL is the absolute source URL and the identity key for dedup/upsert.
	URL string `json:"url"`

	// Description is a short summary, truncated to ~200 chars.
	Description string `json:"description"`

	// Date is the publication timestamp in DateLayout, never empty.
	Date string `json:"date"`

	// Category is a member of the fixed taxonomy, never a raw site label.
	Category string `json:"category"`

	// Source is the human-readable site name, e.g. "Detik.com".
	Source string `json:"source"`

	// ImageURL is an optional absolute URL to a representative image.
	ImageURL string `json:"image_url,omitempty"`

	// Region identifies which regional search produced the record.
	Region string `json:"region,omitempty"`

	// PublishedAt backs Date for sorting; zero when the source markup
	// carried no recoverable timestamp.
	PublishedAt time.Time `json:"-"`
}

// Valid reports whether the article carries the required identity fields.
func (a *Article) Valid() bool {
	return a.Title != "" && a.URL != ""
}

// Metadata summarizes one run's article set.
type Metadata struct {
	TotalArticles int      `json:"total_articles"`
	LastUpdated   string   `json:"last_updated"`
	Sources       []string `json:"sources"`
	Categories    []string `json:"categories"`
}

// RunData is the payload of a successful run.
type RunData struct {
	Metadata Metadata  `json:"metadata"`
	Articles []Article `json:"articles"`
}

// RunResult statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// RunResult is the envelope returned by every extractor and by the
// aggregator. It is a tagged variant: Data is set on success, Message and
// Timestamp on error, never both.
type RunResult struct {
	Status      string                 `json:"status"`
	Data        *RunData               `json:"data,omitempty"`
	Message     string                 `json:"message,omitempty"`
	Timestamp   string                 `json:"timestamp,omitempty"`
	SiteResults map[string]SiteOutcome `json:"site_results,omitempty"`
}

// OK reports whether the run succeeded.
func (r *RunResult) OK() bool {
	return r.Status == StatusSuccess
}

// Articles returns the article list, or nil on a failed run.
func (r *RunResult) Articles() []Article {
	if r.Data == nil {
		return nil
	}
	return r.Data.Articles
}

// Success builds a success envelope with aggregated metadata.
// Sources preserve the order given; categories are the sorted distinct set.
func Success(sources []string, articles []Article) *RunResult {
	seen := make(map[string]bool)
	var categories []string
	for _, a := range articles {
		if a.Category != "" && !seen[a.Category] {
			seen[a.Category] = true
			categories = append(categories, a.Category)
		}
	}
	sort.Strings(categories)
	if categories == nil {
		categories = []string{}
	}
	if articles == nil {
		articles = []Article{}
	}

	return &RunResult{
		Status: StatusSuccess,
		Data: &RunData{
			Metadata: Metadata{
				TotalArticles: len(articles),
				LastUpdated:   time.Now().Format(time.RFC3339),
				Sources:       sources,
				Categories:    categories,
			},
			Articles: articles,
		},
	}
}

// Failure builds an error envelope. Extractor failures become data, never
// propagated panics.
func Failure(message string) *RunResult {
	return &RunResult{
		Status:    StatusError,
		Message:   message,
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// SiteOutcome statuses.
const (
	OutcomeSuccess    = "success"
	OutcomeNoArticles = "no_articles"
	OutcomeError      = "error"
)

// SiteOutcome is the per-source bookkeeping record for one aggregation run.
// Counts are cumulative across region loops for the same site.
type SiteOutcome struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
	Error  string `json:"error,omitempty"`
}

// Dedupe removes duplicate articles by URL, first occurrence wins. Articles
// with an empty URL are dropped. Input order is preserved.
func Dedupe(articles []Article) []Article {
	seen := make(map[string]bool, len(articles))
	unique := make([]Article, 0, len(articles))
	for _, a := range articles {
		if a.URL == "" || seen[a.URL] {
			continue
		}
		seen[a.URL] = true
		unique = append(unique, a)
	}
	return unique
}
