package ingest

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"papuanews/internal/aggregate"
	"papuanews/internal/config"
	"papuanews/internal/scraper"
	"papuanews/internal/store"
	"papuanews/internal/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newIngester(st store.Store) *Ingester {
	return New(nil, st, testLogger())
}

func sample() types.Article {
	return types.Article{
		Title:       "Banjir rendam dua kampung",
		URL:         "https://example.com/berita/banjir",
		Description: "Hujan deras sejak malam.",
		Date:        "2026-01-21 10:45:00",
		Category:    "Lingkungan",
		Source:      "Detik.com",
		ImageURL:    "https://cdn.example.com/banjir.jpg",
		Region:      "timika",
	}
}

func TestUpsertInsertsNewArticle(t *testing.T) {
	st := store.NewMemory()
	in := newIngester(st)

	saved, merged, err := in.Upsert(context.Background(), sample())
	if err != nil {
		t.Fatal(err)
	}
	if !saved || merged {
		t.Errorf("saved=%v merged=%v, want insert", saved, merged)
	}

	row, err := st.FindBySourceURL(context.Background(), sample().URL)
	if err != nil {
		t.Fatal(err)
	}
	if row.Title != sample().Title || row.Category != "Lingkungan" || row.Region != "timika" {
		t.Errorf("stored row = %+v", row)
	}
}

func TestUpsertRerunIsNoOp(t *testing.T) {
	st := store.NewMemory()
	in := newIngester(st)
	ctx := context.Background()

	if _, _, err := in.Upsert(ctx, sample()); err != nil {
		t.Fatal(err)
	}
	saved, merged, err := in.Upsert(ctx, sample())
	if err != nil {
		t.Fatal(err)
	}
	if saved || merged {
		t.Errorf("saved=%v merged=%v, want no-op on identical rerun", saved, merged)
	}
	n, _ := st.Count(ctx, store.ListFilter{})
	if n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
}

func TestUpsertBackfillsImage(t *testing.T) {
	st := store.NewMemory()
	in := newIngester(st)
	ctx := context.Background()

	first := sample()
	first.ImageURL = ""
	if _, _, err := in.Upsert(ctx, first); err != nil {
		t.Fatal(err)
	}

	second := sample()
	saved, merged, err := in.Upsert(ctx, second)
	if err != nil {
		t.Fatal(err)
	}
	if saved || !merged {
		t.Errorf("saved=%v merged=%v, want enrichment", saved, merged)
	}
	row, _ := st.FindBySourceURL(ctx, second.URL)
	if row.ImageURL != second.ImageURL {
		t.Errorf("ImageURL = %q, want backfilled", row.ImageURL)
	}
}

func TestUpsertNeverOverwritesImage(t *testing.T) {
	st := store.NewMemory()
	in := newIngester(st)
	ctx := context.Background()

	if _, _, err := in.Upsert(ctx, sample()); err != nil {
		t.Fatal(err)
	}
	update := sample()
	update.ImageURL = "https://cdn.example.com/other.jpg"
	if _, _, err := in.Upsert(ctx, update); err != nil {
		t.Fatal(err)
	}

	row, _ := st.FindBySourceURL(ctx, sample().URL)
	if row.ImageURL != sample().ImageURL {
		t.Errorf("ImageURL = %q, existing image must stay", row.ImageURL)
	}
}

func TestUpsertCategoryUpgrade(t *testing.T) {
	tests := []struct {
		name     string
		stored   string
		incoming string
		want     string
	}{
		{"placeholder upgrades", "news", "Ekonomi", "Ekonomi"},
		{"capitalized placeholder upgrades", "News", "Regional", "Regional"},
		{"placeholder stays on nasional", "news", "Nasional", "news"},
		{"specific never downgraded", "Ekonomi", "Regional", "Ekonomi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := store.NewMemory()
			in := newIngester(st)
			ctx := context.Background()

			first := sample()
			first.Category = tt.stored
			if _, _, err := in.Upsert(ctx, first); err != nil {
				t.Fatal(err)
			}

			second := sample()
			second.Category = tt.incoming
			if _, _, err := in.Upsert(ctx, second); err != nil {
				t.Fatal(err)
			}

			row, _ := st.FindBySourceURL(ctx, sample().URL)
			if row.Category != tt.want {
				t.Errorf("Category = %q, want %q", row.Category, tt.want)
			}
		})
	}
}

func TestUpsertNeverOverwritesIdentityFields(t *testing.T) {
	st := store.NewMemory()
	in := newIngester(st)
	ctx := context.Background()

	if _, _, err := in.Upsert(ctx, sample()); err != nil {
		t.Fatal(err)
	}
	update := sample()
	update.Title = "Judul berubah"
	update.Description = "Ringkasan berubah"
	update.Source = "Situs lain"
	if _, _, err := in.Upsert(ctx, update); err != nil {
		t.Fatal(err)
	}

	row, _ := st.FindBySourceURL(ctx, sample().URL)
	if row.Title != sample().Title || row.Summary != sample().Description || row.SourceName != sample().Source {
		t.Errorf("identity fields changed: %+v", row)
	}
}

func TestUpsertSkipsUnacceptableURLs(t *testing.T) {
	st := store.NewMemory()
	in := newIngester(st)
	ctx := context.Background()

	for _, badURL := range []string{
		"/berita/relatif",
		"https://ad.doubleclick.net/ddm/clk/123",
		"https://www.googleadservices.com/pagead/aclk",
		"https://example.com/iklan/promo",
	} {
		a := sample()
		a.URL = badURL
		saved, merged, err := in.Upsert(ctx, a)
		if err != nil {
			t.Fatal(err)
		}
		if saved || merged {
			t.Errorf("url %q was persisted", badURL)
		}
	}
	n, _ := st.Count(ctx, store.ListFilter{})
	if n != 0 {
		t.Errorf("count = %d, want 0", n)
	}
}

func TestAcceptableURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://example.com/berita/1", true},
		{"http://example.com/berita/1", true},
		{"ftp://example.com/berita/1", false},
		{"", false},
		{"https://ad.DoubleClick.net/x", false},
	}
	for _, tt := range tests {
		if got := AcceptableURL(tt.url); got != tt.want {
			t.Errorf("AcceptableURL(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

// stubScraper feeds the full pipeline test.
type stubScraper struct {
	articles map[string][]types.Article
}

func (s *stubScraper) Name() string   { return "stub" }
func (s *stubScraper) Source() string { return "Stub" }

func (s *stubScraper) Scrape(_ context.Context, keyword string) *types.RunResult {
	return types.Success([]string{"Stub"}, s.articles[keyword])
}

func TestRunPersistsAggregatedArticles(t *testing.T) {
	a1 := sample()
	a2 := sample()
	a2.URL = "https://example.com/berita/lain"
	stub := &stubScraper{articles: map[string][]types.Article{
		"timika": {a1},
		"mimika": {a1, a2}, // a1 repeats across regions
	}}

	regions := []config.Region{
		{Name: "timika", Keyword: "timika"},
		{Name: "mimika", Keyword: "mimika"},
	}
	ag := aggregate.New([]scraper.Scraper{stub}, regions, testLogger())
	st := store.NewMemory()

	report := New(ag, st, testLogger()).Run(context.Background())
	if report.Status != types.StatusSuccess {
		t.Fatalf("report = %+v", report)
	}
	if report.ArticlesFound != 2 || report.ArticlesSaved != 2 {
		t.Errorf("found=%d saved=%d, want 2/2", report.ArticlesFound, report.ArticlesSaved)
	}
	if out := report.SiteResults["stub"]; out.Count != 3 {
		t.Errorf("site count = %d, want cumulative 3", out.Count)
	}

	// Second run against identical input saves nothing new.
	report = New(ag, st, testLogger()).Run(context.Background())
	if report.ArticlesSaved != 0 || report.ArticlesMerged != 0 {
		t.Errorf("rerun saved=%d merged=%d, want 0/0", report.ArticlesSaved, report.ArticlesMerged)
	}
	n, _ := st.Count(context.Background(), store.ListFilter{})
	if n != 2 {
		t.Errorf("count = %d, want 2", n)
	}
}
