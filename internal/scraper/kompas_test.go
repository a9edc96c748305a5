package scraper

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

const kompasListing = `<html><body>
<div class="articleList">
  <div class="articleItem">
    <div class="articleItem-wrap">
      <div class="articleItem-img"><img src="https://asset.kompas.com/foto.jpg"></div>
    </div>
    <a class="article-link" href="https://www.kompas.com/regional/read/2026/01/21/pembangunan-jalan">
      <h2 class="articleTitle">Pembangunan jalan trans lanjut tahun ini</h2>
    </a>
    <div class="articlePost-date">21 Januari 2026 10:45 WIB</div>
    <div class="articleLead"><p>Proyek jalan dilanjutkan setelah evaluasi.</p></div>
  </div>
  <div class="articleItem">
    <a class="article-link" href="https://www.kompas.com/nasional/read/2026/01/20/rapat-kabinet">
      <h2 class="articleTitle">Menteri gelar rapat kabinet perdana</h2>
    </a>
    <div class="articlePost-date">20 Januari 2026</div>
  </div>
</div>
</body></html>`

func TestKompasParsesListing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") != "1" {
			io.WriteString(w, `<html><body><div class="articleList"></div></body></html>`)
			return
		}
		io.WriteString(w, kompasListing)
	}))
	defer srv.Close()

	cfg := testScrapeConfig()
	k := NewKompas(newTestFetcher(t, cfg), cfg, testLogger())
	k.baseURL = srv.URL

	result := k.Scrape(context.Background(), "timika")
	if !result.OK() {
		t.Fatalf("scrape failed: %s", result.Message)
	}
	articles := result.Articles()
	if len(articles) != 2 {
		t.Fatalf("got %d articles, want 2", len(articles))
	}

	// Newest first: 21 Jan before 20 Jan.
	a := articles[0]
	if a.Title != "Pembangunan jalan trans lanjut tahun ini" {
		t.Errorf("Title = %q", a.Title)
	}
	want := time.Date(2026, 1, 21, 10, 45, 0, 0, time.Local)
	if !a.PublishedAt.Equal(want) {
		t.Errorf("PublishedAt = %v, want %v", a.PublishedAt, want)
	}
	// URL path segment "regional" is the raw hint, which the classifier
	// turns into the Regional label.
	if a.Category != "Regional" {
		t.Errorf("Category = %q", a.Category)
	}
	if a.ImageURL != "https://asset.kompas.com/foto.jpg" {
		t.Errorf("ImageURL = %q", a.ImageURL)
	}

	b := articles[1]
	if b.Category != "Pemerintahan" {
		t.Errorf("second Category = %q, want Pemerintahan (menteri, rapat kabinet)", b.Category)
	}
	if b.Description != "" {
		t.Errorf("second Description = %q, want empty", b.Description)
	}
}

func TestKompasStopsOnMissingContainer(t *testing.T) {
	var pages atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages.Add(1)
		io.WriteString(w, `<html><body><p>layout berubah</p></body></html>`)
	}))
	defer srv.Close()

	cfg := testScrapeConfig()
	k := NewKompas(newTestFetcher(t, cfg), cfg, testLogger())
	k.baseURL = srv.URL

	result := k.Scrape(context.Background(), "timika")
	if !result.OK() {
		t.Fatalf("missing container must yield an empty success, got: %s", result.Message)
	}
	if got := len(result.Articles()); got != 0 {
		t.Errorf("got %d articles, want 0", got)
	}
	if pages.Load() != 1 {
		t.Errorf("fetched %d pages, want 1", pages.Load())
	}
}

func TestKompasAlternativeContainer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") != "1" {
			io.WriteString(w, `<html><body></body></html>`)
			return
		}
		io.WriteString(w, `<html><body><section class="sectionBox">
  <div class="articleItem">
    <a href="/regional/read/artikel-satu"><h2>Judul artikel cukup panjang</h2></a>
  </div>
</section></body></html>`)
	}))
	defer srv.Close()

	cfg := testScrapeConfig()
	k := NewKompas(newTestFetcher(t, cfg), cfg, testLogger())
	k.baseURL = srv.URL

	result := k.Scrape(context.Background(), "timika")
	if got := len(result.Articles()); got != 1 {
		t.Fatalf("got %d articles, want 1", got)
	}
	if result.Articles()[0].URL != srv.URL+"/regional/read/artikel-satu" {
		t.Errorf("relative URL not resolved: %q", result.Articles()[0].URL)
	}
}
