package types

import (
	"encoding/json"
	"testing"
)

func TestDedupe(t *testing.T) {
	articles := []Article{
		{Title: "First", URL: "https://a.com/1", Region: "timika"},
		{Title: "Second", URL: "https://a.com/2"},
		{Title: "First again", URL: "https://a.com/1", Region: "mimika"},
		{Title: "No URL"},
		{Title: "Third", URL: "https://a.com/3"},
	}

	unique := Dedupe(articles)
	if len(unique) != 3 {
		t.Fatalf("got %d articles, want 3", len(unique))
	}
	if unique[0].Title != "First" || unique[1].Title != "Second" || unique[2].Title != "Third" {
		t.Errorf("order not preserved: %v", unique)
	}
	// First occurrence keeps its region tag.
	if unique[0].Region != "timika" {
		t.Errorf("first-wins violated: region = %q", unique[0].Region)
	}
}

func TestSuccessEnvelope(t *testing.T) {
	articles := []Article{
		{Title: "A", URL: "https://a.com/1", Category: "Regional"},
		{Title: "B", URL: "https://a.com/2", Category: "Ekonomi"},
		{Title: "C", URL: "https://a.com/3", Category: "Regional"},
	}
	result := Success([]string{"Detik.com"}, articles)

	if !result.OK() {
		t.Fatal("expected success status")
	}
	if result.Data.Metadata.TotalArticles != 3 {
		t.Errorf("TotalArticles = %d", result.Data.Metadata.TotalArticles)
	}
	got := result.Data.Metadata.Categories
	if len(got) != 2 || got[0] != "Ekonomi" || got[1] != "Regional" {
		t.Errorf("Categories = %v, want sorted distinct set", got)
	}
	if result.Message != "" || result.Timestamp != "" {
		t.Error("success envelope must not carry error fields")
	}
}

func TestSuccessEnvelopeEmpty(t *testing.T) {
	result := Success(nil, nil)
	if !result.OK() {
		t.Fatal("zero articles is still a success")
	}
	if result.Data.Articles == nil || result.Data.Metadata.Categories == nil {
		t.Error("empty run must serialize as [] not null")
	}

	raw, err := json.Marshal(result)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["status"] != StatusSuccess {
		t.Errorf("status = %v", decoded["status"])
	}
	if _, hasMessage := decoded["message"]; hasMessage {
		t.Error("success JSON must omit message")
	}
}

func TestFailureEnvelope(t *testing.T) {
	result := Failure("connection refused")
	if result.OK() {
		t.Fatal("expected error status")
	}
	if result.Data != nil {
		t.Error("error envelope must not carry data")
	}
	if result.Message != "connection refused" || result.Timestamp == "" {
		t.Errorf("Message = %q, Timestamp = %q", result.Message, result.Timestamp)
	}
	if result.Articles() != nil {
		t.Error("Articles() on a failed run must be nil")
	}
}

func TestArticleValid(t *testing.T) {
	tests := []struct {
		name    string
		article Article
		want    bool
	}{
		{"complete", Article{Title: "Judul berita", URL: "https://a.com/1"}, true},
		{"missing title", Article{URL: "https://a.com/1"}, false},
		{"missing url", Article{Title: "Judul berita"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.article.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestArticleJSONShape(t *testing.T) {
	a := Article{
		Title:    "Judul",
		URL:      "https://a.com/1",
		Date:     "2026-01-21 10:45:00",
		Category: "Regional",
		Source:   "Detik.com",
	}
	raw, err := json.Marshal(a)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"title", "url", "description", "date", "category", "source"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}
	if _, ok := decoded["image_url"]; ok {
		t.Error("empty image_url must be omitted")
	}
	if _, ok := decoded["PublishedAt"]; ok {
		t.Error("PublishedAt must not leak onto the wire")
	}
}
