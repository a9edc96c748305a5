package fetcher

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"papuanews/internal/config"
	"papuanews/internal/types"
)

func testConfig() *config.ScrapeConfig {
	return &config.ScrapeConfig{
		MaxPages:       2,
		RequestTimeout: 5 * time.Second,
		MaxRetries:     3,
		RetryDelay:     time.Millisecond,
		UserAgent:      "test-agent",
		MaxBodySize:    1 << 20,
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	c, err := New(testConfig(), testLogger())
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestGetSendsBrowserHeaders(t *testing.T) {
	var gotUA, gotLang, gotReferer string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotLang = r.Header.Get("Accept-Language")
		gotReferer = r.Header.Get("Referer")
		io.WriteString(w, "<html><body>ok</body></html>")
	}))
	defer srv.Close()

	c := newTestClient(t)
	resp, err := c.Get(context.Background(), srv.URL, srv.URL+"/")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if gotUA != "test-agent" {
		t.Errorf("User-Agent = %q", gotUA)
	}
	if gotLang == "" || gotReferer == "" {
		t.Errorf("missing headers: lang=%q referer=%q", gotLang, gotReferer)
	}
}

func TestGetDecompressesGzip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		io.WriteString(zw, "<html>terkompresi</html>")
		zw.Close()
		w.Header().Set("Content-Encoding", "gzip")
		w.Write(buf.Bytes())
	}))
	defer srv.Close()

	c := newTestClient(t)
	resp, err := c.Get(context.Background(), srv.URL, "")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(resp.Body, []byte("terkompresi")) {
		t.Errorf("body not decompressed: %q", resp.Body)
	}
}

func TestGetStatusClassification(t *testing.T) {
	tests := []struct {
		status    int
		retryable bool
	}{
		{http.StatusNotFound, false},
		{http.StatusForbidden, false},
		{http.StatusInternalServerError, true},
		{http.StatusBadGateway, true},
	}
	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))
		c := newTestClient(t)
		_, err := c.Get(context.Background(), srv.URL, "")
		srv.Close()

		var fe *types.FetchError
		if !errors.As(err, &fe) {
			t.Fatalf("status %d: got %T, want FetchError", tt.status, err)
		}
		if fe.Retryable != tt.retryable {
			t.Errorf("status %d: retryable = %v, want %v", tt.status, fe.Retryable, tt.retryable)
		}
	}
}

func TestGetRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := newTestClient(t)
	_, err := c.Get(context.Background(), srv.URL, "")
	var fe *types.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("got %T, want FetchError", err)
	}
	if !fe.Retryable || fe.RetryAfter != 7*time.Second {
		t.Errorf("Retryable=%v RetryAfter=%v", fe.Retryable, fe.RetryAfter)
	}
}

func TestGetWithRetryRecovers(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		io.WriteString(w, "<html>pulih</html>")
	}))
	defer srv.Close()

	c := newTestClient(t)
	resp, err := c.GetWithRetry(context.Background(), srv.URL, "")
	if err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
	if !bytes.Contains(resp.Body, []byte("pulih")) {
		t.Errorf("unexpected body %q", resp.Body)
	}
}

func TestGetWithRetryGivesUp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(t)
	_, err := c.GetWithRetry(context.Background(), srv.URL, "")
	if !errors.Is(err, types.ErrMaxRetries) {
		t.Errorf("got %v, want ErrMaxRetries", err)
	}
}

func TestGetWithRetryStopsOnPermanentError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := newTestClient(t)
	if _, err := c.GetWithRetry(context.Background(), srv.URL, ""); err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1 (no retry on 4xx)", calls.Load())
	}
}

func TestRandomDelayBounds(t *testing.T) {
	min, max := 10*time.Millisecond, 50*time.Millisecond
	for i := 0; i < 100; i++ {
		d := RandomDelay(min, max)
		if d < min || d > max {
			t.Fatalf("delay %v outside [%v, %v]", d, min, max)
		}
	}
	if d := RandomDelay(min, min); d != min {
		t.Errorf("degenerate range: %v", d)
	}
}

func TestParseRetryAfter(t *testing.T) {
	tests := []struct {
		header string
		want   time.Duration
	}{
		{"", 5 * time.Second},
		{"10", 10 * time.Second},
		{"600", 120 * time.Second},
		{"garbage", 5 * time.Second},
	}
	for _, tt := range tests {
		if got := parseRetryAfter(tt.header); got != tt.want {
			t.Errorf("parseRetryAfter(%q) = %v, want %v", tt.header, got, tt.want)
		}
	}
}
