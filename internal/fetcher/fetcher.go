// Package fetcher is the shared HTTP layer for all extractors: realistic
// browser headers, bounded timeouts, transparent decompression, and
// retry-with-backoff for transient failures.
package fetcher

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/brotli"

	"papuanews/internal/config"
	"papuanews/internal/types"
)

// Response is the result of fetching one page.
type Response struct {
	StatusCode int
	Body       []byte
	FinalURL   string
	FetchedAt  time.Time

	doc *goquery.Document
}

// Document returns a parsed goquery document, lazily initializing it.
func (r *Response) Document() (*goquery.Document, error) {
	if r.doc != nil {
		return r.doc, nil
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(r.Body))
	if err != nil {
		return nil, err
	}
	r.doc = doc
	return doc, nil
}

// Client fetches listing and detail pages on behalf of the extractors.
type Client struct {
	client *http.Client
	cfg    *config.ScrapeConfig
	logger *slog.Logger
}

// New creates a fetch client from the scrape configuration.
func New(cfg *config.ScrapeConfig, logger *slog.Logger) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		DisableCompression:  true, // We handle decompression ourselves (including brotli)
	}

	return &Client{
		client: &http.Client{
			Transport: transport,
			Jar:       jar,
			Timeout:   cfg.RequestTimeout,
		},
		cfg:    cfg,
		logger: logger.With("component", "fetcher"),
	}, nil
}

// Get fetches a single page. referer points at the site's homepage so the
// request resembles organic navigation.
func (c *Client) Get(ctx context.Context, rawURL, referer string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &types.FetchError{URL: rawURL, Err: err, Retryable: false}
	}

	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "id-ID,id;q=0.9,en-US;q=0.8,en;q=0.7")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")
	req.Header.Set("Connection", "keep-alive")
	if referer != "" {
		req.Header.Set("Referer", referer)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &types.FetchError{
			URL:       rawURL,
			Err:       err,
			Retryable: isRetryableError(err),
		}
	}
	defer resp.Body.Close()

	// Respect Retry-After on HTTP 429
	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
		return nil, &types.FetchError{
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("HTTP 429: rate limited (retry after %s)", retryAfter),
			Retryable:  true,
			RetryAfter: retryAfter,
		}
	}

	if resp.StatusCode >= 500 {
		return nil, &types.FetchError{
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("HTTP %d", resp.StatusCode),
			Retryable:  true,
		}
	}
	if resp.StatusCode >= 400 {
		return nil, &types.FetchError{
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("HTTP %d", resp.StatusCode),
			Retryable:  false,
		}
	}

	var reader io.Reader = resp.Body
	if c.cfg.MaxBodySize > 0 {
		reader = io.LimitReader(reader, c.cfg.MaxBodySize)
	}

	reader, err = decompressReader(resp, reader)
	if err != nil {
		return nil, &types.FetchError{URL: rawURL, Err: err, Retryable: false}
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, &types.FetchError{URL: rawURL, Err: err, Retryable: true}
	}
	if len(body) == 0 {
		return nil, &types.FetchError{URL: rawURL, Err: types.ErrEmptyResponse, Retryable: true}
	}

	c.logger.Debug("fetch complete",
		"url", rawURL,
		"status", resp.StatusCode,
		"size", len(body),
		"duration", time.Since(start),
	)

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       body,
		FinalURL:   resp.Request.URL.String(),
		FetchedAt:  time.Now(),
	}, nil
}

// GetWithRetry fetches a page, retrying transient failures with exponential
// backoff up to the configured attempt cap. Non-retryable errors and context
// cancellation abort immediately.
func (c *Client) GetWithRetry(ctx context.Context, rawURL, referer string) (*Response, error) {
	attempts := c.cfg.MaxRetries
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		resp, err := c.Get(ctx, rawURL, referer)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		var fe *types.FetchError
		if !errors.As(err, &fe) || !fe.Retryable {
			return nil, err
		}
		if attempt == attempts {
			break
		}

		backoff := c.cfg.RetryDelay * time.Duration(attempt)
		if fe.RetryAfter > backoff {
			backoff = fe.RetryAfter
		}
		c.logger.Warn("fetch failed, retrying",
			"url", rawURL,
			"attempt", attempt,
			"backoff", backoff,
			"error", err,
		)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	return nil, fmt.Errorf("%w: %w", types.ErrMaxRetries, lastErr)
}

// Throttle sleeps a randomized duration within the configured delay range,
// returning early if the context is cancelled. Extractors call this between
// page requests to reduce rate-limiting risk.
func (c *Client) Throttle(ctx context.Context) {
	min, max := c.cfg.DelayRange()
	d := RandomDelay(min, max)
	if d <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}

// RandomDelay returns a uniformly random duration in [min, max].
func RandomDelay(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(rand.Int63n(int64(max-min)))
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

// decompressReader wraps a reader with the appropriate decompressor.
// Handles gzip, deflate, and brotli (br) encodings.
func decompressReader(resp *http.Response, reader io.Reader) (io.Reader, error) {
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		return gzip.NewReader(reader)
	case "deflate":
		return flate.NewReader(reader), nil
	case "br":
		return brotli.NewReader(reader), nil
	default:
		return reader, nil
	}
}

// isRetryableError checks if a network error warrants a retry.
// Covers timeouts, connection resets, unexpected EOF, and connection refused.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	// Context cancellation is NOT retryable
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return true
	}
	if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if errors.Is(opErr.Err, syscall.ECONNRESET) ||
			errors.Is(opErr.Err, syscall.ECONNREFUSED) {
			return true
		}
	}
	return false
}

// parseRetryAfter parses the Retry-After header value.
// Supports both integer seconds and HTTP-date formats.
func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 5 * time.Second // default back-off
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(header)); err == nil {
		if secs > 120 {
			secs = 120 // cap at 2 minutes
		}
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		d := time.Until(t)
		if d < 0 {
			return time.Second
		}
		if d > 2*time.Minute {
			return 2 * time.Minute
		}
		return d
	}
	return 5 * time.Second
}
