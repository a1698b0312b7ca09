// Package fetch is the shared outbound HTTP client for the report API and
// the third-party feeds.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/techdigest-vietnam/techdigest/internal/cache"
	"github.com/techdigest-vietnam/techdigest/internal/metrics"
)

// maxBodyBytes caps how much of an upstream response is read.
const maxBodyBytes = 16 << 20

// Source names an upstream. Name is the metric/cache label; Label prefixes
// status errors ("HF Hub" -> "HF Hub 503").
type Source struct {
	Name  string
	Label string
}

// Upstreams consumed by techdigest.
var (
	ReportAPI     = Source{Name: "report_api", Label: "API error:"}
	GitHubRSS     = Source{Name: "github_rss", Label: "GitHub Trending RSS"}
	HuggingFace   = Source{Name: "hf_hub", Label: "HF Hub"}
	DailyPapers   = Source{Name: "hf_daily_papers", Label: "Daily Papers"}
	OpenRouterAPI = Source{Name: "openrouter", Label: "OpenRouter"}
)

// StatusError is returned for non-2xx upstream responses.
type StatusError struct {
	Source Source
	Status int
	URL    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %d", e.Source.Label, e.Status)
}

// Options configures a Client. Zero values are valid.
type Options struct {
	Timeout    time.Duration
	UserAgent  string
	HTTPClient *http.Client
	Cache      *cache.Store
	Metrics    *metrics.Manager
	Logger     *slog.Logger
}

// Client performs GET requests with optional caching and metrics.
type Client struct {
	http      *http.Client
	userAgent string
	cache     *cache.Store
	metrics   *metrics.Manager
	log       *slog.Logger
}

// New creates a Client.
func New(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		http:      hc,
		userAgent: opts.UserAgent,
		cache:     opts.Cache,
		metrics:   opts.Metrics,
		log:       log,
	}
}

// Get fetches url. A fresh cache entry is returned without touching the
// network; a stale one is returned only when the live request fails.
// Cancellation of ctx is always returned as-is.
func (c *Client) Get(ctx context.Context, src Source, url string) ([]byte, error) {
	var stale *cache.Entry
	if c.cache != nil {
		entry, fresh, err := c.cache.Get(ctx, url)
		switch {
		case err == nil && fresh:
			c.metrics.RecordCacheLookup("fresh")
			c.metrics.ObserveFetch(src.Name, metrics.OutcomeCache, 0)
			return entry.Body, nil
		case err == nil:
			c.metrics.RecordCacheLookup("stale")
			stale = entry
		case errors.Is(err, cache.ErrNotFound):
			c.metrics.RecordCacheLookup("miss")
		default:
			c.log.Warn("cache lookup failed", "source", src.Name, "error", err)
		}
	}

	start := time.Now()
	body, contentType, err := c.do(ctx, src, url)
	if err != nil {
		c.metrics.ObserveFetch(src.Name, metrics.OutcomeError, time.Since(start))
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if stale != nil {
			c.log.Warn("serving stale response", "source", src.Name, "url", url, "age", time.Since(stale.FetchedAt).Round(time.Second), "error", err)
			c.metrics.ObserveFetch(src.Name, metrics.OutcomeStale, 0)
			return stale.Body, nil
		}
		return nil, err
	}
	c.metrics.ObserveFetch(src.Name, metrics.OutcomeOK, time.Since(start))

	if c.cache != nil {
		if err := c.cache.Put(ctx, url, src.Name, contentType, body); err != nil {
			c.log.Warn("cache write failed", "source", src.Name, "error", err)
		}
	}
	return body, nil
}

func (c *Client) do(ctx context.Context, src Source, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json, application/rss+xml, application/xml;q=0.9, */*;q=0.8")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	c.log.Debug("fetching", "source", src.Name, "url", url)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%s request: %w", src.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, "", &StatusError{Source: src, Status: resp.StatusCode, URL: url}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, "", fmt.Errorf("reading %s response: %w", src.Name, err)
	}
	return body, resp.Header.Get("Content-Type"), nil
}

// IsCanceled reports whether err stems from context cancellation. Pages use
// it to avoid rendering an error for a request the client abandoned.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
