// Package digest is the client for the Tech Digest report API.
package digest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/techdigest-vietnam/techdigest/internal/fetch"
)

// APIError is returned when the report API answers with a non-2xx status.
type APIError struct {
	Status int
	URL    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: %d", e.Status)
}

// NotFound reports whether the API answered 404.
func (e *APIError) NotFound() bool { return e.Status == 404 }

// Getter is the subset of fetch.Client the API client needs.
type Getter interface {
	Get(ctx context.Context, src fetch.Source, url string) ([]byte, error)
}

// Client talks to the report API.
type Client struct {
	base string
	http Getter
}

// NewClient creates a Client for the API rooted at baseURL.
func NewClient(baseURL string, g Getter) *Client {
	return &Client{base: strings.TrimRight(baseURL, "/"), http: g}
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string { return c.base }

// List fetches one page of reports of type ct.
func (c *Client) List(ctx context.Context, ct ContentType, p ListParams) (*ListResult, error) {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Skip < 0 {
		p.Skip = 0
	}

	q := url.Values{}
	q.Set("skip", strconv.Itoa(p.Skip))
	q.Set("limit", strconv.Itoa(p.Limit))
	if s := strings.TrimSpace(p.Search); s != "" {
		q.Set("search", s)
	}
	if p.DateFrom != "" {
		q.Set("date_from", p.DateFrom)
	}
	if p.DateTo != "" {
		q.Set("date_to", p.DateTo)
	}

	var resp listResponse
	if err := c.getJSON(ctx, c.base+"/"+string(ct)+"?"+q.Encode(), &resp); err != nil {
		return nil, err
	}
	if resp.Reports == nil {
		resp.Reports = []Report{}
	}
	return &ListResult{Reports: resp.Reports, Total: resp.total(), Limit: p.Limit}, nil
}

// Latest fetches the most recent report of type ct.
func (c *Client) Latest(ctx context.Context, ct ContentType) (*Report, error) {
	var r Report
	if err := c.getJSON(ctx, c.base+"/"+string(ct)+"/latest", &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// ByID fetches a single report.
func (c *Client) ByID(ctx context.Context, ct ContentType, id string) (*Report, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("report id is required")
	}
	var r Report
	if err := c.getJSON(ctx, c.base+"/"+string(ct)+"/"+url.PathEscape(id), &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) getJSON(ctx context.Context, u string, v any) error {
	body, err := c.http.Get(ctx, fetch.ReportAPI, u)
	if err != nil {
		var se *fetch.StatusError
		if errors.As(err, &se) {
			return &APIError{Status: se.Status, URL: se.URL}
		}
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decoding %s: %w", u, err)
	}
	return nil
}

// LoadMore returns the params for the page after prev: skip is the number of
// reports already loaded.
func LoadMore(p ListParams, loaded int) ListParams {
	p.Skip = loaded
	return p
}
