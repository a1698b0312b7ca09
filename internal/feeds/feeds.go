// Package feeds fetches the third-party trending feeds shown on the dashboard
// and parses the structured report formats served by the report API.
package feeds

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/techdigest-vietnam/techdigest/internal/fetch"
)

// ErrParse is wrapped by every error caused by a malformed upstream payload.
var ErrParse = errors.New("malformed feed")

// Getter is the subset of fetch.Client the feeds need.
type Getter interface {
	Get(ctx context.Context, src fetch.Source, url string) ([]byte, error)
}

// Bases holds the roots of the upstream feeds.
type Bases struct {
	GitHubRSS   string
	HuggingFace string
	OpenRouter  string
}

// Client fetches and normalizes the trending feeds.
type Client struct {
	http  Getter
	bases Bases
	now   func() time.Time
}

// NewClient creates a Client.
func NewClient(b Bases, g Getter) *Client {
	b.GitHubRSS = strings.TrimRight(b.GitHubRSS, "/")
	b.HuggingFace = strings.TrimRight(b.HuggingFace, "/")
	b.OpenRouter = strings.TrimRight(b.OpenRouter, "/")
	return &Client{http: g, bases: b, now: time.Now}
}

// Bases returns the configured upstream roots.
func (c *Client) Bases() Bases { return c.bases }

func clamp(n, lo, hi, def int) int {
	if n <= 0 {
		return def
	}
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

func parseErr(what string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrParse, what, err)
}

// truncate cuts s to n runes and appends "..." when anything was cut.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// Count is an integer that decodes from a JSON number or a numeric string.
type Count int

func (f *Count) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		b = []byte(strings.TrimSpace(s))
		if len(b) == 0 {
			*f = 0
			return nil
		}
	}
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = Count(v)
	return nil
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}
