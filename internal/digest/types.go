package digest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrUnknownContentType is returned by ParseContentType.
var ErrUnknownContentType = errors.New("unknown content type")

// ContentType selects a report collection on the API. Its value is the URL
// path segment.
type ContentType string

const (
	Reports          ContentType = "reports"
	JSONReports      ContentType = "json-reports"
	CombinedAnalysis ContentType = "combined-analysis"
	RedditReports    ContentType = "reddit-reports"
	HackerNews       ContentType = "hackernews-reports"
	ProductHunt      ContentType = "product-hunt-reports"
	WeeklyTech       ContentType = "weekly-tech-reports"
	AINews           ContentType = "ai-news-reports"
	QuickView        ContentType = "quick-view"
)

// ContentTypes lists every collection in navigation order.
var ContentTypes = []ContentType{
	Reports, JSONReports, CombinedAnalysis, RedditReports, HackerNews,
	ProductHunt, WeeklyTech, AINews, QuickView,
}

// ParseContentType validates s.
func ParseContentType(s string) (ContentType, error) {
	for _, ct := range ContentTypes {
		if string(ct) == s {
			return ct, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownContentType, s)
}

// Title is the human-readable collection name.
func (c ContentType) Title() string {
	switch c {
	case Reports:
		return "Tech Digest"
	case JSONReports:
		return "JSON Reports"
	case CombinedAnalysis:
		return "Combined Analysis"
	case RedditReports:
		return "Reddit Reports"
	case HackerNews:
		return "Hacker News Reports"
	case ProductHunt:
		return "Product Hunt Reports"
	case WeeklyTech:
		return "Weekly Tech"
	case AINews:
		return "AI News"
	case QuickView:
		return "Quick View"
	}
	return string(c)
}

// Report is a digest as returned by the API. Content is markdown for most
// collections and a JSON document for the Reddit, Hacker News and quick view
// collections.
type Report struct {
	ID         ReportID `json:"id"`
	Filename   string   `json:"filename"`
	UploadDate string   `json:"upload_date"`
	Content    string   `json:"content"`
}

// Uploaded parses UploadDate.
func (r Report) Uploaded() (time.Time, bool) { return ParseTime(r.UploadDate) }

// ParseTime parses an API timestamp. The API has emitted RFC 3339 timestamps
// with and without a zone, and bare dates.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ReportID accepts both numeric and string identifiers.
type ReportID string

func (id *ReportID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ReportID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("report id: %w", err)
	}
	*id = ReportID(n.String())
	return nil
}

// MarshalJSON emits numeric IDs as numbers.
func (id ReportID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id ReportID) String() string { return string(id) }

// ListParams are the query parameters for a list request.
type ListParams struct {
	Skip     int
	Limit    int
	Search   string
	DateFrom string
	DateTo   string
}

// DefaultLimit is the page size used when ListParams.Limit is zero.
const DefaultLimit = 10

// ListResult is one page of reports.
type ListResult struct {
	Reports []Report `json:"reports"`
	Total   int      `json:"total"`
	Limit   int      `json:"-"`
}

// HasMore reports whether another page may exist: a full page was returned.
func (r ListResult) HasMore() bool {
	return r.Limit > 0 && len(r.Reports) == r.Limit
}

// listResponse accepts both the "count" and "total" spellings.
type listResponse struct {
	Reports []Report `json:"reports"`
	Count   *int     `json:"count"`
	Total   *int     `json:"total"`
}

func (l listResponse) total() int {
	switch {
	case l.Total != nil:
		return *l.Total
	case l.Count != nil:
		return *l.Count
	}
	return len(l.Reports)
}
