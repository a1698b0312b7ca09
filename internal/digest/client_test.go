package digest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/techdigest-vietnam/techdigest/internal/fetch"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", fetch.New(fetch.Options{}))
}

func TestListQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reddit-reports" {
			t.Errorf("path = %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("skip") != "20" || q.Get("limit") != "10" {
			t.Errorf("skip/limit = %q/%q", q.Get("skip"), q.Get("limit"))
		}
		if q.Get("search") != "rust" {
			t.Errorf("search = %q", q.Get("search"))
		}
		if q.Get("date_from") != "2025-01-01" {
			t.Errorf("date_from = %q", q.Get("date_from"))
		}
		if _, ok := q["date_to"]; ok {
			t.Error("empty date_to should be omitted")
		}
		w.Write([]byte(`{"reports":[{"id":7,"filename":"a.md","upload_date":"2025-01-02T10:00:00","content":"# A"}],"count":21}`))
	})

	res, err := c.List(context.Background(), RedditReports, ListParams{Skip: 20, Search: " rust ", DateFrom: "2025-01-01"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if res.Total != 21 {
		t.Errorf("total = %d, want 21", res.Total)
	}
	if len(res.Reports) != 1 || res.Reports[0].ID != "7" {
		t.Fatalf("unexpected reports %+v", res.Reports)
	}
	if res.HasMore() {
		t.Error("a short page should not have more")
	}
}

func TestListTotalSpellings(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"count", `{"reports":[],"count":3}`, 3},
		{"total", `{"reports":[],"total":5}`, 5},
		{"neither", `{"reports":[{"id":"x"},{"id":"y"}]}`, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})
			res, err := c.List(context.Background(), Reports, ListParams{})
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if res.Total != tt.want {
				t.Errorf("total = %d, want %d", res.Total, tt.want)
			}
			if res.Reports == nil {
				t.Error("reports should never be nil")
			}
		})
	}
}

func TestHasMoreOnFullPage(t *testing.T) {
	res := ListResult{Reports: make([]Report, 10), Limit: 10}
	if !res.HasMore() {
		t.Error("full page should have more")
	}
	next := LoadMore(ListParams{Limit: 10, Search: "ai"}, len(res.Reports))
	if next.Skip != 10 || next.Search != "ai" {
		t.Errorf("LoadMore = %+v", next)
	}
}

func TestLatestAndByID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/hackernews-reports/latest":
			w.Write([]byte(`{"id":"abc","filename":"hn.json","content":"{}"}`))
		case "/reports/42":
			w.Write([]byte(`{"id":42,"filename":"r.md","content":"# R"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	latest, err := c.Latest(ctx, HackerNews)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if latest.ID != "abc" {
		t.Errorf("latest id = %q", latest.ID)
	}

	r, err := c.ByID(ctx, Reports, "42")
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if r.Content != "# R" {
		t.Errorf("content = %q", r.Content)
	}

	_, err = c.ByID(ctx, Reports, "missing")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || !apiErr.NotFound() {
		t.Fatalf("expected 404 APIError, got %v", err)
	}
	if err.Error() != "API error: 404" {
		t.Errorf("message = %q", err.Error())
	}

	if _, err := c.ByID(ctx, Reports, " "); err == nil {
		t.Error("blank id should fail")
	}
}

func TestParseContentType(t *testing.T) {
	ct, err := ParseContentType("product-hunt-reports")
	if err != nil || ct != ProductHunt {
		t.Fatalf("ParseContentType = %q, %v", ct, err)
	}
	if _, err := ParseContentType("tiktok-reports"); !errors.Is(err, ErrUnknownContentType) {
		t.Errorf("expected ErrUnknownContentType, got %v", err)
	}
}

func TestReportIDJSON(t *testing.T) {
	var r Report
	if err := json.Unmarshal([]byte(`{"id":12}`), &r); err != nil {
		t.Fatal(err)
	}
	out, _ := json.Marshal(r.ID)
	if string(out) != "12" {
		t.Errorf("numeric id marshalled as %s", out)
	}

	if err := json.Unmarshal([]byte(`{"id":"a-1"}`), &r); err != nil {
		t.Fatal(err)
	}
	out, _ = json.Marshal(r.ID)
	if string(out) != `"a-1"` {
		t.Errorf("string id marshalled as %s", out)
	}
}

func TestUploaded(t *testing.T) {
	for _, s := range []string{"2025-06-01T08:30:00Z", "2025-06-01T08:30:00.123456", "2025-06-01"} {
		got, ok := Report{UploadDate: s}.Uploaded()
		if !ok || got.Year() != 2025 || got.Month() != 6 {
			t.Errorf("Uploaded(%q) = %v, %v", s, got, ok)
		}
	}
	if _, ok := (Report{UploadDate: "yesterday"}).Uploaded(); ok {
		t.Error("garbage date should not parse")
	}
}
