package feeds

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/techdigest-vietnam/techdigest/internal/fetch"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>GitHub Trending</title>
<item><title>golang / go</title><link>https://github.com/golang/go</link>
<description><![CDATA[<p>The <b>Go</b> programming language</p><p>Stars: 1</p>]]></description></item>
<item><title>solo</title><link>https://github.com/x/solo</link><description>Plain &amp; simple</description></item>
<item><title>a/b/c</title><link></link><description></description></item>
</channel></rss>`

const sampleHub = `{"recentlyTrending":[
 {"repoType":"dataset","repoData":{"id":"org/ds","author":"org","likes":12,"downloads":345,
   "lastModified":"2025-06-01T10:00:00.000Z","tags":["text"]}},
 {"repoData":{"id":"org/model","pipeline_tag":"text-generation","likeCount":3,
   "downloadsAllTime":null,"downloadsLastMonth":7,"lastModifiedAt":"bad-date"}}
]}`

const samplePapers = `[
 {"paper":{"id":"2506.00001","title":"Paper A","authors":[{"name":"Ann"},{"name":"Bob"}],
   "upvotes":42,"submittedOnDailyBy":{"fullname":"Sub Mitter"}},"numComments":3,"numCollections":1},
 {"id":"2506.00002","title":"Loose","submittedBy":{"fullname":"Entry Sub"},"numCollections":2},
 {"paper":{"authors":[{"user":{"fullname":"Cat"}}]}}
]`

var sampleModels = `{"data":[
 {"id":"openai/gpt-4o","name":"GPT-4o","description":"` + strings.Repeat("x", 101) + `","context_length":128000,
  "pricing":{"prompt":"0.0000025","completion":"0.00001","request":"0"}},
 {"id":"free/model","pricing":{"prompt":"0","completion":"0"}},
 {"id":"req/model","name":"Req","pricing":{"prompt":"abc","request":"0.005"}}
]}`

func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	c := NewClient(Bases{
		GitHubRSS:   srv.URL + "/gh/",
		HuggingFace: srv.URL,
		OpenRouter:  srv.URL + "/or",
	}, fetch.New(fetch.Options{Timeout: 5 * time.Second}))
	c.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return c
}

func TestParseRSS(t *testing.T) {
	repos, err := ParseRSS([]byte(sampleRSS))
	if err != nil {
		t.Fatalf("ParseRSS: %v", err)
	}
	if len(repos) != 3 {
		t.Fatalf("got %d repos, want 3", len(repos))
	}

	want := []Repo{
		{ID: "https://github.com/golang/go", Title: "golang / go", Owner: "golang", Name: "go", Link: "https://github.com/golang/go", Description: "The Go programming language"},
		{ID: "https://github.com/x/solo", Title: "solo", Name: "solo", Link: "https://github.com/x/solo", Description: "Plain & simple"},
		{Title: "a/b/c", Owner: "a", Name: "b/c"},
	}
	for i := range want {
		if repos[i] != want[i] {
			t.Errorf("repo[%d] = %+v, want %+v", i, repos[i], want[i])
		}
	}
	if got := repos[2].URL(); got != "https://github.com/a/b/c" {
		t.Errorf("URL fallback = %q", got)
	}
}

func TestParseRSSInvalid(t *testing.T) {
	if _, err := ParseRSS([]byte("not xml at all")); !errors.Is(err, ErrParse) {
		t.Errorf("expected ErrParse, got %v", err)
	}
}

func TestClampLimits(t *testing.T) {
	tests := []struct {
		name string
		fn   func(int) int
		in   int
		want int
	}{
		{"github default", ClampGitHubLimit, 0, 10},
		{"github low", ClampGitHubLimit, 3, 5},
		{"github mid", ClampGitHubLimit, 7, 7},
		{"github high", ClampGitHubLimit, 99, 50},
		{"hub default", ClampHubLimit, 0, 10},
		{"hub high", ClampHubLimit, 30, 20},
		{"papers default", ClampPapersLimit, -1, 10},
		{"papers low", ClampPapersLimit, 1, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.in); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseTrendingRange(t *testing.T) {
	if r, err := ParseTrendingRange(""); err != nil || r != Daily {
		t.Errorf("empty = %q, %v", r, err)
	}
	if r, err := ParseTrendingRange("Weekly"); err != nil || r != Weekly {
		t.Errorf("Weekly = %q, %v", r, err)
	}
	if _, err := ParseTrendingRange("yearly"); err == nil {
		t.Error("expected error for yearly")
	}
}

func TestGitHubTrending(t *testing.T) {
	var items strings.Builder
	for i := range 60 {
		fmt.Fprintf(&items, "<item><title>o/r%d</title><link>https://github.com/o/r%d</link></item>", i, i)
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/gh/weekly/all.xml", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "<rss><channel>%s</channel></rss>", items.String())
	})
	c := newTestClient(t, mux)

	repos, err := c.GitHubTrending(context.Background(), Weekly, 100)
	if err != nil {
		t.Fatalf("GitHubTrending: %v", err)
	}
	if len(repos) != MaxGitHubLimit {
		t.Errorf("got %d repos, want %d", len(repos), MaxGitHubLimit)
	}

	_, err = c.GitHubTrending(context.Background(), Monthly, 10)
	var se *fetch.StatusError
	if !errors.As(err, &se) || se.Error() != "GitHub Trending RSS 404" {
		t.Errorf("expected GitHub Trending RSS 404, got %v", err)
	}
}

func TestParseHubTrending(t *testing.T) {
	items, err := ParseHubTrending([]byte(sampleHub), HubModels, "https://hf.example")
	if err != nil {
		t.Fatalf("ParseHubTrending: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items", len(items))
	}

	ds := items[0]
	if ds.RepoType != "dataset" || ds.URL != "https://hf.example/datasets/org/ds" {
		t.Errorf("dataset = %+v", ds)
	}
	if ds.Likes != 12 || !ds.HasDownloads || ds.Downloads != 345 {
		t.Errorf("dataset counts = %+v", ds)
	}
	if ds.Pipeline != "text" || ds.UpdatedLabel() != "2025-06-01" {
		t.Errorf("dataset pipeline/updated = %q / %q", ds.Pipeline, ds.UpdatedLabel())
	}

	m := items[1]
	if m.RepoType != "model" || m.URL != "https://hf.example/org/model" {
		t.Errorf("model = %+v", m)
	}
	if m.Likes != 3 || m.Downloads != 7 || !m.HasDownloads {
		t.Errorf("model counts = %+v", m)
	}
	if m.Pipeline != "text-generation" || m.UpdatedLabel() != "bad-date" {
		t.Errorf("model pipeline/updated = %q / %q", m.Pipeline, m.UpdatedLabel())
	}
}

func TestParseHubTrendingArrayRoot(t *testing.T) {
	items, err := ParseHubTrending([]byte(`[{"id":"a/b","likes":1},{"author":"solo"}]`), HubSpaces, "https://hf.example")
	if err != nil {
		t.Fatalf("ParseHubTrending: %v", err)
	}
	if items[0].RepoType != "space" || items[0].URL != "https://hf.example/spaces/a/b" || items[0].HasDownloads {
		t.Errorf("space = %+v", items[0])
	}
	if items[1].FullName() != "solo" || items[1].URL != "" {
		t.Errorf("author-only = %+v", items[1])
	}

	if _, err := ParseHubTrending([]byte(`{nope`), HubModels, ""); !errors.Is(err, ErrParse) {
		t.Errorf("expected ErrParse, got %v", err)
	}
	empty, err := ParseHubTrending([]byte(`{"other":1}`), HubModels, "")
	if err != nil || len(empty) != 0 {
		t.Errorf("unexpected shape should give no items, got %v, %v", empty, err)
	}
}

func TestHubTrendingURL(t *testing.T) {
	c := NewClient(Bases{HuggingFace: "https://huggingface.co/"}, nil)
	if got := c.HubTrendingURL(HubModels); got != "https://huggingface.co/api/trending" {
		t.Errorf("models url = %q", got)
	}
	if got := c.HubTrendingURL(HubDatasets); got != "https://huggingface.co/api/trending?type=dataset" {
		t.Errorf("datasets url = %q", got)
	}
}

func TestHubTrendingStatusError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/trending", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	})
	c := newTestClient(t, mux)

	_, err := c.HubTrending(context.Background(), HubModels, 10)
	if err == nil || err.Error() != "HF Hub 503" {
		t.Errorf("expected HF Hub 503, got %v", err)
	}
}

func TestParseDailyPapers(t *testing.T) {
	papers, err := ParseDailyPapers([]byte(samplePapers), "https://hf.example")
	if err != nil {
		t.Fatalf("ParseDailyPapers: %v", err)
	}
	if len(papers) != 3 {
		t.Fatalf("got %d papers", len(papers))
	}

	a := papers[0]
	if a.Submitter != "Sub Mitter" || a.NumAuthors != 2 || a.Likes != 42 || a.Comments != 3 {
		t.Errorf("paper A = %+v", a)
	}
	if a.URL != "https://hf.example/papers/2506.00001" || a.ShowCollections() {
		t.Errorf("paper A url/collections = %+v", a)
	}

	b := papers[1]
	if b.Title != "Loose" || b.Submitter != "Entry Sub" || !b.ShowCollections() {
		t.Errorf("paper B = %+v", b)
	}

	c := papers[2]
	if c.ID != "" || c.URL != "" || c.Submitter != "Cat" || c.DisplayTitle() != "Untitled paper" {
		t.Errorf("paper C = %+v", c)
	}
}

func TestDailyPapersDateAndWrapper(t *testing.T) {
	var gotDate string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/daily_papers", func(w http.ResponseWriter, r *http.Request) {
		gotDate = r.URL.Query().Get("date")
		fmt.Fprintf(w, `{"papers":%s}`, samplePapers)
	})
	c := newTestClient(t, mux)

	papers, err := c.DailyPapers(context.Background(), time.Time{}, 2)
	if err != nil {
		t.Fatalf("DailyPapers: %v", err)
	}
	if gotDate != "2025-06-01" {
		t.Errorf("date param = %q", gotDate)
	}
	if len(papers) != 3 {
		t.Errorf("limit below the minimum should clamp to 5, got %d papers", len(papers))
	}
}

func TestParseOpenRouterModels(t *testing.T) {
	models, err := ParseOpenRouterModels([]byte(sampleModels), "https://openrouter.example")
	if err != nil {
		t.Fatalf("ParseOpenRouterModels: %v", err)
	}
	if len(models) != 3 {
		t.Fatalf("got %d models", len(models))
	}

	gpt := models[0]
	if got := gpt.PriceLabel(); got != "$2.50/M input, $10.00/M output" {
		t.Errorf("price label = %q", got)
	}
	if gpt.URL != "https://openrouter.example/models/openai%2Fgpt-4o" {
		t.Errorf("url = %q", gpt.URL)
	}
	if gpt.ContextLength != 128000 {
		t.Errorf("context length = %d", gpt.ContextLength)
	}
	if d := gpt.ShortDescription(); len(d) != 103 || !strings.HasSuffix(d, "...") {
		t.Errorf("short description = %q", d)
	}

	free := models[1]
	if free.Name != "free/model" || free.PriceLabel() != "Free" || free.ShortDescription() != "" {
		t.Errorf("free model = %+v (%s)", free, free.PriceLabel())
	}

	if got := models[2].PriceLabel(); got != "$0.005/req" {
		t.Errorf("request price label = %q", got)
	}
}

func TestParseOpenRouterModelsShapes(t *testing.T) {
	models, err := ParseOpenRouterModels([]byte(`{"data":{}}`), "")
	if err != nil || len(models) != 0 {
		t.Errorf("non-array data should give no models, got %v, %v", models, err)
	}
	if _, err := ParseOpenRouterModels([]byte(`[`), ""); !errors.Is(err, ErrParse) {
		t.Errorf("expected ErrParse, got %v", err)
	}
}

func TestOpenRouterModelsLimit(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/or/api/v1/models", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sampleModels)
	})
	c := newTestClient(t, mux)

	all, err := c.OpenRouterModels(context.Background(), 0)
	if err != nil {
		t.Fatalf("OpenRouterModels: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("default limit: got %d models", len(all))
	}
	two, err := c.OpenRouterModels(context.Background(), 2)
	if err != nil || len(two) != 2 {
		t.Errorf("limit 2: got %d models, %v", len(two), err)
	}
}

func dashboardMux(openRouterStatus int) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/gh/daily/all.xml", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sampleRSS)
	})
	mux.HandleFunc("/api/trending", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sampleHub)
	})
	mux.HandleFunc("/api/daily_papers", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, samplePapers)
	})
	mux.HandleFunc("/or/api/v1/models", func(w http.ResponseWriter, r *http.Request) {
		if openRouterStatus != http.StatusOK {
			w.WriteHeader(openRouterStatus)
			return
		}
		fmt.Fprint(w, sampleModels)
	})
	return mux
}

func TestDashboard(t *testing.T) {
	c := newTestClient(t, dashboardMux(http.StatusInternalServerError))

	d, err := c.Dashboard(context.Background(), DashboardOptions{})
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if len(d.GitHub.Items) != 3 || d.GitHub.Error != "" {
		t.Errorf("github section = %+v", d.GitHub)
	}
	if len(d.Hub.Items) != 2 || len(d.Papers.Items) != 3 {
		t.Errorf("hub/papers = %d/%d items", len(d.Hub.Items), len(d.Papers.Items))
	}
	if d.Models.Error != "OpenRouter 500" || len(d.Models.Items) != 0 {
		t.Errorf("models section = %+v", d.Models)
	}
	if d.Failures() != 1 {
		t.Errorf("failures = %d, want 1", d.Failures())
	}
	if d.Range != Daily || d.HubKind != HubModels || d.FetchedAt.IsZero() {
		t.Errorf("dashboard meta = %q %q %v", d.Range, d.HubKind, d.FetchedAt)
	}
}

func TestDashboardCanceled(t *testing.T) {
	c := newTestClient(t, dashboardMux(http.StatusOK))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.Dashboard(ctx, DashboardOptions{}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
