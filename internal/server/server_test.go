package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/techdigest-vietnam/techdigest/internal/db"
	"github.com/techdigest-vietnam/techdigest/internal/digest"
	"github.com/techdigest-vietnam/techdigest/internal/feeds"
	"github.com/techdigest-vietnam/techdigest/internal/live"
	"github.com/techdigest-vietnam/techdigest/internal/metrics"
	"github.com/techdigest-vietnam/techdigest/internal/site"
)

type fakeReports struct {
	reports map[digest.ContentType][]digest.Report
	err     error
	params  digest.ListParams
	block   bool // Latest waits for the request context to end
}

func (f *fakeReports) List(ctx context.Context, ct digest.ContentType, p digest.ListParams) (*digest.ListResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.params = p
	rs := f.reports[ct]
	return &digest.ListResult{Reports: rs, Total: len(rs), Limit: p.Limit}, nil
}

func (f *fakeReports) Latest(ctx context.Context, ct digest.ContentType) (*digest.Report, error) {
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	if len(f.reports[ct]) == 0 {
		return nil, &digest.APIError{Status: http.StatusNotFound}
	}
	return &f.reports[ct][0], nil
}

func (f *fakeReports) ByID(ctx context.Context, ct digest.ContentType, id string) (*digest.Report, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i, r := range f.reports[ct] {
		if r.ID.String() == id {
			return &f.reports[ct][i], nil
		}
	}
	return nil, &digest.APIError{Status: http.StatusNotFound}
}

type fakeFeeds struct {
	opts feeds.DashboardOptions
}

func (f *fakeFeeds) GitHubTrending(ctx context.Context, rng feeds.TrendingRange, limit int) ([]feeds.Repo, error) {
	return []feeds.Repo{{Owner: "golang", Name: "go", Link: "https://github.com/golang/go"}}, nil
}

func (f *fakeFeeds) HubTrending(ctx context.Context, kind feeds.HubKind, limit int) ([]feeds.HubItem, error) {
	return nil, nil
}

func (f *fakeFeeds) DailyPapers(ctx context.Context, date time.Time, limit int) ([]feeds.Paper, error) {
	return []feeds.Paper{{ID: "2501.00001", Title: "Attention"}}, nil
}

func (f *fakeFeeds) OpenRouterModels(ctx context.Context, limit int) ([]feeds.Model, error) {
	return nil, nil
}

func (f *fakeFeeds) Dashboard(ctx context.Context, opts feeds.DashboardOptions) (*feeds.Dashboard, error) {
	f.opts = opts
	return &feeds.Dashboard{
		GitHub:  feeds.Section[feeds.Repo]{Items: []feeds.Repo{{Title: "golang/go", Owner: "golang", Name: "go"}}},
		Range:   opts.Range,
		HubKind: opts.HubKind,
	}, nil
}

type fixture struct {
	srv     *Server
	reports *fakeReports
	feeds   *fakeFeeds
}

func newFixture(t *testing.T, cfg Config, deps Deps) *fixture {
	t.Helper()
	if cfg.BasePath == "" {
		cfg.BasePath = "/digest"
	}
	st, err := site.New(site.Options{Name: "TD", BasePath: cfg.BasePath, Live: deps.Hub != nil})
	if err != nil {
		t.Fatalf("site.New: %v", err)
	}
	f := &fixture{
		reports: &fakeReports{reports: map[digest.ContentType][]digest.Report{
			digest.Reports: {
				{ID: "7", UploadDate: "2025-06-01T08:00:00", Content: "# Tech Digest\n\nBig news today.\n\n## 1. AI\n\nModels everywhere."},
			},
			digest.WeeklyTech: {
				{ID: "3", UploadDate: "2025-06-02", Content: "# Weekly Roundup\n\n## Go 1.25\n\nReleased."},
			},
		}},
		feeds: &fakeFeeds{},
	}
	deps.Site = st
	deps.Reports = f.reports
	deps.Feeds = f.feeds
	f.srv = New(cfg, deps)
	return f
}

func (f *fixture) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	f.srv.Router().ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	f := newFixture(t, Config{Port: 0}, Deps{})
	w := f.get("/healthz")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", body["status"])
	}
}

func TestCORSHeaders(t *testing.T) {
	f := newFixture(t, Config{Port: 0, AllowAll: true}, Deps{})

	req := httptest.NewRequest("OPTIONS", "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	f.srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}

func TestRootRedirectsToBasePath(t *testing.T) {
	f := newFixture(t, Config{}, Deps{})
	w := f.get("/")
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/digest/" {
		t.Errorf("got %d Location=%q", w.Code, w.Header().Get("Location"))
	}
}

func TestPages(t *testing.T) {
	f := newFixture(t, Config{}, Deps{})

	tests := []struct {
		path   string
		status int
		want   string
	}{
		{"/digest/", http.StatusOK, "golang/go"},
		{"/digest/latest", http.StatusOK, "Models everywhere."},
		{"/digest/reports/7", http.StatusOK, "Big news today."},
		{"/digest/weekly-tech-reports", http.StatusOK, "Weekly Roundup"},
		{"/digest/weekly-tech-reports/3", http.StatusOK, "Released."},
		{"/digest/weekly-tech-reports-archive", http.StatusOK, "Weekly Tech #3"},
		{"/digest/archive", http.StatusOK, "Tech Digest Archive"},
		{"/digest/reports/99", http.StatusNotFound, "Report not found"},
		{"/digest/reddit-reports", http.StatusNotFound, "Report not found"},
		{"/digest/nope", http.StatusNotFound, "<code>/digest/nope</code>"},
		{"/digest/?range=yearly", http.StatusBadRequest, "unknown trending range"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := f.get(tt.path)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d", w.Code, tt.status)
			}
			if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
				t.Errorf("Content-Type = %q", ct)
			}
			if !strings.Contains(w.Body.String(), tt.want) {
				t.Errorf("body missing %q", tt.want)
			}
		})
	}
}

func TestHomeFilters(t *testing.T) {
	f := newFixture(t, Config{}, Deps{})
	w := f.get("/digest/?range=weekly&hub=datasets&date=2025-06-01")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	opts := f.feeds.opts
	if opts.Range != feeds.Weekly || opts.HubKind != feeds.HubDatasets {
		t.Errorf("unexpected options %+v", opts)
	}
	if got := opts.PapersDate.Format(dateLayout); got != "2025-06-01" {
		t.Errorf("PapersDate = %s", got)
	}
}

func TestHomeUsesRefreshedDashboard(t *testing.T) {
	agg := &fakeFeeds{}
	ref := live.NewRefresher(live.RefresherOptions{Aggregator: agg})
	if _, err := ref.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	f := newFixture(t, Config{}, Deps{Refresher: ref})
	if w := f.get("/digest/"); w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if f.feeds.opts.Range != "" {
		t.Error("home without filters should reuse the refreshed dashboard")
	}
}

func TestArchiveQuery(t *testing.T) {
	f := newFixture(t, Config{PageSize: 5}, Deps{})
	w := f.get("/digest/archive?search=go&page=3&date_from=2025-01-01")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	p := f.reports.params
	if p.Search != "go" || p.Skip != 10 || p.Limit != 5 || p.DateFrom != "2025-01-01" {
		t.Errorf("unexpected params %+v", p)
	}
}

func TestUpstreamErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"api 500", &digest.APIError{Status: 500}, http.StatusBadGateway},
		{"api 404", &digest.APIError{Status: 404}, http.StatusNotFound},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, Config{}, Deps{})
			f.reports.err = tt.err
			if w := f.get("/digest/latest"); w.Code != tt.status {
				t.Errorf("page status = %d, want %d", w.Code, tt.status)
			}
			if w := f.get("/digest/api/reports/reports/latest"); w.Code != tt.status {
				t.Errorf("api status = %d, want %d", w.Code, tt.status)
			}
		})
	}
}

// headerCounter records how often WriteHeader is called.
type headerCounter struct {
	*httptest.ResponseRecorder
	calls int
}

func (h *headerCounter) WriteHeader(code int) {
	h.calls++
	h.ResponseRecorder.WriteHeader(code)
}

func TestRequestTimeoutWritesOnce(t *testing.T) {
	f := newFixture(t, Config{RequestTimeout: 20 * time.Millisecond}, Deps{})
	f.reports.block = true

	for _, path := range []string{"/digest/latest", "/digest/api/reports/reports/latest"} {
		w := &headerCounter{ResponseRecorder: httptest.NewRecorder()}
		f.srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusGatewayTimeout {
			t.Errorf("%s: status = %d, want 504", path, w.Code)
		}
		if w.calls != 1 {
			t.Errorf("%s: WriteHeader called %d times, want 1", path, w.calls)
		}
		if w.Body.Len() == 0 {
			t.Errorf("%s: expected an error body", path)
		}
	}
}

func TestCanceledRequestWritesNothing(t *testing.T) {
	f := newFixture(t, Config{}, Deps{})
	f.reports.err = context.Canceled
	w := f.get("/digest/latest")
	if w.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", w.Body.String())
	}
}

func TestAPI(t *testing.T) {
	f := newFixture(t, Config{}, Deps{})

	tests := []struct {
		path   string
		status int
		want   string
	}{
		{"/digest/api/trending/github?range=weekly", http.StatusOK, `"count":1`},
		{"/digest/api/trending/github?range=yearly", http.StatusBadRequest, "unknown trending range"},
		{"/digest/api/trending/github?limit=abc", http.StatusBadRequest, "limit must be"},
		{"/digest/api/trending/huggingface?type=spaces", http.StatusOK, `"items":[]`},
		{"/digest/api/trending/huggingface?type=nope", http.StatusBadRequest, "unknown hub kind"},
		{"/digest/api/papers?date=2025-06-01", http.StatusOK, "Attention"},
		{"/digest/api/papers?date=June", http.StatusBadRequest, "YYYY-MM-DD"},
		{"/digest/api/openrouter/models", http.StatusOK, `"count":0`},
		{"/digest/api/dashboard?range=monthly", http.StatusOK, `"range":"monthly"`},
		{"/digest/api/reports/reports", http.StatusOK, `"total":1`},
		{"/digest/api/reports/reports/latest", http.StatusOK, `"id":7`},
		{"/digest/api/reports/weekly-tech-reports/3", http.StatusOK, "Weekly Roundup"},
		{"/digest/api/reports/reports/99", http.StatusNotFound, "API error: 404"},
		{"/digest/api/reports/nope", http.StatusBadRequest, "unknown content type"},
		{"/digest/api/missing", http.StatusNotFound, "not found"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := f.get(tt.path)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.status, w.Body.String())
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q", ct)
			}
			if !strings.Contains(w.Body.String(), tt.want) {
				t.Errorf("body %s missing %q", w.Body.String(), tt.want)
			}
		})
	}
}

func TestRefreshRunsEndpoint(t *testing.T) {
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer database.Close()

	ref := live.NewRefresher(live.RefresherOptions{Aggregator: &fakeFeeds{}, DB: database})
	ev, err := ref.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	f := newFixture(t, Config{}, Deps{DB: database})
	w := f.get("/digest/api/refresh-runs")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), ev.ID) {
		t.Errorf("body %s missing run %s", w.Body.String(), ev.ID)
	}
}

func TestStaticAssets(t *testing.T) {
	f := newFixture(t, Config{}, Deps{})
	w := f.get("/digest/static/style.css")
	if w.Code != http.StatusOK || !strings.HasPrefix(w.Header().Get("Content-Type"), "text/css") {
		t.Errorf("style.css: %d %q", w.Code, w.Header().Get("Content-Type"))
	}
	w = f.get("/digest/static/script.js")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "WebSocket") {
		t.Errorf("script.js: %d", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t, Config{}, Deps{Metrics: metrics.NewManager()})
	f.get("/digest/latest")

	w := f.get("/metrics")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "techdigest_http_requests_total") {
		t.Error("expected http request counter in exposition")
	}
}

func TestLiveFeedSocket(t *testing.T) {
	hub := live.NewHub(nil, nil)
	f := newFixture(t, Config{RequestTimeout: time.Second}, Deps{Hub: hub})

	ts := httptest.NewServer(f.srv.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/digest/ws/feeds"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()
	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("expected 101, got %d", resp.StatusCode)
	}

	if err := hub.Broadcast(live.Event{Type: "refresh", ID: "r1"}); err != nil {
		t.Fatalf("Broadcast: %v", err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev live.Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if ev.ID != "r1" {
		t.Errorf("event = %+v", ev)
	}

	page := f.get("/digest/")
	if !strings.Contains(page.Body.String(), `data-live="/digest/ws/feeds"`) {
		t.Error("home page should point the script at the live socket")
	}
}
