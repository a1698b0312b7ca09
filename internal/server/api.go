package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/techdigest-vietnam/techdigest/internal/digest"
	"github.com/techdigest-vietnam/techdigest/internal/feeds"
	"github.com/techdigest-vietnam/techdigest/internal/live"
)

// apiRoutes mounts the JSON API below /api.
func (s *Server) apiRoutes(r chi.Router) {
	r.Get("/trending/github", s.handleGitHubTrending)
	r.Get("/trending/huggingface", s.handleHubTrending)
	r.Get("/papers", s.handlePapers)
	r.Get("/openrouter/models", s.handleModels)
	r.Get("/dashboard", s.handleDashboard)

	r.Route("/reports/{type}", func(r chi.Router) {
		r.Get("/", s.handleListReports)
		r.Get("/latest", s.handleLatestReport)
		r.Get("/{id}", s.handleGetReport)
	})

	if s.deps.DB != nil {
		r.Get("/refresh-runs", s.handleRefreshRuns)
	}
	if s.deps.Cache != nil {
		r.Get("/cache/stats", s.handleCacheStats)
	}
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
}

// itemsResponse wraps a feed listing.
type itemsResponse[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

func items[T any](v []T) itemsResponse[T] {
	if v == nil {
		v = []T{}
	}
	return itemsResponse[T]{Items: v, Count: len(v)}
}

func (s *Server) handleGitHubTrending(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rng, err := feeds.ParseTrendingRange(q.Get("range"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit, ok := intParam(w, q, "limit")
	if !ok {
		return
	}
	repos, err := s.deps.Feeds.GitHubTrending(r.Context(), rng, limit)
	if err != nil {
		s.apiError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items(repos))
}

func (s *Server) handleHubTrending(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	kind, err := feeds.ParseHubKind(q.Get("type"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit, ok := intParam(w, q, "limit")
	if !ok {
		return
	}
	hub, err := s.deps.Feeds.HubTrending(r.Context(), kind, limit)
	if err != nil {
		s.apiError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items(hub))
}

func (s *Server) handlePapers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var date time.Time
	if v := q.Get("date"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		date = t
	}
	limit, ok := intParam(w, q, "limit")
	if !ok {
		return
	}
	papers, err := s.deps.Feeds.DailyPapers(r.Context(), date, limit)
	if err != nil {
		s.apiError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items(papers))
}

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	limit, ok := intParam(w, r.URL.Query(), "limit")
	if !ok {
		return
	}
	models, err := s.deps.Feeds.OpenRouterModels(r.Context(), limit)
	if err != nil {
		s.apiError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items(models))
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	opts, err := dashboardOptions(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	d, err := s.deps.Feeds.Dashboard(r.Context(), opts)
	if err != nil {
		s.apiError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// contentType reads the {type} URL parameter, answering 400 when unknown.
func contentType(w http.ResponseWriter, r *http.Request) (digest.ContentType, bool) {
	ct, err := digest.ParseContentType(chi.URLParam(r, "type"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return ct, true
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	ct, ok := contentType(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	skip, ok := intParam(w, q, "skip")
	if !ok {
		return
	}
	limit, ok := intParam(w, q, "limit")
	if !ok {
		return
	}
	res, err := s.deps.Reports.List(r.Context(), ct, digest.ListParams{
		Skip:     skip,
		Limit:    limit,
		Search:   q.Get("search"),
		DateFrom: q.Get("date_from"),
		DateTo:   q.Get("date_to"),
	})
	if err != nil {
		s.apiError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleLatestReport(w http.ResponseWriter, r *http.Request) {
	ct, ok := contentType(w, r)
	if !ok {
		return
	}
	rep, err := s.deps.Reports.Latest(r.Context(), ct)
	if err != nil {
		s.apiError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	ct, ok := contentType(w, r)
	if !ok {
		return
	}
	id, err := url.PathUnescape(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid report id")
		return
	}
	rep, err := s.deps.Reports.ByID(r.Context(), ct, id)
	if err != nil {
		s.apiError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleRefreshRuns(w http.ResponseWriter, r *http.Request) {
	limit, ok := intParam(w, r.URL.Query(), "limit")
	if !ok {
		return
	}
	runs, err := live.Runs(r.Context(), s.deps.DB, limit)
	if err != nil {
		s.apiError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items(runs))
}

func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.deps.Cache.Stats(r.Context())
	if err != nil {
		s.apiError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items(stats))
}

// apiError answers err as JSON with the same status mapping as pages.
func (s *Server) apiError(w http.ResponseWriter, r *http.Request, err error) {
	if canceled(r, err) {
		return
	}
	status := upstreamStatus(err)
	s.logger.Warn("api request failed", "path", r.URL.Path, "status", status, "error", err)
	writeError(w, status, err.Error())
}

// intParam parses an optional integer query parameter. Zero means unset.
func intParam(w http.ResponseWriter, q url.Values, name string) (int, bool) {
	v := q.Get(name)
	if v == "" {
		return 0, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		writeError(w, http.StatusBadRequest, name+" must be a non-negative integer")
		return 0, false
	}
	return n, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
