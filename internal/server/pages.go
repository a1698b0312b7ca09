package server

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/techdigest-vietnam/techdigest/internal/digest"
	"github.com/techdigest-vietnam/techdigest/internal/feeds"
	"github.com/techdigest-vietnam/techdigest/internal/fetch"
	"github.com/techdigest-vietnam/techdigest/internal/site"
)

const dateLayout = "2006-01-02"

// dashboardOptions reads the home page filters: range, hub and date.
func dashboardOptions(q url.Values) (feeds.DashboardOptions, error) {
	var opts feeds.DashboardOptions
	rng, err := feeds.ParseTrendingRange(q.Get("range"))
	if err != nil {
		return opts, err
	}
	kind, err := feeds.ParseHubKind(q.Get("hub"))
	if err != nil {
		return opts, err
	}
	opts.Range = rng
	opts.HubKind = kind
	if d := q.Get("date"); d != "" {
		t, err := time.Parse(dateLayout, d)
		if err != nil {
			return opts, errors.New("date must be YYYY-MM-DD")
		}
		opts.PapersDate = t
	}
	return opts, nil
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts, err := dashboardOptions(q)
	if err != nil {
		s.writePage(w, r, s.deps.Site.Error(http.StatusBadRequest, err.Error()))
		return
	}

	var d *feeds.Dashboard
	if len(q) == 0 && s.deps.Refresher != nil {
		d = s.deps.Refresher.Latest()
	}
	if d == nil {
		d, err = s.deps.Feeds.Dashboard(r.Context(), opts)
		if err != nil {
			s.pageError(w, r, err, "Failed to load trending feeds")
			return
		}
	}
	s.writePage(w, r, s.deps.Site.Home(d, q.Get("date")))
}

func (s *Server) handleLatest(ct digest.ContentType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rep, err := s.deps.Reports.Latest(r.Context(), ct)
		if err != nil {
			s.pageError(w, r, err, "Failed to load the latest "+ct.Title()+" report")
			return
		}
		s.renderReport(w, r, ct, rep, true)
	}
}

func (s *Server) handleDetail(ct digest.ContentType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := url.PathUnescape(chi.URLParam(r, "id"))
		if err != nil || id == "" {
			s.handleNotFound(w, r)
			return
		}
		rep, err := s.deps.Reports.ByID(r.Context(), ct, id)
		if err != nil {
			s.pageError(w, r, err, "Failed to load report")
			return
		}
		s.renderReport(w, r, ct, rep, false)
	}
}

func (s *Server) renderReport(w http.ResponseWriter, r *http.Request, ct digest.ContentType, rep *digest.Report, latest bool) {
	page, err := s.deps.Site.Report(ct, rep, site.QueryFrom(r.URL.Query()), latest)
	if err != nil {
		s.logger.Error("rendering report", "content_type", ct, "id", rep.ID, "error", err)
		page = s.deps.Site.Error(http.StatusInternalServerError, "Failed to render report")
	}
	s.writePage(w, r, page)
}

func (s *Server) handleArchive(ct digest.ContentType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := site.QueryFrom(r.URL.Query())
		res, err := s.deps.Reports.List(r.Context(), ct, q.ListParams(s.cfg.PageSize))
		if err != nil {
			s.pageError(w, r, err, "Failed to load "+ct.Title())
			return
		}
		s.writePage(w, r, s.deps.Site.Archive(ct, res, q, s.cfg.PageSize))
	}
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.writePage(w, r, s.deps.Site.NotFound(r.URL.Path))
}

// pageError renders err as an error page. A missing report renders 404,
// any other upstream failure 502. Nothing is written once the client has
// gone away.
func (s *Server) pageError(w http.ResponseWriter, r *http.Request, err error, message string) {
	if canceled(r, err) {
		s.logger.Debug("request canceled", "path", r.URL.Path)
		return
	}
	status := upstreamStatus(err)
	if status == http.StatusNotFound {
		message = "Report not found"
	}
	s.logger.Warn("page failed", "path", r.URL.Path, "status", status, "error", err)
	s.writePage(w, r, s.deps.Site.Error(status, message+": "+err.Error()))
}

func (s *Server) writePage(w http.ResponseWriter, r *http.Request, p *site.Page) {
	if err := s.deps.Site.Write(w, p); err != nil {
		s.logger.Error("writing page", "page", p.Name, "path", r.URL.Path, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func canceled(r *http.Request, err error) bool {
	return fetch.IsCanceled(err) || errors.Is(r.Context().Err(), context.Canceled)
}

// upstreamStatus maps a client error to the status the front-end answers.
func upstreamStatus(err error) int {
	var apiErr *digest.APIError
	if errors.As(err, &apiErr) {
		if apiErr.NotFound() {
			return http.StatusNotFound
		}
		return http.StatusBadGateway
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusBadGateway
}
