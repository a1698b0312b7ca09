package site

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/techdigest-vietnam/techdigest/internal/digest"
	"github.com/techdigest-vietnam/techdigest/internal/progress"
)

// Lister is the subset of digest.Client route discovery needs.
type Lister interface {
	List(ctx context.Context, ct digest.ContentType, p digest.ListParams) (*digest.ListResult, error)
}

// StaticRoutes are the pages that exist independently of any report.
func StaticRoutes() []string {
	routes := []string{"/"}
	for _, ct := range digest.ContentTypes {
		routes = append(routes, LatestPath(ct), ArchivePath(ct))
	}
	return routes
}

// DiscoverRoutes returns the static routes plus the detail pages of the
// newest perType reports of every content type. A content type whose
// listing fails is skipped with a warning.
func DiscoverRoutes(ctx context.Context, l Lister, perType int, logger *slog.Logger) ([]string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	routes := StaticRoutes()
	if perType <= 0 {
		return routes, nil
	}
	for _, ct := range digest.ContentTypes {
		res, err := l.List(ctx, ct, digest.ListParams{Limit: perType})
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Warn("skipping content type", "content_type", ct, "error", err)
			continue
		}
		for _, r := range res.Reports {
			route := DetailPath(ct, r.ID.String())
			if r.ID == "" || !safeRoute(route) {
				logger.Warn("skipping report with unusable id", "content_type", ct, "id", r.ID)
				continue
			}
			routes = append(routes, route)
		}
	}
	return routes, nil
}

// SelectRoutes keeps the routes matching any include pattern (all routes
// when include is empty) and none of the exclude patterns. Patterns use
// doublestar syntax, e.g. "/reports/*" or "/*-archive".
func SelectRoutes(routes, include, exclude []string) ([]string, error) {
	for _, p := range append(append([]string{}, include...), exclude...) {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid route pattern %q", p)
		}
	}
	var out []string
	seen := map[string]bool{}
	for _, r := range routes {
		if seen[r] {
			continue
		}
		seen[r] = true
		if len(include) > 0 && !matchAny(include, r) {
			continue
		}
		if matchAny(exclude, r) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func matchAny(patterns []string, route string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, route); ok {
			return true
		}
	}
	return false
}

// ExportResult summarizes an export run.
type ExportResult struct {
	Written []string
	Failed  map[string]int
}

// Export renders every route through h and writes it below outDir as
// route/index.html, together with the stylesheet and script. Routes that
// do not answer 200 are recorded in Failed and not written.
func (s *Site) Export(ctx context.Context, h http.Handler, routes []string, outDir string, rep progress.Reporter) (*ExportResult, error) {
	if rep == nil {
		rep = progress.Discard{}
	}
	if err := writeFile(filepath.Join(outDir, "static", "style.css"), []byte(cssContent)); err != nil {
		return nil, err
	}
	if err := writeFile(filepath.Join(outDir, "static", "script.js"), []byte(jsContent)); err != nil {
		return nil, err
	}

	res := &ExportResult{Failed: map[string]int{}}
	rep.Start(len(routes))
	defer rep.Finish()
	for i, route := range routes {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		rep.Update(i+1, route)
		if !safeRoute(route) {
			res.Failed[route] = http.StatusBadRequest
			continue
		}

		req := httptest.NewRequest(http.MethodGet, s.Path(route), nil).WithContext(ctx)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			res.Failed[route] = rec.Code
			continue
		}
		if err := writeFile(exportPath(outDir, route), rec.Body.Bytes()); err != nil {
			return res, err
		}
		res.Written = append(res.Written, route)
	}
	return res, nil
}

// safeRoute reports whether route stays inside the export directory: no
// segment may be "." or "..".
func safeRoute(route string) bool {
	for _, seg := range strings.Split(strings.Trim(route, "/"), "/") {
		if seg == "." || seg == ".." {
			return false
		}
	}
	return true
}

// exportPath maps "/" to index.html and "/a/b" to a/b/index.html.
func exportPath(outDir, route string) string {
	parts := strings.Split(strings.Trim(route, "/"), "/")
	return filepath.Join(append(append([]string{outDir}, parts...), "index.html")...)
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
