// Package site renders the digest front-end pages with html/template.
package site

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/techdigest-vietnam/techdigest/internal/digest"
	"github.com/techdigest-vietnam/techdigest/internal/feeds"
	mdproc "github.com/techdigest-vietnam/techdigest/internal/markdown"
)

// Options configures a Site.
type Options struct {
	Name     string
	BasePath string
	// Live enables the websocket refresh indicator on the home page.
	Live     bool
	Renderer *mdproc.Renderer
	Now      func() time.Time
}

// Site holds the parsed page templates and renders pages.
type Site struct {
	name  string
	base  string
	live  bool
	md    *mdproc.Renderer
	now   func() time.Time
	pages map[string]*template.Template
}

// Page is one rendered view. Name selects the page template.
type Page struct {
	Name    string
	Title   string
	Active  string
	Status  int
	Sidebar template.HTML
	Data    any
}

// layoutData is what the layout template sees.
type layoutData struct {
	SiteName string
	Base     string
	Nav      []NavLink
	Live     bool
	Year     int
	*Page
}

// New parses every page template.
func New(opts Options) (*Site, error) {
	s := &Site{
		name:  opts.Name,
		base:  NormalizeBasePath(opts.BasePath),
		live:  opts.Live,
		md:    opts.Renderer,
		now:   opts.Now,
		pages: make(map[string]*template.Template, len(pageTemplates)),
	}
	if s.name == "" {
		s.name = mdproc.DefaultTitle
	}
	if s.md == nil {
		s.md = mdproc.NewRenderer(mdproc.Options{})
	}
	if s.now == nil {
		s.now = time.Now
	}

	layout, err := template.New("layout").Funcs(s.funcs()).Parse(layoutTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing layout template: %w", err)
	}
	if _, err := layout.Parse(partialTemplates); err != nil {
		return nil, fmt.Errorf("parsing partial templates: %w", err)
	}
	for name, src := range pageTemplates {
		t, err := layout.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.New("content").Parse(src); err != nil {
			return nil, fmt.Errorf("parsing %s template: %w", name, err)
		}
		s.pages[name] = t
	}
	return s, nil
}

// NormalizeBasePath turns "", "/" and "digest/" into "", "" and "/digest".
func NormalizeBasePath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return ""
	}
	return "/" + p
}

// BasePath is the prefix every route is mounted under.
func (s *Site) BasePath() string { return s.base }

// Path prefixes an absolute route with the base path.
func (s *Site) Path(route string) string {
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	return s.base + route
}

// Render executes p into w. Nothing is written when rendering fails.
func (s *Site) Render(w io.Writer, p *Page) error {
	t, ok := s.pages[p.Name]
	if !ok {
		return fmt.Errorf("unknown page %q", p.Name)
	}
	var buf bytes.Buffer
	err := t.ExecuteTemplate(&buf, "layout", layoutData{
		SiteName: s.name,
		Base:     s.base,
		Nav:      Navigation,
		Live:     s.live,
		Year:     s.now().Year(),
		Page:     p,
	})
	if err != nil {
		return fmt.Errorf("rendering %s: %w", p.Name, err)
	}
	_, err = buf.WriteTo(w)
	return err
}

// Write renders p as an HTTP response using its status code.
func (s *Site) Write(w http.ResponseWriter, p *Page) error {
	var buf bytes.Buffer
	if err := s.Render(&buf, p); err != nil {
		return err
	}
	status := p.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// Stylesheet returns the site CSS.
func (s *Site) Stylesheet() string { return cssContent }

// Script returns the site JavaScript.
func (s *Site) Script() string { return jsContent }

func (s *Site) funcs() template.FuncMap {
	return template.FuncMap{
		"path":      s.Path,
		"truncate":  Truncate,
		"comma":     comma,
		"typeTitle": func(ct digest.ContentType) string { return ct.Title() },
		"join":      strings.Join,
		"dict":      dict,
	}
}

// dict builds a map from alternating keys and values for passing several
// values to a sub-template.
func dict(kv ...any) (map[string]any, error) {
	if len(kv)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	m := make(map[string]any, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
		}
		m[k] = kv[i+1]
	}
	return m, nil
}

func comma(v any) string {
	switch n := v.(type) {
	case int:
		return humanize.Comma(int64(n))
	case int64:
		return humanize.Comma(n)
	case feeds.Count:
		return humanize.Comma(int64(n))
	}
	return fmt.Sprint(v)
}
