package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/techdigest-vietnam/techdigest/internal/cache"
	"github.com/techdigest-vietnam/techdigest/internal/db"
	"github.com/techdigest-vietnam/techdigest/internal/digest"
	"github.com/techdigest-vietnam/techdigest/internal/feeds"
	"github.com/techdigest-vietnam/techdigest/internal/live"
	"github.com/techdigest-vietnam/techdigest/internal/metrics"
	"github.com/techdigest-vietnam/techdigest/internal/site"
)

// Config holds server configuration.
type Config struct {
	Port           int
	BasePath       string        // prefix every page is mounted under
	AllowAll       bool          // allow all CORS origins (dev mode)
	RequestTimeout time.Duration // per-request deadline for pages and the JSON API
	PageSize       int           // archive page size
}

// Reports is the subset of digest.Client the server needs.
type Reports interface {
	List(ctx context.Context, ct digest.ContentType, p digest.ListParams) (*digest.ListResult, error)
	Latest(ctx context.Context, ct digest.ContentType) (*digest.Report, error)
	ByID(ctx context.Context, ct digest.ContentType, id string) (*digest.Report, error)
}

// Feeds is the subset of feeds.Client the server needs.
type Feeds interface {
	GitHubTrending(ctx context.Context, rng feeds.TrendingRange, limit int) ([]feeds.Repo, error)
	HubTrending(ctx context.Context, kind feeds.HubKind, limit int) ([]feeds.HubItem, error)
	DailyPapers(ctx context.Context, date time.Time, limit int) ([]feeds.Paper, error)
	OpenRouterModels(ctx context.Context, limit int) ([]feeds.Model, error)
	Dashboard(ctx context.Context, opts feeds.DashboardOptions) (*feeds.Dashboard, error)
}

// Deps are the collaborators the server routes to. Site, Reports and Feeds
// are required; the rest enable optional endpoints.
type Deps struct {
	Site      *site.Site
	Reports   Reports
	Feeds     Feeds
	Metrics   *metrics.Manager
	Hub       *live.Hub
	Refresher *live.Refresher
	Cache     *cache.Store
	DB        *db.DB
	Logger    *slog.Logger
}

// Server is the techdigest HTTP front-end.
type Server struct {
	cfg        Config
	deps       Deps
	logger     *slog.Logger
	router     chi.Router
	httpServer *http.Server
}

// New creates a server and builds its routes.
func New(cfg Config, deps Deps) *Server {
	if cfg.PageSize <= 0 {
		cfg.PageSize = digest.DefaultLimit
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 60 * time.Second
	}
	cfg.BasePath = site.NormalizeBasePath(cfg.BasePath)
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{cfg: cfg, deps: deps, logger: logger}
	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if s.deps.Metrics != nil {
		r.Use(s.deps.Metrics.Middleware)
	}

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
		corsOpts.AllowCredentials = false
	}
	r.Use(cors.Handler(corsOpts))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	if s.deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.deps.Metrics.Handler())
	}

	r.NotFound(s.handleNotFound)

	if s.cfg.BasePath == "" {
		s.routes(r)
	} else {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, s.cfg.BasePath+"/", http.StatusFound)
		})
		r.Route(s.cfg.BasePath, s.routes)
	}
	return r
}

// routes registers everything served below the base path.
func (s *Server) routes(r chi.Router) {
	r.Get("/static/style.css", s.handleAsset("text/css; charset=utf-8", s.deps.Site.Stylesheet()))
	r.Get("/static/script.js", s.handleAsset("text/javascript; charset=utf-8", s.deps.Site.Script()))
	if s.deps.Hub != nil {
		r.Handle("/ws/feeds", s.deps.Hub)
	}

	r.Group(func(r chi.Router) {
		r.Use(requestTimeout(s.cfg.RequestTimeout))

		r.Get("/", s.handleHome)
		for _, ct := range digest.ContentTypes {
			r.Get(site.LatestPath(ct), s.handleLatest(ct))
			r.Get(site.ArchivePath(ct), s.handleArchive(ct))
			r.Get("/"+string(ct)+"/{id}", s.handleDetail(ct))
		}

		r.Route("/api", s.apiRoutes)
	})
}

// Handler returns the root handler, e.g. for in-process rendering.
func (s *Server) Handler() http.Handler { return s.router }

// Router returns the chi router for registering additional routes.
func (s *Server) Router() chi.Router { return s.router }

// ServerConfig returns the server configuration.
func (s *Server) ServerConfig() Config { return s.cfg }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.logger.Info("techdigest server listening", "addr", addr, "base_path", s.cfg.BasePath)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server and disconnects live clients.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.deps.Hub != nil {
		s.deps.Hub.Close()
	}
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// requestTimeout bounds the request context by d. Unlike chi's Timeout it
// writes nothing itself; handlers answer 504 through pageError and apiError.
func requestTimeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (s *Server) handleAsset(contentType, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Write([]byte(body))
	}
}
