package cmd

import (
	"fmt"
	"log/slog"

	"github.com/techdigest-vietnam/techdigest/internal/cache"
	"github.com/techdigest-vietnam/techdigest/internal/config"
	"github.com/techdigest-vietnam/techdigest/internal/db"
	"github.com/techdigest-vietnam/techdigest/internal/digest"
	"github.com/techdigest-vietnam/techdigest/internal/feeds"
	"github.com/techdigest-vietnam/techdigest/internal/fetch"
	"github.com/techdigest-vietnam/techdigest/internal/logger"
	"github.com/techdigest-vietnam/techdigest/internal/metrics"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `techdigest init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// setupLogger builds the process logger from config and installs it as the
// slog default. --verbose forces debug level.
func setupLogger(cfg *config.Config) (*slog.Logger, error) {
	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	l, err := logger.New(logger.Options{Level: level, Format: string(cfg.Log.Format)})
	if err != nil {
		return nil, fmt.Errorf("configuring logger: %w", err)
	}
	slog.SetDefault(l)
	return l, nil
}

// app bundles the clients the commands build from config.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *metrics.Manager
	db      *db.DB // nil when the cache is disabled
	cache   *cache.Store
	reports *digest.Client
	feeds   *feeds.Client
}

// newApp loads config, sets up logging and builds the API and feed clients
// on a shared fetch client.
func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log, err := setupLogger(cfg)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: log, metrics: metrics.NewManager()}
	if cfg.Cache.Enabled {
		database, err := db.Open(cfg.Cache.Path)
		if err != nil {
			// The cache is a performance layer; run without it.
			log.Warn("response cache disabled", "path", cfg.Cache.Path, "error", err)
		} else {
			a.db = database
			a.cache = cache.NewStore(database, cfg.Cache.TTL)
		}
	}

	httpClient := fetch.New(fetch.Options{
		Timeout:   cfg.HTTP.Timeout,
		UserAgent: cfg.HTTP.UserAgent,
		Cache:     a.cache,
		Metrics:   a.metrics,
		Logger:    log,
	})
	a.reports = digest.NewClient(cfg.APIBaseURL, httpClient)
	a.feeds = feeds.NewClient(feeds.Bases{
		GitHubRSS:   cfg.Feeds.GitHubRSSBase,
		HuggingFace: cfg.Feeds.HuggingFaceBase,
		OpenRouter:  cfg.Feeds.OpenRouterBase,
	}, httpClient)
	return a, nil
}

// Close releases the cache database.
func (a *app) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
