package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/techdigest-vietnam/techdigest/internal/live"
	mdproc "github.com/techdigest-vietnam/techdigest/internal/markdown"
	"github.com/techdigest-vietnam/techdigest/internal/server"
	"github.com/techdigest-vietnam/techdigest/internal/site"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the digest web front-end",
	Long: `Starts the HTTP front-end: digest pages, report archives, the trending
dashboard with live refresh over websockets, a JSON API under /api and
Prometheus metrics at /metrics.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "port to listen on (overrides server.port)")
	serveCmd.Flags().Bool("allow-all-origins", false, "allow every CORS origin (dev mode)")
	serveCmd.Flags().Bool("no-live", false, "disable the periodic dashboard refresh and websocket feed")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	cfg := a.cfg

	port := cfg.Server.Port
	if p, _ := cmd.Flags().GetInt("port"); p > 0 {
		port = p
	}
	allowAll := cfg.Server.AllowAllOrigins
	if v, _ := cmd.Flags().GetBool("allow-all-origins"); v {
		allowAll = true
	}
	noLive, _ := cmd.Flags().GetBool("no-live")
	liveEnabled := !noLive && cfg.Feeds.RefreshInterval > 0

	st, err := site.New(site.Options{
		Name:     cfg.SiteName,
		BasePath: cfg.BasePath,
		Live:     liveEnabled,
		Renderer: mdproc.NewRenderer(mdproc.Options{}),
	})
	if err != nil {
		return fmt.Errorf("building site: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := server.Deps{
		Site:    st,
		Reports: a.reports,
		Feeds:   a.feeds,
		Metrics: a.metrics,
		Cache:   a.cache,
		DB:      a.db,
		Logger:  a.logger,
	}
	if liveEnabled {
		deps.Hub = live.NewHub(a.metrics, a.logger)
		deps.Refresher = live.NewRefresher(live.RefresherOptions{
			Aggregator: a.feeds,
			Hub:        deps.Hub,
			DB:         a.db,
			Metrics:    a.metrics,
			Interval:   cfg.Feeds.RefreshInterval,
			Logger:     a.logger,
		})
		go deps.Refresher.Run(ctx)
	}
	if a.cache != nil {
		go purgeCache(ctx, a)
	}

	srv := server.New(server.Config{
		Port:           port,
		BasePath:       cfg.BasePath,
		AllowAll:       allowAll,
		RequestTimeout: cfg.Server.RequestTimeout,
		PageSize:       cfg.PageSize,
	}, deps)

	// Graceful shutdown.
	go func() {
		<-ctx.Done()
		a.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	a.logger.Info("starting techdigest",
		"version", Version,
		"port", port,
		"api", cfg.APIBaseURL,
		"cache", a.cache != nil,
		"live", liveEnabled,
	)
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// purgeCache drops entries far past their TTL once an hour.
func purgeCache(ctx context.Context, a *app) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := a.cache.Purge(ctx, 24*time.Hour+a.cache.TTL())
			if err != nil {
				a.logger.Warn("purging cache", "error", err)
				continue
			}
			a.logger.Debug("purged cache", "entries", n)
		}
	}
}
