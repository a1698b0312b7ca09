package live

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/techdigest-vietnam/techdigest/internal/db"
	"github.com/techdigest-vietnam/techdigest/internal/feeds"
	"github.com/techdigest-vietnam/techdigest/internal/metrics"
)

// dashboardSections is the number of feed blocks on the home page.
const dashboardSections = 4

// Aggregator builds the home page feed bundle.
type Aggregator interface {
	Dashboard(ctx context.Context, opts feeds.DashboardOptions) (*feeds.Dashboard, error)
}

// RefresherOptions configures a Refresher. DB and Metrics are optional.
type RefresherOptions struct {
	Aggregator Aggregator
	Hub        *Hub
	DB         *db.DB
	Metrics    *metrics.Manager
	Interval   time.Duration
	Dashboard  feeds.DashboardOptions
	Logger     *slog.Logger
}

// Refresher periodically rebuilds the dashboard and notifies the hub.
type Refresher struct {
	opts RefresherOptions
	now  func() time.Time

	mu     sync.RWMutex
	latest *feeds.Dashboard
}

// NewRefresher creates a Refresher.
func NewRefresher(opts RefresherOptions) *Refresher {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Refresher{opts: opts, now: time.Now}
}

// Run refreshes once immediately and then every interval until ctx is
// cancelled. A non-positive interval disables the loop.
func (r *Refresher) Run(ctx context.Context) error {
	if r.opts.Interval <= 0 {
		return nil
	}
	ticker := time.NewTicker(r.opts.Interval)
	defer ticker.Stop()

	for {
		if _, err := r.Refresh(ctx); err != nil && ctx.Err() == nil {
			r.opts.Logger.Warn("dashboard refresh failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Refresh rebuilds the dashboard, records the run and broadcasts a refresh
// event.
func (r *Refresher) Refresh(ctx context.Context) (*Event, error) {
	started := r.now()
	d, err := r.opts.Aggregator.Dashboard(ctx, r.opts.Dashboard)
	if err != nil {
		return nil, fmt.Errorf("building dashboard: %w", err)
	}
	finished := r.now()

	r.mu.Lock()
	r.latest = d
	r.mu.Unlock()

	summary := fmt.Sprintf("%d repos, %d hub items, %d papers, %d models",
		len(d.GitHub.Items), len(d.Hub.Items), len(d.Papers.Items), len(d.Models.Items))
	ev := Event{
		Type:     "refresh",
		ID:       uuid.New().String(),
		At:       finished,
		Sections: dashboardSections,
		Failures: d.Failures(),
		Summary:  summary,
	}

	if r.opts.DB != nil {
		if err := r.record(ctx, ev, started); err != nil {
			r.opts.Logger.Warn("recording refresh run", "error", err)
		}
	}
	r.opts.Metrics.RecordRefresh(ev.Failures, finished)
	r.opts.Logger.Debug("dashboard refreshed", "id", ev.ID, "failures", ev.Failures)

	if r.opts.Hub != nil {
		if err := r.opts.Hub.Broadcast(ev); err != nil {
			return &ev, fmt.Errorf("broadcasting refresh: %w", err)
		}
	}
	return &ev, nil
}

// Latest returns the dashboard built by the last successful refresh, or nil.
func (r *Refresher) Latest() *feeds.Dashboard {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.latest
}

func (r *Refresher) record(ctx context.Context, ev Event, started time.Time) error {
	_, err := r.opts.DB.ExecContext(ctx,
		`INSERT INTO refresh_runs (id, started_at, finished_at, sections, failures, summary)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		ev.ID, started.UnixNano(), ev.At.UnixNano(), ev.Sections, ev.Failures, ev.Summary,
	)
	return err
}

// Run is one recorded refresh.
type Run struct {
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Sections   int       `json:"sections"`
	Failures   int       `json:"failures"`
	Summary    string    `json:"summary"`
}

// Runs returns the newest recorded refreshes first.
func Runs(ctx context.Context, d *db.DB, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := d.QueryContext(ctx,
		`SELECT id, started_at, finished_at, sections, failures, summary
		 FROM refresh_runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying refresh runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var run Run
		var started, finished int64
		if err := rows.Scan(&run.ID, &started, &finished, &run.Sections, &run.Failures, &run.Summary); err != nil {
			return nil, fmt.Errorf("scanning refresh run: %w", err)
		}
		run.StartedAt = time.Unix(0, started)
		run.FinishedAt = time.Unix(0, finished)
		out = append(out, run)
	}
	return out, rows.Err()
}
