package feeds

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// Section is one dashboard block. A failed fetch leaves Items empty and sets
// Error, without affecting the other sections.
type Section[T any] struct {
	Items []T    `json:"items"`
	Error string `json:"error,omitempty"`
}

func (s Section[T]) failed() bool { return s.Error != "" }

// Dashboard is the home page feed bundle.
type Dashboard struct {
	GitHub    Section[Repo]    `json:"github"`
	Hub       Section[HubItem] `json:"huggingface"`
	Papers    Section[Paper]   `json:"papers"`
	Models    Section[Model]   `json:"openrouter"`
	Range     TrendingRange    `json:"range"`
	HubKind   HubKind          `json:"hub_kind"`
	FetchedAt time.Time        `json:"fetched_at"`
}

// Failures is the number of sections that could not be loaded.
func (d *Dashboard) Failures() int {
	n := 0
	for _, failed := range []bool{d.GitHub.failed(), d.Hub.failed(), d.Papers.failed(), d.Models.failed()} {
		if failed {
			n++
		}
	}
	return n
}

// DashboardOptions selects what the dashboard shows. Zero values pick the
// defaults of each feed.
type DashboardOptions struct {
	Range       TrendingRange
	GitHubLimit int
	HubKind     HubKind
	HubLimit    int
	PapersDate  time.Time
	PapersLimit int
	ModelLimit  int
}

// Dashboard fetches every feed concurrently. Individual feed failures are
// recorded on their section; only cancellation of ctx fails the call.
func (c *Client) Dashboard(ctx context.Context, opts DashboardOptions) (*Dashboard, error) {
	if opts.Range == "" {
		opts.Range = Daily
	}
	if opts.HubKind == "" {
		opts.HubKind = HubModels
	}
	d := &Dashboard{Range: opts.Range, HubKind: opts.HubKind}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d.GitHub = collect(c.GitHubTrending(gctx, opts.Range, opts.GitHubLimit))
		return ctx.Err()
	})
	g.Go(func() error {
		d.Hub = collect(c.HubTrending(gctx, opts.HubKind, opts.HubLimit))
		return ctx.Err()
	})
	g.Go(func() error {
		d.Papers = collect(c.DailyPapers(gctx, opts.PapersDate, opts.PapersLimit))
		return ctx.Err()
	})
	g.Go(func() error {
		d.Models = collect(c.OpenRouterModels(gctx, opts.ModelLimit))
		return ctx.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	d.FetchedAt = c.now()
	return d, nil
}

func collect[T any](items []T, err error) Section[T] {
	if err != nil {
		return Section[T]{Items: []T{}, Error: err.Error()}
	}
	if items == nil {
		items = []T{}
	}
	return Section[T]{Items: items}
}
