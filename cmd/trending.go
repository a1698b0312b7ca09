package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/techdigest-vietnam/techdigest/internal/digestmd"
	"github.com/techdigest-vietnam/techdigest/internal/feeds"
)

var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "Print the trending feeds as a markdown digest",
	Long: `Fetches GitHub trending repositories, Hugging Face Hub trending items,
Hugging Face daily papers and OpenRouter models concurrently and prints them
as one markdown document. A failing feed is reported inline.`,
	Args: cobra.NoArgs,
	RunE: runTrending,
}

func init() {
	trendingCmd.Flags().String("range", "daily", "GitHub trending window: daily, weekly, monthly")
	trendingCmd.Flags().String("hub", "models", "Hugging Face listing: models, datasets, spaces")
	trendingCmd.Flags().String("date", "", "daily papers date (YYYY-MM-DD, default today)")
	trendingCmd.Flags().Int("limit", 0, "items per feed (0 uses each feed's default)")
	trendingCmd.Flags().Bool("json", false, "output as JSON")
	rootCmd.AddCommand(trendingCmd)
}

func runTrending(cmd *cobra.Command, args []string) error {
	rawRange, _ := cmd.Flags().GetString("range")
	rawHub, _ := cmd.Flags().GetString("hub")
	rawDate, _ := cmd.Flags().GetString("date")
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	rng, err := feeds.ParseTrendingRange(rawRange)
	if err != nil {
		return err
	}
	kind, err := feeds.ParseHubKind(rawHub)
	if err != nil {
		return err
	}
	opts := feeds.DashboardOptions{
		Range:       rng,
		HubKind:     kind,
		GitHubLimit: limit,
		HubLimit:    limit,
		PapersLimit: limit,
		ModelLimit:  limit,
	}
	if rawDate != "" {
		t, err := time.Parse("2006-01-02", rawDate)
		if err != nil {
			return fmt.Errorf("invalid --date %q: want YYYY-MM-DD", rawDate)
		}
		opts.PapersDate = t
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	d, err := a.feeds.Dashboard(cmd.Context(), opts)
	if err != nil {
		return err
	}
	if n := d.Failures(); n > 0 {
		a.logger.Warn("some feeds failed", "failures", n)
	}
	if jsonOutput {
		return printJSON(d)
	}
	return digestmd.WriteDashboard(os.Stdout, d)
}
