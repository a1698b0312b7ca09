package cmd

import (
	"github.com/spf13/cobra"

	"github.com/techdigest-vietnam/techdigest/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "techdigest",
	Short: "Tech Digest Vietnam front-end: daily digests, trending feeds and report archives",
	Long: `techdigest serves the Tech Digest Vietnam reading experience. It renders
daily digest reports, Reddit, Hacker News and Product Hunt analyses, and a
live dashboard of trending GitHub repositories, Hugging Face models, daily
papers and OpenRouter models. It can also export a static copy of the site
and expose the digests to AI agents via MCP.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultConfigFile, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
