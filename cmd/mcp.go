package cmd

import (
	"github.com/spf13/cobra"

	mcpserver "github.com/techdigest-vietnam/techdigest/internal/mcp"
)

var mcpServeCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start an MCP server exposing the digests over stdio",
	Long: `Starts a Model Context Protocol server on stdin/stdout so AI agents can
read the latest digests, search report archives and query trending feeds.
Logs go to stderr.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		mcpserver.Version = Version
		a.logger.Debug("starting MCP server", "version", Version, "api", a.cfg.APIBaseURL)
		return mcpserver.NewServer(a.reports, a.feeds).Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpServeCmd)
}
