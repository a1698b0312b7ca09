package cmd

import (
	"github.com/spf13/cobra"

	"github.com/techdigest-vietnam/techdigest/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize techdigest configuration with an interactive wizard",
	Long:  `Runs an interactive wizard that asks for the report API, site name, base path, server port, cache and log format, and writes a .techdigest.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
