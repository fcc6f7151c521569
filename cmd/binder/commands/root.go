package commands

import (
	"github.com/ramonehamilton/card-binder/internal/version"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command with every subcommand attached.
func NewRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           version.Name,
		Short:         "A paged virtual card binder",
		Long:          `Browse a two-page card binder over HTTP, in the terminal, or from an MCP client.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ~/.card-binder/config.toml)")

	rootCmd.AddCommand(
		NewServeCommand(&configPath),
		NewTUICommand(&configPath),
		NewMCPCommand(&configPath),
		NewVersionCommand(),
	)

	return rootCmd
}
