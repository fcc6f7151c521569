package commands

import (
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/ramonehamilton/card-binder/internal/logging"
	"github.com/ramonehamilton/card-binder/internal/mcpserver"
	"github.com/spf13/cobra"
)

// NewMCPCommand creates the mcp command.
func NewMCPCommand(configPath *string) *cobra.Command {
	var flipTimeout time.Duration

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Expose the binder as MCP tools over stdio",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			rt, err := setup(ctx, *configPath, true)
			if err != nil {
				return err
			}
			defer rt.Close()

			rt.watchConfig(ctx)
			rt.ctrl.Start()

			logging.Component("MCP").Info("Serving binder tools on stdio")
			s := mcpserver.NewServer(mcpserver.NewTools(rt.ctrl, flipTimeout))
			return server.ServeStdio(s)
		},
	}

	cmd.Flags().DurationVar(&flipTimeout, "flip-timeout", 2*time.Second, "how long binder_turn_page waits for a flip to settle")
	return cmd
}
