package commands

import (
	"github.com/ramonehamilton/card-binder/internal/events"
	"github.com/ramonehamilton/card-binder/internal/tui"
	"github.com/spf13/cobra"
)

// NewTUICommand creates the tui command.
func NewTUICommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse the binder in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			rt, err := setup(ctx, *configPath, true)
			if err != nil {
				return err
			}
			defer rt.Close()
			rt.silenceTerminalLogs()

			obs := events.NewChannelObserver("tui", 64, events.AllTypes...)
			rt.dispatcher.Register(obs)
			defer rt.dispatcher.Unregister(obs)

			rt.watchConfig(ctx)
			return tui.Run(ctx, rt.ctrl, obs.Events())
		},
	}
}
