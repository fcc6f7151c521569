package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ramonehamilton/card-binder/internal/api"
	"github.com/ramonehamilton/card-binder/internal/logging"
	"github.com/spf13/cobra"
)

// NewServeCommand creates the serve command.
func NewServeCommand(configPath *string) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the binder over REST and WebSocket",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rt, err := setup(ctx, *configPath, false)
			if err != nil {
				return err
			}
			defer rt.Close()

			cfg := &api.Config{
				Port:           rt.cfg.API.Port,
				AllowedOrigins: rt.cfg.API.AllowedOrigins,
				Metrics:        rt.metrics,
			}
			if port > 0 {
				cfg.Port = port
			}

			server := api.NewServer(cfg, rt.ctrl)
			rt.dispatcher.Register(server.NewWebSocketObserver())
			rt.watchConfig(ctx)
			rt.ctrl.Start()

			log := logging.Component("Serve")
			errCh := make(chan error, 1)
			go func() {
				errCh <- server.Start()
			}()

			select {
			case err := <-errCh:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("api server: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			log.Info("Shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides api.port)")
	return cmd
}
