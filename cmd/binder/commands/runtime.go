package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/ramonehamilton/card-binder/internal/binder"
	"github.com/ramonehamilton/card-binder/internal/config"
	"github.com/ramonehamilton/card-binder/internal/events"
	"github.com/ramonehamilton/card-binder/internal/logging"
	"github.com/ramonehamilton/card-binder/internal/metrics"
	"github.com/ramonehamilton/card-binder/internal/scryfall"
)

// runtime holds the pieces every binder front end shares.
type runtime struct {
	cfg        *config.Config
	configPath string
	dispatcher *events.EventDispatcher
	metrics    *metrics.SourceMetrics
	ctrl       *binder.Controller
	cleanup    func()
}

// setup loads configuration, initializes logging and builds a controller
// backed by the Scryfall data source. With keepStdout set, stdout logging is
// moved to stderr so the front end owns stdout.
func setup(ctx context.Context, configPath string, keepStdout bool) (*runtime, error) {
	if configPath == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, err
		}
		configPath = p
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logCfg := cfg.Log
	if keepStdout && logCfg.Output == "stdout" {
		logCfg.Output = "stderr"
	}
	cleanup, err := logging.Init(logCfg)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	client, err := scryfall.NewClientFromConfig(cfg)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("create scryfall client: %w", err)
	}

	flipDelay, err := cfg.GetFlipDelay()
	if err != nil {
		cleanup()
		return nil, err
	}

	dispatcher := events.NewEventDispatcher()
	dispatcher.Register(events.NewLoggingObserver(cfg.Log.Level == "debug"))

	m := metrics.NewSourceMetrics()
	ctrl := binder.NewController(binder.Options{
		Source:              metrics.Instrument(scryfall.NewSource(client), m),
		Dispatcher:          dispatcher,
		FlipDelay:           flipDelay,
		DiscardStaleResults: cfg.Binder.DiscardStaleResults,
		Context:             ctx,
	})

	return &runtime{
		cfg:        cfg,
		configPath: configPath,
		dispatcher: dispatcher,
		metrics:    m,
		ctrl:       ctrl,
		cleanup:    cleanup,
	}, nil
}

// watchConfig applies flip delay changes from the config file until ctx ends.
func (r *runtime) watchConfig(ctx context.Context) {
	log := logging.Component("Config")
	go func() {
		err := config.Watch(ctx, r.configPath, func(cfg *config.Config) {
			d, err := cfg.GetFlipDelay()
			if err != nil {
				log.WithError(err).Warn("Ignoring invalid flip delay")
				return
			}
			r.ctrl.SetFlipDelay(d)
			log.WithField("flip_delay", d).Info("Config reloaded")
		}, func(err error) {
			log.WithError(err).Warn("Config reload failed")
		})
		if err != nil && ctx.Err() == nil {
			log.WithError(err).Debug("Config watcher stopped")
		}
	}()
}

// silenceTerminalLogs discards log output unless it goes to a file.
func (r *runtime) silenceTerminalLogs() {
	if r.cfg.Log.Output != "file" {
		logging.Logger().SetOutput(io.Discard)
	}
}

func (r *runtime) Close() {
	r.ctrl.Close()
	r.cleanup()
}
