package main

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/campmap/campmap/internal/config"
	"github.com/campmap/campmap/internal/debug"
	"github.com/campmap/campmap/internal/editor"
	"github.com/campmap/campmap/internal/event"
	"github.com/campmap/campmap/internal/logging"
	"github.com/campmap/campmap/internal/model"
	"github.com/campmap/campmap/internal/telemetry"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		listen     string
		logLevel   string
		mapID      string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run an editing session with its debug HTTP surface",
		RunE: func(cmd *cobra.Command, _ []string) error {
			start := time.Now()

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Server.Listen = listen
			}
			if logLevel != "" {
				cfg.Log.Level = logLevel
			}

			logger := logging.New("campmap", logging.ParseLevel(cfg.Log.Level))

			busOpts := []event.BusOption{
				event.WithMaxListenersPerTopic(cfg.Events.ListenerLimit),
				event.WithHistorySize(cfg.Events.HistorySize),
				event.WithBatchInterval(cfg.Events.BatchInterval()),
				event.WithDebounceInterval(cfg.Events.DebounceInterval()),
				event.WithDeadLetterCapacity(cfg.Events.DeadLetterCapacity),
				event.WithMaxRetries(cfg.Events.MaxRetries),
			}
			if cfg.Events.Metrics {
				busOpts = append(busOpts, event.WithMetrics(true))
			}
			if cfg.Events.Tracing {
				busOpts = append(busOpts, event.WithTracing(true))
			}

			session, err := editor.NewSession(editor.Options{
				MapID:      model.MapID(mapID),
				MaxHistory: cfg.History.MaxEntries,
				Logger:     logger,
				BusOptions: busOpts,
			})
			if err != nil {
				return err
			}
			defer session.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if configPath != "" {
				unwatch, werr := config.Watch(configPath, func(next config.Config, werr error) {
					if werr != nil {
						logger.Warn().Err(werr).Msg("config reload failed")
						return
					}
					logger.Info().Str("level", next.Log.Level).Msg("config reloaded")
				})
				if werr != nil {
					logger.Warn().Err(werr).Msg("config watch unavailable")
				} else {
					defer unwatch()
				}
			}

			registry := telemetry.NewRegistry(session)
			server := debug.NewServer(session, registry, logger)

			logger.Info().
				Str("session", session.ID).
				Str("listen", cfg.Server.Listen).
				Msg("session started")

			err = server.ListenAndServe(ctx, cfg.Server.Listen)
			logger.Info().Dur("uptime", time.Since(start)).Msg("session stopped")
			return err
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")
	cmd.Flags().StringVar(&listen, "listen", "", "debug server listen address (overrides config)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	cmd.Flags().StringVar(&mapID, "map", "default", "map identifier for the session")
	return cmd
}
