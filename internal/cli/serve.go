package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/clipperviz/clipper/internal/config"
	"github.com/clipperviz/clipper/internal/metrics"
	"github.com/clipperviz/clipper/internal/server"
	"github.com/clipperviz/clipper/pkg/render"
	"github.com/clipperviz/clipper/pkg/store"
)

// newServeCmd creates the serve command, which runs the HTTP render
// service until the process is interrupted.
func newServeCmd(configPath *string) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP render service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Server.Listen = listen
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&listen, "listen", "l", "", "listen address (overrides the config file)")

	return cmd
}

// runServe assembles the artifact store, cache, and pipeline from the
// configuration and serves until ctx is cancelled or the listener fails.
func runServe(ctx context.Context, cfg config.Config) error {
	logger := newLogger(os.Stderr, cfg.LogLevel())

	metrics.Register()

	st, err := store.Open(ctx, cfg.StoreConfig())
	if err != nil {
		return fmt.Errorf("open artifact store: %w", err)
	}

	pipe := render.New(render.NewCache(cfg.CacheConfig(st, logger)), logger)
	defer pipe.Close()

	srv := server.New(pipe, server.Config{
		Listen:          cfg.Server.Listen,
		ReadTimeout:     cfg.Server.ReadTimeout.Std(),
		WriteTimeout:    cfg.Server.WriteTimeout.Std(),
		ShutdownTimeout: cfg.Server.ShutdownTimeout.Std(),
	}, logger)

	logger.Info("starting service", "listen", cfg.Server.Listen, "store", cfg.Store.Backend)
	return srv.ListenAndServe(ctx)
}
