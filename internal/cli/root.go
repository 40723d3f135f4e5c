package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/clipperviz/clipper/internal/config"
	"github.com/clipperviz/clipper/pkg/buildinfo"
)

// appName is the application name used for directories and display.
const appName = "clipper"

// Execute runs the clipper CLI under ctx and returns an error if any
// command fails. ctx should carry the process signal handling so long
// renders and the serve loop stop cleanly on interrupt.
//
// Logging:
//   - --log-level selects the level (debug, info, warn, error)
//   - --quiet drops everything below errors
//
// The logger is attached to the command context and retrieved by
// subcommands via loggerFromContext.
func Execute(ctx context.Context) error {
	var (
		logLevel   string
		quiet      bool
		configPath string
	)

	root := &cobra.Command{
		Use:   appName,
		Short: "Clipper renders node-link graphs to image artifacts",
		Long: `Clipper turns graph descriptions (nodes, edges, styling options) into
deterministic SVG or PNG artifacts. The same description always produces
the same bytes, so artifacts are cached by content fingerprint.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := log.ParseLevel(logLevel)
			if err != nil {
				return fmt.Errorf("unknown log level %q", logLevel)
			}
			if quiet {
				level = log.ErrorLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	root.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only log errors")
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default clipper.toml if present)")

	root.AddCommand(newRenderCmd())
	root.AddCommand(newServeCmd(&configPath))
	root.AddCommand(newCacheCmd(&configPath))
	root.AddCommand(newPreviewCmd())
	root.AddCommand(newFingerprintCmd())
	root.AddCommand(newCompletionCmd())

	return root.ExecuteContext(ctx)
}

// loadConfig reads the configuration at path. An empty path falls back to
// clipper.toml in the working directory when one exists, otherwise the
// built-in defaults apply.
func loadConfig(path string) (config.Config, error) {
	if path == "" {
		if _, err := os.Stat(config.DefaultPath); err == nil {
			path = config.DefaultPath
		}
	}
	return config.Load(path)
}
