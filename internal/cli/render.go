package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/clipperviz/clipper/pkg/graph"
	"github.com/clipperviz/clipper/pkg/render"
	"github.com/clipperviz/clipper/pkg/store"
	"github.com/clipperviz/clipper/pkg/style"
)

// knownFormats is the set of encodings the render command can write.
var knownFormats = map[string]bool{style.FormatSVG: true, style.FormatPNG: true}

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string     // output file (single format) or base path (multiple)
	formats []string   // output formats: "svg", "png"
	noCache bool       // skip the on-disk artifact store
	style   styleFlags // shared styling flags
}

// newRenderCmd creates the render command. It reads a graph description,
// runs it through the layout and raster pipeline, and writes one file per
// requested format. Finished artifacts land in the on-disk store keyed by
// content fingerprint, so rendering the same description twice returns
// the cached bytes.
func newRenderCmd() *cobra.Command {
	var formatsStr string
	opts := renderOpts{}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a graph description to image files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			return runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png (comma-separated)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "render without the on-disk artifact store")
	opts.style.register(cmd)

	return cmd
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["svg"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{style.FormatSVG}
	}
	return strings.Split(s, ",")
}

// validateFormats checks that all requested formats are known.
func validateFormats(formats []string) error {
	for _, f := range formats {
		if !knownFormats[f] {
			return fmt.Errorf("invalid format: %s (must be 'svg' or 'png')", f)
		}
	}
	return nil
}

// newPipeline assembles a render pipeline for one CLI invocation. Unless
// caching is disabled, the pipeline is backed by the artifact store under
// the user's cache directory, so repeated renders of the same description
// skip the layout and raster work entirely.
func newPipeline(noCache bool, logger *log.Logger) (*render.Pipeline, error) {
	cfg := render.CacheConfig{Logger: logger}
	if !noCache {
		dir, err := cacheDir()
		if err != nil {
			return nil, fmt.Errorf("locate cache directory: %w", err)
		}
		fs, err := store.NewFileStore(dir)
		if err != nil {
			return nil, fmt.Errorf("open artifact store: %w", err)
		}
		cfg.Store = fs
	}
	return render.New(render.NewCache(cfg), logger), nil
}

// runRender loads the description and renders it to every requested format.
func runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	g, err := graph.ReadDescriptionFile(input)
	if err != nil {
		return fmt.Errorf("load description %s: %w", input, err)
	}
	logger.Debugf("Loaded graph: %d nodes, %d edges", g.NodeCount(), g.EdgeCount())

	pipe, err := newPipeline(opts.noCache, logger)
	if err != nil {
		return err
	}
	defer pipe.Close()

	base := basePath(opts.output, input)

	for _, format := range opts.formats {
		st := opts.style.style()
		st.Format = format

		spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", format))
		spinner.Start()

		art, stats, err := pipe.RenderWithStats(ctx, g, st)
		if err != nil {
			spinner.StopWithError("Render failed")
			return fmt.Errorf("render %s: %w", format, err)
		}
		spinner.Stop()

		if ctx.Err() != nil {
			return ctx.Err()
		}

		path := opts.output
		if path == "" || len(opts.formats) > 1 {
			path = base + "." + format
		}
		if err := os.WriteFile(path, art.Data, 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", path, err)
		}

		printFile(path)
		printStats(stats.NodeCount, stats.EdgeCount, len(art.Data), stats.CacheHit)
	}

	return nil
}
