package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clipperviz/clipper/pkg/graph"
	"github.com/clipperviz/clipper/pkg/preview"
)

// previewFormats are the encodings the preview command can emit.
var previewFormats = map[string]bool{"dot": true, "svg": true, "png": true}

// previewOpts holds the command-line flags for the preview command.
type previewOpts struct {
	output   string // output file path; empty means stdout for dot
	format   string // "dot", "svg", or "png"
	rankdir  string // graphviz layout direction
	detailed bool   // include node ids and shapes in labels
}

// newPreviewCmd creates the preview command. Previews bypass the layout
// pipeline and hand the description straight to Graphviz, for eyeballing
// a description before committing to a full render.
func newPreviewCmd() *cobra.Command {
	opts := previewOpts{}

	cmd := &cobra.Command{
		Use:   "preview [file]",
		Short: "Export a Graphviz quick look of a description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !previewFormats[opts.format] {
				return fmt.Errorf("invalid format: %s (must be 'dot', 'svg', or 'png')", opts.format)
			}
			return runPreview(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout for dot)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "dot", "output format: dot, svg, png")
	cmd.Flags().StringVar(&opts.rankdir, "rankdir", "", "layout direction: TB, LR, BT, RL")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include node ids and shapes in labels")

	return cmd
}

// runPreview converts the description to DOT and renders it when a
// non-DOT format was requested.
func runPreview(ctx context.Context, input string, opts *previewOpts) error {
	g, err := graph.ReadDescriptionFile(input)
	if err != nil {
		return fmt.Errorf("load description %s: %w", input, err)
	}

	dot := preview.ToDOT(g, preview.Options{Rankdir: opts.rankdir, Detailed: opts.detailed})

	var data []byte
	switch opts.format {
	case "dot":
		data = []byte(dot)
	case "svg", "png":
		prog := newProgress(loggerFromContext(ctx))
		if opts.format == "svg" {
			data, err = preview.RenderSVG(ctx, dot)
		} else {
			data, err = preview.RenderPNG(ctx, dot)
		}
		if err == nil {
			prog.done("preview rendered")
		}
	}
	if err != nil {
		return fmt.Errorf("render preview: %w", err)
	}

	// Rendered previews default to a file next to the input; raw DOT
	// defaults to stdout.
	output := opts.output
	if output == "" && opts.format != "dot" {
		output = basePath("", input) + "." + opts.format
	}

	out, err := openOutput(output)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.Write(data); err != nil {
		return err
	}
	if output != "" {
		printFile(output)
	}
	return nil
}
