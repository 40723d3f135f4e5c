package cli

import (
	"github.com/spf13/cobra"

	"github.com/clipperviz/clipper/pkg/style"
)

// styleFlags collects the styling flags shared by the render and
// fingerprint commands. Zero values are filled with the documented
// defaults when the pipeline normalizes the style, so leaving a flag
// unset and passing its default are the same input.
type styleFlags struct {
	engine      string  // layout engine: "hierarchical" or "force"
	routing     string  // edge routing: "straight", "orthogonal", "curved"
	background  string  // canvas color as #rgb or #rrggbb
	fontFamily  string  // label typeface
	fontSize    float64 // label size in points
	dpi         int     // raster density, PNG only
	nodeSpacing float64 // minimum gap between sibling nodes in points
	rankSpacing float64 // gap between hierarchical ranks in points
	margin      float64 // padding around the drawing in points
	iterations  int     // force engine iteration cap
}

// register wires the style flags onto cmd.
func (f *styleFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.engine, "engine", "", "layout engine: hierarchical (default), force")
	cmd.Flags().StringVar(&f.routing, "routing", "", "edge routing: straight (default), orthogonal, curved")
	cmd.Flags().StringVar(&f.background, "background", "", "canvas color, e.g. #ffffff")
	cmd.Flags().StringVar(&f.fontFamily, "font-family", "", "label typeface")
	cmd.Flags().Float64Var(&f.fontSize, "font-size", 0, "label size in points")
	cmd.Flags().IntVar(&f.dpi, "dpi", 0, "raster density for png output")
	cmd.Flags().Float64Var(&f.nodeSpacing, "node-spacing", 0, "minimum gap between nodes in points")
	cmd.Flags().Float64Var(&f.rankSpacing, "rank-spacing", 0, "gap between layers in points")
	cmd.Flags().Float64Var(&f.margin, "margin", 0, "padding around the drawing in points")
	cmd.Flags().IntVar(&f.iterations, "iterations", 0, "iteration cap for the force engine")
}

// style assembles a Style from the set flags. Values are validated when
// the pipeline normalizes the style.
func (f *styleFlags) style() style.Style {
	return style.Style{
		Engine:      f.engine,
		EdgeRouting: f.routing,
		Background:  f.background,
		FontFamily:  f.fontFamily,
		FontSize:    f.fontSize,
		DPI:         f.dpi,
		NodeSpacing: f.nodeSpacing,
		RankSpacing: f.rankSpacing,
		Margin:      f.margin,
		Iterations:  f.iterations,
	}
}
