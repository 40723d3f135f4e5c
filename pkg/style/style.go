// Package style defines the rendering options accepted by the clipper
// pipeline and their defaults.
//
// Every option is optional on the wire; [Style.Normalize] fills defaults and
// validates the result. A normalized style is part of the content
// fingerprint, so two requests that differ only in spelled-out defaults
// (omitted vs. explicit) produce the same fingerprint.
package style

import (
	"encoding/json"

	"github.com/clipperviz/clipper/pkg/errors"
)

// =============================================================================
// Option Enumerations
// =============================================================================

// Layout engine names.
const (
	EngineHierarchical = "hierarchical"
	EngineForce        = "force"
)

// ValidEngines contains all supported layout engine names.
var ValidEngines = map[string]bool{
	EngineHierarchical: true,
	EngineForce:        true,
}

// Output format names.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
)

// ValidFormats contains all supported artifact formats.
var ValidFormats = map[string]bool{
	FormatSVG: true,
	FormatPNG: true,
}

// Edge routing modes.
const (
	RoutingStraight   = "straight"
	RoutingOrthogonal = "orthogonal"
	RoutingCurved     = "curved"
)

// ValidRoutings contains all supported edge routing modes.
var ValidRoutings = map[string]bool{
	RoutingStraight:   true,
	RoutingOrthogonal: true,
	RoutingCurved:     true,
}

// =============================================================================
// Defaults
// =============================================================================

// Default option values, applied by [Style.Normalize].
const (
	DefaultEngine      = EngineHierarchical
	DefaultFormat      = FormatSVG
	DefaultBackground  = "#ffffff"
	DefaultFontFamily  = "Helvetica"
	DefaultFontSize    = 12.0
	DefaultEdgeRouting = RoutingStraight
	DefaultDPI         = 96
	DefaultNodeSpacing = 40.0
	DefaultRankSpacing = 70.0
	DefaultMargin      = 24.0
	DefaultIterations  = 200
)

// Default element colors used when a node or edge carries no explicit
// attributes of its own.
const (
	DefaultNodeFill        = "#f2f4f8"
	DefaultNodeStroke      = "#2f3437"
	DefaultNodeStrokeWidth = 1.5
	DefaultEdgeColor       = "#5b6570"
	DefaultEdgeWidth       = 1.5
	DefaultTextColor       = "#1c2126"
)

// Option bounds enforced by [Style.Normalize].
const (
	MinDPI        = 24
	MaxDPI        = 600
	MinFontSize   = 6.0
	MaxFontSize   = 72.0
	MaxIterations = 5000
)

// =============================================================================
// Style
// =============================================================================

// Style is the set of recognized rendering options. The zero value means
// "all defaults"; use [Default] for an explicit pre-normalized copy.
type Style struct {
	// Engine selects the layout strategy: "hierarchical" or "force".
	Engine string `json:"engine,omitempty" bson:"engine,omitempty"`

	// Format selects the artifact encoding: "svg" or "png".
	Format string `json:"format,omitempty" bson:"format,omitempty"`

	// Background is the canvas color as a CSS hex string.
	Background string `json:"background,omitempty" bson:"background,omitempty"`

	// FontFamily is the label typeface. Raster output always draws with the
	// embedded face and uses this value for metrics-compatible naming only.
	FontFamily string `json:"font_family,omitempty" bson:"font_family,omitempty"`

	// FontSize is the label size in points.
	FontSize float64 `json:"font_size,omitempty" bson:"font_size,omitempty"`

	// EdgeRouting selects edge path shape: "straight", "orthogonal", "curved".
	EdgeRouting string `json:"edge_routing,omitempty" bson:"edge_routing,omitempty"`

	// DPI is the raster pixel density; ignored for vector formats.
	DPI int `json:"dpi,omitempty" bson:"dpi,omitempty"`

	// NodeSpacing is the minimum gap between neighboring nodes in points.
	NodeSpacing float64 `json:"node_spacing,omitempty" bson:"node_spacing,omitempty"`

	// RankSpacing is the gap between hierarchical ranks in points.
	RankSpacing float64 `json:"rank_spacing,omitempty" bson:"rank_spacing,omitempty"`

	// Margin is the padding around the drawing in points.
	Margin float64 `json:"margin,omitempty" bson:"margin,omitempty"`

	// Iterations is the force-directed iteration count.
	Iterations int `json:"iterations,omitempty" bson:"iterations,omitempty"`

	normalized bool
}

// Default returns a fully populated, normalized style.
func Default() Style {
	s := Style{}
	// Normalize on the zero value only fills defaults and cannot fail.
	_ = s.Normalize()
	return s
}

// Normalized reports whether Normalize has been applied.
func (s *Style) Normalized() bool { return s.normalized }

// Normalize fills unset options with defaults and validates the result.
// It is idempotent and must be called before the style enters the pipeline.
func (s *Style) Normalize() error {
	if s.normalized {
		return nil
	}

	if s.Engine == "" {
		s.Engine = DefaultEngine
	}
	if !ValidEngines[s.Engine] {
		return errors.New(errors.ErrCodeInvalidEngine, "unknown layout engine: %q", s.Engine)
	}

	if s.Format == "" {
		s.Format = DefaultFormat
	}
	if !ValidFormats[s.Format] {
		return errors.New(errors.ErrCodeInvalidFormat, "unknown output format: %q", s.Format)
	}

	if s.Background == "" {
		s.Background = DefaultBackground
	}
	if err := errors.ValidateHexColor(s.Background); err != nil {
		return err
	}

	if s.FontFamily == "" {
		s.FontFamily = DefaultFontFamily
	}
	if err := errors.ValidateFontFamily(s.FontFamily); err != nil {
		return err
	}

	if s.FontSize == 0 {
		s.FontSize = DefaultFontSize
	}
	if s.FontSize < MinFontSize || s.FontSize > MaxFontSize {
		return errors.New(errors.ErrCodeInvalidStyle,
			"font size %.1f out of range [%.0f, %.0f]", s.FontSize, MinFontSize, MaxFontSize)
	}

	if s.EdgeRouting == "" {
		s.EdgeRouting = DefaultEdgeRouting
	}
	if !ValidRoutings[s.EdgeRouting] {
		return errors.New(errors.ErrCodeInvalidStyle, "unknown edge routing: %q", s.EdgeRouting)
	}

	if s.DPI == 0 {
		s.DPI = DefaultDPI
	}
	if s.DPI < MinDPI || s.DPI > MaxDPI {
		return errors.New(errors.ErrCodeInvalidStyle,
			"dpi %d out of range [%d, %d]", s.DPI, MinDPI, MaxDPI)
	}

	if s.NodeSpacing == 0 {
		s.NodeSpacing = DefaultNodeSpacing
	}
	if s.RankSpacing == 0 {
		s.RankSpacing = DefaultRankSpacing
	}
	if s.Margin == 0 {
		s.Margin = DefaultMargin
	}
	if s.NodeSpacing < 0 || s.RankSpacing < 0 || s.Margin < 0 {
		return errors.New(errors.ErrCodeInvalidStyle, "spacing options must not be negative")
	}

	if s.Iterations == 0 {
		s.Iterations = DefaultIterations
	}
	if s.Iterations < 1 || s.Iterations > MaxIterations {
		return errors.New(errors.ErrCodeInvalidStyle,
			"iterations %d out of range [1, %d]", s.Iterations, MaxIterations)
	}

	s.normalized = true
	return nil
}

// Canonical returns the canonical byte encoding of a normalized style, used
// as fingerprint input. Field order is fixed by the struct definition, so
// equal normalized styles always produce equal bytes.
func (s Style) Canonical() ([]byte, error) {
	if !s.normalized {
		if err := s.Normalize(); err != nil {
			return nil, err
		}
	}
	return json.Marshal(s)
}
