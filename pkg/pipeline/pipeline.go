// Package pipeline provides the core visualization pipeline for Synapse.
//
// This package implements the complete build → layout → render pipeline that
// can be used by CLI, TUI, and server components. By centralizing this logic,
// we ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Build: Parse a raw tree document into an indexed hierarchy
//  2. Layout: Compute tidy-tree positions for every node
//  3. Render: Generate output in various formats (SVG, PNG, PDF, DOT, dot-svg, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Input:   "physics.json",
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sumnatarya/Synapse/pkg/cache"
	"github.com/sumnatarya/Synapse/pkg/layout"
	"github.com/sumnatarya/Synapse/pkg/tree"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, TUI, and Server
// =============================================================================

const (
	// DefaultWidth is the default surface width in pixels.
	DefaultWidth = 1200.0

	// DefaultHeight is the default surface height in pixels.
	DefaultHeight = 800.0

	// DefaultPNGScale is the raster scale factor for PNG export.
	DefaultPNGScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatDOT  = "dot"
	FormatJSON = "json"

	// FormatDotSVG is SVG rendered by Graphviz from the DOT export, with
	// Graphviz-computed positions instead of the tidy-tree layout.
	FormatDotSVG = "dot-svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:    true,
	FormatPNG:    true,
	FormatPDF:    true,
	FormatDOT:    true,
	FormatJSON:   true,
	FormatDotSVG: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the visualization pipeline.
// This struct supports JSON serialization for server requests.
type Options struct {
	// Build options. Input names a tree JSON file; Tree supplies the
	// document directly and takes precedence when both are set.
	Input string        `json:"input,omitempty"`
	Tree  *tree.RawNode `json:"tree,omitempty"`

	// Layout options
	Width   float64 `json:"width,omitempty"`
	Height  float64 `json:"height,omitempty"`
	MarginY float64 `json:"margin_y,omitempty"`

	// Render options
	Formats     []string `json:"formats,omitempty"`
	Palette     []string `json:"palette,omitempty"`
	Background  string   `json:"background,omitempty"`
	Interactive bool     `json:"interactive,omitempty"` // Embed hover CSS/JS in SVG output
	Query       string   `json:"query,omitempty"`       // Pre-applied search highlight
	PNGScale    float64  `json:"png_scale,omitempty"`

	// Refresh bypasses cached layouts and artifacts.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Hierarchy is the built tree index.
	Hierarchy *tree.Hierarchy

	// TreeHash is the content hash of the input tree document.
	TreeHash string

	// Layout contains the computed node positions.
	Layout *layout.Layout

	// Truncated reports whether the input tree exceeded the depth cap
	// and was cut off at tree.MaxDepth levels.
	Truncated bool

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	MaxDepth   int
	BuildTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether layout result came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: svg, png, pdf, dot, dot-svg, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForBuild(); err != nil {
		return err
	}
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForBuild checks required fields for the build stage.
func (o *Options) ValidateForBuild() error {
	if o.Input == "" && o.Tree == nil {
		return fmt.Errorf("input file or tree document is required")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.PNGScale == 0 {
		o.PNGScale = DefaultPNGScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// Bounds returns the layout surface bounds.
func (o *Options) Bounds() layout.Bounds {
	return layout.Bounds{Width: o.Width, Height: o.Height}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Width:   o.Width,
		Height:  o.Height,
		MarginY: o.MarginY,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:      format,
		Palette:     o.Palette,
		Background:  o.Background,
		Interactive: o.Interactive,
		Query:       o.Query,
	}
}
