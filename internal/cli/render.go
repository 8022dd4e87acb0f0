package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sumnatarya/Synapse/pkg/observability"
	"github.com/sumnatarya/Synapse/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output      string   // output file path (or base path for multiple formats)
	formats     []string // output formats: svg, png, pdf, dot, dot-svg, json
	width       float64  // surface width in pixels
	height      float64  // surface height in pixels
	query       string   // search highlight baked into the output
	background  string   // background color for SVG output
	interactive bool     // embed hover CSS/JS in SVG output
	noCache     bool     // bypass layout and artifact caches
	refresh     bool     // recompute even when cached
}

// renderCommand creates the render command for generating artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{
		width:       pipeline.DefaultWidth,
		height:      pipeline.DefaultHeight,
		interactive: true,
	}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a map to SVG, PNG, PDF, DOT, or JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, dot, dot-svg, json (comma-separated)")
	cmd.Flags().Float64Var(&opts.width, "width", opts.width, "surface width")
	cmd.Flags().Float64Var(&opts.height, "height", opts.height, "surface height")
	cmd.Flags().StringVarP(&opts.query, "query", "q", "", "bake a search highlight into the output")
	cmd.Flags().StringVar(&opts.background, "background", "", "background color (e.g. #ffffff)")
	cmd.Flags().BoolVar(&opts.interactive, "interactive", opts.interactive, "embed hover interaction in SVG output")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching entirely")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when cached")

	return cmd
}

// runRender executes the pipeline and writes each artifact to disk.
func (c *CLI) runRender(cmd *cobra.Command, input string, opts *renderOpts) error {
	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(cmd.Context(), fmt.Sprintf("Rendering %s", input))
	observability.SetPipelineHooks(stageHooks{spinner: spinner})
	defer observability.Reset()
	spinner.Start()

	tracker := newProgress(c.Logger)
	result, err := runner.Execute(cmd.Context(), pipeline.Options{
		Input:       input,
		Width:       opts.width,
		Height:      opts.height,
		Formats:     opts.formats,
		Palette:     c.Config.Viewer.Palette,
		Background:  opts.background,
		Interactive: opts.interactive,
		Query:       opts.query,
		Refresh:     opts.refresh,
		Logger:      c.Logger,
	})
	if err != nil {
		spinner.StopWithError(fmt.Sprintf("Render failed: %v", err))
		return err
	}
	spinner.Stop()
	tracker.done(fmt.Sprintf("Rendered %d format(s)", len(result.Artifacts)))

	if result.Truncated {
		printWarning("Tree truncated at the depth cap")
	}

	base := basePath(opts.output, input)
	for _, format := range opts.formats {
		path := base + "." + format
		if opts.output != "" && len(opts.formats) == 1 {
			path = opts.output
		}
		if err := os.WriteFile(path, result.Artifacts[format], 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}

	printStats(result.Stats.NodeCount, result.Stats.MaxDepth, result.CacheInfo.RenderHit)
	return nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
