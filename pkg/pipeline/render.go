package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sumnatarya/Synapse/pkg/highlight"
	"github.com/sumnatarya/Synapse/pkg/layout"
	"github.com/sumnatarya/Synapse/pkg/render"
	"github.com/sumnatarya/Synapse/pkg/render/sink"
	"github.com/sumnatarya/Synapse/pkg/tree"
	"github.com/sumnatarya/Synapse/pkg/viewport"
)

// renderArtifacts produces every requested format from one paint frame.
// Raster formats (PNG, PDF) are derived from the SVG, so the SVG is built
// once even when it is not itself requested.
func renderArtifacts(ctx context.Context, h *tree.Hierarchy, lay *layout.Layout, opts Options) (map[string][]byte, error) {
	frame := render.Build(h, lay, viewport.Identity, highlight.Compute(h, opts.Query), tree.None, render.Options{
		Palette: opts.Palette,
	})

	var svg []byte
	renderSVG := func() []byte {
		if svg == nil {
			svg = sink.RenderSVG(frame, svgOptions(opts)...)
		}
		return svg
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		switch format {
		case FormatSVG:
			artifacts[format] = renderSVG()
		case FormatPNG:
			data, err := render.ToPNG(renderSVG(), opts.PNGScale)
			if err != nil {
				return nil, fmt.Errorf("render png: %w", err)
			}
			artifacts[format] = data
		case FormatPDF:
			data, err := render.ToPDF(renderSVG())
			if err != nil {
				return nil, fmt.Errorf("render pdf: %w", err)
			}
			artifacts[format] = data
		case FormatDOT:
			artifacts[format] = []byte(sink.ToDOT(h))
		case FormatDotSVG:
			data, err := sink.RenderDOTSVG(ctx, sink.ToDOT(h))
			if err != nil {
				return nil, fmt.Errorf("render dot-svg: %w", err)
			}
			artifacts[format] = data
		case FormatJSON:
			data, err := json.MarshalIndent(frame, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("render json: %w", err)
			}
			artifacts[format] = data
		default:
			return nil, fmt.Errorf("invalid format: %q", format)
		}
	}
	return artifacts, nil
}

func svgOptions(opts Options) []sink.SVGOption {
	var svgOpts []sink.SVGOption
	if opts.Background != "" {
		svgOpts = append(svgOpts, sink.WithBackground(opts.Background))
	}
	if opts.Interactive {
		svgOpts = append(svgOpts, sink.WithInteraction())
	}
	return svgOpts
}
