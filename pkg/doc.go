// Package pkg provides the core libraries for Synapse map visualization.
//
// # Overview
//
// Synapse turns hierarchical knowledge maps into interactive tidy-tree
// visualizations. The pkg directory is organized into four main areas:
//
//  1. Engine - tree, layout, viewport, highlight, interact, render
//  2. Infrastructure - cache, store, errors, observability
//  3. Pipeline - orchestration (build → layout → render)
//  4. Output - render/sink artifact encoders
//
// # Architecture
//
// The typical data flow through Synapse:
//
//	Tree JSON document
//	         ↓
//	    [tree] package (indexed hierarchy)
//	         ↓
//	    [layout] package (tidy-tree positions)
//	         ↓
//	    [render] package (paint frame via viewport + highlight)
//	         ↓
//	    SVG/PNG/PDF/DOT/JSON output
//
// Interactive hosts (the terminal viewer, the HTTP server's browser shell)
// add [viewport] for pan/zoom state, [interact] for gesture handling, and
// [highlight] for live search, all feeding the same render step.
//
// # Quick Start
//
// Run the complete pipeline with caching:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:   "physics.json",
//	    Formats: []string{"svg"},
//	})
package pkg
