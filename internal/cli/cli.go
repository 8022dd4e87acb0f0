// Package cli implements the synapse command-line interface.
//
// This package provides commands for viewing hierarchical maps in an
// interactive terminal viewer, computing layouts, rendering maps to SVG,
// PNG, PDF, DOT, or JSON, managing stored maps, serving maps over HTTP,
// and managing the artifact cache. The CLI is built using cobra and
// supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - view: Open a map in the interactive terminal viewer
//   - layout: Compute node positions and write them as JSON
//   - render: Generate SVG, PNG, PDF, DOT, or JSON artifacts
//   - maps: Manage the stored map library
//   - serve: Serve maps and rendered artifacts over HTTP
//   - cache: Manage the layout and artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
//
// # Example
//
//	import "github.com/sumnatarya/Synapse/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/sumnatarya/Synapse/pkg/buildinfo"
	"github.com/sumnatarya/Synapse/pkg/cache"
	"github.com/sumnatarya/Synapse/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "synapse"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *Config
}

// New creates a new CLI instance with a default logger and loaded config.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: LoadConfigOrDefault(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Synapse visualizes hierarchical maps as interactive tidy trees",
		Long:         `Synapse is a tool for exploring hierarchical knowledge maps. It lays trees out left to right with the tidy-tree algorithm and offers an interactive viewer with pan, zoom, and search.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.mapsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, nil, c.Logger), nil
}

// newCache selects the cache backend. Redis is used when configured,
// otherwise a file cache under the XDG cache directory. Failures fall
// back to a null cache so commands still work.
func (c *CLI) newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if c.Config.Redis.Addr != "" {
		rc, err := cache.NewRedisCache(context.Background(), c.Config.Redis)
		if err == nil {
			return rc, nil
		}
		c.Logger.Warn("redis cache unavailable, falling back to file cache", "error", err)
	}
	dir, err := cacheDir(c.Config)
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory. A configured directory wins;
// otherwise the XDG standard (~/.cache/synapse/) applies.
func cacheDir(cfg *Config) (string, error) {
	if cfg != nil && cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configDir returns the config directory (~/.config/synapse/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}
