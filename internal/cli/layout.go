package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sumnatarya/Synapse/pkg/cache"
	"github.com/sumnatarya/Synapse/pkg/pipeline"
)

// layoutCommand creates the layout command. It computes node positions for
// a tree document and writes them as JSON, without rendering anything.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		width   float64
		height  float64
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "layout [file]",
		Short: "Compute tidy-tree positions and write them as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			opts := pipeline.Options{
				Input:  args[0],
				Width:  width,
				Height: height,
				Logger: c.Logger,
			}

			h, root, truncated, err := runner.Build(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if truncated {
				printWarning("Tree truncated at the depth cap")
			}

			treeHash := ""
			if data, err := json.Marshal(root); err == nil {
				treeHash = cache.Hash(data)
			}
			lay, cached, err := runner.ComputeLayoutWithCacheInfo(cmd.Context(), h, treeHash, opts)
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(lay, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal layout: %w", err)
			}

			path := output
			if path == "" {
				path = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + "_layout.json"
			}
			if err := os.WriteFile(path, data, 0644); err != nil {
				return fmt.Errorf("write layout: %w", err)
			}

			printSuccess("Computed layout for %d nodes", h.Len())
			printStats(h.Len(), h.MaxDepth(), cached)
			printFile(path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <input>_layout.json)")
	cmd.Flags().Float64Var(&width, "width", pipeline.DefaultWidth, "surface width")
	cmd.Flags().Float64Var(&height, "height", pipeline.DefaultHeight, "surface height")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the layout cache")

	return cmd
}
