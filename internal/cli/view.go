package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sumnatarya/Synapse/pkg/errors"
	"github.com/sumnatarya/Synapse/pkg/tree"
)

// viewCommand creates the view command: the interactive terminal viewer.
func (c *CLI) viewCommand() *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "view [file]",
		Short: "Open a map in the interactive viewer",
		Long: `Open a tree JSON document in the interactive terminal viewer.

The viewer supports mouse panning (drag), zooming (wheel, + and -),
clicking nodes, live search (/), and a reset transition (r).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			root, err := tree.ReadTreeFile(args[0])
			if err != nil {
				return err
			}
			h, err := tree.Build(root)
			if err != nil {
				if errors.GetCode(err) != errors.ErrCodeTreeTooDeep {
					return err
				}
				printWarning("Tree deeper than %d levels, deeper branches are not shown", tree.MaxDepth)
			}
			logger.Debug("built hierarchy", "nodes", h.Len(), "depth", h.MaxDepth())

			title := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			model := NewViewerModel(title, h, c.Config.Viewer)
			if query != "" {
				model.SetQuery(query)
			}

			p := tea.NewProgram(model,
				tea.WithAltScreen(),
				tea.WithMouseCellMotion(),
				tea.WithContext(cmd.Context()),
			)
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("viewer: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "start with a search highlight applied")

	return cmd
}
