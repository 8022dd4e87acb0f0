package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sumnatarya/Synapse/pkg/store"
	"github.com/sumnatarya/Synapse/pkg/tree"
)

// mapsCommand creates the maps command group for managing the stored
// map library.
func (c *CLI) mapsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "maps",
		Short: "Manage the stored map library",
	}

	cmd.AddCommand(c.mapsListCommand())
	cmd.AddCommand(c.mapsAddCommand())
	cmd.AddCommand(c.mapsExportCommand())
	cmd.AddCommand(c.mapsDeleteCommand())

	return cmd
}

// mapsListCommand creates the "maps list" subcommand.
func (c *CLI) mapsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored maps",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.newStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close(cmd.Context())

			maps, err := st.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(maps) == 0 {
				printInfo("No stored maps")
				printNextStep("Add one", "synapse maps add <name> <file>")
				return nil
			}
			for _, m := range maps {
				printKeyValue(m.Name, fmt.Sprintf("%s  %s",
					m.ID, m.UpdatedAt.Format(time.RFC3339)))
			}
			return nil
		},
	}
}

// mapsAddCommand creates the "maps add" subcommand.
func (c *CLI) mapsAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add [name] [file]",
		Short: "Store a tree document under a name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := tree.ReadTreeFile(args[1])
			if err != nil {
				return err
			}
			m, err := store.New(args[0], *root)
			if err != nil {
				return err
			}

			st, err := c.newStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close(cmd.Context())

			if err := st.Put(cmd.Context(), m); err != nil {
				return err
			}
			printSuccess("Stored map %q", m.Name)
			printDetail("ID: %s", m.ID)
			return nil
		},
	}
}

// mapsExportCommand creates the "maps export" subcommand. It writes the
// stored tree document back out as JSON.
func (c *CLI) mapsExportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export [id]",
		Short: "Export a stored map as tree JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.newStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close(cmd.Context())

			m, err := st.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			path := output
			if path == "" {
				path = m.Name + ".json"
			}
			if err := tree.WriteTreeFile(&m.Tree, path); err != nil {
				return err
			}
			printSuccess("Exported %q", m.Name)
			printFile(path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <name>.json)")

	return cmd
}

// mapsDeleteCommand creates the "maps delete" subcommand.
func (c *CLI) mapsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a stored map",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.newStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close(cmd.Context())

			if err := st.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Deleted map %s", args[0])
			return nil
		},
	}
}
