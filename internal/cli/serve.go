package cli

import (
	"github.com/spf13/cobra"

	"github.com/sumnatarya/Synapse/internal/server"
	"github.com/sumnatarya/Synapse/pkg/store"
)

// serveCommand creates the serve command: an HTTP server over the map
// store and the rendering pipeline.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve maps and rendered artifacts over HTTP",
		Long: `Start an HTTP server that exposes stored maps, computed layouts, and
rendered SVG artifacts, plus a small browser shell at /.

The map store backend comes from the config file: a local file store by
default, or MongoDB when [store] backend = "mongo" is set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			st, err := c.newStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close(cmd.Context())

			cfg := c.Config.Server
			if addr != "" {
				cfg.Addr = addr
			}

			printInfo("Serving on %s", cfg.Addr)
			return server.New(runner, st, c.Logger).Run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, else :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable layout and artifact caching")

	return cmd
}

// newStore opens the configured map store backend.
func (c *CLI) newStore(cmd *cobra.Command) (store.Store, error) {
	if c.Config.Store.Backend == "mongo" {
		c.Logger.Debug("using mongodb map store", "uri", c.Config.Store.Mongo.URI)
		return store.NewMongoStore(cmd.Context(), c.Config.Store.Mongo)
	}
	return store.NewFileStore(c.Config.Store.Dir)
}
