package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/offline/internal/app"
)

func (c *CLI) newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the gateway in front of the game",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			watch, _ := cmd.Flags().GetBool("watch")
			noBrowser, _ := cmd.Flags().GetBool("no-browser")
			return c.app.Serve(cmd.Context(), app.ServeOptions{
				Watch:     watch,
				NoBrowser: noBrowser,
			})
		},
	}
	cmd.Flags().BoolP("watch", "w", false, "Install a new generation when the configuration file changes")
	cmd.Flags().Bool("no-browser", false, "Log notification clicks instead of opening the browser")
	return cmd
}
