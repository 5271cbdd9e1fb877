package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newMessageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "message <TYPE|JSON>",
		Short: "Post a message to the running gateway's worker",
		Example: `  offline message GET_VERSION
  offline message SKIP_WAITING
  offline message '{"type":"GET_VERSION"}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Message(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the state of the running gateway",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Status(cmd.Context())
		},
	}
}

func (c *CLI) newStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the running gateway",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Stop(cmd.Context())
		},
	}
}
