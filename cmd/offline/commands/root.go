// Package commands implements the CLI commands for the offline gateway.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/offline/internal/app"
	"go.trai.ch/offline/internal/build"
)

// CLI represents the command line interface for offline.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Configure(settings app.Settings) error
	Serve(ctx context.Context, opts app.ServeOptions) error
	Install(ctx context.Context) error
	Prune(ctx context.Context) error
	Message(ctx context.Context, raw string) error
	Status(ctx context.Context) error
	Stop(ctx context.Context) error
	Inspect(ctx context.Context) error
	Clean(ctx context.Context) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "offline",
		Short:         "An offline cache gateway for the Impostor game",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to offline.yaml or offline.toml (default: discovered from the working directory)")
	rootCmd.PersistentFlags().String("log-format", "auto", "Log format: auto, text, or json")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		logFormat, _ := cmd.Flags().GetString("log-format")
		return c.app.Configure(app.Settings{
			ConfigPath: configPath,
			LogFormat:  logFormat,
		})
	}

	rootCmd.AddCommand(c.newServeCmd())
	rootCmd.AddCommand(c.newInstallCmd())
	rootCmd.AddCommand(c.newPruneCmd())
	rootCmd.AddCommand(c.newMessageCmd())
	rootCmd.AddCommand(c.newStatusCmd())
	rootCmd.AddCommand(c.newStopCmd())
	rootCmd.AddCommand(c.newInspectCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
