// Package commands implements the CLI commands for the jarl artifact manager.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/jarl/internal/app"
	"go.trai.ch/jarl/internal/build"
	"go.trai.ch/jarl/internal/core/domain"
)

// CLI represents the command line interface for jarl.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Fetch(ctx context.Context, names []string, opts app.FetchOptions) error
	Sync(ctx context.Context, names []string, opts app.SyncOptions) error
	Clean(ctx context.Context) error
	SetManifestPath(path string)
	SetDataDir(dir string)
	SetLogLevel(level domain.LogLevel)
	SetPlain()
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "jarl",
		Short:         "A runtime dependency manager for JVM artifacts",
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

	rootCmd.PersistentFlags().StringP("manifest", "m", "", "Path to the manifest file (default: discover jarl.yaml upwards)")
	rootCmd.PersistentFlags().String("data-dir", "", "Override the data directory declared in the manifest")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Only log warnings and errors")
	rootCmd.PersistentFlags().Bool("plain", false, "Disable progress rendering, log lines only")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}
	rootCmd.PersistentPreRunE = c.applyGlobalFlags

	rootCmd.AddCommand(c.newFetchCmd())
	rootCmd.AddCommand(c.newSyncCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// applyGlobalFlags forwards the persistent flags to the application before a
// subcommand runs.
func (c *CLI) applyGlobalFlags(cmd *cobra.Command, _ []string) error {
	manifest, err := cmd.Flags().GetString("manifest")
	if err != nil {
		return err
	}
	if manifest != "" {
		c.app.SetManifestPath(manifest)
	}

	dataDir, err := cmd.Flags().GetString("data-dir")
	if err != nil {
		return err
	}
	if dataDir != "" {
		c.app.SetDataDir(dataDir)
	}

	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return err
	}
	quiet, err := cmd.Flags().GetBool("quiet")
	if err != nil {
		return err
	}
	switch {
	case verbose:
		c.app.SetLogLevel(domain.LogLevelDebug)
	case quiet:
		c.app.SetLogLevel(domain.LogLevelWarn)
	}

	plain, err := cmd.Flags().GetBool("plain")
	if err != nil {
		return err
	}
	if plain {
		c.app.SetPlain()
	}
	return nil
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
