// Package commands implements the CLI commands for the pakt package manager.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/pakt-dev/pakt/internal/app"
	"github.com/pakt-dev/pakt/internal/build"
	"github.com/pakt-dev/pakt/internal/core/domain"
	"github.com/spf13/cobra"
)

// CLI represents the command line interface for pakt.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Init(name string) error
	Install(ctx context.Context, specs []string, opts app.InstallOptions) (*domain.LockDiff, error)
	Uninstall(ctx context.Context, name string) (*domain.LockDiff, error)
	Upgrade(ctx context.Context, names []string, force bool) (*domain.LockDiff, error)
	Lock(ctx context.Context) (*domain.LockDiff, error)
	Sync(ctx context.Context) (*domain.LockDiff, error)
	List(ctx context.Context) ([]domain.InstalledDistribution, error)
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "pakt",
		Short:         "A project-local package manager",
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

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newInitCmd())
	rootCmd.AddCommand(c.newInstallCmd())
	rootCmd.AddCommand(c.newUninstallCmd())
	rootCmd.AddCommand(c.newUpgradeCmd())
	rootCmd.AddCommand(c.newLockCmd())
	rootCmd.AddCommand(c.newSyncCmd())
	rootCmd.AddCommand(c.newListCmd())
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

// printDiff writes a human-readable change summary.
func printDiff(w io.Writer, diff *domain.LockDiff) {
	if diff == nil || diff.IsEmpty() {
		_, _ = fmt.Fprintln(w, "no changes")
		return
	}
	for _, e := range diff.Added {
		_, _ = fmt.Fprintf(w, "+ %s %s\n", e.Name, e.Version)
	}
	for _, ch := range diff.Changed {
		_, _ = fmt.Fprintf(w, "~ %s %s -> %s\n", ch.New.Name, ch.Old.Version, ch.New.Version)
	}
	for _, e := range diff.Removed {
		_, _ = fmt.Fprintf(w, "- %s %s\n", e.Name, e.Version)
	}
}
