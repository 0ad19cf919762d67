package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Reconcile installed packages with the lock file",
		Long: "Install lock entries that are missing or drifted on disk and " +
			"remove installed packages the lock no longer names. Fails when " +
			"the lock does not cover the manifest; run \"pakt lock\" first.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			diff, err := c.app.Sync(cmd.Context())
			if err != nil {
				return err
			}
			printDiff(cmd.OutOrStdout(), diff)
			return nil
		},
	}
}
