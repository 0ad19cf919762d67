package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newLockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lock",
		Short: "Re-resolve the manifest and write the lock file",
		Long: "Resolve the manifest requirements and persist the lock without " +
			"touching installed packages. Run this after editing the manifest " +
			"by hand.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			diff, err := c.app.Lock(cmd.Context())
			if err != nil {
				return err
			}
			printDiff(cmd.OutOrStdout(), diff)
			return nil
		},
	}
}
