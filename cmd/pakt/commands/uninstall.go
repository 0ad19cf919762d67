package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newUninstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall <package>",
		Short: "Remove a package from the manifest and from disk",
		Long: "Remove the package from every dependency group, re-resolve and " +
			"prune it together with any transitive dependencies nothing else " +
			"requires. Uninstalling a package that is not declared is a no-op.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			diff, err := c.app.Uninstall(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printDiff(cmd.OutOrStdout(), diff)
			return nil
		},
	}
}
