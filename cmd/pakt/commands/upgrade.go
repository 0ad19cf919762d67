package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newUpgradeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upgrade [packages...]",
		Short: "Upgrade packages to their newest admissible versions",
		Long: "Relax the lock pins of the named packages (or of every package " +
			"when none is given) and re-resolve. --force discards the pins " +
			"of the targeted packages outright.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")
			diff, err := c.app.Upgrade(cmd.Context(), args, force)
			if err != nil {
				return err
			}
			printDiff(cmd.OutOrStdout(), diff)
			return nil
		},
	}
	cmd.Flags().BoolP("force", "f", false, "Discard the prior pins of the targeted packages")
	return cmd
}
