package commands

import (
	"github.com/pakt-dev/pakt/internal/app"
	"github.com/spf13/cobra"
)

func (c *CLI) newInstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install [packages...]",
		Short: "Add packages to the manifest and install them",
		Long: "Add the given packages to the manifest, resolve the dependency " +
			"graph and install the result. A package is a bare name or " +
			"name@constraint. With no arguments, install materializes the " +
			"current manifest.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dev, _ := cmd.Flags().GetBool("dev")
			optional, _ := cmd.Flags().GetBool("optional")
			python, _ := cmd.Flags().GetString("python")
			platform, _ := cmd.Flags().GetString("platform")
			pre, _ := cmd.Flags().GetBool("pre")

			diff, err := c.app.Install(cmd.Context(), args, app.InstallOptions{
				Dev:        dev,
				Optional:   optional,
				Python:     python,
				Platform:   platform,
				Prerelease: pre,
			})
			if err != nil {
				return err
			}
			printDiff(cmd.OutOrStdout(), diff)
			return nil
		},
	}
	cmd.Flags().BoolP("dev", "d", false, "Add to the development dependency group")
	cmd.Flags().Bool("optional", false, "Add to the optional dependency group")
	cmd.Flags().String("python", "", "Interpreter version constraint marker, e.g. \">= 3.10\"")
	cmd.Flags().String("platform", "", "Platform marker, e.g. \"linux\"")
	cmd.Flags().Bool("pre", false, "Allow prerelease versions to satisfy the constraint")
	return cmd
}
