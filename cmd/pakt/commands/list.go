package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List installed packages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			installed, err := c.app.List(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, inst := range installed {
				if inst.Drifted {
					_, _ = fmt.Fprintf(out, "%s %s (drifted)\n", inst.Name, inst.Version)
					continue
				}
				_, _ = fmt.Fprintf(out, "%s %s\n", inst.Name, inst.Version)
			}
			return nil
		},
	}
}
