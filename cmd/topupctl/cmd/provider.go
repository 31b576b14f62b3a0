package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *cli) pointsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "points",
		Short: "Show the merchant's remaining provider points (operator)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireOperator(); err != nil {
				return err
			}
			points, err := c.app.Provider.QueryPoints(cmd.Context())
			if err != nil {
				return err
			}
			return c.emit(cmd, map[string]string{"points": points.StringFixed(2)}, func() {
				fmt.Fprintln(cmd.OutOrStdout(), points.StringFixed(2))
			})
		},
	}
}

func (c *cli) roleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "role <recipient> <zone>",
		Short: "Look up a recipient's display name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := c.app.Provider.LookupRole(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return c.emit(cmd, role, func() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) %s\n", role.RecipientID, role.Zone, role.DisplayName)
			})
		},
	}
}
