package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"topup/kit/db"
	"topup/kit/money"
)

func (c *cli) batchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "batch <batch-id>",
		Short: "Summarise a batch from the event journal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, ok := c.app.Views.GetBatch(args[0])
			if !ok {
				return fmt.Errorf("%w: batch %s", db.ErrNotFound, args[0])
			}
			return c.emit(cmd, v, func() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s: %d committed, %d failed (%d refunded, %d forfeited), charged %s\n",
					v.BatchID, v.CustomerID, v.Status, v.Committed, v.Failed, v.Compensated, v.Forfeited, money.Format(v.Charged))
				if v.Reason != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", v.Reason)
				}
			})
		},
	}
}
