package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"topup/kit/money"
)

func (c *cli) registerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register <customer>",
		Short: "Create a customer with empty balances",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.RegisterCustomer(cmd.Context(), args[0]); err != nil {
				return err
			}
			return c.emit(cmd, map[string]string{"customer_id": args[0]}, func() {
				fmt.Fprintf(cmd.OutOrStdout(), "registered %s\n", args[0])
			})
		},
	}
}

func (c *cli) balanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance <customer>",
		Short: "Show every bucket of a customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bals, err := c.app.Ledger.Balances(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			buckets := make([]string, 0, len(bals))
			out := make(map[string]string, len(bals))
			for b, amt := range bals {
				buckets = append(buckets, b)
				out[b] = money.Format(amt)
			}
			sort.Strings(buckets)
			return c.emit(cmd, map[string]any{"customer_id": args[0], "balances": out}, func() {
				for _, b := range buckets {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", b, out[b])
				}
			})
		},
	}
}

// adjustCmd builds the operator credit and debit commands.
func (c *cli) adjustCmd(kind string) *cobra.Command {
	return &cobra.Command{
		Use:   kind + " <customer> <bucket> <amount>",
		Short: fmt.Sprintf("Operator %s of a customer bucket", kind),
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := money.Parse(args[2])
			if err != nil {
				return err
			}
			apply := c.app.CreditBalance
			if kind == "debit" {
				apply = c.app.DebitBalance
			}
			bal, err := apply(cmd.Context(), c.operator, args[0], args[1], amount)
			if err != nil {
				return err
			}
			return c.emit(cmd, map[string]string{"customer_id": args[0], "bucket": args[1], "balance": money.Format(bal)}, func() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s, balance %s\n", args[0], args[1], kind, money.Format(bal))
			})
		},
	}
}
