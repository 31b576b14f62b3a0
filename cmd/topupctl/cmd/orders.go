package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"topup/internal/order"
	"topup/internal/txlog"
	"topup/kit/money"
)

var errBadItem = errors.New("item must be recipient:zone:product")

func parseItem(s string) (order.ItemRequest, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return order.ItemRequest{}, fmt.Errorf("%w: %q", errBadItem, s)
	}
	return order.ItemRequest{RecipientID: parts[0], RecipientZone: parts[1], ProductCode: parts[2]}, nil
}

func (c *cli) orderCmd() *cobra.Command {
	var (
		customer string
		region   string
		items    []string
	)
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Submit a batch of top-up items",
		Long: `Submit one batch. Each --item is recipient:zone:product; repeat the flag
for more items. Items are processed in order and each reports its own outcome.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := order.BatchRequest{CustomerID: customer, Region: region}
			for _, s := range items {
				it, err := parseItem(s)
				if err != nil {
					return err
				}
				req.Items = append(req.Items, it)
			}
			res, err := c.app.Orders.Submit(cmd.Context(), req)
			if res != nil {
				if perr := c.emit(cmd, res, func() { printBatch(cmd, res) }); perr != nil {
					return perr
				}
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&customer, "customer", "c", "", "customer id [REQUIRED]")
	cmd.Flags().StringVarP(&region, "region", "r", "ph", "catalog region")
	cmd.Flags().StringArrayVarP(&items, "item", "i", nil, "recipient:zone:product [REQUIRED, repeatable]")
	_ = cmd.MarkFlagRequired("customer")
	_ = cmd.MarkFlagRequired("item")
	return cmd
}

func printBatch(cmd *cobra.Command, res *order.BatchResult) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "batch %s (%s, %s)\n", res.BatchID, res.Region, res.Bucket)
	for _, it := range res.Items {
		if it.Committed() {
			fmt.Fprintf(w, "  #%d %s -> %s (%s): %s, orders %s, balance %s\n",
				it.Index, it.Request.ProductCode, it.Request.RecipientID, it.RecipientName,
				money.Format(it.Price), strings.Join(it.OrderIDs, ","), money.Format(it.RemainingBalance))
			continue
		}
		note := ""
		switch {
		case it.Forfeited:
			note = " (forfeited)"
		case it.Compensated:
			note = " (refunded)"
		}
		fmt.Fprintf(w, "  #%d %s -> %s: %s: %s%s\n", it.Index, it.Request.ProductCode, it.Request.RecipientID, it.Kind, it.Reason, note)
	}
	if res.Required > 0 {
		fmt.Fprintf(w, "  required %s, available %s\n", money.Format(res.Required), money.Format(res.Available))
	}
}

func (c *cli) historyCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "history [customer]",
		Short: "List committed orders",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				recs []txlog.Record
				err  error
			)
			switch {
			case all:
				if err := c.requireOperator(); err != nil {
					return err
				}
				recs, err = c.app.Txlog.ListAll(cmd.Context())
			case len(args) == 1:
				recs, err = c.app.Txlog.ListByCustomer(cmd.Context(), args[0])
			default:
				return errors.New("give a customer or --all")
			}
			if err != nil {
				return err
			}
			return c.emit(cmd, recs, func() {
				for _, r := range recs {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
						r.CreatedAt.Format("2006-01-02 15:04:05"), r.CustomerID, r.ProductCode, r.RecipientID,
						money.Format(r.Price), strings.Join(r.OrderIDs, ","), money.Format(r.RemainingBalance))
				}
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "every customer's orders (operator)")
	return cmd
}
