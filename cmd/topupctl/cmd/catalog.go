package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"topup/internal/catalog"
	"topup/kit/money"
)

type productView struct {
	Code       string   `json:"code"`
	Price      string   `json:"price"`
	SKUs       []string `json:"skus"`
	Refundable bool     `json:"refundable"`
}

type regionView struct {
	Name     string        `json:"name"`
	Bucket   string        `json:"bucket"`
	Products []productView `json:"products"`
}

func (c *cli) catalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog [region]",
		Short: "Print the loaded product catalog",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat := c.app.Catalog
			names := cat.Regions()
			if len(args) == 1 {
				names = args
			}
			views := make([]regionView, 0, len(names))
			for _, n := range names {
				r, err := cat.Region(n)
				if err != nil {
					return fmt.Errorf("%w: %s", err, n)
				}
				views = append(views, viewRegion(cat, r))
			}
			out := map[string]any{"version": cat.Version(), "regions": views}
			return c.emit(cmd, out, func() {
				w := cmd.OutOrStdout()
				fmt.Fprintf(w, "catalog %s\n", cat.Version())
				for _, v := range views {
					fmt.Fprintf(w, "%s (%s)\n", v.Name, v.Bucket)
					for _, p := range v.Products {
						flag := ""
						if !p.Refundable {
							flag = " non-refundable"
						}
						fmt.Fprintf(w, "  %s\t%s\t%v%s\n", p.Code, p.Price, p.SKUs, flag)
					}
				}
			})
		},
	}
}

func viewRegion(cat *catalog.Catalog, r catalog.Region) regionView {
	v := regionView{Name: r.Name, Bucket: r.Bucket}
	for _, code := range r.Codes() {
		e, _ := r.Lookup(code)
		price := "unavailable"
		if e.PriceSet {
			price = money.Format(e.Price)
		}
		v.Products = append(v.Products, productView{Code: e.Code, Price: price, SKUs: e.SKUs, Refundable: cat.Policy().Refundable(code)})
	}
	return v
}
