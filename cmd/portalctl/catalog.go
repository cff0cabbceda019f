package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"signage-portal/internal/catalog"
	"signage-portal/internal/format"

	"github.com/spf13/cobra"
)

func newProductsCmd(a *app) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "products",
		Short: "List catalog products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.data(cmd)
			if err != nil {
				return err
			}

			cat := catalog.New(d.Products)
			products := cat.Products()
			if category != "" && category != "All" {
				products = cat.ProductsByCategory(category)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICE\tSTOCK\tSIZES")
			for _, p := range products {
				stock := "in stock"
				if !p.InStock {
					stock = "out of stock"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					p.ID, p.Name, p.Category, format.Currency(p.Price), stock, strings.Join(p.Sizes, ", "))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "only list products in this category")
	return cmd
}

func newCategoriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List product categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.data(cmd)
			if err != nil {
				return err
			}
			for _, c := range catalog.New(d.Products).Categories() {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			return nil
		},
	}
}
