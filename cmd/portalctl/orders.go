package main

import (
	"fmt"
	"text/tabwriter"

	"signage-portal/internal/format"
	"signage-portal/internal/models"
	"signage-portal/internal/orders"
	"signage-portal/internal/status"

	"github.com/spf13/cobra"
)

func newOrdersCmd(a *app) *cobra.Command {
	var (
		statusFilter string
		search       string
		sortBy       string
	)

	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := orders.Filter{Search: search}

			var err error
			if f.SortBy, err = orders.ParseSort(sortBy); err != nil {
				return err
			}
			if statusFilter != "" && statusFilter != "all" {
				if f.Status, err = status.Parse(statusFilter); err != nil {
					return err
				}
			}

			d, err := a.data(cmd)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNUMBER\tCUSTOMER\tPLACED\tSTATUS\tTOTAL\tDELIVERY")
			for _, o := range orders.NewRepository(d.Orders).Query(f) {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					o.ID, o.OrderNumber, o.CustomerName, format.Date(o.PlacedDate),
					status.Config(o.Status).Label, format.Currency(o.Total), format.OptionalDate(o.EstimatedDelivery))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&statusFilter, "status", "", "only list orders in this status")
	cmd.Flags().StringVar(&search, "search", "", "match order number, customer or product name")
	cmd.Flags().StringVar(&sortBy, "sort", string(orders.SortByDate), "sort by date, status or total")
	return cmd
}

func newOrderCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "order <id>",
		Short: "Show one order with its status history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.data(cmd)
			if err != nil {
				return err
			}

			o, ok := orders.NewRepository(d.Orders).OrderByID(args[0])
			if !ok {
				return fmt.Errorf("order %q not found", args[0])
			}
			printOrder(cmd, a, o)
			return nil
		},
	}
}

func printOrder(cmd *cobra.Command, a *app, o models.Order) {
	out := cmd.OutOrStdout()
	cfg := status.Config(o.Status)

	fmt.Fprintf(out, "%s  %s\n", o.OrderNumber, cfg.Label)
	fmt.Fprintf(out, "Customer: %s <%s>\n", o.CustomerName, o.CustomerEmail)
	fmt.Fprintf(out, "Placed:   %s\n", format.DateTime(o.PlacedDate))
	fmt.Fprintf(out, "Delivery: %s", format.OptionalDate(o.EstimatedDelivery))
	if days, ok := orders.DaysUntilDelivery(o, a.now()); ok {
		fmt.Fprintf(out, " (%d days)", days)
	}
	fmt.Fprintln(out)
	if p, ok := status.Progress(o); ok {
		fmt.Fprintf(out, "Progress: %.0f%%\n", p)
	}

	fmt.Fprintln(out, "\nItems:")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, it := range o.Items {
		fmt.Fprintf(w, "  %d x\t%s\t%s\t%s\n", it.Quantity, it.ProductName, it.Size, format.Currency(it.Price))
	}
	fmt.Fprintf(w, "  \tTotal\t\t%s\n", format.Currency(o.Total))
	_ = w.Flush()

	fmt.Fprintln(out, "\nHistory:")
	for _, h := range o.StatusHistory {
		line := fmt.Sprintf("  %s  %s", format.DateTime(h.Timestamp), status.Config(h.Status).Label)
		if h.Note != "" {
			line += "  (" + h.Note + ")"
		}
		fmt.Fprintln(out, line)
	}
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show dashboard and project counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.data(cmd)
			if err != nil {
				return err
			}

			repo := orders.NewRepository(d.Orders)
			st := repo.Stats()
			ps := repo.ProjectStats()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Total\t%d\n", st.Total)
			fmt.Fprintf(w, "Pending\t%d\n", st.Pending)
			fmt.Fprintf(w, "Delivered\t%d\n", st.Delivered)
			fmt.Fprintf(w, "On hold\t%d\n", st.OnHold)
			fmt.Fprintf(w, "Active projects\t%d\n", ps.Active)
			return w.Flush()
		},
	}
}
