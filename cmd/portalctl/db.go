package main

import (
	"context"
	"fmt"

	"signage-portal/internal/seed"
	"signage-portal/internal/store"
	"signage-portal/internal/util"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newDBCmd(a *app) *cobra.Command {
	db := &cobra.Command{
		Use:   "db",
		Short: "Manage the Postgres reference data",
	}

	db.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create the reference data tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(ctx context.Context, s *store.Store) error {
				if err := s.Migrate(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Schema applied")
				return nil
			})
		},
	})

	db.AddCommand(&cobra.Command{
		Use:   "import",
		Short: "Load the embedded catalog and orders into Postgres",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := seed.Products()
			if err != nil {
				return err
			}
			list, err := seed.Orders()
			if err != nil {
				return err
			}

			return a.withStore(cmd, func(ctx context.Context, s *store.Store) error {
				if err := s.Migrate(ctx); err != nil {
					return err
				}
				if err := s.ImportProducts(ctx, products); err != nil {
					return err
				}
				if err := s.ImportOrders(ctx, list); err != nil {
					return err
				}

				util.GetLogger().Info("Reference data imported",
					zap.Int("products", len(products)),
					zap.Int("orders", len(list)))
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d products and %d orders\n", len(products), len(list))
				return nil
			})
		},
	})

	return db
}

func (a *app) withStore(cmd *cobra.Command, fn func(context.Context, *store.Store) error) error {
	s, err := store.NewStore(a.databaseURL)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), a.timeout)
	defer cancel()
	return fn(ctx, s)
}
