package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"signage-portal/config"
	"signage-portal/internal/refdata"
	"signage-portal/internal/util"

	"github.com/spf13/cobra"
)

// app carries the global flags and the reference data loader shared by every command
type app struct {
	source      string
	databaseURL string
	timeout     time.Duration
	now         func() time.Time
	load        func(ctx context.Context, source, databaseURL string) (*refdata.Data, error)
}

func newApp() *app {
	return &app{
		now:  time.Now,
		load: refdata.Load,
	}
}

func (a *app) data(cmd *cobra.Command) (*refdata.Data, error) {
	ctx, cancel := context.WithTimeout(cmd.Context(), a.timeout)
	defer cancel()

	d, err := a.load(ctx, a.source, a.databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s data: %w", a.source, err)
	}
	d.CheckHistories()
	return d, nil
}

func newRootCmd(a *app) *cobra.Command {
	cfg := config.Load()

	root := &cobra.Command{
		Use:           "portalctl",
		Short:         "Inspect the signage portal catalog and orders",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return util.InitLogger(cfg.Server.Env)
		},
	}

	root.PersistentFlags().StringVar(&a.source, "source", cfg.Catalog.Source, "reference data source (embedded or postgres)")
	root.PersistentFlags().StringVar(&a.databaseURL, "database-url", cfg.Database.URL, "Postgres connection string")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", 30*time.Second, "data load timeout")

	root.AddCommand(
		newProductsCmd(a),
		newCategoriesCmd(a),
		newOrdersCmd(a),
		newOrderCmd(a),
		newStatsCmd(a),
		newDBCmd(a),
	)
	return root
}

func main() {
	defer util.SyncLogger()

	if err := newRootCmd(newApp()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
