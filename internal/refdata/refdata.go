package refdata

import (
	"context"
	"fmt"

	"signage-portal/config"
	"signage-portal/internal/models"
	"signage-portal/internal/orders"
	"signage-portal/internal/seed"
	"signage-portal/internal/store"
	"signage-portal/internal/util"

	"go.uber.org/zap"
)

// Data is the reference data the portal serves
type Data struct {
	Products []models.Product
	Orders   []models.Order
}

// Load reads reference data from source. For config.SourcePostgres the store
// is opened, migrated and closed again; the embedded data needs no I/O.
func Load(ctx context.Context, source, databaseURL string) (*Data, error) {
	switch source {
	case config.SourceEmbedded, "":
		return fromSeed()
	case config.SourcePostgres:
		db, err := store.NewStore(databaseURL)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		return FromStore(ctx, db)
	default:
		return nil, fmt.Errorf("unknown catalog source %q", source)
	}
}

// FromStore reads products and orders from db after applying the schema
func FromStore(ctx context.Context, db *store.Store) (*Data, error) {
	if err := db.Migrate(ctx); err != nil {
		return nil, err
	}
	products, err := db.Products(ctx)
	if err != nil {
		return nil, err
	}
	list, err := db.Orders(ctx)
	if err != nil {
		return nil, err
	}
	return &Data{Products: products, Orders: list}, nil
}

func fromSeed() (*Data, error) {
	products, err := seed.Products()
	if err != nil {
		return nil, err
	}
	list, err := seed.Orders()
	if err != nil {
		return nil, err
	}
	return &Data{Products: products, Orders: list}, nil
}

// CheckHistories logs a warning for every order whose status history does
// not end at its current status. It returns the number of such orders.
func (d *Data) CheckHistories() int {
	logger := util.GetLogger()
	bad := 0
	for _, o := range d.Orders {
		if err := orders.CheckHistory(o); err != nil {
			bad++
			logger.Warn("Inconsistent status history",
				zap.String("order_id", o.ID),
				zap.Error(err))
		}
	}
	return bad
}
