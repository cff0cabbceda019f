package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"signage-portal/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

//go:embed schema.sql
var schema string

// Store reads catalog and order reference data from Postgres
type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &Store{db: db}, nil
}

// NewStoreFromDB wraps an open connection
func NewStoreFromDB(db *sql.DB) *Store {
	return &Store{db: sqlx.NewDb(db, "postgres")}
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates the reference data tables if they do not exist
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

const selectProducts = `
		SELECT id, name, category, price, description, image, in_stock, features, sizes
		FROM products
		ORDER BY position, id`

type productRow struct {
	models.Product
	Features pq.StringArray `db:"features"`
	Sizes    pq.StringArray `db:"sizes"`
}

// Products retrieves the catalog in display order
func (s *Store) Products(ctx context.Context) ([]models.Product, error) {
	var rows []productRow
	if err := s.db.SelectContext(ctx, &rows, selectProducts); err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	products := make([]models.Product, 0, len(rows))
	for _, r := range rows {
		if r.Price.IsNegative() {
			return nil, fmt.Errorf("product %s has negative price %s", r.ID, r.Price)
		}
		p := r.Product
		p.Features = []string(r.Features)
		if p.Features == nil {
			p.Features = []string{}
		}
		if len(r.Sizes) > 0 {
			p.Sizes = []string(r.Sizes)
		}
		products = append(products, p)
	}
	return products, nil
}

const insertProduct = `
		INSERT INTO products (id, name, category, price, description, image, in_stock, features, sizes, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			category = EXCLUDED.category,
			price = EXCLUDED.price,
			description = EXCLUDED.description,
			image = EXCLUDED.image,
			in_stock = EXCLUDED.in_stock,
			features = EXCLUDED.features,
			sizes = EXCLUDED.sizes,
			position = EXCLUDED.position`

// ImportProducts upserts products, keeping their order as display order
func (s *Store) ImportProducts(ctx context.Context, products []models.Product) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i, p := range products {
		features := p.Features
		if features == nil {
			features = []string{}
		}
		var sizes interface{}
		if p.HasSizes() {
			sizes = pq.Array(p.Sizes)
		}
		_, err := tx.ExecContext(ctx, insertProduct,
			p.ID, p.Name, p.Category, p.Price, p.Description, p.Image, p.InStock,
			pq.Array(features), sizes, i)
		if err != nil {
			return fmt.Errorf("failed to import product %s: %w", p.ID, err)
		}
	}

	return tx.Commit()
}
