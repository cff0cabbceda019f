package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"signage-portal/internal/models"
	"signage-portal/internal/status"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

const (
	selectOrders = `
		SELECT id, order_number, customer_name, customer_email, placed_date, status,
			subtotal, tax, shipping, total, estimated_delivery, COALESCE(notes, '') AS notes,
			ship_name, COALESCE(ship_company, '') AS ship_company, ship_street, ship_city,
			ship_state, ship_zip, ship_phone
		FROM orders
		ORDER BY position, id`

	selectOrderItems = `
		SELECT order_id, product_id, product_name, quantity, price,
			COALESCE(size, '') AS size, COALESCE(customization, '') AS customization
		FROM order_items
		ORDER BY order_id, position`

	selectOrderTracking = `
		SELECT order_id, carrier, tracking_number, url, last_update, estimated_delivery
		FROM order_tracking
		ORDER BY order_id, position`

	selectStatusHistory = `
		SELECT order_id, status, changed_at AS "timestamp", COALESCE(note, '') AS note
		FROM order_status_history
		ORDER BY order_id, position`
)

type orderRow struct {
	ID                string          `db:"id"`
	OrderNumber       string          `db:"order_number"`
	CustomerName      string          `db:"customer_name"`
	CustomerEmail     string          `db:"customer_email"`
	PlacedDate        time.Time       `db:"placed_date"`
	Status            string          `db:"status"`
	Subtotal          decimal.Decimal `db:"subtotal"`
	Tax               decimal.Decimal `db:"tax"`
	Shipping          decimal.Decimal `db:"shipping"`
	Total             decimal.Decimal `db:"total"`
	EstimatedDelivery sql.NullTime    `db:"estimated_delivery"`
	Notes             string          `db:"notes"`
	models.ShippingAddress
}

type itemRow struct {
	OrderID string `db:"order_id"`
	models.OrderItem
}

type trackingRow struct {
	OrderID string `db:"order_id"`
	models.TrackingInfo
}

type historyRow struct {
	OrderID   string    `db:"order_id"`
	Status    string    `db:"status"`
	Timestamp time.Time `db:"timestamp"`
	Note      string    `db:"note"`
}

// Orders retrieves every order with its items, tracking and status history
// from one read-only snapshot.
func (s *Store) Orders(ctx context.Context) ([]models.Order, error) {
	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var (
		orderRows    []orderRow
		itemRows     []itemRow
		trackingRows []trackingRow
		historyRows  []historyRow
	)
	if err := selectAll(ctx, tx, &orderRows, selectOrders, "orders"); err != nil {
		return nil, err
	}
	if err := selectAll(ctx, tx, &itemRows, selectOrderItems, "order items"); err != nil {
		return nil, err
	}
	if err := selectAll(ctx, tx, &trackingRows, selectOrderTracking, "order tracking"); err != nil {
		return nil, err
	}
	if err := selectAll(ctx, tx, &historyRows, selectStatusHistory, "status history"); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	orders := make([]models.Order, 0, len(orderRows))
	index := make(map[string]int, len(orderRows))
	for _, r := range orderRows {
		o, err := r.toModel()
		if err != nil {
			return nil, err
		}
		index[o.ID] = len(orders)
		orders = append(orders, o)
	}

	for _, r := range itemRows {
		i, ok := index[r.OrderID]
		if !ok {
			return nil, fmt.Errorf("order item references unknown order %s", r.OrderID)
		}
		orders[i].Items = append(orders[i].Items, r.OrderItem)
	}
	for _, r := range trackingRows {
		i, ok := index[r.OrderID]
		if !ok {
			return nil, fmt.Errorf("tracking references unknown order %s", r.OrderID)
		}
		orders[i].Tracking = append(orders[i].Tracking, r.TrackingInfo)
	}
	for _, r := range historyRows {
		i, ok := index[r.OrderID]
		if !ok {
			return nil, fmt.Errorf("status history references unknown order %s", r.OrderID)
		}
		st, err := status.Parse(r.Status)
		if err != nil {
			return nil, fmt.Errorf("order %s history: %w", r.OrderID, err)
		}
		orders[i].StatusHistory = append(orders[i].StatusHistory, models.StatusUpdate{
			Status:    st,
			Timestamp: r.Timestamp,
			Note:      r.Note,
		})
	}

	return orders, nil
}

func selectAll(ctx context.Context, tx *sqlx.Tx, dest interface{}, query, what string) error {
	if err := tx.SelectContext(ctx, dest, query); err != nil {
		return fmt.Errorf("failed to load %s: %w", what, err)
	}
	return nil
}

func (r orderRow) toModel() (models.Order, error) {
	st, err := status.Parse(r.Status)
	if err != nil {
		return models.Order{}, fmt.Errorf("order %s: %w", r.ID, err)
	}

	o := models.Order{
		ID:              r.ID,
		OrderNumber:     r.OrderNumber,
		CustomerName:    r.CustomerName,
		CustomerEmail:   r.CustomerEmail,
		PlacedDate:      r.PlacedDate,
		Status:          st,
		Items:           []models.OrderItem{},
		Subtotal:        r.Subtotal,
		Tax:             r.Tax,
		Shipping:        r.Shipping,
		Total:           r.Total,
		ShippingAddress: r.ShippingAddress,
		Notes:           r.Notes,
	}
	if r.EstimatedDelivery.Valid {
		eta := r.EstimatedDelivery.Time
		o.EstimatedDelivery = &eta
	}
	return o, nil
}

const (
	deleteOrder = `DELETE FROM orders WHERE id = $1`

	insertOrder = `
		INSERT INTO orders (id, order_number, customer_name, customer_email, placed_date, status,
			subtotal, tax, shipping, total, estimated_delivery, notes,
			ship_name, ship_company, ship_street, ship_city, ship_state, ship_zip, ship_phone, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`

	insertOrderItem = `
		INSERT INTO order_items (order_id, position, product_id, product_name, quantity, price, size, customization)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	insertOrderTracking = `
		INSERT INTO order_tracking (order_id, position, carrier, tracking_number, url, last_update, estimated_delivery)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	insertStatusHistory = `
		INSERT INTO order_status_history (order_id, position, status, changed_at, note)
		VALUES ($1, $2, $3, $4, $5)`
)

// ImportOrders replaces the stored copy of each order, children included.
// Orders are read back in slice order.
func (s *Store) ImportOrders(ctx context.Context, orders []models.Order) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i, o := range orders {
		if err := importOrder(ctx, tx, i, o); err != nil {
			return fmt.Errorf("failed to import order %s: %w", o.ID, err)
		}
	}

	return tx.Commit()
}

func importOrder(ctx context.Context, tx *sqlx.Tx, position int, o models.Order) error {
	if _, err := tx.ExecContext(ctx, deleteOrder, o.ID); err != nil {
		return err
	}

	var eta interface{}
	if o.EstimatedDelivery != nil {
		eta = *o.EstimatedDelivery
	}
	a := o.ShippingAddress
	_, err := tx.ExecContext(ctx, insertOrder,
		o.ID, o.OrderNumber, o.CustomerName, o.CustomerEmail, o.PlacedDate, string(o.Status),
		o.Subtotal, o.Tax, o.Shipping, o.Total, eta, nullable(o.Notes),
		a.Name, nullable(a.Company), a.Street, a.City, a.State, a.Zip, a.Phone, position)
	if err != nil {
		return err
	}

	for i, it := range o.Items {
		_, err := tx.ExecContext(ctx, insertOrderItem,
			o.ID, i, it.ProductID, it.ProductName, it.Quantity, it.Price,
			nullable(it.Size), nullable(it.Customization))
		if err != nil {
			return err
		}
	}
	for i, t := range o.Tracking {
		_, err := tx.ExecContext(ctx, insertOrderTracking,
			o.ID, i, t.Carrier, t.TrackingNumber, t.URL, t.LastUpdate, t.EstimatedDelivery)
		if err != nil {
			return err
		}
	}
	for i, h := range o.StatusHistory {
		_, err := tx.ExecContext(ctx, insertStatusHistory,
			o.ID, i, string(h.Status), h.Timestamp, nullable(h.Note))
		if err != nil {
			return err
		}
	}

	return nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
