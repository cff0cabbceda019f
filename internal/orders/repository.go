package orders

import (
	"sort"

	"signage-portal/internal/models"
)

// DefaultRecentLimit is the number of orders RecentOrders returns for a non-positive limit
const DefaultRecentLimit = 5

// Stats buckets orders for the dashboard. Shipped orders fall into none of
// Pending, Delivered or OnHold, so the buckets need not add up to Total.
type Stats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Delivered int `json:"delivered"`
	OnHold    int `json:"on_hold"`
}

// ProjectStats buckets orders for the projects page, where shipped orders count as active
type ProjectStats struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Delivered int `json:"delivered"`
	OnHold    int `json:"on_hold"`
}

var pendingStatuses = map[models.OrderStatus]bool{
	models.OrderStatusReceived:          true,
	models.OrderStatusInProduction:      true,
	models.OrderStatusQualityCheck:      true,
	models.OrderStatusPreparingShipment: true,
}

// Repository is a read-only set of orders
type Repository struct {
	orders []models.Order
	byID   map[string]int
}

// NewRepository creates a repository over orders, kept in the given order
func NewRepository(orders []models.Order) *Repository {
	r := &Repository{
		orders: make([]models.Order, len(orders)),
		byID:   make(map[string]int, len(orders)),
	}
	copy(r.orders, orders)

	for i, o := range r.orders {
		if _, exists := r.byID[o.ID]; !exists {
			r.byID[o.ID] = i
		}
	}

	return r
}

// All returns every order in repository order
func (r *Repository) All() []models.Order {
	out := make([]models.Order, len(r.orders))
	copy(out, r.orders)
	return out
}

// Len returns the number of orders
func (r *Repository) Len() int {
	return len(r.orders)
}

// OrderByID returns the order with the given ID
func (r *Repository) OrderByID(id string) (models.Order, bool) {
	i, ok := r.byID[id]
	if !ok {
		return models.Order{}, false
	}
	return r.orders[i], true
}

// OrdersByStatus returns orders in the given status, preserving order
func (r *Repository) OrdersByStatus(s models.OrderStatus) []models.Order {
	out := make([]models.Order, 0)
	for _, o := range r.orders {
		if o.Status == s {
			out = append(out, o)
		}
	}
	return out
}

// RecentOrders returns up to limit orders, newest placed first.
// Orders placed at the same instant keep their repository order.
func (r *Repository) RecentOrders(limit int) []models.Order {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	sorted := r.All()
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PlacedDate.After(sorted[j].PlacedDate)
	})

	if limit < len(sorted) {
		sorted = sorted[:limit]
	}
	return sorted
}

// Stats returns the dashboard buckets
func (r *Repository) Stats() Stats {
	st := Stats{Total: len(r.orders)}
	for _, o := range r.orders {
		switch {
		case pendingStatuses[o.Status]:
			st.Pending++
		case o.Status == models.OrderStatusDelivered:
			st.Delivered++
		case o.Status == models.OrderStatusOnHold:
			st.OnHold++
		}
	}
	return st
}

// ProjectStats returns the projects page buckets
func (r *Repository) ProjectStats() ProjectStats {
	st := ProjectStats{Total: len(r.orders)}
	for _, o := range r.orders {
		switch {
		case pendingStatuses[o.Status], o.Status == models.OrderStatusShipped:
			st.Active++
		case o.Status == models.OrderStatusDelivered:
			st.Delivered++
		case o.Status == models.OrderStatusOnHold:
			st.OnHold++
		}
	}
	return st
}
