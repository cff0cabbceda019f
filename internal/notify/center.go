package notify

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"signage-portal/internal/models"
	"signage-portal/internal/orders"
	"signage-portal/internal/status"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// MaxEntries bounds the feed; the oldest entries are dropped first
const MaxEntries = 100

// Center is the customer's notification feed, newest first.
// It is safe for concurrent use.
type Center struct {
	mu      sync.RWMutex
	entries []models.Notification
	now     func() time.Time
}

// NewCenter creates an empty notification center
func NewCenter() *Center {
	return &Center{now: time.Now}
}

// SeedFromOrders adds one notification per order describing its latest
// status history entry. Orders without history are skipped.
func (c *Center) SeedFromOrders(list []models.Order) int {
	seeded := make([]models.Notification, 0, len(list))
	for _, o := range list {
		update, ok := orders.LatestUpdate(o)
		if !ok {
			continue
		}
		seeded = append(seeded, FromStatusUpdate(o, update))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = append(c.entries, seeded...)
	sort.SliceStable(c.entries, func(i, j int) bool {
		return c.entries[i].CreatedAt.After(c.entries[j].CreatedAt)
	})
	c.trim()

	return len(seeded)
}

// Add puts n at the top of the feed. A missing ID or timestamp is filled in.
func (c *Center) Add(n models.Notification) models.Notification {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = c.now()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = append([]models.Notification{n}, c.entries...)
	c.trim()

	return n
}

// List returns the feed, newest first
func (c *Center) List() []models.Notification {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.Notification, len(c.entries))
	copy(out, c.entries)
	return out
}

// UnreadCount returns the number of unread notifications
func (c *Center) UnreadCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	for _, e := range c.entries {
		if !e.Read {
			n++
		}
	}
	return n
}

// MarkRead marks one notification read and reports whether it exists
func (c *Center) MarkRead(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.entries {
		if c.entries[i].ID == id {
			c.entries[i].Read = true
			return true
		}
	}
	return false
}

// MarkAllRead marks every notification read
func (c *Center) MarkAllRead() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.entries {
		c.entries[i].Read = true
	}
}

// ClearAll empties the feed
func (c *Center) ClearAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = nil
}

func (c *Center) trim() {
	if len(c.entries) > MaxEntries {
		c.entries = c.entries[:MaxEntries]
	}
}

// TimeAgo renders when n was created relative to now, e.g. "2 hours ago"
func TimeAgo(n models.Notification, now time.Time) string {
	return humanize.RelTime(n.CreatedAt, now, "ago", "from now")
}

// TypeFor maps an order status onto the feed's notification types
func TypeFor(s models.OrderStatus) models.NotificationType {
	switch s {
	case models.OrderStatusDelivered:
		return models.NotificationCompleted
	case models.OrderStatusOnHold:
		return models.NotificationOnHold
	case models.OrderStatusReceived:
		return models.NotificationNew
	default:
		return models.NotificationInProgress
	}
}

// FromStatusUpdate builds the notification announcing update on order o
func FromStatusUpdate(o models.Order, update models.StatusUpdate) models.Notification {
	subject := o.OrderNumber
	if len(o.Items) > 0 {
		subject = o.Items[0].ProductName
	}

	n := models.Notification{
		ID:          uuid.New().String(),
		Type:        TypeFor(update.Status),
		OrderNumber: o.OrderNumber,
		CreatedAt:   update.Timestamp,
	}

	switch n.Type {
	case models.NotificationCompleted:
		n.Title = "Order Completed"
		n.Message = fmt.Sprintf("Your %s order has been delivered.", subject)
	case models.NotificationOnHold:
		n.Title = "Order On Hold"
		n.Message = fmt.Sprintf("%s order is on hold.", subject)
	case models.NotificationNew:
		n.Title = "New Order Received"
		n.Message = fmt.Sprintf("New order for %s has been received and processing started.", subject)
	default:
		n.Title = "Status Update"
		n.Message = fmt.Sprintf("%s project has moved to %s.", subject, status.Config(update.Status).Label)
	}
	if update.Note != "" {
		n.Message += " " + update.Note
	}

	return n
}
