package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a sign in the catalog
type Product struct {
	ID          string          `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Category    string          `db:"category" json:"category"`
	Price       decimal.Decimal `db:"price" json:"price"`
	Description string          `db:"description" json:"description"`
	Image       string          `db:"image" json:"image"`
	InStock     bool            `db:"in_stock" json:"in_stock"`
	Features    []string        `db:"-" json:"features"`
	Sizes       []string        `db:"-" json:"sizes,omitempty"`
}

// HasSizes reports whether the product is sold in selectable sizes
func (p Product) HasSizes() bool {
	return len(p.Sizes) > 0
}

// CartLine is one (product, size, quantity) entry in a cart
type CartLine struct {
	Product      Product `json:"product"`
	SelectedSize string  `json:"selected_size,omitempty"`
	Quantity     int     `json:"quantity"`
}

// LineTotal returns price * quantity for the line
func (l CartLine) LineTotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// OrderStatus is the lifecycle state of an order
type OrderStatus string

// Order statuses
const (
	OrderStatusReceived          OrderStatus = "order-received"
	OrderStatusInProduction      OrderStatus = "in-production"
	OrderStatusQualityCheck      OrderStatus = "quality-check"
	OrderStatusPreparingShipment OrderStatus = "preparing-shipment"
	OrderStatusShipped           OrderStatus = "shipped"
	OrderStatusDelivered         OrderStatus = "delivered"
	OrderStatusOnHold            OrderStatus = "on-hold"
)

// StatusConfig holds display metadata for a status
type StatusConfig struct {
	Label       string `json:"label"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	BgColor     string `json:"bg_color"`
	BorderColor string `json:"border_color"`
}

// OrderItem is a snapshot of a purchased product; it does not track the catalog
type OrderItem struct {
	ProductID     string          `db:"product_id" json:"product_id"`
	ProductName   string          `db:"product_name" json:"product_name"`
	Quantity      int             `db:"quantity" json:"quantity"`
	Price         decimal.Decimal `db:"price" json:"price"`
	Size          string          `db:"size" json:"size,omitempty"`
	Customization string          `db:"customization" json:"customization,omitempty"`
}

// TrackingInfo describes one carrier shipment
type TrackingInfo struct {
	Carrier           string    `db:"carrier" json:"carrier"`
	TrackingNumber    string    `db:"tracking_number" json:"tracking_number"`
	URL               string    `db:"url" json:"url"`
	LastUpdate        string    `db:"last_update" json:"last_update"`
	EstimatedDelivery time.Time `db:"estimated_delivery" json:"estimated_delivery"`
}

// StatusUpdate is one entry of an order's status history
type StatusUpdate struct {
	Status    OrderStatus `db:"status" json:"status"`
	Timestamp time.Time   `db:"timestamp" json:"timestamp"`
	Note      string      `db:"note" json:"note,omitempty"`
}

// ShippingAddress is where an order is delivered
type ShippingAddress struct {
	Name    string `db:"ship_name" json:"name"`
	Company string `db:"ship_company" json:"company,omitempty"`
	Street  string `db:"ship_street" json:"street"`
	City    string `db:"ship_city" json:"city"`
	State   string `db:"ship_state" json:"state"`
	Zip     string `db:"ship_zip" json:"zip"`
	Phone   string `db:"ship_phone" json:"phone"`
}

// Order represents a customer order
type Order struct {
	ID                string          `json:"id"`
	OrderNumber       string          `json:"order_number"`
	CustomerName      string          `json:"customer_name"`
	CustomerEmail     string          `json:"customer_email"`
	PlacedDate        time.Time       `json:"placed_date"`
	Status            OrderStatus     `json:"status"`
	Items             []OrderItem     `json:"items"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	Tax               decimal.Decimal `json:"tax"`
	Shipping          decimal.Decimal `json:"shipping"`
	Total             decimal.Decimal `json:"total"`
	EstimatedDelivery *time.Time      `json:"estimated_delivery"`
	Tracking          []TrackingInfo  `json:"tracking,omitempty"`
	ShippingAddress   ShippingAddress `json:"shipping_address"`
	StatusHistory     []StatusUpdate  `json:"status_history"`
	Notes             string          `json:"notes,omitempty"`
}

// DeliveryKnown reports whether an estimated delivery date exists
func (o Order) DeliveryKnown() bool {
	return o.EstimatedDelivery != nil
}

// NotificationType classifies a notification for the bell icon
type NotificationType string

// Notification types
const (
	NotificationCompleted  NotificationType = "completed"
	NotificationInProgress NotificationType = "in_progress"
	NotificationOnHold     NotificationType = "on_hold"
	NotificationNew        NotificationType = "new"
)

// Notification is an entry in the customer's notification feed
type Notification struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Message     string           `json:"message"`
	Type        NotificationType `json:"type"`
	OrderNumber string           `json:"order_number,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	Read        bool             `json:"read"`
}

// Chat participants
const (
	SenderUser  = "user"
	SenderAgent = "agent"
)

// Chat message delivery states
const (
	MessageStatusSending = "sending"
	MessageStatusSent    = "sent"
	MessageStatusRead    = "read"
)

// ChatMessage is one line of a support chat transcript
type ChatMessage struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Sender    string    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
	Status    string    `json:"status,omitempty"`
}

// CallbackRequest is a scheduled support phone call
type CallbackRequest struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	TimeSlot    string    `json:"time_slot"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
