package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types
const (
	EventTypeCheckoutRequested = "CHECKOUT_REQUESTED"
	EventTypeCallbackScheduled = "CALLBACK_SCHEDULED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// CheckoutRequestedEvent published when a session asks to check out its cart
type CheckoutRequestedEvent struct {
	BaseEvent
	CheckoutID string          `json:"checkout_id"`
	SessionID  string          `json:"session_id"`
	TotalItems int             `json:"total_items"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Items      []CartItemData  `json:"items"`
}

// CallbackScheduledEvent published when a support call is booked
type CallbackScheduledEvent struct {
	BaseEvent
	CallbackID string    `json:"callback_id"`
	Name       string    `json:"name"`
	Date       time.Time `json:"date"`
	TimeSlot   string    `json:"time_slot"`
}

// CartItemData represents a cart line in events
type CartItemData struct {
	ProductID string          `json:"product_id"`
	Size      string          `json:"size,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}
