package status

import (
	"errors"
	"fmt"

	"signage-portal/internal/models"
)

// ErrUnknownStatus is returned by Parse for values outside the enum
var ErrUnknownStatus = errors.New("unknown order status")

// pipeline is the linear production sequence. On-hold is deliberately absent.
var pipeline = []models.OrderStatus{
	models.OrderStatusReceived,
	models.OrderStatusInProduction,
	models.OrderStatusQualityCheck,
	models.OrderStatusPreparingShipment,
	models.OrderStatusShipped,
	models.OrderStatusDelivered,
}

var configs = map[models.OrderStatus]models.StatusConfig{
	models.OrderStatusReceived: {
		Label:       "Order Received",
		Description: "Your order has been received and is being processed",
		Icon:        "📥",
		Color:       "text-blue-700",
		BgColor:     "bg-blue-50",
		BorderColor: "border-blue-200",
	},
	models.OrderStatusInProduction: {
		Label:       "In Production",
		Description: "Your custom signs are being manufactured",
		Icon:        "🏭",
		Color:       "text-orange-700",
		BgColor:     "bg-orange-50",
		BorderColor: "border-orange-200",
	},
	models.OrderStatusQualityCheck: {
		Label:       "Quality Check",
		Description: "Ensuring your products meet our high standards",
		Icon:        "🔍",
		Color:       "text-purple-700",
		BgColor:     "bg-purple-50",
		BorderColor: "border-purple-200",
	},
	models.OrderStatusPreparingShipment: {
		Label:       "Preparing Shipment",
		Description: "Your order is being packaged for delivery",
		Icon:        "📦",
		Color:       "text-yellow-700",
		BgColor:     "bg-yellow-50",
		BorderColor: "border-yellow-200",
	},
	models.OrderStatusShipped: {
		Label:       "Shipped",
		Description: "Your order is on its way",
		Icon:        "🚚",
		Color:       "text-green-700",
		BgColor:     "bg-green-50",
		BorderColor: "border-green-200",
	},
	models.OrderStatusDelivered: {
		Label:       "Delivered",
		Description: "Your order has been successfully delivered",
		Icon:        "✅",
		Color:       "text-emerald-700",
		BgColor:     "bg-emerald-50",
		BorderColor: "border-emerald-200",
	},
	models.OrderStatusOnHold: {
		Label:       "On Hold",
		Description: "Your order is temporarily on hold",
		Icon:        "⏸️",
		Color:       "text-red-700",
		BgColor:     "bg-red-50",
		BorderColor: "border-red-200",
	},
}

// All returns every status: the pipeline in order, then on-hold
func All() []models.OrderStatus {
	all := make([]models.OrderStatus, 0, len(pipeline)+1)
	all = append(all, pipeline...)
	return append(all, models.OrderStatusOnHold)
}

// Pipeline returns the ordered non-hold states
func Pipeline() []models.OrderStatus {
	out := make([]models.OrderStatus, len(pipeline))
	copy(out, pipeline)
	return out
}

// Valid reports whether s is one of the seven statuses
func Valid(s models.OrderStatus) bool {
	_, ok := configs[s]
	return ok
}

// Parse converts a raw string into a status
func Parse(raw string) (models.OrderStatus, error) {
	s := models.OrderStatus(raw)
	if !Valid(s) {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
	}
	return s, nil
}

// Config returns the display metadata for s. Every valid status has an entry;
// an invalid one yields the zero value.
func Config(s models.OrderStatus) models.StatusConfig {
	return configs[s]
}

// Index returns the position of s in the pipeline. On-hold and unknown
// values report false.
func Index(s models.OrderStatus) (int, bool) {
	for i, p := range pipeline {
		if p == s {
			return i, true
		}
	}
	return -1, false
}

// SortRank orders statuses for listing: pipeline order, on-hold last.
func SortRank(s models.OrderStatus) int {
	if i, ok := Index(s); ok {
		return i
	}
	return len(pipeline)
}

// Progress returns how far along the pipeline the order is, as a percentage.
// It is (position+1)/len(pipeline)*100, a display heuristic rather than a
// schedule estimate. On-hold orders have no progress and report false.
func Progress(order models.Order) (float64, bool) {
	return ProgressOf(order.Status)
}

// ProgressOf is Progress for a bare status value
func ProgressOf(s models.OrderStatus) (float64, bool) {
	i, ok := Index(s)
	if !ok {
		return 0, false
	}
	return float64(i+1) / float64(len(pipeline)) * 100, true
}
