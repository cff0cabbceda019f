package orders

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"signage-portal/internal/models"
	"signage-portal/internal/status"

	"golang.org/x/text/cases"
)

// SortBy selects the ordering of Query results
type SortBy string

// Sort orders
const (
	SortByDate   SortBy = "date"
	SortByStatus SortBy = "status"
	SortByTotal  SortBy = "total"
)

// ErrUnknownSort is returned by ParseSort for unsupported values
var ErrUnknownSort = errors.New("unknown sort order")

// ParseSort converts a raw value into a SortBy. Empty means date.
func ParseSort(raw string) (SortBy, error) {
	switch SortBy(raw) {
	case "":
		return SortByDate, nil
	case SortByDate, SortByStatus, SortByTotal:
		return SortBy(raw), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSort, raw)
}

// Filter narrows and orders the project list
type Filter struct {
	// Search matches order number, customer name or any item's product name,
	// ignoring case. Empty matches everything.
	Search string
	// Status keeps only orders in this status when set.
	Status models.OrderStatus
	SortBy SortBy
}

// Query returns the orders matching f, sorted by f.SortBy
func (r *Repository) Query(f Filter) []models.Order {
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(f.Search))

	out := make([]models.Order, 0, len(r.orders))
	for _, o := range r.orders {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if needle != "" && !matches(o, needle, fold) {
			continue
		}
		out = append(out, o)
	}

	switch f.SortBy {
	case SortByStatus:
		sort.SliceStable(out, func(i, j int) bool {
			return status.SortRank(out[i].Status) < status.SortRank(out[j].Status)
		})
	case SortByTotal:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Total.GreaterThan(out[j].Total)
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].PlacedDate.After(out[j].PlacedDate)
		})
	}

	return out
}

func matches(o models.Order, needle string, fold cases.Caser) bool {
	if strings.Contains(fold.String(o.OrderNumber), needle) ||
		strings.Contains(fold.String(o.CustomerName), needle) {
		return true
	}
	for _, it := range o.Items {
		if strings.Contains(fold.String(it.ProductName), needle) {
			return true
		}
	}
	return false
}

// DaysUntilDelivery returns the whole days, rounded up, from now until the
// estimated delivery. It is negative once the date has passed and reports
// false when no estimate exists.
func DaysUntilDelivery(o models.Order, now time.Time) (int, bool) {
	if o.EstimatedDelivery == nil {
		return 0, false
	}
	days := o.EstimatedDelivery.Sub(now).Hours() / 24
	return int(math.Ceil(days)), true
}

// History problems reported by CheckHistory
var (
	ErrHistoryEmpty     = errors.New("status history is empty")
	ErrHistoryOrder     = errors.New("status history is not in time order")
	ErrHistoryMismatch  = errors.New("last status history entry differs from order status")
	ErrHistoryBadStatus = errors.New("status history has an unknown status")
)

// CheckHistory verifies that the order's history is time-ordered and ends in
// the order's current status.
func CheckHistory(o models.Order) error {
	if len(o.StatusHistory) == 0 {
		return ErrHistoryEmpty
	}

	for i, h := range o.StatusHistory {
		if !status.Valid(h.Status) {
			return fmt.Errorf("%w: %q at %d", ErrHistoryBadStatus, h.Status, i)
		}
		if i > 0 && h.Timestamp.Before(o.StatusHistory[i-1].Timestamp) {
			return fmt.Errorf("%w: entry %d", ErrHistoryOrder, i)
		}
	}

	last := o.StatusHistory[len(o.StatusHistory)-1]
	if last.Status != o.Status {
		return fmt.Errorf("%w: history ends in %s, order is %s", ErrHistoryMismatch, last.Status, o.Status)
	}

	return nil
}

// LatestUpdate returns the newest status history entry
func LatestUpdate(o models.Order) (models.StatusUpdate, bool) {
	if len(o.StatusHistory) == 0 {
		return models.StatusUpdate{}, false
	}
	return o.StatusHistory[len(o.StatusHistory)-1], true
}
