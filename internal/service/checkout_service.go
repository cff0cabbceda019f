package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"signage-portal/internal/cart"
	"signage-portal/internal/format"
	"signage-portal/internal/models"
	"signage-portal/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Checkout errors
var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrDuplicateCheckout = errors.New("checkout already requested")
)

// CalculatedAtCheckout stands in for amounts the portal does not compute
const CalculatedAtCheckout = "Calculated at checkout"

// IdempotencyGuard claims request keys; *redisclient.Client and MemoryGuard implement it
type IdempotencyGuard interface {
	ClaimIdempotencyKey(ctx context.Context, key string, ttl time.Duration) (bool, error)
	ReleaseIdempotencyKey(ctx context.Context, key string) error
}

// EventPublisher publishes checkout events; *broker.EventPublisher implements it
type EventPublisher interface {
	PublishCheckoutRequested(ctx context.Context, event *models.CheckoutRequestedEvent) error
}

// CheckoutService handles the checkout stub: it summarizes a cart and
// announces the request. No payment is taken and the cart is left as is.
type CheckoutService struct {
	guard          IdempotencyGuard
	eventPublisher EventPublisher
	ttl            time.Duration
	logger         *zap.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(guard IdempotencyGuard, eventPublisher EventPublisher, ttl time.Duration) *CheckoutService {
	return &CheckoutService{
		guard:          guard,
		eventPublisher: eventPublisher,
		ttl:            ttl,
		logger:         util.GetLogger(),
	}
}

// CheckoutRequest identifies who is checking out
type CheckoutRequest struct {
	SessionID      string `json:"-"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

// SummaryLine is one cart line as shown on the order summary
type SummaryLine struct {
	ProductID          string          `json:"product_id"`
	Name               string          `json:"name"`
	Size               string          `json:"size,omitempty"`
	Quantity           int             `json:"quantity"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
	LineTotal          decimal.Decimal `json:"line_total"`
	LineTotalFormatted string          `json:"line_total_formatted"`
}

// Summary is the order summary panel of the cart page
type Summary struct {
	Lines             []SummaryLine   `json:"lines"`
	TotalItems        int             `json:"total_items"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	SubtotalFormatted string          `json:"subtotal_formatted"`
	Shipping          string          `json:"shipping"`
	Tax               string          `json:"tax"`
	TotalFormatted    string          `json:"total_formatted"`
}

// CheckoutResponse is returned for an accepted checkout request
type CheckoutResponse struct {
	CheckoutID string  `json:"checkout_id"`
	Status     string  `json:"status"`
	Message    string  `json:"message"`
	Summary    Summary `json:"summary"`
}

// Summarize builds the order summary for c
func Summarize(c *cart.Cart) Summary {
	lines := c.Lines()
	out := Summary{
		Lines:      make([]SummaryLine, 0, len(lines)),
		TotalItems: c.TotalItems(),
		Subtotal:   c.TotalPrice(),
		Shipping:   CalculatedAtCheckout,
		Tax:        CalculatedAtCheckout,
	}
	for _, l := range lines {
		total := l.LineTotal()
		out.Lines = append(out.Lines, SummaryLine{
			ProductID:          l.Product.ID,
			Name:               l.Product.Name,
			Size:               l.SelectedSize,
			Quantity:           l.Quantity,
			UnitPrice:          l.Product.Price,
			LineTotal:          total,
			LineTotalFormatted: format.Currency(total),
		})
	}
	out.SubtotalFormatted = format.Currency(out.Subtotal)
	out.TotalFormatted = out.SubtotalFormatted
	return out
}

// Checkout accepts a checkout request for c. The caller must hold the
// session lock for the duration of the call.
func (s *CheckoutService) Checkout(ctx context.Context, req CheckoutRequest, c *cart.Cart) (*CheckoutResponse, error) {
	ctx, span := util.StartSpan(ctx, "CheckoutService.Checkout")
	defer span.End()

	if c.IsEmpty() {
		util.CheckoutRequestsTotal.WithLabelValues("empty_cart").Inc()
		return nil, ErrEmptyCart
	}

	if req.IdempotencyKey == "" {
		req.IdempotencyKey = uuid.New().String()
	}
	key := req.SessionID + ":" + req.IdempotencyKey

	claimed, err := s.guard.ClaimIdempotencyKey(ctx, key, s.ttl)
	if err != nil {
		util.CheckoutRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to check idempotency: %w", err)
	}
	if !claimed {
		s.logger.Info("Duplicate checkout request detected",
			zap.String("session_id", req.SessionID),
			zap.String("idempotency_key", req.IdempotencyKey))
		util.CheckoutRequestsTotal.WithLabelValues("duplicate").Inc()
		return nil, ErrDuplicateCheckout
	}

	summary := Summarize(c)
	checkoutID := uuid.New().String()

	items := make([]models.CartItemData, 0, len(summary.Lines))
	for _, l := range summary.Lines {
		items = append(items, models.CartItemData{
			ProductID: l.ProductID,
			Size:      l.Size,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}

	event := &models.CheckoutRequestedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeCheckoutRequested,
			Timestamp: time.Now(),
		},
		CheckoutID: checkoutID,
		SessionID:  req.SessionID,
		TotalItems: summary.TotalItems,
		Subtotal:   summary.Subtotal,
		Items:      items,
	}

	if err := s.eventPublisher.PublishCheckoutRequested(ctx, event); err != nil {
		s.logger.Error("Failed to publish CheckoutRequested event",
			zap.String("checkout_id", checkoutID),
			zap.Error(err))
		if relErr := s.guard.ReleaseIdempotencyKey(ctx, key); relErr != nil {
			s.logger.Warn("Failed to release idempotency key", zap.Error(relErr))
		}
		util.CheckoutRequestsTotal.WithLabelValues("error").Inc()
		span.RecordError(err)
		return nil, fmt.Errorf("failed to publish checkout event: %w", err)
	}

	subtotal, _ := summary.Subtotal.Float64()
	util.CheckoutValue.Observe(subtotal)
	util.CheckoutRequestsTotal.WithLabelValues("accepted").Inc()
	s.logger.Info("Checkout requested",
		zap.String("checkout_id", checkoutID),
		zap.String("session_id", req.SessionID),
		zap.Int("total_items", summary.TotalItems),
		zap.String("subtotal", summary.Subtotal.StringFixed(2)))

	return &CheckoutResponse{
		CheckoutID: checkoutID,
		Status:     "requested",
		Message:    "Checkout functionality would be implemented here!",
		Summary:    summary,
	}, nil
}

// MemoryGuard is an in-process IdempotencyGuard for running without Redis
type MemoryGuard struct {
	mu   sync.Mutex
	keys map[string]time.Time
	now  func() time.Time
}

// NewMemoryGuard creates an empty guard
func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{keys: make(map[string]time.Time), now: time.Now}
}

// ClaimIdempotencyKey claims key until ttl elapses
func (g *MemoryGuard) ClaimIdempotencyKey(_ context.Context, key string, ttl time.Duration) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	for k, exp := range g.keys {
		if !now.Before(exp) {
			delete(g.keys, k)
		}
	}
	if _, taken := g.keys[key]; taken {
		return false, nil
	}
	g.keys[key] = now.Add(ttl)
	return true, nil
}

// ReleaseIdempotencyKey forgets key
func (g *MemoryGuard) ReleaseIdempotencyKey(_ context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.keys, key)
	return nil
}
