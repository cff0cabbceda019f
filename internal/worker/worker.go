package worker

import (
	"context"
	"fmt"

	"signage-portal/internal/broker"
	"signage-portal/internal/format"
	"signage-portal/internal/models"
	"signage-portal/internal/notify"
	"signage-portal/internal/util"

	"go.uber.org/zap"
)

// NotificationWorker turns portal events into notification feed entries
type NotificationWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	center       *notify.Center
	logger       *zap.Logger
}

// NewNotificationWorker creates a worker feeding center. consumer may be nil
// when events arrive in-process through Handler.
func NewNotificationWorker(consumer *broker.Consumer, center *notify.Center) *NotificationWorker {
	w := &NotificationWorker{
		consumer:     consumer,
		eventHandler: broker.NewEventHandler(),
		center:       center,
		logger:       util.GetLogger().Named("notification-worker"),
	}

	w.eventHandler.OnCheckoutRequested(w.HandleCheckoutRequested)
	w.eventHandler.OnCallbackScheduled(w.HandleCallbackScheduled)

	return w
}

// Handler returns the event router, for wiring a broker.LocalPublisher
func (w *NotificationWorker) Handler() *broker.EventHandler {
	return w.eventHandler
}

// Start consumes until ctx is cancelled
func (w *NotificationWorker) Start(ctx context.Context) error {
	if w.consumer == nil {
		return fmt.Errorf("notification worker has no consumer")
	}
	w.logger.Info("Starting notification worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *NotificationWorker) Stop() error {
	w.logger.Info("Stopping notification worker")
	if w.consumer == nil {
		return nil
	}
	return w.consumer.Close()
}

// HandleCheckoutRequested posts a notification for a checkout request
func (w *NotificationWorker) HandleCheckoutRequested(_ context.Context, event *models.CheckoutRequestedEvent) error {
	noun := "items"
	if event.TotalItems == 1 {
		noun = "item"
	}

	n := w.center.Add(models.Notification{
		Title:     "Checkout Requested",
		Message:   fmt.Sprintf("We received your checkout request for %d %s totaling %s.", event.TotalItems, noun, format.Currency(event.Subtotal)),
		Type:      models.NotificationNew,
		CreatedAt: event.Timestamp,
	})

	w.logger.Info("Notification added",
		zap.String("notification_id", n.ID),
		zap.String("checkout_id", event.CheckoutID))
	return nil
}

// HandleCallbackScheduled posts a notification confirming a support callback
func (w *NotificationWorker) HandleCallbackScheduled(_ context.Context, event *models.CallbackScheduledEvent) error {
	n := w.center.Add(models.Notification{
		Title:     "Callback Scheduled",
		Message:   fmt.Sprintf("A support specialist will call you on %s at %s.", format.Date(event.Date), event.TimeSlot),
		Type:      models.NotificationNew,
		CreatedAt: event.Timestamp,
	})

	w.logger.Info("Notification added",
		zap.String("notification_id", n.ID),
		zap.String("callback_id", event.CallbackID))
	return nil
}
