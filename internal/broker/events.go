package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"signage-portal/internal/models"
	"signage-portal/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventWriter is the transport under EventPublisher; *Producer implements it
type EventWriter interface {
	PublishEvent(ctx context.Context, key string, event interface{}) error
}

// EventPublisher handles publishing portal events
type EventPublisher struct {
	writer EventWriter
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(writer EventWriter) *EventPublisher {
	return &EventPublisher{writer: writer}
}

// PublishCheckoutRequested publishes CheckoutRequested event
func (ep *EventPublisher) PublishCheckoutRequested(ctx context.Context, event *models.CheckoutRequestedEvent) error {
	key := fmt.Sprintf("session-%s", event.SessionID)
	return ep.publish(ctx, key, event.EventType, event)
}

// PublishCallbackScheduled publishes CallbackScheduled event
func (ep *EventPublisher) PublishCallbackScheduled(ctx context.Context, event *models.CallbackScheduledEvent) error {
	key := fmt.Sprintf("callback-%s", event.CallbackID)
	return ep.publish(ctx, key, event.EventType, event)
}

func (ep *EventPublisher) publish(ctx context.Context, key, eventType string, event interface{}) error {
	ctx, span := util.StartSpan(ctx, "EventPublisher.Publish")
	defer span.End()

	if err := ep.writer.PublishEvent(ctx, key, event); err != nil {
		util.EventsPublishedTotal.WithLabelValues(eventType, "error").Inc()
		span.RecordError(err)
		return err
	}
	util.EventsPublishedTotal.WithLabelValues(eventType, "ok").Inc()
	return nil
}

// LocalPublisher delivers events straight to an in-process EventHandler;
// used when Kafka is not configured
type LocalPublisher struct {
	handler *EventHandler
}

// NewLocalPublisher creates a publisher that loops events back into handler
func NewLocalPublisher(handler *EventHandler) *LocalPublisher {
	return &LocalPublisher{handler: handler}
}

// PublishCheckoutRequested hands the event to the local handler
func (lp *LocalPublisher) PublishCheckoutRequested(ctx context.Context, event *models.CheckoutRequestedEvent) error {
	return lp.deliver(ctx, event.EventType, event)
}

// PublishCallbackScheduled hands the event to the local handler
func (lp *LocalPublisher) PublishCallbackScheduled(ctx context.Context, event *models.CallbackScheduledEvent) error {
	return lp.deliver(ctx, event.EventType, event)
}

func (lp *LocalPublisher) deliver(ctx context.Context, eventType string, event interface{}) error {
	msg, err := encodeMessage(eventType, event)
	if err != nil {
		return err
	}
	util.EventsPublishedTotal.WithLabelValues(eventType, "local").Inc()
	return lp.handler.HandleMessage(ctx, msg)
}

// EventHandler handles incoming events
type EventHandler struct {
	onCheckoutRequested func(context.Context, *models.CheckoutRequestedEvent) error
	onCallbackScheduled func(context.Context, *models.CallbackScheduledEvent) error
	logger              *zap.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{logger: util.GetLogger().Named("event-handler")}
}

// OnCheckoutRequested registers a handler for CheckoutRequested events
func (eh *EventHandler) OnCheckoutRequested(handler func(context.Context, *models.CheckoutRequestedEvent) error) {
	eh.onCheckoutRequested = handler
}

// OnCallbackScheduled registers a handler for CallbackScheduled events
func (eh *EventHandler) OnCallbackScheduled(handler func(context.Context, *models.CallbackScheduledEvent) error) {
	eh.onCallbackScheduled = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	eh.logger.Debug("Handling event",
		zap.String("event_type", baseEvent.EventType),
		zap.String("event_id", baseEvent.EventID),
	)

	switch baseEvent.EventType {
	case models.EventTypeCheckoutRequested:
		if eh.onCheckoutRequested != nil {
			var event models.CheckoutRequestedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal CheckoutRequested event: %w", err)
			}
			util.EventsConsumedTotal.WithLabelValues(baseEvent.EventType).Inc()
			return eh.onCheckoutRequested(ctx, &event)
		}

	case models.EventTypeCallbackScheduled:
		if eh.onCallbackScheduled != nil {
			var event models.CallbackScheduledEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal CallbackScheduled event: %w", err)
			}
			util.EventsConsumedTotal.WithLabelValues(baseEvent.EventType).Inc()
			return eh.onCallbackScheduled(ctx, &event)
		}

	default:
		eh.logger.Warn("Unhandled event type", zap.String("event_type", baseEvent.EventType))
	}

	return nil
}
