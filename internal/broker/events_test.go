package broker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"signage-portal/internal/models"
	"signage-portal/internal/util"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recordingWriter struct {
	keys   []string
	events []interface{}
	err    error
}

func (w *recordingWriter) PublishEvent(_ context.Context, key string, event interface{}) error {
	if w.err != nil {
		return w.err
	}
	w.keys = append(w.keys, key)
	w.events = append(w.events, event)
	return nil
}

func checkoutEvent() *models.CheckoutRequestedEvent {
	return &models.CheckoutRequestedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   "evt-1",
			EventType: models.EventTypeCheckoutRequested,
			Timestamp: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
		},
		CheckoutID: "chk-1",
		SessionID:  "sess-1",
		TotalItems: 3,
		Subtotal:   decimal.RequireFromString("250.00"),
		Items: []models.CartItemData{
			{ProductID: "prod-005", Quantity: 2, UnitPrice: decimal.NewFromInt(100)},
			{ProductID: "prod-003", Size: "24x36", Quantity: 1, UnitPrice: decimal.NewFromInt(50)},
		},
	}
}

func message(t *testing.T, event interface{}) kafka.Message {
	t.Helper()
	msg, err := encodeMessage("k", event)
	require.NoError(t, err)
	return msg
}

func TestPublisherKeysEvents(t *testing.T) {
	w := &recordingWriter{}
	p := NewEventPublisher(w)

	require.NoError(t, p.PublishCheckoutRequested(context.Background(), checkoutEvent()))
	require.NoError(t, p.PublishCallbackScheduled(context.Background(), &models.CallbackScheduledEvent{
		BaseEvent:  models.BaseEvent{EventType: models.EventTypeCallbackScheduled},
		CallbackID: "cb-9",
	}))

	assert.Equal(t, []string{"session-sess-1", "callback-cb-9"}, w.keys)
}

func TestPublisherReturnsWriterError(t *testing.T) {
	boom := errors.New("broker down")
	p := NewEventPublisher(&recordingWriter{err: boom})

	assert.ErrorIs(t, p.PublishCheckoutRequested(context.Background(), checkoutEvent()), boom)
}

func TestHandleMessageRoutesCheckout(t *testing.T) {
	h := NewEventHandler()

	var got *models.CheckoutRequestedEvent
	h.OnCheckoutRequested(func(_ context.Context, e *models.CheckoutRequestedEvent) error {
		got = e
		return nil
	})
	h.OnCallbackScheduled(func(context.Context, *models.CallbackScheduledEvent) error {
		t.Fatal("callback handler must not run")
		return nil
	})

	require.NoError(t, h.HandleMessage(context.Background(), message(t, checkoutEvent())))
	require.NotNil(t, got)
	assert.Equal(t, "chk-1", got.CheckoutID)
	assert.True(t, decimal.NewFromInt(250).Equal(got.Subtotal))
	require.Len(t, got.Items, 2)
	assert.Equal(t, "24x36", got.Items[1].Size)
}

func TestHandleMessageRoutesCallback(t *testing.T) {
	h := NewEventHandler()

	var got *models.CallbackScheduledEvent
	h.OnCallbackScheduled(func(_ context.Context, e *models.CallbackScheduledEvent) error {
		got = e
		return nil
	})

	event := &models.CallbackScheduledEvent{
		BaseEvent:  models.BaseEvent{EventID: "evt-2", EventType: models.EventTypeCallbackScheduled},
		CallbackID: "cb-1",
		Name:       "Lisa Wong",
		TimeSlot:   "10:30 AM",
	}
	require.NoError(t, h.HandleMessage(context.Background(), message(t, event)))
	require.NotNil(t, got)
	assert.Equal(t, "Lisa Wong", got.Name)
}

func TestHandleMessagePropagatesHandlerError(t *testing.T) {
	h := NewEventHandler()
	boom := errors.New("boom")
	h.OnCheckoutRequested(func(context.Context, *models.CheckoutRequestedEvent) error { return boom })

	assert.ErrorIs(t, h.HandleMessage(context.Background(), message(t, checkoutEvent())), boom)
}

func TestHandleMessageRejectsGarbage(t *testing.T) {
	h := NewEventHandler()
	err := h.HandleMessage(context.Background(), kafka.Message{Value: []byte("{not json")})
	assert.ErrorContains(t, err, "unmarshal base event")
}

func TestHandleMessageLogsUnknownType(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	prev := util.GetLogger()
	util.SetLogger(zap.New(core))
	t.Cleanup(func() { util.SetLogger(prev) })

	h := NewEventHandler()
	raw, err := json.Marshal(models.BaseEvent{EventID: "evt-3", EventType: "ORDER_SHREDDED"})
	require.NoError(t, err)

	require.NoError(t, h.HandleMessage(context.Background(), kafka.Message{Value: raw}))

	warnings := logs.FilterMessage("Unhandled event type").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, "ORDER_SHREDDED", warnings[0].ContextMap()["event_type"])
}

func TestLocalPublisherLoopsBack(t *testing.T) {
	h := NewEventHandler()

	var checkouts, callbacks int
	h.OnCheckoutRequested(func(context.Context, *models.CheckoutRequestedEvent) error {
		checkouts++
		return nil
	})
	h.OnCallbackScheduled(func(context.Context, *models.CallbackScheduledEvent) error {
		callbacks++
		return nil
	})

	p := NewLocalPublisher(h)
	require.NoError(t, p.PublishCheckoutRequested(context.Background(), checkoutEvent()))
	require.NoError(t, p.PublishCallbackScheduled(context.Background(), &models.CallbackScheduledEvent{
		BaseEvent: models.BaseEvent{EventType: models.EventTypeCallbackScheduled},
	}))

	assert.Equal(t, 1, checkouts)
	assert.Equal(t, 1, callbacks)
}
