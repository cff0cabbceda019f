package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CartOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_cart_operations_total",
		Help: "Total number of cart operations by kind",
	}, []string{"operation"})

	CartItemsAdded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portal_cart_items_added_total",
		Help: "Total units added to carts",
	})

	CheckoutRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_checkout_requests_total",
		Help: "Total number of checkout requests by outcome",
	}, []string{"result"})

	CheckoutValue = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "portal_checkout_value_dollars",
		Help:    "Cart subtotal at checkout request",
		Buckets: []float64{100, 500, 1000, 2500, 5000, 10000, 25000},
	})

	LookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_lookups_total",
		Help: "Total number of product and order lookups by result",
	}, []string{"kind", "result"})

	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "portal_active_sessions",
		Help: "Number of live browsing sessions",
	})

	SessionsExpiredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portal_sessions_expired_total",
		Help: "Total number of sessions removed for inactivity",
	})

	EventsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_events_published_total",
		Help: "Total number of portal events published",
	}, []string{"type", "result"})

	EventsConsumedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_events_consumed_total",
		Help: "Total number of portal events consumed",
	}, []string{"type"})

	SupportMessagesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portal_support_messages_total",
		Help: "Total number of support chat messages sent by customers",
	})

	CallbacksScheduledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portal_callbacks_scheduled_total",
		Help: "Total number of support callbacks booked",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
