package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"signage-portal/internal/catalog"
	"signage-portal/internal/models"
	"signage-portal/internal/notify"
	"signage-portal/internal/orders"
	"signage-portal/internal/service"
	"signage-portal/internal/session"
	"signage-portal/internal/support"
	"signage-portal/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// CallbackPublisher announces booked support callbacks
type CallbackPublisher interface {
	PublishCallbackScheduled(ctx context.Context, event *models.CallbackScheduledEvent) error
}

// ReadyCheck reports whether a dependency can serve requests
type ReadyCheck func(ctx context.Context) error

// Deps are the collaborators the HTTP layer reads and mutates
type Deps struct {
	Catalog       *catalog.Catalog
	Orders        *orders.Repository
	Sessions      *session.Manager
	Notifications *notify.Center
	Scheduler     *support.Scheduler
	Checkout      *service.CheckoutService
	Callbacks     CallbackPublisher
	ReadyChecks   map[string]ReadyCheck
}

// Handler contains HTTP handlers
type Handler struct {
	catalog       *catalog.Catalog
	orders        *orders.Repository
	sessions      *session.Manager
	notifications *notify.Center
	scheduler     *support.Scheduler
	checkout      *service.CheckoutService
	callbacks     CallbackPublisher
	readyChecks   map[string]ReadyCheck
	now           func() time.Time
	logger        *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(d Deps) *Handler {
	return &Handler{
		catalog:       d.Catalog,
		orders:        d.Orders,
		sessions:      d.Sessions,
		notifications: d.Notifications,
		scheduler:     d.Scheduler,
		checkout:      d.Checkout,
		callbacks:     d.Callbacks,
		readyChecks:   d.ReadyChecks,
		now:           time.Now,
		logger:        util.GetLogger().Named("api"),
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(h.requestLogger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/dashboard", h.dashboard)

		v1.GET("/products", h.listProducts)
		v1.GET("/products/:id", h.getProduct)
		v1.GET("/categories", h.listCategories)

		v1.GET("/orders", h.listOrders)
		v1.GET("/orders/recent", h.recentOrders)
		v1.GET("/orders/stats", h.orderStats)
		v1.GET("/orders/:id", h.getOrder)
		v1.GET("/statuses", h.listStatuses)

		v1.GET("/notifications", h.listNotifications)
		v1.POST("/notifications/read-all", h.markAllNotificationsRead)
		v1.POST("/notifications/:id/read", h.markNotificationRead)
		v1.DELETE("/notifications", h.clearNotifications)

		v1.GET("/support/calendar", h.callbackCalendar)
		v1.POST("/support/callbacks", h.bookCallback)

		v1.DELETE("/session", h.endSession)

		withSession := v1.Group("", h.sessionMiddleware())
		{
			withSession.GET("/cart", h.getCart)
			withSession.POST("/cart/items", h.addCartItem)
			withSession.PATCH("/cart/items/:productId", h.updateCartItem)
			withSession.DELETE("/cart/items/:productId", h.removeCartItem)
			withSession.DELETE("/cart", h.clearCart)
			withSession.POST("/cart/checkout", h.checkoutCart)

			withSession.GET("/support/chat", h.getChat)
			withSession.POST("/support/chat", h.sendChat)
		}
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   h.now().Unix(),
	})
}

// readinessCheck reports ready once every configured dependency answers
func (h *Handler) readinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	failed := gin.H{}
	for name, check := range h.readyChecks {
		if err := check(ctx); err != nil {
			failed[name] = err.Error()
		}
	}

	if len(failed) > 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "not ready",
			"details": failed,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ready",
		"products": h.catalog.Len(),
		"orders":   h.orders.Len(),
		"time":     h.now().Unix(),
	})
}

func respondError(c *gin.Context, code int, message string, err error) {
	body := gin.H{"error": message}
	if err != nil {
		body["details"] = err.Error()
	}
	c.AbortWithStatusJSON(code, body)
}

// sessionFailure answers for errors raised while working on a session
func (h *Handler) sessionFailure(c *gin.Context, err error) {
	if errors.Is(err, session.ErrSessionNotFound) {
		respondError(c, http.StatusNotFound, "Session expired", err)
		return
	}
	h.logger.Error("Session request failed", zap.Error(err))
	respondError(c, http.StatusInternalServerError, "Internal error", err)
}

// requestLogger logs each request through zap
func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		h.logger.Debug("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			path,
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			path,
			status,
		).Inc()
	}
}
