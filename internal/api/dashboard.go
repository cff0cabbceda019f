package api

import (
	"net/http"

	"signage-portal/internal/catalog"
	"signage-portal/internal/orders"

	"github.com/gin-gonic/gin"
)

// dashboard returns the landing page: featured products, recent orders and counters
func (h *Handler) dashboard(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"featured":      productViews(h.catalog.Featured(catalog.DefaultFeatured)),
		"recent_orders": orderViews(h.orders.RecentOrders(orders.DefaultRecentLimit)),
		"stats":         h.orders.Stats(),
	})
}
