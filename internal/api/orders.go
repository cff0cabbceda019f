package api

import (
	"net/http"
	"strconv"
	"time"

	"signage-portal/internal/format"
	"signage-portal/internal/models"
	"signage-portal/internal/orders"
	"signage-portal/internal/status"
	"signage-portal/internal/util"

	"github.com/gin-gonic/gin"
)

type orderView struct {
	models.Order
	StatusConfig           models.StatusConfig `json:"status_config"`
	Progress               *float64            `json:"progress"`
	TotalFormatted         string              `json:"total_formatted"`
	PlacedDateFormatted    string              `json:"placed_date_formatted"`
	EstimatedDeliveryLabel string              `json:"estimated_delivery_label"`
}

type timelineStep struct {
	Status    models.OrderStatus `json:"status"`
	Label     string             `json:"label"`
	Icon      string             `json:"icon"`
	Completed bool               `json:"completed"`
	Current   bool               `json:"current"`
	Timestamp *time.Time         `json:"timestamp,omitempty"`
	Note      string             `json:"note,omitempty"`
}

type orderDetail struct {
	orderView
	DaysUntilDelivery *int           `json:"days_until_delivery"`
	Timeline          []timelineStep `json:"timeline"`
}

func newOrderView(o models.Order) orderView {
	v := orderView{
		Order:                  o,
		StatusConfig:           status.Config(o.Status),
		TotalFormatted:         format.Currency(o.Total),
		PlacedDateFormatted:    format.Date(o.PlacedDate),
		EstimatedDeliveryLabel: format.OptionalDate(o.EstimatedDelivery),
	}
	if p, ok := status.Progress(o); ok {
		v.Progress = &p
	}
	return v
}

func orderViews(list []models.Order) []orderView {
	out := make([]orderView, 0, len(list))
	for _, o := range list {
		out = append(out, newOrderView(o))
	}
	return out
}

// timeline lays the pipeline out with the order's history stamped on it
func timeline(o models.Order) []timelineStep {
	reached := make(map[models.OrderStatus]models.StatusUpdate, len(o.StatusHistory))
	for _, h := range o.StatusHistory {
		reached[h.Status] = h
	}

	steps := make([]timelineStep, 0, len(status.Pipeline()))
	for _, s := range status.Pipeline() {
		cfg := status.Config(s)
		step := timelineStep{
			Status:  s,
			Label:   cfg.Label,
			Icon:    cfg.Icon,
			Current: s == o.Status,
		}
		if h, ok := reached[s]; ok {
			ts := h.Timestamp
			step.Completed = true
			step.Timestamp = &ts
			step.Note = h.Note
		}
		steps = append(steps, step)
	}
	return steps
}

// listOrders handles the project list: ?q= search, ?status= filter, ?sort=date|status|total
func (h *Handler) listOrders(c *gin.Context) {
	sortBy, err := orders.ParseSort(c.Query("sort"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid sort", err)
		return
	}

	filter := orders.Filter{Search: c.Query("q"), SortBy: sortBy}
	if raw := c.Query("status"); raw != "" && raw != "all" {
		st, err := status.Parse(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid status", err)
			return
		}
		filter.Status = st
	}

	list := h.orders.Query(filter)
	c.JSON(http.StatusOK, gin.H{
		"orders": orderViews(list),
		"count":  len(list),
	})
}

// recentOrders returns the newest orders; ?limit= defaults to orders.DefaultRecentLimit
func (h *Handler) recentOrders(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		limit = n
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orderViews(h.orders.RecentOrders(limit)),
	})
}

// orderStats returns dashboard and project-page counters
func (h *Handler) orderStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"dashboard": h.orders.Stats(),
		"projects":  h.orders.ProjectStats(),
	})
}

// getOrder handles get order by ID
func (h *Handler) getOrder(c *gin.Context) {
	order, ok := h.orders.OrderByID(c.Param("id"))
	if !ok {
		util.LookupsTotal.WithLabelValues("order", "miss").Inc()
		respondError(c, http.StatusNotFound, "Order not found", nil)
		return
	}
	util.LookupsTotal.WithLabelValues("order", "hit").Inc()

	detail := orderDetail{
		orderView: newOrderView(order),
		Timeline:  timeline(order),
	}
	if days, ok := orders.DaysUntilDelivery(order, h.now()); ok {
		detail.DaysUntilDelivery = &days
	}

	c.JSON(http.StatusOK, detail)
}

type statusView struct {
	Status        models.OrderStatus  `json:"status"`
	Config        models.StatusConfig `json:"config"`
	PipelineIndex *int                `json:"pipeline_index"`
	Progress      *float64            `json:"progress"`
}

// listStatuses returns every status with its display metadata
func (h *Handler) listStatuses(c *gin.Context) {
	all := status.All()
	out := make([]statusView, 0, len(all))
	for _, s := range all {
		v := statusView{Status: s, Config: status.Config(s)}
		if i, ok := status.Index(s); ok {
			v.PipelineIndex = &i
		}
		if p, ok := status.ProgressOf(s); ok {
			v.Progress = &p
		}
		out = append(out, v)
	}

	c.JSON(http.StatusOK, gin.H{"statuses": out})
}
