package api

import (
	"net/http"

	"signage-portal/internal/models"
	"signage-portal/internal/notify"

	"github.com/gin-gonic/gin"
)

type notificationView struct {
	models.Notification
	Time string `json:"time"`
}

// listNotifications returns the bell feed, newest first
func (h *Handler) listNotifications(c *gin.Context) {
	now := h.now()
	list := h.notifications.List()

	out := make([]notificationView, 0, len(list))
	for _, n := range list {
		out = append(out, notificationView{Notification: n, Time: notify.TimeAgo(n, now)})
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": out,
		"unread":        h.notifications.UnreadCount(),
	})
}

func (h *Handler) markNotificationRead(c *gin.Context) {
	if !h.notifications.MarkRead(c.Param("id")) {
		respondError(c, http.StatusNotFound, "Notification not found", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": h.notifications.UnreadCount()})
}

func (h *Handler) markAllNotificationsRead(c *gin.Context) {
	h.notifications.MarkAllRead()
	c.JSON(http.StatusOK, gin.H{"unread": 0})
}

func (h *Handler) clearNotifications(c *gin.Context) {
	h.notifications.ClearAll()
	c.Status(http.StatusNoContent)
}
