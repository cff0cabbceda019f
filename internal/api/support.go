package api

import (
	"errors"
	"net/http"

	"signage-portal/internal/models"
	"signage-portal/internal/session"
	"signage-portal/internal/support"
	"signage-portal/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ChatRequest is the body of POST /support/chat
type ChatRequest struct {
	Text string `json:"text" binding:"required"`
}

// getChat returns the session's support transcript
func (h *Handler) getChat(c *gin.Context) {
	var messages []models.ChatMessage
	err := h.withSession(c, func(s *session.Session) error {
		messages = s.Chat.Messages()
		return nil
	})
	if err != nil {
		h.sessionFailure(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// sendChat posts a customer message and returns it with the agent's reply
func (h *Handler) sendChat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var (
		added []models.ChatMessage
		ok    bool
	)
	err := h.withSession(c, func(s *session.Session) error {
		added, ok = s.Chat.Send(req.Text)
		return nil
	})
	if err != nil {
		h.sessionFailure(c, err)
		return
	}
	if !ok {
		respondError(c, http.StatusBadRequest, "Message is empty", nil)
		return
	}

	util.SupportMessagesTotal.Inc()
	c.JSON(http.StatusOK, gin.H{"messages": added})
}

// callbackCalendar returns the bookable days of ?month=YYYY-MM (default: this month)
func (h *Handler) callbackCalendar(c *gin.Context) {
	now := h.now()
	month := now
	if raw := c.Query("month"); raw != "" {
		m, err := support.ParseMonth(raw, now.Location())
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid month", err)
			return
		}
		month = m
	}

	c.JSON(http.StatusOK, gin.H{
		"calendar":   support.Calendar(month, now),
		"time_slots": support.TimeSlots(),
	})
}

// bookCallback schedules a support phone call
func (h *Handler) bookCallback(c *gin.Context) {
	var req support.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	now := h.now()
	cb, err := h.scheduler.Book(req, now)
	switch {
	case err == nil:
	case errors.Is(err, support.ErrSlotUnavailable):
		respondError(c, http.StatusConflict, "Time slot unavailable", err)
		return
	case errors.Is(err, support.ErrDateUnavailable):
		respondError(c, http.StatusBadRequest, "Date unavailable", err)
		return
	case errors.Is(err, support.ErrMissingContact):
		respondError(c, http.StatusBadRequest, "Name and email are required", err)
		return
	default:
		respondError(c, http.StatusInternalServerError, "Failed to book callback", err)
		return
	}

	util.CallbacksScheduledTotal.Inc()
	h.logger.Info("Callback scheduled",
		zap.String("callback_id", cb.ID),
		zap.String("date", cb.Date.Format(support.DateLayout)),
		zap.String("time_slot", cb.TimeSlot))

	event := &models.CallbackScheduledEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeCallbackScheduled,
			Timestamp: now,
		},
		CallbackID: cb.ID,
		Name:       cb.Name,
		Date:       cb.Date,
		TimeSlot:   cb.TimeSlot,
	}
	if err := h.callbacks.PublishCallbackScheduled(c.Request.Context(), event); err != nil {
		h.logger.Error("Failed to publish CallbackScheduled event",
			zap.String("callback_id", cb.ID),
			zap.Error(err))
	}

	c.JSON(http.StatusCreated, cb)
}
