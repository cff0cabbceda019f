package api

import (
	"net/http"
	"testing"

	"signage-portal/internal/models"
	"signage-portal/internal/support"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type notificationsBody struct {
	Notifications []struct {
		ID    string `json:"id"`
		Title string `json:"title"`
		Time  string `json:"time"`
		Read  bool   `json:"read"`
	} `json:"notifications"`
	Unread int `json:"unread"`
}

func TestNotifications(t *testing.T) {
	s := newTestServer(t, nil)

	var body notificationsBody
	decode(t, s.do(t, http.MethodGet, "/api/v1/notifications", nil, ""), &body)
	require.Len(t, body.Notifications, 7)
	assert.Equal(t, 7, body.Unread)
	for _, n := range body.Notifications {
		assert.NotEmpty(t, n.Time)
	}

	first := body.Notifications[0].ID
	w := s.do(t, http.MethodPost, "/api/v1/notifications/"+first+"/read", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"unread":6}`, w.Body.String())

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPost, "/api/v1/notifications/missing/read", nil, "").Code)

	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/v1/notifications/read-all", nil, "").Code)
	assert.Equal(t, 0, s.notifications.UnreadCount())

	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/api/v1/notifications", nil, "").Code)
	decode(t, s.do(t, http.MethodGet, "/api/v1/notifications", nil, ""), &body)
	assert.Empty(t, body.Notifications)
}

func TestChat(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodGet, "/api/v1/support/chat", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	sid := w.Header().Get(SessionHeader)

	var transcript struct {
		Messages []models.ChatMessage `json:"messages"`
	}
	decode(t, w, &transcript)
	require.Len(t, transcript.Messages, 1)
	assert.Equal(t, support.Greeting, transcript.Messages[0].Text)

	w = s.do(t, http.MethodPost, "/api/v1/support/chat", ChatRequest{Text: "When will my banner ship?"}, sid)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &transcript)
	require.Len(t, transcript.Messages, 2)
	assert.Equal(t, models.SenderUser, transcript.Messages[0].Sender)
	assert.Equal(t, "Thanks for your message! I'll help you with that.", transcript.Messages[1].Text)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/api/v1/support/chat", ChatRequest{Text: "   "}, sid).Code)

	decode(t, s.do(t, http.MethodGet, "/api/v1/support/chat", nil, sid), &transcript)
	assert.Len(t, transcript.Messages, 3)
}

func TestCallbackCalendar(t *testing.T) {
	s := newTestServer(t, nil)

	var body struct {
		Calendar  support.Month `json:"calendar"`
		TimeSlots []string      `json:"time_slots"`
	}
	decode(t, s.do(t, http.MethodGet, "/api/v1/support/calendar", nil, ""), &body)
	assert.Equal(t, "2024-01", body.Calendar.Month)
	assert.Len(t, body.TimeSlots, 17)
	assert.True(t, body.Calendar.Days[23].Disabled, "Jan 24 is in the past")
	assert.False(t, body.Calendar.Days[24].Disabled, "today")

	decode(t, s.do(t, http.MethodGet, "/api/v1/support/calendar?month=2024-02", nil, ""), &body)
	assert.Equal(t, "February 2024", body.Calendar.Title)
	assert.Len(t, body.Calendar.Days, 29)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/v1/support/calendar?month=Feb", nil, "").Code)
}

func TestBookCallback(t *testing.T) {
	s := newTestServer(t, nil)

	req := support.BookingRequest{
		Date:     "2024-01-29",
		TimeSlot: "11:00 AM",
		Name:     "Sarah Johnson",
		Email:    "sarah@brightsmile.com",
	}
	w := s.do(t, http.MethodPost, "/api/v1/support/callbacks", req, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var cb models.CallbackRequest
	decode(t, w, &cb)
	assert.NotEmpty(t, cb.ID)
	assert.Equal(t, "Callback Scheduled", s.notifications.List()[0].Title)

	assert.Equal(t, http.StatusConflict, s.do(t, http.MethodPost, "/api/v1/support/callbacks", req, "").Code)

	weekend := req
	weekend.Date = "2024-01-27"
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/api/v1/support/callbacks", weekend, "").Code)

	anonymous := req
	anonymous.TimeSlot = "1:00 PM"
	anonymous.Email = ""
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/api/v1/support/callbacks", anonymous, "").Code)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/api/v1/support/callbacks", map[string]string{"name": "x"}, "").Code)
}
