package api

import (
	"errors"
	"net/http"

	"signage-portal/internal/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Session transport
const (
	SessionHeader = "X-Session-ID"
	SessionCookie = "portal_session"

	sessionKey = "session_id"
)

func requestSessionID(c *gin.Context) string {
	if id := c.GetHeader(SessionHeader); id != "" {
		return id
	}
	id, _ := c.Cookie(SessionCookie)
	return id
}

// sessionMiddleware binds the request to a browsing session, opening a new
// one when the client has none or its session expired
func (h *Handler) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		s, created := h.sessions.GetOrCreate(requestSessionID(c))
		if created {
			h.logger.Debug("Opened session", zap.String("session_id", s.ID))
		}

		c.Set(sessionKey, s.ID)
		c.Header(SessionHeader, s.ID)
		c.SetCookie(SessionCookie, s.ID, 0, "/", "", false, true)

		c.Next()
	}
}

// withSession runs fn under the request session's lock
func (h *Handler) withSession(c *gin.Context, fn func(*session.Session) error) error {
	return h.sessions.WithSession(c.GetString(sessionKey), fn)
}

// endSession discards the caller's session, cart and chat included
func (h *Handler) endSession(c *gin.Context) {
	id := requestSessionID(c)
	if id == "" {
		respondError(c, http.StatusBadRequest, "No session", nil)
		return
	}

	if err := h.sessions.End(id); err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			respondError(c, http.StatusNotFound, "Session not found", err)
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to end session", err)
		return
	}

	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
	c.Status(http.StatusNoContent)
}
