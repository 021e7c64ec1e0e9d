package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/logging"
)

type chatBootstrapRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type chatSendRequest struct {
	Content string `json:"content" binding:"required"`
}

type chatActiveRequest struct {
	Active bool `json:"active"`
}

type adminMessageRequest struct {
	ConversationID string `json:"conversation_id" binding:"required"`
	Content        string `json:"content" binding:"required"`
}

// BootstrapChat handles POST /api/v1/chat/bootstrap
func (h *Handlers) BootstrapChat(c *gin.Context) {
	var req chatBootstrapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	widget, err := h.chat.Bootstrap(c.Request.Context(), h.sessionID(c), req.Name, req.Phone)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, widget)
}

// GetChatWidget handles GET /api/v1/chat
// Resumes from the stored identity; 404 means the client should show the
// identity form.
func (h *Handlers) GetChatWidget(c *gin.Context) {
	widget, err := h.chat.Resume(c.Request.Context(), h.sessionID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, widget)
}

// SendChatMessage handles POST /api/v1/chat/messages
func (h *Handlers) SendChatMessage(c *gin.Context) {
	var req chatSendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	widget, err := h.chat.Send(c.Request.Context(), h.sessionID(c), req.Content)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, widget)
}

// SetChatActive handles POST /api/v1/chat/active
// Opening the widget marks everything read; closing it resumes unread
// counting and notifications.
func (h *Handlers) SetChatActive(c *gin.Context) {
	var req chatActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	widget, err := h.chat.SetActive(c.Request.Context(), h.sessionID(c), req.Active)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, widget)
}

// StreamChat handles GET /api/v1/chat/stream (server-sent events).
// Each feed event is folded into the widget state before being forwarded,
// so unread counts and notifications track even when no poll happens.
// The subscription lives exactly as long as the request.
func (h *Handlers) StreamChat(c *gin.Context) {
	sessionID := h.sessionID(c)

	ctx := c.Request.Context()
	eventCh, err := h.chat.Stream(ctx, sessionID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case event, ok := <-eventCh:
			if !ok {
				return false
			}
			if _, err := h.chat.Ingest(ctx, sessionID, event); err != nil {
				h.logger.Warn("Failed to ingest chat event", logging.Fields{
					"error": err.Error(),
				})
			}
			c.SSEvent(string(event.Type), event)
			return true
		}
	})
}

// ReceiveAdminMessage handles POST /api/v1/admin/messages
// Support-side entry point for replies into a conversation.
func (h *Handlers) ReceiveAdminMessage(c *gin.Context) {
	var req adminMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	msg, err := h.chat.ReceiveAdminMessage(c.Request.Context(), req.ConversationID, req.Content)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}
