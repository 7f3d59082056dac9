package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"tutorlink.backend/internal/domain/repositories"
	"tutorlink.backend/internal/interfaces/http/response"
	"tutorlink.backend/pkg/logger"
)

// DefaultKeepAlive is the ping interval on idle event streams
const DefaultKeepAlive = 25 * time.Second

// EventsHandler streams verification status changes as Server-Sent Events
type EventsHandler struct {
	subscriber repositories.StatusSubscriber
	keepAlive  time.Duration
}

// NewEventsHandler creates a new events handler. A non-positive keepAlive uses DefaultKeepAlive.
func NewEventsHandler(subscriber repositories.StatusSubscriber, keepAlive time.Duration) *EventsHandler {
	if keepAlive <= 0 {
		keepAlive = DefaultKeepAlive
	}
	return &EventsHandler{subscriber: subscriber, keepAlive: keepAlive}
}

// StreamMine streams the caller's own status events
// GET /api/v1/verification/events
func (h *EventsHandler) StreamMine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	sub, err := h.subscriber.SubscribeUser(c.Request.Context(), userID.String())
	if err != nil {
		response.Error(c, err)
		return
	}
	h.stream(c, sub)
}

// StreamAdmin streams every status event
// GET /api/v1/admin/verification/events
func (h *EventsHandler) StreamAdmin(c *gin.Context) {
	sub, err := h.subscriber.SubscribeAdmin(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	h.stream(c, sub)
}

// stream pumps sub until the client goes away or the feed closes
func (h *EventsHandler) stream(c *gin.Context, sub repositories.StatusSubscription) {
	ctx := c.Request.Context()
	defer func() {
		if err := sub.Close(); err != nil {
			logger.Warn(ctx, "Failed to close status subscription", zap.Error(err))
		}
	}()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.SSEvent("ready", gin.H{"at": time.Now().UTC()})
	c.Writer.Flush()

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	c.Stream(func(io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case event, ok := <-sub.Events():
			if !ok {
				return false
			}
			c.SSEvent("status", event)
			return true
		case t := <-ticker.C:
			c.SSEvent("ping", t.UTC().Unix())
			return true
		}
	})
}
