package sse

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/workspace-backend/internal/pkg/logger"
	"go.uber.org/zap"
)

// StreamResponse writes the events of a client already registered with hub
// until the request is cancelled, then unregisters it. It blocks. Events that
// cannot be encoded are logged and skipped.
func StreamResponse(c *gin.Context, client *Client, hub *Hub, keepAlive time.Duration, log *logger.Logger) {
	defer hub.Unregister(client)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	connected := Event{
		Type: "connected",
		Data: map[string]string{"client_id": client.ID, "resource": client.Resource},
	}
	if !writeEvent(c, connected, log) {
		return
	}

	ticker := time.NewTicker(keepAlive)
	defer ticker.Stop()

	gone := c.Request.Context().Done()
	for {
		select {
		case <-gone:
			return
		case event, ok := <-client.Channel:
			if !ok {
				return
			}
			if !writeEvent(c, event, log) {
				return
			}
		case <-ticker.C:
			if _, err := fmt.Fprint(c.Writer, ": heartbeat\n\n"); err != nil {
				return
			}
			c.Writer.Flush()
		}
	}
}

// writeEvent reports false once the connection is unusable.
func writeEvent(c *gin.Context, event Event, log *logger.Logger) bool {
	frame, err := event.FormatSSE()
	if err != nil {
		log.WithContext(c.Request.Context()).Warn("dropping sse event", zap.Error(err))
		return true
	}
	if _, err := fmt.Fprint(c.Writer, frame); err != nil {
		return false
	}
	c.Writer.Flush()
	return true
}
