package service

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/workspace-backend/internal/auth/middleware"
	"github.com/lk2023060901/workspace-backend/internal/favorite/biz"
	"github.com/lk2023060901/workspace-backend/internal/favorite/types"
	"github.com/lk2023060901/workspace-backend/internal/pkg/response"
	"github.com/lk2023060901/workspace-backend/internal/pkg/sse"
	"go.uber.org/zap"
)

const (
	// EventFavorites carries a types.FavoriteList.
	EventFavorites = "favorites"

	eventsKeepAlive = 30 * time.Second
)

func eventsResource(sessionID string) string {
	return "favorites:" + sessionID
}

type hubPublisher struct {
	hub *sse.Hub
}

// NewHubPublisher broadcasts every list change to the session's open streams.
func NewHubPublisher(hub *sse.Hub) biz.Publisher {
	return &hubPublisher{hub: hub}
}

func (p *hubPublisher) Publish(sessionID string, list *types.FavoriteList) {
	p.hub.Broadcast(eventsResource(sessionID), sse.Event{Type: EventFavorites, Data: list})
}

// Events streams the session's favorites. After the connected event comes the
// current list, then one event per change.
// @Summary Stream favorite changes
// @Tags favorites
// @Produce text/event-stream
// @Router /api/v1/favorites/events [get]
func (s *FavoriteService) Events(c *gin.Context) {
	sessionID, ok := middleware.GetSessionID(c)
	if !ok {
		response.Unauthorized(c, "missing session")
		return
	}

	ctx := c.Request.Context()
	client := sse.NewClient(eventsResource(sessionID), 16)
	s.useCase.Watch(ctx, sessionID, func(list *types.FavoriteList) {
		s.hub.Register(client)
		client.Channel <- sse.Event{Type: EventFavorites, Data: list}
	})

	log := s.logger.WithContext(ctx)
	log.Debug("favorites stream opened", zap.String("client_id", client.ID))
	sse.StreamResponse(c, client, s.hub, eventsKeepAlive, s.logger)
	log.Debug("favorites stream closed", zap.String("client_id", client.ID))
}
