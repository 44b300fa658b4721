package service

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/workspace-backend/internal/auth/middleware"
	"github.com/lk2023060901/workspace-backend/internal/favorite/biz"
	"github.com/lk2023060901/workspace-backend/internal/favorite/types"
	apperrors "github.com/lk2023060901/workspace-backend/internal/pkg/errors"
	"github.com/lk2023060901/workspace-backend/internal/pkg/logger"
	"github.com/lk2023060901/workspace-backend/internal/pkg/response"
	"github.com/lk2023060901/workspace-backend/internal/pkg/sse"
	"go.uber.org/zap"
)

// FavoriteService handles HTTP requests for the session's favorites.
type FavoriteService struct {
	useCase *biz.FavoriteUseCase
	hub     *sse.Hub
	logger  *logger.Logger
}

// NewFavoriteService also routes the use case's change notifications to hub.
func NewFavoriteService(useCase *biz.FavoriteUseCase, hub *sse.Hub, log *logger.Logger) *FavoriteService {
	useCase.SetPublisher(NewHubPublisher(hub))
	return &FavoriteService{useCase: useCase, hub: hub, logger: log}
}

// RegisterRoutes registers favorite routes on an authenticated group.
func (s *FavoriteService) RegisterRoutes(r *gin.RouterGroup) {
	favorites := r.Group("/favorites")
	{
		favorites.GET("", s.ListFavorites)
		favorites.GET("/events", s.Events)
		favorites.POST("/toggle", s.ToggleFavorite)
		favorites.GET("/:type/:id", s.IsFavorite)
		favorites.POST("/:type/:id/toggle", s.ToggleCatalogItem)
	}
}

// ListFavorites
// @Summary List favorites split into apps and desktops
// @Tags favorites
// @Success 200 {object} types.FavoriteList
// @Router /api/v1/favorites [get]
func (s *FavoriteService) ListFavorites(c *gin.Context) {
	sessionID, ok := middleware.GetSessionID(c)
	if !ok {
		response.Unauthorized(c, "missing session")
		return
	}
	response.Success(c, s.useCase.List(c.Request.Context(), sessionID))
}

// ToggleFavorite adds the posted item snapshot, or removes it if present.
// @Summary Toggle a favorite
// @Tags favorites
// @Param request body types.FavoriteItem true "Item snapshot"
// @Success 200 {object} types.ToggleResult
// @Router /api/v1/favorites/toggle [post]
func (s *FavoriteService) ToggleFavorite(c *gin.Context) {
	sessionID, ok := middleware.GetSessionID(c)
	if !ok {
		response.Unauthorized(c, "missing session")
		return
	}

	var item types.FavoriteItem
	if err := c.ShouldBindJSON(&item); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	res, err := s.useCase.Toggle(c.Request.Context(), sessionID, item)
	if err != nil {
		s.handleError(c, err)
		return
	}
	response.Success(c, res)
}

// ToggleCatalogItem toggles a catalog entry by type and id.
// @Router /api/v1/favorites/{type}/{id}/toggle [post]
func (s *FavoriteService) ToggleCatalogItem(c *gin.Context) {
	sessionID, ok := middleware.GetSessionID(c)
	if !ok {
		response.Unauthorized(c, "missing session")
		return
	}

	res, err := s.useCase.ToggleCatalogItem(c.Request.Context(), sessionID, types.ItemType(c.Param("type")), c.Param("id"))
	if err != nil {
		s.handleError(c, err)
		return
	}
	response.Success(c, res)
}

// IsFavorite
// @Router /api/v1/favorites/{type}/{id} [get]
func (s *FavoriteService) IsFavorite(c *gin.Context) {
	sessionID, ok := middleware.GetSessionID(c)
	if !ok {
		response.Unauthorized(c, "missing session")
		return
	}

	t := types.ItemType(c.Param("type"))
	if !t.Valid() {
		response.ErrorWithCode(c, apperrors.ErrFavoriteInvalidType, string(t))
		return
	}
	response.Success(c, gin.H{
		"favorite": s.useCase.IsFavorite(c.Request.Context(), sessionID, c.Param("id"), t),
	})
}

func (s *FavoriteService) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, biz.ErrInvalidFavorite):
		response.ErrorWithCode(c, apperrors.ErrFavoriteInvalidItem)
	case errors.Is(err, biz.ErrInvalidType):
		response.ErrorWithCode(c, apperrors.ErrFavoriteInvalidType)
	case errors.Is(err, biz.ErrCatalogItemNotFound):
		response.ErrorWithCode(c, apperrors.ErrCatalogItemNotFound)
	default:
		s.logger.WithContext(c.Request.Context()).Error("favorite request failed", zap.Error(err))
		response.InternalError(c)
	}
}
