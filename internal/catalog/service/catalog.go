package service

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/workspace-backend/internal/auth/middleware"
	"github.com/lk2023060901/workspace-backend/internal/catalog/biz"
	"github.com/lk2023060901/workspace-backend/internal/catalog/types"
	ftypes "github.com/lk2023060901/workspace-backend/internal/favorite/types"
	apperrors "github.com/lk2023060901/workspace-backend/internal/pkg/errors"
	"github.com/lk2023060901/workspace-backend/internal/pkg/response"
)

// CatalogService handles HTTP requests for catalog pages.
type CatalogService struct {
	uc *biz.CatalogUseCase
}

// NewCatalogService returns a service over uc.
func NewCatalogService(uc *biz.CatalogUseCase) *CatalogService {
	return &CatalogService{uc: uc}
}

// RegisterRoutes registers catalog routes on an authenticated group.
func (s *CatalogService) RegisterRoutes(r *gin.RouterGroup) {
	catalog := r.Group("/catalog")
	{
		catalog.GET("/sidebar", s.Sidebar)
		catalog.GET("/dashboard", s.Dashboard)
		catalog.GET("/search", s.Search)
		catalog.GET("/:kind", s.List)
		catalog.GET("/:kind/:id", s.Get)
	}
	r.GET("/connections", s.Connections)
}

// Sidebar returns the navigation entries.
func (s *CatalogService) Sidebar(c *gin.Context) {
	response.Success(c, s.uc.Sidebar(c.Request.Context()))
}

// Dashboard returns the home page payload.
func (s *CatalogService) Dashboard(c *gin.Context) {
	sid, _ := middleware.GetSessionID(c)
	response.Success(c, s.uc.Dashboard(c.Request.Context(), sid))
}

// Search matches the q parameter across the catalog.
func (s *CatalogService) Search(c *gin.Context) {
	sid, _ := middleware.GetSessionID(c)
	response.Success(c, s.uc.Search(c.Request.Context(), sid, c.Query("q")))
}

// List returns one catalog page. Desktops come back grouped by flavor.
func (s *CatalogService) List(c *gin.Context) {
	kind, ok := types.ParseKind(c.Param("kind"))
	if !ok {
		response.ErrorWithCode(c, apperrors.ErrCatalogInvalidKind, c.Param("kind"))
		return
	}
	sid, _ := middleware.GetSessionID(c)

	if kind == ftypes.ItemTypeDesktop && c.Query("grouped") == "true" {
		response.Success(c, s.uc.Desktops(c.Request.Context(), sid, c.Query("q")))
		return
	}

	items, err := s.uc.List(c.Request.Context(), sid, kind, c.Query("q"))
	if err != nil {
		s.handleError(c, err)
		return
	}
	response.Success(c, gin.H{"items": items, "total": len(items)})
}

// Get returns one catalog entry.
func (s *CatalogService) Get(c *gin.Context) {
	kind, ok := types.ParseKind(c.Param("kind"))
	if !ok {
		response.ErrorWithCode(c, apperrors.ErrCatalogInvalidKind, c.Param("kind"))
		return
	}
	sid, _ := middleware.GetSessionID(c)

	item, err := s.uc.Get(c.Request.Context(), sid, kind, c.Param("id"))
	if err != nil {
		s.handleError(c, err)
		return
	}
	response.Success(c, item)
}

// Connections lists remote connections with their stats.
func (s *CatalogService) Connections(c *gin.Context) {
	response.Success(c, s.uc.Connections(c.Request.Context(), c.Query("q")))
}

func (s *CatalogService) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, biz.ErrItemNotFound):
		response.ErrorWithCode(c, apperrors.ErrCatalogItemNotFound)
	case errors.Is(err, biz.ErrInvalidKind):
		response.ErrorWithCode(c, apperrors.ErrCatalogInvalidKind)
	default:
		response.HandleError(c, err)
	}
}
