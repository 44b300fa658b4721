package service

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/workspace-backend/internal/auth/middleware"
	apperrors "github.com/lk2023060901/workspace-backend/internal/pkg/errors"
	"github.com/lk2023060901/workspace-backend/internal/pkg/logger"
	"github.com/lk2023060901/workspace-backend/internal/pkg/response"
	"github.com/lk2023060901/workspace-backend/internal/theme/biz"
	"go.uber.org/zap"
)

// ThemeService handles palette and preference requests.
type ThemeService struct {
	uc     *biz.ThemeUseCase
	logger *logger.Logger
}

// NewThemeService returns a service over uc.
func NewThemeService(uc *biz.ThemeUseCase, log *logger.Logger) *ThemeService {
	return &ThemeService{uc: uc, logger: log}
}

// RegisterPublicRoutes exposes the palette catalog, which the login page
// needs before a token exists.
func (s *ThemeService) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.GET("/themes", s.ListThemes)
	r.GET("/themes/:name", s.GetTheme)
}

// RegisterRoutes registers the preference routes on an authenticated group.
func (s *ThemeService) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/theme", s.GetPreference)
	r.PUT("/theme", s.SetPreference)
}

// ListThemes returns every palette.
func (s *ThemeService) ListThemes(c *gin.Context) {
	response.Success(c, biz.Themes())
}

// GetTheme returns one palette with its CSS variables.
func (s *ThemeService) GetTheme(c *gin.Context) {
	t, ok := biz.Get(c.Param("name"))
	if !ok {
		response.ErrorWithCode(c, apperrors.ErrThemeUnknown, c.Param("name"))
		return
	}
	response.Success(c, biz.View(t))
}

// GetPreference returns the caller's theme.
func (s *ThemeService) GetPreference(c *gin.Context) {
	owner, _ := middleware.GetUsername(c)
	response.Success(c, s.uc.Preference(c.Request.Context(), owner))
}

// SetThemeRequest selects a palette by name.
type SetThemeRequest struct {
	Name string `json:"name" binding:"required"`
}

// SetPreference stores the caller's theme.
func (s *ThemeService) SetPreference(c *gin.Context) {
	var req SetThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	owner, _ := middleware.GetUsername(c)
	view, err := s.uc.SetPreference(c.Request.Context(), owner, req.Name)
	if err != nil {
		if errors.Is(err, biz.ErrUnknownTheme) {
			response.ErrorWithCode(c, apperrors.ErrThemeUnknown, req.Name)
			return
		}
		s.logger.WithContext(c.Request.Context()).Error("set theme preference failed", zap.Error(err))
		response.ErrorWithCode(c, apperrors.ErrThemeStoreFailure)
		return
	}
	response.Success(c, view)
}
