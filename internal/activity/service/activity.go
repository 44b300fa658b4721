package service

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/workspace-backend/internal/activity/biz"
	"github.com/lk2023060901/workspace-backend/internal/auth/middleware"
	apperrors "github.com/lk2023060901/workspace-backend/internal/pkg/errors"
	"github.com/lk2023060901/workspace-backend/internal/pkg/response"
)

// ActivityService handles HTTP requests for the session's running apps.
type ActivityService struct {
	uc *biz.ActivityUseCase
}

// NewActivityService returns a service over uc.
func NewActivityService(uc *biz.ActivityUseCase) *ActivityService {
	return &ActivityService{uc: uc}
}

// RegisterRoutes registers activity routes on an authenticated group.
func (s *ActivityService) RegisterRoutes(r *gin.RouterGroup) {
	activity := r.Group("/activity")
	{
		activity.GET("", s.List)
		activity.POST("/:id/toggle", s.Toggle)
		activity.DELETE("/:id", s.Stop)
	}
}

// List returns the session's apps.
func (s *ActivityService) List(c *gin.Context) {
	sid, _ := middleware.GetSessionID(c)
	response.Success(c, s.uc.List(c.Request.Context(), sid))
}

// Toggle switches an app between running and suspended.
func (s *ActivityService) Toggle(c *gin.Context) {
	sid, _ := middleware.GetSessionID(c)
	app, err := s.uc.Toggle(c.Request.Context(), sid, c.Param("id"))
	if err != nil {
		s.handleError(c, err)
		return
	}
	response.Success(c, app)
}

// Stop removes an app from the task list.
func (s *ActivityService) Stop(c *gin.Context) {
	sid, _ := middleware.GetSessionID(c)
	if err := s.uc.Stop(c.Request.Context(), sid, c.Param("id")); err != nil {
		s.handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, "application stopped", nil)
}

func (s *ActivityService) handleError(c *gin.Context, err error) {
	if errors.Is(err, biz.ErrAppNotFound) {
		response.ErrorWithCode(c, apperrors.ErrActivityAppNotFound, c.Param("id"))
		return
	}
	response.HandleError(c, err)
}
