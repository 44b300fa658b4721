package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	activityservice "github.com/lk2023060901/workspace-backend/internal/activity/service"
	"github.com/lk2023060901/workspace-backend/internal/auth"
	"github.com/lk2023060901/workspace-backend/internal/auth/middleware"
	authservice "github.com/lk2023060901/workspace-backend/internal/auth/service"
	catalogservice "github.com/lk2023060901/workspace-backend/internal/catalog/service"
	"github.com/lk2023060901/workspace-backend/internal/conf"
	favoriteservice "github.com/lk2023060901/workspace-backend/internal/favorite/service"
	"github.com/lk2023060901/workspace-backend/internal/pkg/logger"
	themeservice "github.com/lk2023060901/workspace-backend/internal/theme/service"
	"go.uber.org/zap"
)

// Services groups the HTTP handlers mounted under /api/v1.
type Services struct {
	Auth     *authservice.AuthService
	Favorite *favoriteservice.FavoriteService
	Catalog  *catalogservice.CatalogService
	Activity *activityservice.ActivityService
	Theme    *themeservice.ThemeService
}

// HTTPServer owns the gin engine and the listening server.
type HTTPServer struct {
	server *http.Server
	logger *logger.Logger
}

// NewHTTPServer builds the router. limiter may be nil, which disables login
// rate limiting.
func NewHTTPServer(
	config *conf.Config,
	log *logger.Logger,
	jwtManager *auth.JWTManager,
	limiter middleware.ScriptRunner,
	svc Services,
) *HTTPServer {
	if config.Server.Mode != "" {
		gin.SetMode(config.Server.Mode)
	}

	router := gin.New()
	router.Use(logger.GinRecovery(log))
	router.Use(logger.GinLogger(log, logger.MiddlewareOptions{SkipPaths: []string{"/health"}}))
	router.Use(middleware.CORS())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	api := router.Group("/api/v1")

	authGroup := api.Group("/auth")
	{
		login := []gin.HandlerFunc{svc.Auth.Login}
		if limiter != nil {
			login = append([]gin.HandlerFunc{middleware.LoginRateLimiter(limiter, config.Auth.LoginRateLimit, log)}, login...)
		}
		authGroup.POST("/login", login...)
		authGroup.POST("/2fa/send", svc.Auth.SendCode)
		authGroup.POST("/2fa/verify", svc.Auth.Verify)
		authGroup.GET("/qr", svc.Auth.QRLogin)
	}
	svc.Theme.RegisterPublicRoutes(api)

	protected := api.Group("")
	protected.Use(middleware.JWTAuth(jwtManager, log))
	{
		protected.POST("/auth/logout", svc.Auth.Logout)
		svc.Favorite.RegisterRoutes(protected)
		svc.Catalog.RegisterRoutes(protected)
		svc.Activity.RegisterRoutes(protected)
		svc.Theme.RegisterRoutes(protected)
	}

	return &HTTPServer{
		server: &http.Server{
			Addr:              config.Server.Addr(),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: log,
	}
}

// Handler returns the router, for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

// Start serves until Stop is called. It returns nil after a clean shutdown.
func (s *HTTPServer) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop drains in-flight requests until ctx is done.
func (s *HTTPServer) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")
	return s.server.Shutdown(ctx)
}
