package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/workspace-backend/internal/auth"
	apperrors "github.com/lk2023060901/workspace-backend/internal/pkg/errors"
	"github.com/lk2023060901/workspace-backend/internal/pkg/logger"
	"github.com/lk2023060901/workspace-backend/internal/pkg/response"
	"go.uber.org/zap"
)

const (
	ContextKeyUsername  = "username"
	ContextKeySessionID = "session_id"
)

// JWTAuth requires a bearer token and stores its username and session id in
// the gin context and the request context.
func JWTAuth(jwtManager *auth.JWTManager, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.ErrorWithCode(c, apperrors.ErrUnauthorized, "missing authorization")
			c.Abort()
			return
		}

		token, err := auth.ExtractTokenFromHeader(authHeader)
		if err != nil {
			response.ErrorWithCode(c, apperrors.ErrUnauthorized, err.Error())
			c.Abort()
			return
		}

		claims, err := jwtManager.VerifyAccessToken(token)
		if err != nil {
			log.Warn("invalid access token", zap.Error(err), zap.String("ip", c.ClientIP()))
			response.ErrorWithCode(c, apperrors.ErrAuthInvalidToken)
			c.Abort()
			return
		}

		c.Set(ContextKeyUsername, claims.Username)
		c.Set(ContextKeySessionID, claims.SessionID)

		ctx := logger.WithSessionID(c.Request.Context(), claims.SessionID)
		ctx = logger.WithUsername(ctx, claims.Username)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetUsername returns the username set by JWTAuth.
func GetUsername(c *gin.Context) (string, bool) {
	v := c.GetString(ContextKeyUsername)
	return v, v != ""
}

// GetSessionID returns the session id set by JWTAuth.
func GetSessionID(c *gin.Context) (string, bool) {
	v := c.GetString(ContextKeySessionID)
	return v, v != ""
}

// CORS reflects the request origin for browser clients.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-Request-ID")
			c.Header("Access-Control-Expose-Headers", "X-Request-ID, X-QR-Session, X-QR-Expires-In, Retry-After")
			c.Header("Access-Control-Allow-Credentials", "true")
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
