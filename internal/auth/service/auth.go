package service

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/workspace-backend/internal/auth/biz"
	"github.com/lk2023060901/workspace-backend/internal/auth/middleware"
	apperrors "github.com/lk2023060901/workspace-backend/internal/pkg/errors"
	"github.com/lk2023060901/workspace-backend/internal/pkg/logger"
	"github.com/lk2023060901/workspace-backend/internal/pkg/response"
	"github.com/lk2023060901/workspace-backend/internal/pkg/validator"
	"go.uber.org/zap"
)

// AuthService handles the sign-in HTTP endpoints.
type AuthService struct {
	authUC *biz.AuthUseCase
	logger *logger.Logger
}

// NewAuthService returns a service over authUC.
func NewAuthService(authUC *biz.AuthUseCase, log *logger.Logger) *AuthService {
	return &AuthService{authUC: authUC, logger: log}
}

// LoginRequest is the first sign-in step.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse identifies the pending auth for the next steps.
type LoginResponse struct {
	PendingAuthID string `json:"pending_auth_id"`
	ExpiresIn     int    `json:"expires_in"`
}

// Login
// @Summary Password step of the sign-in flow
// @Tags auth
// @Router /api/v1/auth/login [post]
func (s *AuthService) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	p, err := s.authUC.Login(c.Request.Context(), req.Username, req.Password, validator.ClientIP(c.ClientIP()))
	if err != nil {
		s.handleError(c, err)
		return
	}

	response.Success(c, LoginResponse{
		PendingAuthID: p.ID,
		ExpiresIn:     int(p.ExpiresAt.Sub(p.CreatedAt).Seconds()),
	})
}

// SendCodeRequest chooses the verification method.
type SendCodeRequest struct {
	PendingAuthID string     `json:"pending_auth_id" binding:"required"`
	Method        biz.Method `json:"method" binding:"required"`
}

// SendCode
// @Summary Choose the verification method and send a code
// @Tags auth
// @Router /api/v1/auth/2fa/send [post]
func (s *AuthService) SendCode(c *gin.Context) {
	var req SendCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	res, err := s.authUC.SendCode(c.Request.Context(), req.PendingAuthID, req.Method)
	if err != nil {
		s.handleError(c, err)
		return
	}
	response.Success(c, res)
}

// VerifyRequest submits the verification code.
type VerifyRequest struct {
	PendingAuthID string `json:"pending_auth_id" binding:"required"`
	Code          string `json:"code" binding:"required"`
}

// Verify
// @Summary Verify the second factor and start a session
// @Tags auth
// @Router /api/v1/auth/2fa/verify [post]
func (s *AuthService) Verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	res, err := s.authUC.Verify(c.Request.Context(), req.PendingAuthID, req.Code)
	if err != nil {
		s.handleError(c, err)
		return
	}
	response.Success(c, res)
}

// QRLogin returns the sign-in QR code as a PNG.
func (s *AuthService) QRLogin(c *gin.Context) {
	qr, err := s.authUC.QRLogin(c.Request.Context())
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Header("X-QR-Session", qr.ID)
	c.Header("X-QR-Expires-In", strconv.Itoa(qr.ExpiresIn))
	c.Data(http.StatusOK, "image/png", qr.PNG)
}

// Logout ends the caller's session.
func (s *AuthService) Logout(c *gin.Context) {
	sessionID, ok := middleware.GetSessionID(c)
	if !ok {
		response.Unauthorized(c, "missing session")
		return
	}
	s.authUC.Logout(c.Request.Context(), sessionID)
	response.SuccessWithMessage(c, "logged out", nil)
}

func (s *AuthService) handleError(c *gin.Context, err error) {
	var tooSoon *biz.ResendTooSoonError

	switch {
	case errors.As(err, &tooSoon):
		c.Header("Retry-After", strconv.Itoa(tooSoon.RetrySeconds()))
		response.ErrorWithCode(c, apperrors.ErrAuthResendTooSoon, "retry in "+strconv.Itoa(tooSoon.RetrySeconds())+"s")
	case errors.Is(err, biz.ErrMissingCredentials):
		response.ErrorWithCode(c, apperrors.ErrAuthMissingCredentials)
	case errors.Is(err, biz.ErrPendingAuthNotFound):
		response.ErrorWithCode(c, apperrors.ErrAuthPendingNotFound)
	case errors.Is(err, biz.ErrInvalidMethod):
		response.ErrorWithCode(c, apperrors.ErrAuthInvalidMethod)
	case errors.Is(err, biz.ErrInvalidCode):
		response.ErrorWithCode(c, apperrors.ErrAuthInvalidCode)
	case errors.Is(err, biz.ErrCodeNotSent):
		response.ErrorWithCode(c, apperrors.ErrAuthCodeNotSent)
	case errors.Is(err, biz.ErrTooManyAttempts):
		response.ErrorWithCode(c, apperrors.ErrAuthTooManyAttempts)
	default:
		s.logger.WithContext(c.Request.Context()).Error("auth request failed", zap.Error(err), zap.String("path", c.FullPath()))
		response.InternalError(c)
	}
}
