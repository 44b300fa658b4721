package biz

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lk2023060901/workspace-backend/internal/auth"
	"github.com/lk2023060901/workspace-backend/internal/pkg/logger"
	"go.uber.org/zap"
)

var (
	ErrMissingCredentials  = errors.New("username and password are required")
	ErrPendingAuthNotFound = errors.New("pending auth not found or expired")
	ErrInvalidMethod       = errors.New("verification method must be one of: sms, email, app")
	ErrInvalidCode         = errors.New("invalid verification code")
	ErrCodeNotSent         = errors.New("no verification code has been sent")
	ErrTooManyAttempts     = errors.New("too many verification attempts")
	ErrResendTooSoon       = errors.New("verification code was sent recently")
)

// ResendTooSoonError carries how long the caller must wait before resending.
type ResendTooSoonError struct {
	RetryAfter time.Duration
}

// Error implements error.
func (e *ResendTooSoonError) Error() string {
	return fmt.Sprintf("%s, retry in %ds", ErrResendTooSoon, e.RetrySeconds())
}

// Is matches ErrResendTooSoon.
func (e *ResendTooSoonError) Is(target error) bool {
	return target == ErrResendTooSoon
}

// RetrySeconds rounds RetryAfter up to whole seconds.
func (e *ResendTooSoonError) RetrySeconds() int {
	return int((e.RetryAfter + time.Second - 1) / time.Second)
}

// SessionCleaner discards per-session state on logout.
type SessionCleaner interface {
	Clear(ctx context.Context, sessionID string)
}

// Options tunes the sign-in flow. Zero values take the defaults.
type Options struct {
	// Simulate accepts any well-formed code, like the front-end mock.
	Simulate       bool
	PendingTTL     time.Duration
	ResendCooldown time.Duration
	MaxAttempts    int
	QRTTL          time.Duration

	// Sender delivers sms and email codes. Nil means NewLogSender.
	Sender CodeSender
}

// SendResult tells the client how to proceed after choosing a method.
type SendResult struct {
	Method   Method `json:"method"`
	ResendIn int    `json:"resend_in"`
	// OTPURL lets a demo user enroll an authenticator app.
	OTPURL string `json:"otp_url,omitempty"`
}

// LoginResult is returned once the second factor is verified.
type LoginResult struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	Username    string `json:"username"`
	SessionID   string `json:"session_id"`
}

// QRSession is a display-only QR sign-in code.
type QRSession struct {
	ID        string
	Content   string
	PNG       []byte
	ExpiresIn int
}

// AuthUseCase runs the simulated two-step sign-in.
type AuthUseCase struct {
	pending  PendingAuthRepo
	jwt      *auth.JWTManager
	totp     *auth.TOTPManager
	opts     Options
	cleaners []SessionCleaner
	logger   *logger.Logger
	now      func() time.Time
}

// NewAuthUseCase returns a use case. cleaners are cleared on Logout.
func NewAuthUseCase(pending PendingAuthRepo, jwt *auth.JWTManager, totp *auth.TOTPManager, opts Options, log *logger.Logger, cleaners ...SessionCleaner) *AuthUseCase {
	if opts.PendingTTL <= 0 {
		opts.PendingTTL = 5 * time.Minute
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.QRTTL <= 0 {
		opts.QRTTL = 24 * time.Second
	}
	if opts.Sender == nil {
		opts.Sender = NewLogSender(log)
	}
	return &AuthUseCase{
		pending:  pending,
		jwt:      jwt,
		totp:     totp,
		opts:     opts,
		cleaners: cleaners,
		logger:   log.Named("auth"),
		now:      time.Now,
	}
}

// Login accepts any non-empty credentials and opens a pending auth for the
// second factor.
func (uc *AuthUseCase) Login(ctx context.Context, username, password, ip string) (*PendingAuth, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	p := NewPendingAuth(username, ip, uc.now(), uc.opts.PendingTTL)
	if err := uc.pending.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save pending auth: %w", err)
	}

	uc.logger.WithContext(ctx).Info("login accepted, awaiting second factor",
		zap.String("username", username),
		zap.String("ip", ip),
		zap.String("pending_auth_id", p.ID),
	)
	return p, nil
}

// SendCode selects the verification method. sms and email issue a fresh
// code, subject to the resend cooldown, and hand it to the configured sender.
func (uc *AuthUseCase) SendCode(ctx context.Context, pendingID string, method Method) (*SendResult, error) {
	if !method.Valid() {
		return nil, ErrInvalidMethod
	}
	p, err := uc.pending.Get(ctx, pendingID)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	if method == MethodApp {
		p.Method, p.Code = MethodApp, ""
		if err := uc.pending.Save(ctx, p); err != nil {
			return nil, fmt.Errorf("failed to save pending auth: %w", err)
		}
		return &SendResult{Method: method, OTPURL: uc.totp.ProvisioningURL(p.Username)}, nil
	}

	if !p.CodeSentAt.IsZero() && p.Method != MethodApp {
		if wait := p.CodeSentAt.Add(uc.opts.ResendCooldown).Sub(now); wait > 0 {
			return nil, &ResendTooSoonError{RetryAfter: wait}
		}
	}

	code, err := generateNumericCode(6)
	if err != nil {
		return nil, err
	}
	prevMethod, prevCode, prevSentAt := p.Method, p.Code, p.CodeSentAt
	p.Method, p.Code, p.CodeSentAt = method, code, now
	if err := uc.pending.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save pending auth: %w", err)
	}

	if err := uc.opts.Sender.Send(ctx, Delivery{
		PendingAuthID: p.ID,
		Username:      p.Username,
		Method:        method,
		Code:          code,
	}); err != nil {
		// an undelivered code neither counts against the cooldown nor verifies
		p.Method, p.Code, p.CodeSentAt = prevMethod, prevCode, prevSentAt
		if serr := uc.pending.Save(ctx, p); serr != nil {
			uc.logger.WithContext(ctx).Warn("failed to roll back pending auth", zap.Error(serr))
		}
		return nil, err
	}
	return &SendResult{Method: method, ResendIn: int(uc.opts.ResendCooldown / time.Second)}, nil
}

// Verify checks the second factor and, on success, starts a session.
func (uc *AuthUseCase) Verify(ctx context.Context, pendingID, code string) (*LoginResult, error) {
	code = strings.ReplaceAll(code, " ", "")
	if !isSixDigits(code) {
		return nil, ErrInvalidCode
	}

	p, err := uc.pending.Get(ctx, pendingID)
	if err != nil {
		return nil, err
	}

	if !uc.opts.Simulate {
		ok, err := uc.checkCode(p, code)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, uc.recordFailure(ctx, p)
		}
	}

	if err := uc.pending.Delete(ctx, p.ID); err != nil {
		uc.logger.WithContext(ctx).Warn("failed to delete pending auth", zap.Error(err))
	}

	sessionID := auth.NewSessionID()
	token, err := uc.jwt.GenerateAccessToken(p.Username, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	uc.logger.WithContext(ctx).Info("session started",
		zap.String("username", p.Username),
		zap.String("session_id", sessionID),
	)
	return &LoginResult{
		AccessToken: token,
		ExpiresIn:   int(uc.jwt.TTL() / time.Second),
		Username:    p.Username,
		SessionID:   sessionID,
	}, nil
}

func (uc *AuthUseCase) checkCode(p *PendingAuth, code string) (bool, error) {
	switch p.Method {
	case MethodApp:
		return uc.totp.ValidateCode(p.Username, code, uc.now()), nil
	case MethodSMS, MethodEmail:
		return subtle.ConstantTimeCompare([]byte(code), []byte(p.Code)) == 1, nil
	default:
		return false, ErrCodeNotSent
	}
}

func (uc *AuthUseCase) recordFailure(ctx context.Context, p *PendingAuth) error {
	p.Attempts++
	if p.Attempts >= uc.opts.MaxAttempts {
		if err := uc.pending.Delete(ctx, p.ID); err != nil {
			return fmt.Errorf("failed to delete pending auth: %w", err)
		}
		uc.logger.WithContext(ctx).Warn("too many verification attempts",
			zap.String("username", p.Username),
			zap.String("ip", p.IP),
		)
		return ErrTooManyAttempts
	}
	if err := uc.pending.Save(ctx, p); err != nil {
		return fmt.Errorf("failed to save pending auth: %w", err)
	}
	return ErrInvalidCode
}

// QRLogin creates a display-only QR sign-in session that expires with the
// on-screen countdown.
func (uc *AuthUseCase) QRLogin(ctx context.Context) (*QRSession, error) {
	id := uuid.NewString()
	content := "workspace://qr-login/" + id

	png, err := auth.GenerateQRCode(content, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to generate qr code: %w", err)
	}

	uc.logger.WithContext(ctx).Debug("qr login session created", zap.String("qr_session", id))
	return &QRSession{
		ID:        id,
		Content:   content,
		PNG:       png,
		ExpiresIn: int(uc.opts.QRTTL / time.Second),
	}, nil
}

// Logout revokes the session's token and discards its favorites and
// activity state.
func (uc *AuthUseCase) Logout(ctx context.Context, sessionID string) {
	uc.jwt.RevokeSession(sessionID)
	for _, c := range uc.cleaners {
		c.Clear(ctx, sessionID)
	}
	uc.logger.WithContext(ctx).Info("session ended", zap.String("session_id", sessionID))
}

func isSixDigits(code string) bool {
	if len(code) != 6 {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func generateNumericCode(digits int) (string, error) {
	var b strings.Builder
	for i := 0; i < digits; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate code: %w", err)
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}
