package biz

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lk2023060901/workspace-backend/internal/auth"
	"github.com/lk2023060901/workspace-backend/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type recordingCleaner struct{ cleared []string }

func (r *recordingCleaner) Clear(_ context.Context, sessionID string) {
	r.cleared = append(r.cleared, sessionID)
}

type fixture struct {
	uc      *AuthUseCase
	repo    *MemoryPendingAuthRepo
	clock   *fakeClock
	jwt     *auth.JWTManager
	totp    *auth.TOTPManager
	cleaner *recordingCleaner
}

func newFixture(simulate bool) *fixture {
	clock := &fakeClock{t: time.Now()}
	repo := NewMemoryPendingAuthRepo()
	repo.now = clock.Now
	jwt := auth.NewJWTManager("secret", "workspace-backend", time.Hour)
	totp := auth.NewTOTPManager("", "seed")
	cleaner := &recordingCleaner{}

	uc := NewAuthUseCase(repo, jwt, totp, Options{
		Simulate:       simulate,
		PendingTTL:     5 * time.Minute,
		ResendCooldown: 30 * time.Second,
		MaxAttempts:    3,
	}, logger.NewNop(), cleaner)
	uc.now = clock.Now

	return &fixture{uc: uc, repo: repo, clock: clock, jwt: jwt, totp: totp, cleaner: cleaner}
}

func TestLogin(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()

	for _, tc := range []struct{ user, pass string }{{"", "x"}, {"  ", "x"}, {"alice", ""}} {
		_, err := f.uc.Login(ctx, tc.user, tc.pass, "10.0.0.1")
		assert.ErrorIs(t, err, ErrMissingCredentials)
	}

	p, err := f.uc.Login(ctx, " alice ", "anything", "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "alice", p.Username)
	assert.Equal(t, f.clock.Now().Add(5*time.Minute), p.ExpiresAt)

	stored, err := f.repo.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", stored.IP)
}

func TestVerify_SimulateAcceptsAnySixDigits(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()

	p, err := f.uc.Login(ctx, "alice", "pw", "")
	require.NoError(t, err)

	_, err = f.uc.Verify(ctx, p.ID, "12345")
	assert.ErrorIs(t, err, ErrInvalidCode)
	_, err = f.uc.Verify(ctx, p.ID, "12a456")
	assert.ErrorIs(t, err, ErrInvalidCode)

	res, err := f.uc.Verify(ctx, p.ID, "000000")
	require.NoError(t, err)
	assert.Equal(t, "alice", res.Username)
	assert.Equal(t, 3600, res.ExpiresIn)

	claims, err := f.jwt.VerifyAccessToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.SessionID, claims.SessionID)

	_, err = f.uc.Verify(ctx, p.ID, "000000")
	assert.ErrorIs(t, err, ErrPendingAuthNotFound, "pending auth is single use")
}

func TestVerify_IssuedCode(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()

	p, err := f.uc.Login(ctx, "alice", "pw", "")
	require.NoError(t, err)

	_, err = f.uc.Verify(ctx, p.ID, "123456")
	assert.ErrorIs(t, err, ErrCodeNotSent)

	sent, err := f.uc.SendCode(ctx, p.ID, MethodSMS)
	require.NoError(t, err)
	assert.Equal(t, 30, sent.ResendIn)

	stored, err := f.repo.Get(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, stored.Code, 6)

	res, err := f.uc.Verify(ctx, p.ID, stored.Code)
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
}

func TestVerify_TooManyAttempts(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()

	p, err := f.uc.Login(ctx, "alice", "pw", "")
	require.NoError(t, err)
	_, err = f.uc.SendCode(ctx, p.ID, MethodEmail)
	require.NoError(t, err)

	stored, err := f.repo.Get(ctx, p.ID)
	require.NoError(t, err)
	wrong := "000000"
	if stored.Code == wrong {
		wrong = "111111"
	}

	_, err = f.uc.Verify(ctx, p.ID, wrong)
	assert.ErrorIs(t, err, ErrInvalidCode)
	_, err = f.uc.Verify(ctx, p.ID, wrong)
	assert.ErrorIs(t, err, ErrInvalidCode)
	_, err = f.uc.Verify(ctx, p.ID, wrong)
	assert.ErrorIs(t, err, ErrTooManyAttempts)

	_, err = f.uc.Verify(ctx, p.ID, stored.Code)
	assert.ErrorIs(t, err, ErrPendingAuthNotFound)
}

func TestVerify_AuthenticatorApp(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()

	p, err := f.uc.Login(ctx, "alice", "pw", "")
	require.NoError(t, err)

	sent, err := f.uc.SendCode(ctx, p.ID, MethodApp)
	require.NoError(t, err)
	assert.Zero(t, sent.ResendIn)
	assert.Contains(t, sent.OTPURL, "otpauth://totp/")

	code, err := f.totp.GenerateCode("alice", f.clock.Now())
	require.NoError(t, err)

	res, err := f.uc.Verify(ctx, p.ID, code)
	require.NoError(t, err)
	assert.Equal(t, "alice", res.Username)
}

func TestSendCode_Cooldown(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()

	p, err := f.uc.Login(ctx, "alice", "pw", "")
	require.NoError(t, err)

	_, err = f.uc.SendCode(ctx, p.ID, "pigeon")
	assert.ErrorIs(t, err, ErrInvalidMethod)

	_, err = f.uc.SendCode(ctx, p.ID, MethodSMS)
	require.NoError(t, err)

	f.clock.Advance(10 * time.Second)
	_, err = f.uc.SendCode(ctx, p.ID, MethodSMS)
	require.ErrorIs(t, err, ErrResendTooSoon)
	var tooSoon *ResendTooSoonError
	require.True(t, errors.As(err, &tooSoon))
	assert.Equal(t, 20, tooSoon.RetrySeconds())

	f.clock.Advance(20 * time.Second)
	_, err = f.uc.SendCode(ctx, p.ID, MethodSMS)
	assert.NoError(t, err)
}

func TestPendingAuthExpires(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()

	p, err := f.uc.Login(ctx, "alice", "pw", "")
	require.NoError(t, err)

	f.clock.Advance(5*time.Minute + time.Second)
	_, err = f.uc.Verify(ctx, p.ID, "123456")
	assert.ErrorIs(t, err, ErrPendingAuthNotFound)
	_, err = f.uc.SendCode(ctx, p.ID, MethodSMS)
	assert.ErrorIs(t, err, ErrPendingAuthNotFound)
}

func TestQRLogin(t *testing.T) {
	f := newFixture(true)
	qr, err := f.uc.QRLogin(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "workspace://qr-login/"+qr.ID, qr.Content)
	assert.Equal(t, 24, qr.ExpiresIn)
	assert.NotEmpty(t, qr.PNG)
}

func TestLogout(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()

	p, err := f.uc.Login(ctx, "alice", "pw", "")
	require.NoError(t, err)
	res, err := f.uc.Verify(ctx, p.ID, "123456")
	require.NoError(t, err)

	f.uc.Logout(ctx, res.SessionID)
	assert.Equal(t, []string{res.SessionID}, f.cleaner.cleared)

	_, err = f.jwt.VerifyAccessToken(res.AccessToken)
	assert.ErrorIs(t, err, auth.ErrSessionRevoked)
}

func TestGenerateNumericCode(t *testing.T) {
	for i := 0; i < 20; i++ {
		code, err := generateNumericCode(6)
		require.NoError(t, err)
		assert.True(t, isSixDigits(code), code)
	}
}
