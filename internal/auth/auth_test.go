package auth

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("secret", "workspace-backend", time.Hour)

	token, err := m.GenerateAccessToken("alice", "sid-1")
	require.NoError(t, err)

	claims, err := m.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "sid-1", claims.SessionID)
	assert.Equal(t, "workspace-backend", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestJWTManager_Rejects(t *testing.T) {
	m := NewJWTManager("secret", "workspace-backend", time.Hour)

	other := NewJWTManager("other-secret", "workspace-backend", time.Hour)
	token, err := other.GenerateAccessToken("alice", "sid-1")
	require.NoError(t, err)
	_, err = m.VerifyAccessToken(token)
	assert.Error(t, err, "wrong key")

	wrongIssuer := NewJWTManager("secret", "someone-else", time.Hour)
	token, err = wrongIssuer.GenerateAccessToken("alice", "sid-1")
	require.NoError(t, err)
	_, err = m.VerifyAccessToken(token)
	assert.Error(t, err, "wrong issuer")

	fallback := NewJWTManager("secret", "workspace-backend", -time.Minute)
	assert.Equal(t, DefaultTokenTTL, fallback.TTL())

	noSID, err := m.GenerateAccessToken("alice", "")
	require.NoError(t, err)
	_, err = m.VerifyAccessToken(noSID)
	assert.ErrorIs(t, err, ErrMissingSessionClaim)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &JWTClaims{Username: "alice", SessionID: "x"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.VerifyAccessToken(unsigned)
	assert.Error(t, err, "alg none")
}

func TestJWTManager_RevokeSession(t *testing.T) {
	m := NewJWTManager("secret", "workspace-backend", time.Hour)
	now := time.Now()
	m.now = func() time.Time { return now }

	revoked, err := m.GenerateAccessToken("alice", "sid-1")
	require.NoError(t, err)
	other, err := m.GenerateAccessToken("alice", "sid-2")
	require.NoError(t, err)

	m.RevokeSession("sid-1")
	_, err = m.VerifyAccessToken(revoked)
	assert.ErrorIs(t, err, ErrSessionRevoked)
	_, err = m.VerifyAccessToken(other)
	assert.NoError(t, err)

	// revocations outlive the token lifetime only until the next prune
	now = now.Add(time.Hour)
	m.RevokeSession("sid-3")
	assert.NotContains(t, m.revoked, "sid-1")
	assert.Contains(t, m.revoked, "sid-3")
}

func TestExtractTokenFromHeader(t *testing.T) {
	tok, err := ExtractTokenFromHeader("Bearer abc.def")
	require.NoError(t, err)
	assert.Equal(t, "abc.def", tok)

	for _, h := range []string{"", "Bearer ", "bearer abc", "Token abc"} {
		_, err := ExtractTokenFromHeader(h)
		assert.ErrorIs(t, err, ErrInvalidAuthHeader, h)
	}
}

func TestTOTPManager(t *testing.T) {
	m := NewTOTPManager("", "seed")
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, m.SecretFor("Alice"), m.SecretFor("alice"))
	assert.NotEqual(t, m.SecretFor("alice"), m.SecretFor("bob"))
	assert.NotEqual(t, m.SecretFor("alice"), NewTOTPManager("", "other").SecretFor("alice"))

	code, err := m.GenerateCode("alice", now)
	require.NoError(t, err)
	assert.Len(t, code, 6)

	assert.True(t, m.ValidateCode("alice", code, now))
	assert.True(t, m.ValidateCode("alice", code, now.Add(TOTPPeriod*time.Second)), "one period of skew")
	assert.False(t, m.ValidateCode("alice", code, now.Add(5*TOTPPeriod*time.Second)))

	u := m.ProvisioningURL("alice")
	assert.True(t, strings.HasPrefix(u, "otpauth://totp/Accops%20Workspace:alice?"))
	assert.Contains(t, u, "secret="+m.SecretFor("alice"))
}

func TestGenerateQRCode(t *testing.T) {
	png, err := GenerateQRCode("workspace://qr-login/abc", 0)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG\r\n\x1a\n")))
}
