package auth

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const DefaultTokenTTL = 8 * time.Hour

var (
	ErrInvalidToken        = errors.New("invalid token")
	ErrInvalidAuthHeader   = errors.New("invalid authorization header format")
	ErrMissingSessionClaim = errors.New("token has no session id")
	ErrSessionRevoked      = errors.New("session has been signed out")
)

// JWTClaims carries the signed-in user and the session that scopes their
// favorites and activity state.
type JWTClaims struct {
	Username  string `json:"username"`
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// JWTManager signs and verifies access tokens. Sessions revoked through
// RevokeSession are remembered in memory until every token issued for them
// has expired.
type JWTManager struct {
	secretKey []byte
	issuer    string
	ttl       time.Duration

	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

// NewJWTManager returns a manager issuing tokens valid for ttl. A
// non-positive ttl means DefaultTokenTTL.
func NewJWTManager(secretKey, issuer string, ttl time.Duration) *JWTManager {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &JWTManager{
		secretKey: []byte(secretKey),
		issuer:    issuer,
		ttl:       ttl,
		revoked:   make(map[string]time.Time),
		now:       time.Now,
	}
}

// TTL returns the lifetime of issued tokens.
func (m *JWTManager) TTL() time.Duration {
	return m.ttl
}

// GenerateAccessToken signs an HS256 token for a new session.
func (m *JWTManager) GenerateAccessToken(username, sessionID string) (string, error) {
	now := time.Now()
	claims := &JWTClaims{
		Username:  username,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    m.issuer,
			Subject:   username,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secretKey)
}

// VerifyAccessToken checks the signature, issuer, expiry and session of
// tokenString.
func (m *JWTManager) VerifyAccessToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secretKey, nil
	}, jwt.WithIssuer(m.issuer))
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.SessionID == "" {
		return nil, ErrMissingSessionClaim
	}
	if m.isRevoked(claims.SessionID) {
		return nil, ErrSessionRevoked
	}
	return claims, nil
}

// RevokeSession rejects every token carrying sessionID from now on. Expired
// revocations are pruned on each call.
func (m *JWTManager) RevokeSession(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for sid, until := range m.revoked {
		if !now.Before(until) {
			delete(m.revoked, sid)
		}
	}
	m.revoked[sessionID] = now.Add(m.ttl)
}

func (m *JWTManager) isRevoked(sessionID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	until, ok := m.revoked[sessionID]
	return ok && m.now().Before(until)
}

// NewSessionID returns a fresh session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// ExtractTokenFromHeader parses "Bearer <token>".
func ExtractTokenFromHeader(authHeader string) (string, error) {
	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return "", ErrInvalidAuthHeader
	}
	token := strings.TrimSpace(authHeader[len(bearerPrefix):])
	if token == "" {
		return "", ErrInvalidAuthHeader
	}
	return token, nil
}
