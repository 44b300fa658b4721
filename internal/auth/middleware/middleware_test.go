package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/workspace-backend/internal/auth"
	"github.com/lk2023060901/workspace-backend/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthRouter(m *auth.JWTManager) *gin.Engine {
	r := gin.New()
	r.GET("/me", JWTAuth(m, logger.NewNop()), func(c *gin.Context) {
		user, _ := GetUsername(c)
		sid, _ := GetSessionID(c)
		c.JSON(http.StatusOK, gin.H{
			"username":   user,
			"session_id": sid,
			"ctx_sid":    logger.GetSessionID(c.Request.Context()),
		})
	})
	return r
}

func TestJWTAuth(t *testing.T) {
	m := auth.NewJWTManager("secret", "workspace-backend", time.Hour)
	r := newAuthRouter(m)

	token, err := m.GenerateAccessToken("alice", "sid-1")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{name: "valid", header: "Bearer " + token, status: http.StatusOK},
		{name: "missing", header: "", status: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic " + token, status: http.StatusUnauthorized},
		{name: "garbage", header: "Bearer nope", status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.JSONEq(t, `{"username":"alice","session_id":"sid-1","ctx_sid":"sid-1"}`, w.Body.String())
			}
		})
	}
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

// countingRunner mimics the sliding window script with a fixed budget.
type countingRunner struct {
	calls int
	limit int
	err   error
}

func (r *countingRunner) Eval(_ context.Context, _ string, _ []string, _ ...interface{}) (interface{}, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.calls++
	reset := time.Now().Add(30 * time.Second).Unix()
	if r.calls > r.limit {
		return []interface{}{int64(0), int64(0), reset}, nil
	}
	return []interface{}{int64(1), int64(r.limit - r.calls), reset}, nil
}

func TestRateLimiter(t *testing.T) {
	runner := &countingRunner{limit: 2}
	r := gin.New()
	r.POST("/login", LoginRateLimiter(runner, 2, logger.NewNop()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		codes = append(codes, w.Code)
		if i == 2 {
			assert.NotEmpty(t, w.Header().Get("Retry-After"))
			assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
		}
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	runner := &countingRunner{err: errors.New("redis down")}
	r := gin.New()
	r.POST("/login", LoginRateLimiter(runner, 1, logger.NewNop()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBuildRateLimitKey(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.RemoteAddr = "10.0.0.1:1234"

	assert.Equal(t, "rate_limit:ip:10.0.0.1", buildRateLimitKey(c, ""))
	assert.Equal(t, "rate_limit:ip:10.0.0.1", buildRateLimitKey(c, "session"))

	c.Set(ContextKeySessionID, "sid-9")
	assert.Equal(t, "rate_limit:session:sid-9", buildRateLimitKey(c, "session"))
}
