package logger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{name: "nil config uses default", config: nil},
		{name: "default config", config: DefaultConfig()},
		{
			name:   "console format",
			config: &Config{Level: "debug", Format: FormatConsole, Output: OutputConsole},
		},
		{
			name: "file output",
			config: &Config{
				Level:  "info",
				Format: FormatJSON,
				Output: OutputFile,
				File: FileConfig{
					Filename:   filepath.Join(dir, "test.log"),
					MaxSize:    10,
					MaxAge:     7,
					MaxBackups: 3,
				},
			},
		},
		{
			name: "both output",
			config: &Config{
				Level:  "warn",
				Format: FormatJSON,
				Output: OutputBoth,
				File: FileConfig{
					Filename:   filepath.Join(dir, "nested", "test.log"),
					MaxSize:    10,
					MaxAge:     7,
					MaxBackups: 0,
				},
			},
		},
		{
			name:    "invalid level",
			config:  &Config{Level: "loud", Format: FormatJSON, Output: OutputConsole},
			wantErr: true,
		},
		{
			name:    "invalid format",
			config:  &Config{Level: "info", Format: "xml", Output: OutputConsole},
			wantErr: true,
		},
		{
			name:    "invalid output",
			config:  &Config{Level: "info", Format: FormatJSON, Output: "syslog"},
			wantErr: true,
		},
		{
			name:    "file output without filename",
			config:  &Config{Level: "info", Format: FormatJSON, Output: OutputFile},
			wantErr: true,
		},
		{
			name: "file output with zero max size",
			config: &Config{
				Level:  "info",
				Format: FormatJSON,
				Output: OutputFile,
				File:   FileConfig{Filename: filepath.Join(dir, "x.log"), MaxAge: 1},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.config)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, l)
			l.Info("logger test", zap.String("case", tt.name))
		})
	}
}

func TestLogger_WithAndNamed(t *testing.T) {
	l, err := New(DefaultConfig())
	require.NoError(t, err)

	child := l.With(zap.String("key", "value"))
	require.NotNil(t, child)
	assert.Same(t, l.Config(), child.Config())

	named := l.Named("favorites")
	require.NotNil(t, named)
	named.Info("named logger works")
}

func TestContextValues(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRequestID(ctx))
	assert.Empty(t, GetSessionID(ctx))
	assert.Empty(t, GetUsername(ctx))

	ctx = WithRequestID(ctx, "req-1")
	ctx = WithSessionID(ctx, "sid-1")
	ctx = WithUsername(ctx, "sanjeev.tiwari")

	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, "sid-1", GetSessionID(ctx))
	assert.Equal(t, "sanjeev.tiwari", GetUsername(ctx))

	l := NewNop()
	assert.NotSame(t, l, l.WithContext(ctx))
	assert.Same(t, l, l.WithContext(context.Background()))

	ctx = ToContext(ctx, l)
	assert.NotNil(t, FromContext(ctx))
}

func TestGlobalLogger(t *testing.T) {
	require.NotNil(t, L())
	require.NoError(t, InitGlobal(DefaultConfig()))

	Debug("debug message")
	Info("info message", zap.Int("n", 1))
	Warn("warn message")
	Error("error message")
	_ = Sync()
}

func TestGinLogger_SetsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(GinRecovery(NewNop()), GinLogger(NewNop(), MiddlewareOptions{SkipPaths: []string{"/health"}}))

	var seen string
	r.GET("/ping", func(c *gin.Context) {
		seen = GetRequestID(c.Request.Context())
		c.Status(http.StatusNoContent)
	})
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "fixed-id")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "fixed-id", w.Header().Get(RequestIDHeader))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
