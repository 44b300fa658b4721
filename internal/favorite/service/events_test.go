package service

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/workspace-backend/internal/auth/middleware"
	"github.com/lk2023060901/workspace-backend/internal/favorite/biz"
	"github.com/lk2023060901/workspace-backend/internal/favorite/types"
	"github.com/lk2023060901/workspace-backend/internal/pkg/logger"
	"github.com/lk2023060901/workspace-backend/internal/pkg/sse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type noCatalog struct{}

func (noCatalog) FavoriteSnapshot(context.Context, types.ItemType, string) (types.FavoriteItem, bool) {
	return types.FavoriteItem{}, false
}

func readEvent(t *testing.T, sc *bufio.Scanner) (string, string) {
	t.Helper()
	var name, data string
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		case line == "" && name != "":
			return name, data
		}
	}
	require.NoError(t, sc.Err())
	t.Fatal("stream ended before a complete event")
	return "", ""
}

func newEventsServer(svc *FavoriteService) *httptest.Server {
	router := gin.New()
	api := router.Group("/api/v1", func(c *gin.Context) {
		c.Set(middleware.ContextKeySessionID, "s1")
		c.Next()
	})
	svc.RegisterRoutes(api)
	return httptest.NewServer(router)
}

func openEvents(t *testing.T, ctx context.Context, ts *httptest.Server) *bufio.Scanner {
	t.Helper()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/v1/favorites/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	return bufio.NewScanner(resp.Body)
}

func TestFavoriteService_Events(t *testing.T) {
	gin.SetMode(gin.TestMode)

	uc := biz.NewFavoriteUseCase(biz.NewRegistry(), noCatalog{}, logger.NewNop())
	svc := NewFavoriteService(uc, sse.NewHub(), logger.NewNop())
	ts := newEventsServer(svc)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	sc := openEvents(t, ctx, ts)
	var err error

	name, _ := readEvent(t, sc)
	assert.Equal(t, "connected", name)

	name, data := readEvent(t, sc)
	assert.Equal(t, EventFavorites, name)
	var list types.FavoriteList
	require.NoError(t, json.Unmarshal([]byte(data), &list))
	assert.Equal(t, 0, list.Total)

	_, err = uc.Toggle(context.Background(), "s1", types.FavoriteItem{ID: "chrome", Name: "Chrome", Type: types.ItemTypeWeb})
	require.NoError(t, err)
	// other sessions do not reach this stream
	_, err = uc.Toggle(context.Background(), "s2", types.FavoriteItem{ID: "excel", Name: "Excel", Type: types.ItemTypeApplication})
	require.NoError(t, err)

	name, data = readEvent(t, sc)
	assert.Equal(t, EventFavorites, name)
	require.NoError(t, json.Unmarshal([]byte(data), &list))
	assert.Equal(t, 1, list.Total)
	require.Len(t, list.Apps, 1)
	assert.Equal(t, "chrome", list.Apps[0].ID)

	uc.Clear(context.Background(), "s1")
	name, data = readEvent(t, sc)
	assert.Equal(t, EventFavorites, name)
	require.NoError(t, json.Unmarshal([]byte(data), &list))
	assert.Equal(t, 0, list.Total)
}

func TestFavoriteService_EventsSeesToggleDuringSubscribe(t *testing.T) {
	gin.SetMode(gin.TestMode)

	uc := biz.NewFavoriteUseCase(biz.NewRegistry(), noCatalog{}, logger.NewNop())

	// Toggle from inside the handler, after the snapshot has been taken but
	// before the stream starts writing.
	var once sync.Once
	toggled := make(chan error, 1)
	core, _ := observer.New(zapcore.DebugLevel)
	hooked := zap.New(core, zap.Hooks(func(e zapcore.Entry) error {
		if e.Message == "favorites stream opened" {
			once.Do(func() {
				_, err := uc.Toggle(context.Background(), "s1", types.FavoriteItem{ID: "chrome", Name: "Chrome", Type: types.ItemTypeWeb})
				toggled <- err
			})
		}
		return nil
	}))

	svc := NewFavoriteService(uc, sse.NewHub(), &logger.Logger{Logger: hooked})
	ts := newEventsServer(svc)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	sc := openEvents(t, ctx, ts)

	name, _ := readEvent(t, sc)
	require.Equal(t, "connected", name)
	require.NoError(t, <-toggled)

	var list types.FavoriteList
	for list.Total == 0 {
		name, data := readEvent(t, sc)
		require.Equal(t, EventFavorites, name)
		require.NoError(t, json.Unmarshal([]byte(data), &list))
	}
	assert.Equal(t, 1, list.Total)
	assert.Equal(t, uint64(1), list.Revision)
	assert.Equal(t, uc.List(context.Background(), "s1").Total, list.Total)
}
