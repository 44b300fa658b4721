package sse

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/workspace-backend/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventFormatSSE(t *testing.T) {
	out, err := Event{Type: "favorites", Data: map[string]int{"total": 2}}.FormatSSE()
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "event: favorites", lines[0])
	require.True(t, strings.HasPrefix(lines[1], "data: "))
	assert.Empty(t, lines[2])

	var data map[string]int
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(lines[1], "data: ")), &data))
	assert.Equal(t, 2, data["total"])
}

func TestHub_BroadcastToResource(t *testing.T) {
	hub := NewHub()
	a := NewClient("favorites:s1", 1)
	b := NewClient("favorites:s2", 1)
	hub.Register(a)
	hub.Register(b)

	hub.Broadcast("favorites:s1", Event{Type: "favorites"})

	select {
	case ev := <-a.Channel:
		assert.Equal(t, "favorites", ev.Type)
	default:
		t.Fatal("expected event for s1")
	}
	assert.Empty(t, b.Channel)
}

func TestHub_BroadcastDropsWhenFull(t *testing.T) {
	hub := NewHub()
	c := NewClient("r", 1)
	hub.Register(c)

	hub.Broadcast("r", Event{Type: "first"})
	hub.Broadcast("r", Event{Type: "second"})

	require.Len(t, c.Channel, 1)
	assert.Equal(t, "first", (<-c.Channel).Type)
}

func TestHub_Unregister(t *testing.T) {
	hub := NewHub()
	c := NewClient("r", 0)
	assert.Equal(t, 10, cap(c.Channel))

	hub.Register(c)
	assert.Equal(t, 1, hub.ClientCount("r"))

	hub.Unregister(c)
	assert.Equal(t, 0, hub.ClientCount("r"))
	_, open := <-c.Channel
	assert.False(t, open)

	// second unregister must not close twice
	hub.Unregister(c)
	hub.Broadcast("r", Event{Type: "ignored"})
}

func TestEventFormatSSE_EncodeError(t *testing.T) {
	out, err := Event{Type: "favorites", Data: math.Inf(1)}.FormatSSE()
	assert.Error(t, err)
	assert.Empty(t, out)
}

func TestStreamResponse_SkipsUnencodableEvents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/events", nil)

	hub := NewHub()
	client := NewClient("r", 4)
	hub.Register(client)
	hub.Broadcast("r", Event{Type: "bad", Data: math.NaN()})
	hub.Broadcast("r", Event{Type: "good", Data: map[string]int{"n": 1}})
	hub.Unregister(client)

	StreamResponse(c, client, hub, time.Minute, logger.NewNop())

	body := w.Body.String()
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Contains(t, body, "event: connected\n")
	assert.NotContains(t, body, "event: bad")
	assert.Contains(t, body, "event: good\ndata: {\"n\":1}\n\n")
	assert.Equal(t, 0, hub.ClientCount("r"))
}
