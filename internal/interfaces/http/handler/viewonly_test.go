package handler

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/tenant"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestViewOnlyHandler_GetSet(t *testing.T) {
	env := newTestEnv(t)

	var resp dto.ViewOnlyResponse
	decode(t, env.do(t, http.MethodGet, "/api/v1/view-only", nil), &resp)
	assert.False(t, resp.Enabled)
	assert.Equal(t, env.deviceID, resp.DeviceID)

	w := env.do(t, http.MethodPut, "/api/v1/view-only", map[string]bool{"enabled": true})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &resp)
	assert.True(t, resp.Enabled)

	decode(t, env.do(t, http.MethodGet, "/api/v1/view-only", nil), &resp)
	assert.True(t, resp.Enabled)

	w = env.do(t, http.MethodPut, "/api/v1/view-only", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type sseReader struct {
	scanner *bufio.Scanner
}

// next returns the event name and data of the next event
func (r *sseReader) next(t *testing.T) (string, string) {
	t.Helper()
	var event, data string
	for r.scanner.Scan() {
		line := r.scanner.Text()
		switch {
		case line == "":
			if event != "" || data != "" {
				return event, data
			}
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		}
	}
	t.Fatalf("stream ended: %v", r.scanner.Err())
	return "", ""
}

func TestViewOnlyStreamHandler_DeliversOwnDeviceOnly(t *testing.T) {
	env := newTestEnv(t)
	stream := NewViewOnlyStreamHandler(env.bus, WithSSELogger(zap.NewNop()), WithSSEHeartbeat(time.Hour))
	require.NoError(t, stream.Start())
	defer stream.Stop()
	assert.Error(t, stream.Start())

	engine := gin.New()
	engine.Use(middleware.Session(env.registry, middleware.SessionConfig{}))
	engine.GET("/stream", stream.Stream)
	srv := httptest.NewServer(engine)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/stream", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: middleware.DefaultSessionCookie, Value: env.deviceID})

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	r := &sseReader{scanner: bufio.NewScanner(resp.Body)}
	event, _ := r.next(t)
	assert.Equal(t, "connected", event)
	assert.Equal(t, 1, stream.ClientCount())

	require.NoError(t, env.tenants.SetViewOnly(ctx, uuid.NewString(), true))
	require.NoError(t, env.tenants.SetViewOnly(ctx, env.deviceID, true))

	event, data := r.next(t)
	assert.Equal(t, "view_only_changed", event)
	assert.JSONEq(t, `{"device_id":"`+env.deviceID+`","enabled":true}`, data)
}

func TestViewOnlyStreamHandler_MaxClients(t *testing.T) {
	env := newTestEnv(t)
	stream := NewViewOnlyStreamHandler(env.bus, WithSSEMaxClients(1))
	require.True(t, stream.reserve())

	engine := gin.New()
	engine.Use(middleware.Session(env.registry, middleware.SessionConfig{}))
	engine.GET("/stream", stream.Stream)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stream", nil))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	e := decode(t, w, nil)
	assert.Equal(t, dto.ErrCodeMaxConnectionsReach, e.Error.Code)
}

func TestViewOnlyStreamHandler_ConcurrentConnectsRespectCap(t *testing.T) {
	stream := NewViewOnlyStreamHandler(nil, WithSSEMaxClients(5))

	var granted atomic.Int64
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if stream.reserve() {
				granted.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(5), granted.Load())
	assert.Equal(t, 5, stream.ClientCount())
}

func TestViewOnlyStreamHandler_IgnoresOtherEvents(t *testing.T) {
	stream := NewViewOnlyStreamHandler(nil)
	client := &SSEClient{ID: "c", DeviceID: "d", Chan: make(chan SSEMessage, 1), Done: make(chan struct{})}
	stream.clients.Store(client.ID, client)

	require.NoError(t, stream.Handle(context.Background(), tenant.NewViewOnlyToggledEvent("other", true)))
	assert.Empty(t, client.Chan)

	require.NoError(t, stream.Handle(context.Background(), tenant.NewViewOnlyToggledEvent("d", false)))
	msg := <-client.Chan
	assert.Equal(t, "view_only_changed", msg.Event)
	assert.Equal(t, []string{tenant.EventTypeViewOnlyToggled}, stream.EventTypes())
}
