package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/tenant"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

const sseMessageBufferSize = 16

// SSEClient is one open view of a device
type SSEClient struct {
	ID       string
	DeviceID string
	Chan     chan SSEMessage
	Done     chan struct{}
}

// SSEMessage is a single server-sent event
type SSEMessage struct {
	Event string `json:"event"`
	Data  string `json:"data"`
	ID    string `json:"id,omitempty"`
}

// ViewOnlyChangedPayload is the data of a view_only_changed event
type ViewOnlyChangedPayload struct {
	DeviceID string `json:"device_id"`
	Enabled  bool   `json:"enabled"`
}

// ViewOnlyStreamHandler pushes view-only toggles to every open view of the toggling device
type ViewOnlyStreamHandler struct {
	BaseHandler
	subscriber shared.EventSubscriber
	logger     *zap.Logger
	clients    sync.Map // client ID -> *SSEClient
	connected  atomic.Int64
	ctx        context.Context
	cancel     context.CancelFunc
	heartbeat  time.Duration
	maxClients int
	started    bool
	startMu    sync.Mutex
}

// ViewOnlyStreamOption configures the stream handler
type ViewOnlyStreamOption func(*ViewOnlyStreamHandler)

// WithSSELogger sets the logger
func WithSSELogger(logger *zap.Logger) ViewOnlyStreamOption {
	return func(h *ViewOnlyStreamHandler) {
		h.logger = logger
	}
}

// WithSSEHeartbeat sets the heartbeat interval
func WithSSEHeartbeat(interval time.Duration) ViewOnlyStreamOption {
	return func(h *ViewOnlyStreamHandler) {
		h.heartbeat = interval
	}
}

// WithSSEMaxClients caps concurrent streams; 0 means unlimited
func WithSSEMaxClients(max int) ViewOnlyStreamOption {
	return func(h *ViewOnlyStreamHandler) {
		h.maxClients = max
	}
}

// NewViewOnlyStreamHandler creates a stream handler fed by subscriber
func NewViewOnlyStreamHandler(subscriber shared.EventSubscriber, opts ...ViewOnlyStreamOption) *ViewOnlyStreamHandler {
	ctx, cancel := context.WithCancel(context.Background())
	h := &ViewOnlyStreamHandler{
		subscriber: subscriber,
		logger:     zap.NewNop(),
		ctx:        ctx,
		cancel:     cancel,
		heartbeat:  30 * time.Second,
		maxClients: 10000,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Start subscribes to view-only toggles and begins the heartbeat
func (h *ViewOnlyStreamHandler) Start() error {
	h.startMu.Lock()
	defer h.startMu.Unlock()

	if h.started {
		return errors.New("view-only stream already started")
	}
	h.subscriber.Subscribe(h, tenant.EventTypeViewOnlyToggled)
	go h.sendHeartbeats()

	h.started = true
	h.logger.Info("View-only stream started")
	return nil
}

// Stop unsubscribes and disconnects every client
func (h *ViewOnlyStreamHandler) Stop() {
	h.startMu.Lock()
	defer h.startMu.Unlock()

	if h.started {
		h.subscriber.Unsubscribe(h)
		h.started = false
	}
	h.cancel()
	h.logger.Info("View-only stream stopped")
}

// Handle implements shared.EventHandler
func (h *ViewOnlyStreamHandler) Handle(_ context.Context, evt shared.DomainEvent) error {
	toggled, ok := evt.(*tenant.ViewOnlyToggledEvent)
	if !ok {
		return nil
	}
	data, err := json.Marshal(ViewOnlyChangedPayload{DeviceID: toggled.DeviceID, Enabled: toggled.Enabled})
	if err != nil {
		return err
	}
	h.sendToDevice(toggled.DeviceID, SSEMessage{
		Event: "view_only_changed",
		Data:  string(data),
		ID:    toggled.EventID().String(),
	})
	return nil
}

// EventTypes implements shared.EventHandler
func (h *ViewOnlyStreamHandler) EventTypes() []string {
	return []string{tenant.EventTypeViewOnlyToggled}
}

func (h *ViewOnlyStreamHandler) sendToDevice(deviceID string, msg SSEMessage) {
	h.clients.Range(func(_, value any) bool {
		client := value.(*SSEClient)
		if client.DeviceID == deviceID {
			h.offer(client, msg)
		}
		return true
	})
}

func (h *ViewOnlyStreamHandler) broadcast(msg SSEMessage) {
	h.clients.Range(func(_, value any) bool {
		h.offer(value.(*SSEClient), msg)
		return true
	})
}

func (h *ViewOnlyStreamHandler) offer(client *SSEClient, msg SSEMessage) {
	select {
	case <-client.Done:
	case client.Chan <- msg:
	default:
		h.logger.Warn("Client channel full, dropping message",
			zap.String("client_id", client.ID),
			zap.String("event", msg.Event))
	}
}

func (h *ViewOnlyStreamHandler) sendHeartbeats() {
	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			return
		case <-ticker.C:
			h.broadcast(SSEMessage{
				Event: "heartbeat",
				Data:  fmt.Sprintf(`{"timestamp":%d}`, time.Now().Unix()),
			})
		}
	}
}

// Stream godoc
// @Summary      Subscribe to view-only changes of this device
// @Tags         view-only
// @Produce      text/event-stream
// @Success      200 {string} string "SSE stream"
// @Failure      503 {object} dto.Response
// @Router       /view-only/stream [get]
func (h *ViewOnlyStreamHandler) Stream(c *gin.Context) {
	deviceID := middleware.GetSessionID(c)
	if deviceID == "" {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeNoSession, "Session unavailable")
		return
	}
	if !h.reserve() {
		h.Error(c, http.StatusServiceUnavailable, dto.ErrCodeMaxConnectionsReach, "Maximum number of stream connections reached")
		return
	}
	defer h.connected.Add(-1)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	client := &SSEClient{
		ID:       uuid.NewString(),
		DeviceID: deviceID,
		Chan:     make(chan SSEMessage, sseMessageBufferSize),
		Done:     make(chan struct{}),
	}
	h.clients.Store(client.ID, client)
	defer func() {
		h.clients.Delete(client.ID)
		close(client.Done)
	}()

	h.logger.Debug("Stream client connected",
		zap.String("client_id", client.ID),
		zap.String("device_id", deviceID))

	h.sendEvent(c.Writer, SSEMessage{
		Event: "connected",
		Data:  fmt.Sprintf(`{"client_id":%q,"timestamp":%d}`, client.ID, time.Now().Unix()),
	})
	c.Writer.Flush()

	reqCtx := c.Request.Context()
	for {
		select {
		case <-reqCtx.Done():
			h.logger.Debug("Stream client disconnected", zap.String("client_id", client.ID))
			return
		case <-h.ctx.Done():
			return
		case msg := <-client.Chan:
			h.sendEvent(c.Writer, msg)
			c.Writer.Flush()
		}
	}
}

func (h *ViewOnlyStreamHandler) sendEvent(w io.Writer, msg SSEMessage) {
	if msg.Event != "" {
		fmt.Fprintf(w, "event: %s\n", msg.Event)
	}
	if msg.ID != "" {
		fmt.Fprintf(w, "id: %s\n", msg.ID)
	}
	fmt.Fprintf(w, "data: %s\n\n", msg.Data)
}

// reserve claims a stream slot; the caller releases it by decrementing connected
func (h *ViewOnlyStreamHandler) reserve() bool {
	n := h.connected.Add(1)
	if h.maxClients > 0 && n > int64(h.maxClients) {
		h.connected.Add(-1)
		return false
	}
	return true
}

// ClientCount returns the number of open streams
func (h *ViewOnlyStreamHandler) ClientCount() int {
	return int(h.connected.Load())
}
