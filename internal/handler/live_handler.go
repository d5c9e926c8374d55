package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/wanderdesk/service-bookings/internal/domain"
	"github.com/wanderdesk/service-bookings/internal/notifier"
)

const (
	// writeWait bounds a single signal write to a subscriber.
	writeWait = 10 * time.Second

	// readWait is the idle window before a subscriber is presumed dead.
	// Clients ping every 20 seconds; any inbound frame resets the window.
	readWait = 45 * time.Second
)

// changedMessage is the content-free signal; any message means "re-fetch now".
var changedMessage = []byte("changed")

// LiveHandler bridges hub subscriptions onto WebSocket connections.
type LiveHandler struct {
	hub      *notifier.Hub
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// NewLiveHandler creates a new LiveHandler.
func NewLiveHandler(hub *notifier.Hub, logger *zap.Logger) *LiveHandler {
	return &LiveHandler{
		hub:    hub,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  256,
			WriteBufferSize: 256,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// RegisterRoutes registers the live-update channel.
func (h *LiveHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/ws", h.Serve)
}

// Serve handles GET /ws. No handshake payload is required; the server
// pushes a signal after each mutation until the client goes away.
func (h *LiveHandler) Serve(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		h.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ch := h.hub.Subscribe()
	defer h.hub.Unsubscribe(ch)

	h.logger.Debug("subscriber connected", zap.String("remote", conn.RemoteAddr().String()))

	// Reader: consume liveness pings without interpreting them, and detect
	// disconnects. Closing done ends the writer loop.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_ = conn.SetReadDeadline(time.Now().Add(readWait))
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, changedMessage); err != nil {
				h.logger.Debug("subscriber dropped",
					zap.Error(domain.NewConnectionError("push change signal", err)))
				return
			}
		case <-done:
			return
		}
	}
}
