package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/audily-music-platform/pkg/events"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // single tenant deployment, origins are not restricted
	},
}

// Consumer is the slice of the Kafka client the feed needs.
type Consumer interface {
	ConsumeEvents(ctx context.Context, handler func(events.Event) error) error
}

// Handler pushes engagement events to connected clients. Every
// connection receives every play; there is one feed for the whole
// deployment.
type Handler struct {
	mu     sync.RWMutex
	conns  map[string]*websocket.Conn
	events Consumer
	logger zerolog.Logger

	startOnce sync.Once
}

func NewHandler(consumer Consumer, logger zerolog.Logger) *Handler {
	return &Handler{
		conns:  make(map[string]*websocket.Conn),
		events: consumer,
		logger: logger.With().Str("component", "ws").Logger(),
	}
}

// Start launches the Kafka consumer loop feeding the broadcast. It
// returns when ctx is cancelled.
func (h *Handler) Start(ctx context.Context) {
	h.startOnce.Do(func() {
		go h.consume(ctx)
	})
}

func (h *Handler) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("failed to upgrade connection")
		return
	}

	// Keyed per connection, not per session, so multiple tabs on the
	// same login each get the feed.
	connID := uuid.New().String()
	h.addConnection(connID, conn)
	defer h.removeConnection(connID)

	// Drain the connection so close frames are processed. Clients do
	// not send application messages on this feed.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Debug().Err(err).Msg("websocket read error")
			}
			return
		}
	}
}

func (h *Handler) addConnection(connID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[connID] = conn
}

func (h *Handler) removeConnection(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conn, ok := h.conns[connID]; ok {
		conn.Close()
		delete(h.conns, connID)
	}
}

func (h *Handler) broadcast(event events.Event) {
	message, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to marshal event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, conn := range h.conns {
		if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
			h.logger.Debug().Err(err).Str("conn", id).Msg("failed to push event")
		}
	}
}

func (h *Handler) consume(ctx context.Context) {
	err := h.events.ConsumeEvents(ctx, func(event events.Event) error {
		if event.Type == events.EventTypeSongPlayed {
			h.broadcast(event)
		}
		return nil
	})
	if err != nil && ctx.Err() == nil {
		h.logger.Error().Err(err).Msg("event consumer stopped")
	}
}
