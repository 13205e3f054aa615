package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"Mansoor88-6/launcher-kit/internal/bridge"
	"Mansoor88-6/launcher-kit/internal/monitoring"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	clientBuffer = 64
	writeWait    = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	// CORS is enforced on the HTTP routes; the event stream is read only
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type wsClient struct {
	conn *websocket.Conn
	addr string
	send chan []byte
	once sync.Once
}

func (c *wsClient) close() {
	c.once.Do(func() { close(c.send) })
}

// hub fans emitted events out to every connected stream. Clients that fall
// behind by more than clientBuffer messages are disconnected.
type hub struct {
	metrics *monitoring.Metrics
	logger  *zap.Logger

	mu      sync.Mutex
	clients map[*wsClient]struct{}
}

func newHub(metrics *monitoring.Metrics, logger *zap.Logger) *hub {
	return &hub{
		metrics: metrics,
		logger:  logger,
		clients: make(map[*wsClient]struct{}),
	}
}

func (h *hub) broadcast(event, payload string) {
	msg, err := json.Marshal(bridge.EventMessage{Event: event, Payload: payload})
	if err != nil {
		h.logger.Error("Failed to encode event", zap.String("event", event), zap.Error(err))
		return
	}

	dropped := 0
	h.mu.Lock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.logger.Warn("Dropping slow event stream client",
				zap.String("remote_addr", c.addr),
			)
			delete(h.clients, c)
			c.close()
			dropped++
		}
	}
	h.mu.Unlock()

	if dropped > 0 {
		h.setGauge()
	}
}

// serve owns conn until the peer disconnects
func (h *hub) serve(conn *websocket.Conn) {
	c := &wsClient{conn: conn, addr: conn.RemoteAddr().String(), send: make(chan []byte, clientBuffer)}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.setGauge()

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.writeLoop(c)
	}()

	// drain incoming frames so close and ping control messages are handled
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.remove(c)
	<-done
	conn.Close()
}

func (h *hub) writeLoop(c *wsClient) {
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.logger.Debug("Event stream write failed", zap.Error(err))
			h.remove(c)
			c.conn.Close()
			// keep draining until the channel is closed
			for range c.send {
			}
			return
		}
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.conn.Close()
}

func (h *hub) remove(c *wsClient) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
	}
	h.mu.Unlock()
	c.close()
	h.setGauge()
}

func (h *hub) closeAll() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[*wsClient]struct{})
	h.mu.Unlock()

	for c := range clients {
		c.close()
	}
	h.setGauge()
}

func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *hub) setGauge() {
	if h.metrics == nil {
		return
	}
	h.metrics.WSConnections.Set(float64(h.count()))
}
