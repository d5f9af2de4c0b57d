package activity

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/linesmerrill/court-records-api/models"
)

const (
	writeWait  = 5 * time.Second
	sendBuffer = 64
)

// feedClient owns one connection. Only its writer goroutine writes to conn.
type feedClient struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *feedClient) close() {
	c.once.Do(func() { close(c.send) })
}

// Hub fans persisted activity out to connected websocket clients. Broadcast never
// waits on a socket: a client whose buffer is full is disconnected.
type Hub struct {
	upgrader websocket.Upgrader
	clients  map[*feedClient]struct{}
	mutex    sync.Mutex
}

// NewHub returns a hub accepting connections from the given origins. No origins means any.
func NewHub(origins []string) *Hub {
	allowed := map[string]bool{}
	for _, o := range origins {
		allowed[o] = true
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allowed) == 0 || origin == "" || allowed[origin]
			},
		},
		clients: map[*feedClient]struct{}{},
	}
}

// ServeWS upgrades the request and keeps the connection registered until it closes
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Warnw("websocket upgrade error", "error", err)
		return
	}

	c := &feedClient{conn: conn, send: make(chan []byte, sendBuffer)}
	h.mutex.Lock()
	h.clients[c] = struct{}{}
	h.mutex.Unlock()
	zap.S().Debugw("activity feed client connected", "remote", r.RemoteAddr)

	go h.writePump(c)
	for {
		if _, _, err := conn.NextReader(); err != nil {
			break
		}
	}
	h.remove(c)
}

func (h *Hub) writePump(c *feedClient) {
	defer c.conn.Close()
	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			zap.S().Debugw("dropping activity feed client", "error", err)
			h.remove(c)
			// drain so remove's close ends the loop
			for range c.send {
			}
			return
		}
	}
	_ = c.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
}

func (h *Hub) remove(c *feedClient) {
	h.mutex.Lock()
	delete(h.clients, c)
	h.mutex.Unlock()
	c.close()
}

// Count returns the number of connected clients
func (h *Hub) Count() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Broadcast queues a for every client and disconnects clients that have fallen behind
func (h *Hub) Broadcast(a models.Activity) {
	msg, err := json.Marshal(map[string]interface{}{
		"event": "activity",
		"data":  a,
	})
	if err != nil {
		zap.S().Errorw("failed to encode activity for the feed", "error", err)
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			zap.S().Warnw("activity feed client too slow, disconnecting", "remote", c.conn.RemoteAddr().String())
			delete(h.clients, c)
			c.close()
		}
	}
}
