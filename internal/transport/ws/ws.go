package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/alanyang/agent-status/internal/domain/event"
	"github.com/alanyang/agent-status/internal/domain/loading"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Kind string

const (
	KindLoading Kind = "loading"
	KindEvent   Kind = "event"
)

// Message is the envelope written to every websocket client.
type Message struct {
	Kind    Kind            `json:"kind"`
	Loading *loading.Update `json:"loading,omitempty"`
	Event   *event.Event    `json:"event,omitempty"`
}

// SnapshotFunc returns the current state of a conversation for a client that just attached.
type SnapshotFunc func(ctx context.Context, conversationID string) loading.Update

type client struct {
	id             uuid.UUID
	conn           *websocket.Conn
	conversationID string

	writeMu sync.Mutex
}

func (c *client) watches(conversationID string) bool {
	return c.conversationID == "" || c.conversationID == conversationID
}

func (c *client) write(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub fans loading updates and signal events out to websocket clients.
// Clients connecting with ?conversation_id= only receive that conversation.
type Hub struct {
	clients  map[uuid.UUID]*client
	mu       sync.RWMutex
	snapshot SnapshotFunc
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[uuid.UUID]*client),
	}
}

// SetSnapshot installs the lookup used to greet new clients.
func (h *Hub) SetSnapshot(fn SnapshotFunc) {
	h.mu.Lock()
	h.snapshot = fn
	h.mu.Unlock()
}

func (h *Hub) Register(rg *gin.RouterGroup) {
	rg.GET("", h.handleWS)
}

// Clients reports the number of attached clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) handleWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err)
		return
	}

	cl := &client{id: uuid.New(), conn: conn, conversationID: c.Query("conversation_id")}

	h.mu.Lock()
	h.clients[cl.id] = cl
	snapshot := h.snapshot
	h.mu.Unlock()
	slog.Debug("websocket client attached", "client_id", cl.id, "conversation_id", cl.conversationID)

	defer func() {
		h.mu.Lock()
		delete(h.clients, cl.id)
		h.mu.Unlock()
		conn.Close()
	}()

	if snapshot != nil && cl.conversationID != "" {
		u := snapshot(c.Request.Context(), cl.conversationID)
		if data, err := json.Marshal(Message{Kind: KindLoading, Loading: &u}); err == nil {
			if err := cl.write(data); err != nil {
				slog.Error("websocket write failed", "client_id", cl.id, "error", err)
				return
			}
		}
	}

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// NotifyLoading implements notifier.LoadingNotifier.
func (h *Hub) NotifyLoading(_ context.Context, u loading.Update) error {
	data, err := json.Marshal(Message{Kind: KindLoading, Loading: &u})
	if err != nil {
		return fmt.Errorf("marshal loading update: %w", err)
	}
	h.broadcast(u.ConversationID, data)
	return nil
}

// Broadcast forwards a bus event to clients watching its conversation.
func (h *Hub) Broadcast(e event.Event) {
	data, err := json.Marshal(Message{Kind: KindEvent, Event: &e})
	if err != nil {
		slog.Error("websocket broadcast marshal failed", "error", err)
		return
	}
	h.broadcast(e.ConversationID, data)
}

func (h *Hub) broadcast(conversationID string, data []byte) {
	h.mu.RLock()
	targets := make([]*client, 0, len(h.clients))
	for _, cl := range h.clients {
		if cl.watches(conversationID) {
			targets = append(targets, cl)
		}
	}
	h.mu.RUnlock()

	for _, cl := range targets {
		if err := cl.write(data); err != nil {
			slog.Error("websocket write failed", "client_id", cl.id, "conversation_id", conversationID, "error", err)
		}
	}
}
