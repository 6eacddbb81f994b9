package live

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	apperr "github.com/matzehuels/reasongraph/pkg/errors"
	"github.com/matzehuels/reasongraph/pkg/observability"
	"github.com/matzehuels/reasongraph/pkg/render"
	"github.com/matzehuels/reasongraph/pkg/view"
)

const (
	sendBuffer   = 16
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = pongWait * 9 / 10
	maxEventSize = 4096
)

// Message types exchanged over the socket.
const (
	MsgFrame     = "frame"
	MsgError     = "error"
	MsgDragStart = "dragstart"
	MsgDrag      = "drag"
	MsgDragEnd   = "dragend"
	MsgRefresh   = "refresh"
)

// Outbound is a server to client message.
type Outbound struct {
	Type    string        `json:"type"`
	Frame   *render.Frame `json:"frame,omitempty"`
	Code    string        `json:"code,omitempty"`
	Message string        `json:"message,omitempty"`
}

// Inbound is a client to server message.
type Inbound struct {
	Type string  `json:"type"`
	ID   string  `json:"id,omitempty"`
	X    float64 `json:"x,omitempty"`
	Y    float64 `json:"y,omitempty"`
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// Hub fans frames out to connected sockets.
type Hub struct {
	comp   *view.Component
	logger *log.Logger

	mu      sync.RWMutex
	clients map[string]*client
}

// NewHub creates a hub whose clients act on comp. Frames reach the clients
// once [Hub.Broadcast] is registered with comp.OnFrame.
func NewHub(comp *view.Component, logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		comp:    comp,
		logger:  logger,
		clients: make(map[string]*client),
	}
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast queues f for every client. Clients whose buffer is full miss
// the frame.
func (h *Hub) Broadcast(f render.Frame) {
	data, err := json.Marshal(Outbound{Type: MsgFrame, Frame: &f})
	if err != nil {
		h.logger.Error("encode frame", "err", err)
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		select {
		case c.send <- data:
		default:
			observability.Live().OnFrameDropped(context.Background(), c.id)
		}
	}
}

// Serve runs one socket until it closes. The first message sent is the
// current frame.
func (h *Hub) Serve(ctx context.Context, conn *websocket.Conn) {
	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
	logger := h.logger.With("client", c.id[:8])

	first, _ := json.Marshal(Outbound{Type: MsgFrame, Frame: ptr(h.comp.Frame())})
	c.send <- first

	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
	observability.Live().OnClientConnect(ctx, c.id)
	logger.Debug("client connected", "clients", h.Len())

	done := make(chan struct{})
	go h.writePump(c, done)
	err := h.readPump(c, logger)

	// Only drags still owned by this client are released.
	h.comp.ReleaseDrags(c.id)

	h.mu.Lock()
	delete(h.clients, c.id)
	h.mu.Unlock()
	close(done)
	observability.Live().OnClientDisconnect(ctx, c.id, err)
	logger.Debug("client disconnected", "err", err)
}

func (h *Hub) readPump(c *client, logger *log.Logger) error {
	c.conn.SetReadLimit(maxEventSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				return err
			}
			return nil
		}
		var msg Inbound
		if err := json.Unmarshal(data, &msg); err != nil {
			h.reply(c, apperr.Wrap(apperr.ErrCodeInvalidFormat, err, "decode event"))
			continue
		}
		if err := h.handle(c, msg); err != nil {
			logger.Debug("event rejected", "type", msg.Type, "node", msg.ID, "err", err)
			h.reply(c, err)
		}
	}
}

func (h *Hub) handle(c *client, msg Inbound) error {
	switch msg.Type {
	case MsgDragStart:
		return h.comp.DragStartAs(c.id, msg.ID, msg.X, msg.Y)
	case MsgDrag:
		return h.comp.DragMoveAs(c.id, msg.ID, msg.X, msg.Y)
	case MsgDragEnd:
		return h.comp.DragEndAs(c.id, msg.ID)
	case MsgRefresh:
		return h.comp.Refresh()
	default:
		return apperr.New(apperr.ErrCodeInvalidInput, "unknown event type %q", msg.Type)
	}
}

func (h *Hub) reply(c *client, err error) {
	data, _ := json.Marshal(Outbound{
		Type:    MsgError,
		Code:    string(apperr.GetCode(err)),
		Message: apperr.UserMessage(err),
	})
	select {
	case c.send <- data:
	default:
	}
}

func (h *Hub) writePump(c *client, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case data := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// CloseAll disconnects every client.
func (h *Hub) CloseAll() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		_ = c.conn.Close()
	}
}

func ptr[T any](v T) *T { return &v }
