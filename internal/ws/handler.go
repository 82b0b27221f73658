package ws

import (
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/htmldesk/internal/shared/id"
	"github.com/GriffinCanCode/htmldesk/internal/shared/types"
)

// Message types sent to clients
const (
	TypeSystem           = "system"
	TypePong             = "pong"
	TypeError            = "error"
	TypeFilesChanged     = "files_changed"
	TypeWorkspaceChanged = "workspace_changed"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 32
)

// Recorder receives connection and message metrics
type Recorder interface {
	IncWSConnections()
	DecWSConnections()
	RecordWSMessage(direction, msgType string)
}

// WorkspaceFunc reports the active workspace for the welcome message
type WorkspaceFunc func() (string, bool)

// Handler manages WebSocket connections and fans out workspace events
type Handler struct {
	upgrader  websocket.Upgrader
	workspace WorkspaceFunc
	metrics   Recorder
	logger    *zap.Logger
	clients   map[*client]struct{}
	mu        sync.RWMutex
}

type client struct {
	conn   *websocket.Conn
	send   chan types.WSMessage
	closed bool
	mu     sync.Mutex
}

// NewHandler creates a new WebSocket handler. workspace and metrics may be nil.
func NewHandler(workspace WorkspaceFunc, metrics Recorder, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		upgrader: websocket.Upgrader{
			CheckOrigin: checkLocalOrigin,
		},
		workspace: workspace,
		metrics:   metrics,
		logger:    logger,
		clients:   make(map[*client]struct{}),
	}
}

// checkLocalOrigin accepts same-origin, loopback and non-browser clients
func checkLocalOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if u.Host == r.Host {
		return true
	}
	host := u.Hostname()
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// HandleConnection upgrades the request and serves the client until it disconnects
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	cl := &client{conn: conn, send: make(chan types.WSMessage, sendBuffer)}
	h.register(cl)
	defer h.unregister(cl)

	go h.writePump(cl)

	welcome := types.WSMessage{Type: TypeSystem, Message: "connected", Timestamp: time.Now().UnixMilli()}
	if h.workspace != nil {
		if ws, ok := h.workspace(); ok {
			welcome.Workspace = ws
		}
	}
	h.enqueue(cl, welcome)

	conn.SetReadLimit(64 * 1024)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg types.WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("WebSocket read error", zap.Error(err))
			}
			return
		}
		h.record("in", msg.Type)

		switch msg.Type {
		case "ping":
			h.enqueue(cl, types.WSMessage{Type: TypePong, ID: msg.ID, Timestamp: time.Now().UnixMilli()})
		default:
			h.enqueue(cl, types.WSMessage{Type: TypeError, ID: msg.ID, Message: "unknown message type"})
		}
	}
}

// BroadcastChanges sends a files_changed event to every client
func (h *Handler) BroadcastChanges(workspace string, changes []types.FileChange) {
	h.broadcast(types.WSMessage{
		Type:      TypeFilesChanged,
		ID:        id.NewEventID().String(),
		Workspace: workspace,
		Changes:   changes,
		Timestamp: time.Now().UnixMilli(),
	})
}

// BroadcastWorkspace announces a workspace switch ("" when cleared)
func (h *Handler) BroadcastWorkspace(workspace string) {
	h.broadcast(types.WSMessage{
		Type:      TypeWorkspaceChanged,
		ID:        id.NewEventID().String(),
		Workspace: workspace,
		Timestamp: time.Now().UnixMilli(),
	})
}

// Clients returns the number of connected clients
func (h *Handler) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client
func (h *Handler) Close() {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for cl := range h.clients {
		clients = append(clients, cl)
	}
	h.mu.Unlock()

	for _, cl := range clients {
		cl.close()
	}
}

func (h *Handler) broadcast(msg types.WSMessage) {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for cl := range h.clients {
		clients = append(clients, cl)
	}
	h.mu.RUnlock()

	for _, cl := range clients {
		h.enqueue(cl, msg)
	}
}

// enqueue drops clients that cannot keep up rather than blocking the sender
func (h *Handler) enqueue(cl *client, msg types.WSMessage) {
	if !cl.push(msg) {
		h.logger.Warn("Dropping slow WebSocket client")
		cl.close()
	}
}

func (h *Handler) writePump(cl *client) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-cl.send:
			if !ok {
				cl.conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
					time.Now().Add(writeWait))
				return
			}
			cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteJSON(msg); err != nil {
				cl.conn.Close()
				return
			}
			h.record("out", msg.Type)
		case <-ticker.C:
			if err := cl.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				cl.conn.Close()
				return
			}
		}
	}
}

func (h *Handler) register(cl *client) {
	h.mu.Lock()
	h.clients[cl] = struct{}{}
	h.mu.Unlock()
	if h.metrics != nil {
		h.metrics.IncWSConnections()
	}
}

func (h *Handler) unregister(cl *client) {
	h.mu.Lock()
	_, ok := h.clients[cl]
	delete(h.clients, cl)
	h.mu.Unlock()

	cl.close()
	cl.conn.Close()
	if ok && h.metrics != nil {
		h.metrics.DecWSConnections()
	}
}

func (h *Handler) record(direction, msgType string) {
	if h.metrics != nil {
		h.metrics.RecordWSMessage(direction, msgType)
	}
}

// push queues msg without blocking; false means the buffer is full
func (cl *client) push(msg types.WSMessage) bool {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	if cl.closed {
		return true
	}
	select {
	case cl.send <- msg:
		return true
	default:
		return false
	}
}

// close stops the write pump, which sends a close frame
func (cl *client) close() {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	if !cl.closed {
		cl.closed = true
		close(cl.send)
	}
}
