package apiserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"tradejournal/internal/analytics"
	"tradejournal/internal/domain"
	"tradejournal/internal/observability"
)

const (
	writeWait      = 10 * time.Second
	pingPeriod     = 30 * time.Second
	clientSendSize = 8
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Identity comes from the X-User-ID header, not the origin.
	CheckOrigin: func(*http.Request) bool { return true },
}

// Hub fans analytics snapshots out to connected stream clients, keyed by
// user. It implements analytics.Publisher.
type Hub struct {
	log *slog.Logger

	mu      sync.Mutex
	clients map[string]map[*streamClient]struct{}
	closed  bool
}

type streamClient struct {
	conn *websocket.Conn
	send chan []byte
}

// streamFilterRequest is the inbound message a subscriber sends to change
// which trades their pushed snapshots are computed over.
type streamFilterRequest struct {
	AccountID string `json:"account_id"`
	Model     string `json:"model"`
	DateFrom  string `json:"date_from"`
	DateTo    string `json:"date_to"`
}

// streamFilters remembers each user's last requested stream filter so that
// mutation-driven refreshes recompute under the same view the subscriber is
// watching. An unset user maps to the zero filter (all trades).
type streamFilters struct {
	mu     sync.Mutex
	byUser map[string]domain.TradeFilter
}

func newStreamFilters() *streamFilters {
	return &streamFilters{byUser: make(map[string]domain.TradeFilter)}
}

func (f *streamFilters) set(userID string, filter domain.TradeFilter) {
	f.mu.Lock()
	f.byUser[userID] = filter
	f.mu.Unlock()
}

func (f *streamFilters) get(userID string) domain.TradeFilter {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byUser[userID]
}

// NewHub creates an empty hub.
func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		log:     log,
		clients: make(map[string]map[*streamClient]struct{}),
	}
}

// Publish sends a snapshot to every client of the snapshot's user. A client
// whose send buffer is full is disconnected rather than allowed to block
// the publish path.
func (h *Hub) Publish(snap analytics.Snapshot) {
	payload, err := json.Marshal(snap)
	if err != nil {
		h.log.Error("marshal snapshot", "err", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients[snap.UserID] {
		select {
		case client.send <- payload:
			observability.DefaultMetrics.StreamEventsPushed.Inc()
		default:
			observability.DefaultMetrics.StreamSendFailures.Inc()
			h.dropLocked(snap.UserID, client)
		}
	}
}

// Close disconnects all clients.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for userID, clients := range h.clients {
		for client := range clients {
			close(client.send)
		}
		delete(h.clients, userID)
	}
}

func (h *Hub) register(userID string, client *streamClient) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*streamClient]struct{})
	}
	h.clients[userID][client] = struct{}{}
	observability.DefaultMetrics.StreamClients.Inc()
	return true
}

func (h *Hub) unregister(userID string, client *streamClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[userID][client]; ok {
		h.dropLocked(userID, client)
	}
}

// dropLocked removes a client; the caller holds h.mu.
func (h *Hub) dropLocked(userID string, client *streamClient) {
	delete(h.clients[userID], client)
	if len(h.clients[userID]) == 0 {
		delete(h.clients, userID)
	}
	close(client.send)
	observability.DefaultMetrics.StreamClients.Dec()
}

// handleStream upgrades the connection and streams analytics snapshots as
// JSON text messages until the client disconnects.
func (s *Server) handleStream(c *gin.Context) {
	userID := currentUser(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		s.log.Warn("websocket upgrade failed", "user", userID, "err", err)
		return
	}

	client := &streamClient{conn: conn, send: make(chan []byte, clientSendSize)}
	if !s.hub.register(userID, client) {
		conn.Close()
		return
	}

	go s.writePump(client)
	s.readPump(userID, client)
}

// writePump drains the client's send channel onto the socket.
func (s *Server) writePump(client *streamClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-client.send:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump applies inbound filter-change messages and unregisters on
// disconnect. Each accepted filter is remembered for later mutation-driven
// refreshes and triggers an immediate recomputation, so the subscriber sees
// the new view without waiting for the next journal write. Malformed
// messages are dropped, not fatal.
func (s *Server) readPump(userID string, client *streamClient) {
	defer s.hub.unregister(userID, client)
	for {
		_, payload, err := client.conn.ReadMessage()
		if err != nil {
			return
		}

		var req streamFilterRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			s.log.Warn("ignoring malformed stream message", "user", userID, "err", err)
			continue
		}
		if (req.DateFrom != "" && !domain.ValidDate(req.DateFrom)) ||
			(req.DateTo != "" && !domain.ValidDate(req.DateTo)) {
			s.log.Warn("ignoring stream filter with invalid date bound", "user", userID)
			continue
		}

		filter := domain.TradeFilter{
			AccountID: req.AccountID,
			Model:     req.Model,
			DateFrom:  req.DateFrom,
			DateTo:    req.DateTo,
		}
		s.filters.set(userID, filter)
		s.refresher.Trigger(userID, filter)
	}
}
