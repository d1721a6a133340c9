// Package websocket fans market snapshots out to subscribed clients.
package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"marketsim/pkg/contracts/domain"
)

// Message type labels on the wire. A newly attached subscriber first receives
// an initial snapshot, then periodic updates at the broadcast cadence.
const (
	TypeInitial = "initial"
	TypeUpdate  = "update"
)

// Envelope wraps a snapshot with its message type.
type Envelope struct {
	Type string          `json:"type"`
	Data domain.Snapshot `json:"data"`
}

// SnapshotProvider supplies the initial snapshot for new subscribers.
type SnapshotProvider interface {
	Snapshot() domain.Snapshot
}

// Hub maintains the set of active clients and broadcasts snapshots to them.
// Publishing never blocks the producer: the broadcast channel is buffered and
// overflow snapshots are dropped, and clients with full send buffers are
// disconnected.
type Hub struct {
	provider SnapshotProvider

	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu     sync.RWMutex
	logger *slog.Logger

	totalConnections  int64
	droppedBroadcasts int64
	droppedClients    int64

	onDrop func() // metrics hook, may be nil
}

// NewHub creates a hub reading initial snapshots from provider.
func NewHub(provider SnapshotProvider, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		provider:   provider,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 16),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger.With(slog.String("component", "websocket.hub")),
	}
}

// OnDrop registers a callback invoked whenever a slow client is dropped.
func (h *Hub) OnDrop(fn func()) { h.onDrop = fn }

// Publish implements the scheduler's publisher contract. It marshals the
// update envelope and hands it to the hub loop without blocking.
func (h *Hub) Publish(snapshot domain.Snapshot) {
	payload, err := json.Marshal(Envelope{Type: TypeUpdate, Data: snapshot})
	if err != nil {
		h.logger.Error("snapshot marshal failed", slog.Any("error", err))
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		h.mu.Lock()
		h.droppedBroadcasts++
		h.mu.Unlock()
		h.logger.Warn("broadcast queue full, snapshot dropped")
	}
}

// Run processes registrations and broadcasts until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			close(h.done)
			h.logger.Info("hub shutting down")
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.totalConnections++
			count := len(h.clients)
			h.mu.Unlock()

			h.logger.Info("client registered",
				slog.String("client_id", client.id),
				slog.String("remote_addr", client.remoteAddr),
				slog.Int("total_clients", count))

			h.sendInitial(client)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			count := len(h.clients)
			h.mu.Unlock()

			h.logger.Info("client unregistered",
				slog.String("client_id", client.id),
				slog.Int("total_clients", count))

		case message := <-h.broadcast:
			h.mu.RLock()
			clients := make([]*Client, 0, len(h.clients))
			for client := range h.clients {
				clients = append(clients, client)
			}
			h.mu.RUnlock()

			for _, client := range clients {
				select {
				case client.send <- message:
				default:
					// Slow subscriber: drop it rather than stall the producer.
					h.mu.Lock()
					if _, ok := h.clients[client]; ok {
						delete(h.clients, client)
						close(client.send)
					}
					h.droppedClients++
					h.mu.Unlock()
					if h.onDrop != nil {
						h.onDrop()
					}
					h.logger.Warn("client send buffer full, disconnecting",
						slog.String("client_id", client.id))
				}
			}
		}
	}
}

// sendInitial delivers the labeled first snapshot to a new subscriber.
func (h *Hub) sendInitial(client *Client) {
	payload, err := json.Marshal(Envelope{Type: TypeInitial, Data: h.provider.Snapshot()})
	if err != nil {
		h.logger.Error("initial snapshot marshal failed", slog.Any("error", err))
		return
	}
	select {
	case client.send <- payload:
	default:
		h.logger.Warn("failed to send initial snapshot, client buffer full",
			slog.String("client_id", client.id))
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
}

// ClientCount reports the number of attached subscribers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ConnectionStats reports lifetime totals: connections accepted, subscribers
// dropped for falling behind, and broadcasts dropped on queue overflow.
func (h *Hub) ConnectionStats() (connections, droppedClients, droppedBroadcasts int64) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.totalConnections, h.droppedClients, h.droppedBroadcasts
}
