package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
)

// Hub tracks connected subscribers and fans events out to the ones whose
// filter matches.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Event
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Event, 1024),
		register:   make(chan *Client, 128),
		unregister: make(chan *Client, 128),
		done:       make(chan struct{}),
	}
}

// Run processes registrations and broadcasts until ctx is cancelled. Once it
// returns, Register and Unregister no longer block.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()

			// Registrations queued before done was closed
			for {
				select {
				case c := <-h.register:
					close(c.send)
				default:
					return
				}
			}

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			total := len(h.clients)
			h.mu.Unlock()
			slog.Debug("realtime client connected", "table", c.filter.Table, "owner_id", c.filter.OwnerID, "total_clients", total)

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			slog.Debug("realtime client disconnected", "total_clients", total)

		case e := <-h.broadcast:
			msg, err := json.Marshal(e)
			if err != nil {
				slog.Error("failed to encode realtime event", "table", e.Table, "error", err)
				continue
			}

			h.mu.Lock()
			for c := range h.clients {
				if !c.filter.Match(e) {
					continue
				}
				select {
				case c.send <- msg:
				default:
					// Slow consumer; drop it rather than stall everyone else
					delete(h.clients, c)
					close(c.send)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Register adds c to the hub. After Run has stopped, c's queue is closed
// instead so its pumps exit.
func (h *Hub) Register(c *Client) {
	select {
	case <-h.done:
		close(c.send)
		return
	default:
	}

	select {
	case h.register <- c:
	case <-h.done:
		close(c.send)
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Broadcast queues e for delivery. It never blocks; events are dropped when
// the queue is full.
func (h *Hub) Broadcast(e Event) {
	select {
	case h.broadcast <- e:
	default:
		slog.Warn("realtime broadcast dropped", "reason", "buffer_full", "table", e.Table)
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
