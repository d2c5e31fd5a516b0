package server

import (
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Command is a navigation message from the presenter connection.
type Command struct {
	Type  string `json:"type"`  // "next" | "prev" | "goto"
	Index int    `json:"index"` // target slide for "goto"
}

// SlideEvent is broadcast to every connection when the slide changes.
type SlideEvent struct {
	Type    string `json:"type"` // always "slide"
	Index   int    `json:"index"`
	Total   int    `json:"total"`
	Viewers int    `json:"viewers"`
}

// client wraps a connection with a write lock. gorilla/websocket allows
// at most one concurrent writer per connection; the initial sync in Add
// and a broadcast from a presenter's read goroutine can otherwise write
// to the same connection at the same time.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) send(ev SlideEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(ev)
}

// Hub fans slide navigation out to connected viewers.
// The presenter navigates; viewers follow.
type Hub struct {
	mu      sync.Mutex
	conns   map[*websocket.Conn]*client
	current int
	total   int

	// persist is called with the new slide index after every navigation.
	// May be nil when no library is attached.
	persist func(int)
}

// NewHub creates a hub for a deck with the given slide count, starting
// at the given slide (nonzero when resuming a stored session).
func NewHub(total, start int, persist func(int)) *Hub {
	return &Hub{
		conns:   make(map[*websocket.Conn]*client),
		current: clampSlide(start, total),
		total:   total,
		persist: persist,
	}
}

// Current returns the current slide index.
func (h *Hub) Current() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

// Viewers returns the number of connected clients.
func (h *Hub) Viewers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Add registers a connection and sends it the current slide immediately
// so late joiners sync up.
func (h *Hub) Add(conn *websocket.Conn) {
	c := &client{conn: conn}
	h.mu.Lock()
	h.conns[conn] = c
	ev := h.eventLocked()
	h.mu.Unlock()

	if err := c.send(ev); err != nil {
		log.Printf("ws: initial sync failed: %v", err)
	}
}

// Remove unregisters a connection.
func (h *Hub) Remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
}

// Apply executes a presenter command and broadcasts the result.
// The slide index is always clamped to [0, total).
func (h *Hub) Apply(cmd Command) {
	h.mu.Lock()
	switch cmd.Type {
	case "next":
		h.current = clampSlide(h.current+1, h.total)
	case "prev":
		h.current = clampSlide(h.current-1, h.total)
	case "goto":
		h.current = clampSlide(cmd.Index, h.total)
	default:
		h.mu.Unlock()
		return
	}
	ev := h.eventLocked()
	persist := h.persist
	h.mu.Unlock()

	if persist != nil {
		persist(ev.Index)
	}
	h.broadcast(ev)
}

// eventLocked builds the broadcast payload. Caller holds h.mu.
func (h *Hub) eventLocked() SlideEvent {
	return SlideEvent{
		Type:    "slide",
		Index:   h.current,
		Total:   h.total,
		Viewers: len(h.conns),
	}
}

func (h *Hub) broadcast(ev SlideEvent) {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.conns))
	for _, c := range h.conns {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		if err := c.send(ev); err != nil {
			log.Printf("ws: dropping slow viewer: %v", err)
			h.Remove(c.conn)
			c.conn.Close()
		}
	}
}

func clampSlide(idx, total int) int {
	if idx < 0 {
		return 0
	}
	if total > 0 && idx >= total {
		return total - 1
	}
	return idx
}
