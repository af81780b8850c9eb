// Package websocket pushes run notifications to connected dashboard
// clients: a hub fans events out to every subscriber, each served by
// its own read and write pumps.
package websocket

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/salesboard/analytics/utils"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The dashboard is served from another origin in development.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// RunEvent is the notification broadcast after each analysis run.
type RunEvent struct {
	Type            string    `json:"type"`
	RunID           uuid.UUID `json:"runId"`
	GeneratedAt     time.Time `json:"generatedAt"`
	Records         int       `json:"records"`
	Recommendations int       `json:"recommendations"`
}

// Manager owns the client set. All membership changes go through the
// register and unregister channels so the set is only touched from the
// Run goroutine.
type Manager struct {
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	clients    map[*Client]bool
	logger     *utils.Logger
}

// NewManager creates a hub. Call Run on its own goroutine.
func NewManager(logger *utils.Logger) *Manager {
	return &Manager{
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		logger:     logger,
	}
}

// Run serves the hub loop.
func (m *Manager) Run() {
	for {
		select {
		case client := <-m.register:
			m.clients[client] = true
			m.logger.Debug("Dashboard client connected (%d total)", len(m.clients))

		case client := <-m.unregister:
			if _, ok := m.clients[client]; ok {
				delete(m.clients, client)
				close(client.send)
				m.logger.Debug("Dashboard client disconnected (%d total)", len(m.clients))
			}

		case message := <-m.broadcast:
			for client := range m.clients {
				select {
				case client.send <- message:
				default:
					// A client that cannot keep up is dropped rather
					// than allowed to stall the hub.
					close(client.send)
					delete(m.clients, client)
				}
			}
		}
	}
}

// NotifyRunCompleted broadcasts a run-completed event to every client.
func (m *Manager) NotifyRunCompleted(runID uuid.UUID, generatedAt time.Time, records, recommendations int) {
	event := RunEvent{
		Type:            "run_completed",
		RunID:           runID,
		GeneratedAt:     generatedAt,
		Records:         records,
		Recommendations: recommendations,
	}
	data, err := json.Marshal(event)
	if err != nil {
		m.logger.Error("Failed to encode run event: %v", err)
		return
	}
	m.broadcast <- data
}

// ServeWS upgrades an HTTP request and attaches the client to the hub.
func (m *Manager) ServeWS(w http.ResponseWriter, r *http.Request) {
	socket, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		m.logger.Error("WebSocket upgrade failed: %v", err)
		return
	}

	client := &Client{manager: m, socket: socket, send: make(chan []byte, 16)}
	m.register <- client

	go client.writePump()
	go client.readPump()
}
