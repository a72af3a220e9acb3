package services

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Event types pushed to connected league members.
const (
	EventScoreUpdate   = "score_update"
	EventWaiverResults = "waiver_results"
	EventTradeUpdate   = "trade_update"
	EventLineupSet     = "lineup_set"
)

// LiveEvent is the envelope broadcast to every connected client.
type LiveEvent struct {
	Type     string      `json:"type"`
	LeagueID uint        `json:"league_id"`
	Payload  interface{} `json:"payload"`
	SentAt   time.Time   `json:"sent_at"`
}

// LiveHub fans league events out to connected WebSocket clients.
type LiveHub struct {
	clients    map[*LiveClient]bool
	register   chan *LiveClient
	unregister chan *LiveClient
	broadcast  chan LiveEvent
	mu         sync.RWMutex
}

// LiveClient is one connected WebSocket subscriber.
type LiveClient struct {
	hub      *LiveHub
	conn     *websocket.Conn
	send     chan []byte
	leagueID uint
}

func NewLiveHub() *LiveHub {
	return &LiveHub{
		clients:    make(map[*LiveClient]bool),
		register:   make(chan *LiveClient),
		unregister: make(chan *LiveClient),
		broadcast:  make(chan LiveEvent, 64),
	}
}

// Run processes registrations and broadcasts. Call it in its own goroutine.
func (h *LiveHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			logrus.Debugf("WebSocket client connected (league %d)", client.leagueID)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			data, err := json.Marshal(event)
			if err != nil {
				logrus.Errorf("Failed to marshal live event: %v", err)
				continue
			}

			h.mu.Lock()
			for client := range h.clients {
				if client.leagueID != 0 && client.leagueID != event.LeagueID {
					continue
				}
				select {
				case client.send <- data:
				default:
					// Slow consumer, drop it.
					delete(h.clients, client)
					close(client.send)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast queues an event for delivery to the league's clients.
func (h *LiveHub) Broadcast(eventType string, leagueID uint, payload interface{}) {
	event := LiveEvent{
		Type:     eventType,
		LeagueID: leagueID,
		Payload:  payload,
		SentAt:   time.Now().UTC(),
	}

	select {
	case h.broadcast <- event:
	default:
		logrus.Warn("Live event dropped, broadcast buffer full")
	}
}

// NewClient wraps an upgraded connection and starts its pumps.
func (h *LiveHub) NewClient(conn *websocket.Conn, leagueID uint) *LiveClient {
	client := &LiveClient{
		hub:      h,
		conn:     conn,
		send:     make(chan []byte, 16),
		leagueID: leagueID,
	}
	h.register <- client

	go client.writePump()
	go client.readPump()

	return client
}

func (c *LiveClient) writePump() {
	ticker := time.NewTicker(45 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *LiveClient) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
