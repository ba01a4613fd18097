package main

import (
	"log"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// AnalysisEvent is what the engine publishes to connected observers after
// each of its moves.
type AnalysisEvent struct {
	Type      string `json:"type"`
	Engine    string `json:"engine,omitempty"`
	Round     int    `json:"round,omitempty"`
	Move      *Move  `json:"move,omitempty"`
	Score     int    `json:"score,omitempty"`
	Nodes     int64  `json:"nodes,omitempty"`
	TTHits    int64  `json:"tt_hits,omitempty"`
	TTProbes  int64  `json:"tt_probes,omitempty"`
	ElapsedMs int64  `json:"elapsed_ms,omitempty"`
}

// Hub fans analysis events out to websocket clients. All client set
// mutation happens on the Run goroutine; other goroutines only push onto
// channels.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			log.Printf("[ws] client %s connected (%d total)", client.id, len(h.clients))
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				log.Printf("[ws] client %s disconnected (%d total)", client.id, len(h.clients))
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer; drop it rather than stall the hub.
					delete(h.clients, client)
					close(client.send)
				}
			}
		}
	}
}

// Broadcast serializes the event and queues it for every client. Events are
// dropped when the hub is saturated; analysis traffic is best effort.
func (h *Hub) Broadcast(event AnalysisEvent) {
	payload, err := sonic.Marshal(event)
	if err != nil {
		log.Printf("[ws] marshal event: %v", err)
		return
	}
	select {
	case h.broadcast <- payload:
	default:
	}
}

// Client is one websocket observer.
type Client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		id:   uuid.NewString(),
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 32),
	}
}

// readPump drains incoming frames (observers send nothing meaningful) and
// keeps the pong deadline fresh.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(4096)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[ws] client %s read: %v", c.id, err)
			}
			return
		}
	}
}
