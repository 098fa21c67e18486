package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"chat-casino-backend/internal/services"
	"chat-casino-backend/internal/store"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	store store.Store
	hub   *WebSocketHub
}

// WebSocketHub fans engine events out to connected players. It also
// implements services.Notifier, so the engine publishes straight into it.
type WebSocketHub struct {
	clients    map[int64]*websocket.Conn
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
}

type Client struct {
	PlayerID int64
	Conn     *websocket.Conn
}

type Message struct {
	Type     string      `json:"type"`
	PlayerID int64       `json:"player_id,omitempty"`
	Scope    string      `json:"scope,omitempty"`
	Data     interface{} `json:"data"`
}

func NewWebSocketHandler(st store.Store) *WebSocketHandler {
	hub := &WebSocketHub{
		clients:    make(map[int64]*websocket.Conn),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 100),
	}

	go hub.run()

	return &WebSocketHandler{
		store: st,
		hub:   hub,
	}
}

// Hub exposes the hub as the engine's notifier.
func (h *WebSocketHandler) Hub() *WebSocketHub {
	return h.hub
}

// Publish implements services.Notifier. A zero PlayerID broadcasts to
// everyone; scoped events (crash) broadcast too, clients filter by scope.
func (hub *WebSocketHub) Publish(ev services.Event) {
	msg := &Message{
		Type:     ev.Type,
		PlayerID: ev.PlayerID,
		Scope:    ev.Scope,
		Data:     ev.Data,
	}
	select {
	case hub.broadcast <- msg:
	default:
		log.Printf("WebSocket broadcast queue full, dropping %s", ev.Type)
	}
}

func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	playerID := c.GetInt64("player_id")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade to WebSocket: %v", err)
		return
	}

	client := &Client{
		PlayerID: playerID,
		Conn:     conn,
	}

	h.hub.register <- client

	defer func() {
		h.hub.unregister <- client
		conn.Close()
	}()

	h.sendBalance(c, client)

	for {
		var msg Message
		err := conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		h.handleMessage(client, &msg)
	}
}

func (h *WebSocketHandler) handleMessage(client *Client, msg *Message) {
	switch msg.Type {
	case "PING":
		h.sendPong(client)
	}
}

func (h *WebSocketHandler) sendBalance(c *gin.Context, client *Client) {
	acct, err := h.store.GetAccount(c.Request.Context(), client.PlayerID)
	if err != nil {
		log.Printf("Failed to get account for WS: %v", err)
		return
	}

	msg := Message{
		Type: services.EventBalance,
		Data: gin.H{
			"wallet": acct.Wallet,
			"bank":   acct.Bank,
			"total":  acct.Total(),
		},
	}

	client.Conn.WriteJSON(msg)
}

func (h *WebSocketHandler) sendPong(client *Client) {
	msg := Message{
		Type: "PONG",
		Data: gin.H{
			"timestamp": time.Now().Unix(),
		},
	}

	client.Conn.WriteJSON(msg)
}

func (hub *WebSocketHub) run() {
	for {
		select {
		case client := <-hub.register:
			hub.clients[client.PlayerID] = client.Conn
			log.Printf("Client registered: %d", client.PlayerID)

		case client := <-hub.unregister:
			if _, ok := hub.clients[client.PlayerID]; ok {
				delete(hub.clients, client.PlayerID)
				log.Printf("Client unregistered: %d", client.PlayerID)
			}

		case message := <-hub.broadcast:
			hub.deliver(message)
		}
	}
}

// deliver routes a message: player-addressed events go to that player's
// connection, everything else goes to every client.
func (hub *WebSocketHub) deliver(message *Message) {
	if message.PlayerID != 0 {
		if conn, ok := hub.clients[message.PlayerID]; ok {
			conn.WriteJSON(message)
		}
		return
	}
	for _, conn := range hub.clients {
		conn.WriteJSON(message)
	}
}
