package websocket

import (
	"context"
	"sync"
	"time"

	"github.com/fasthttp/websocket"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// writeWait tiempo máximo para escribir a un cliente; uno que no lee se desconecta
var writeWait = 10 * time.Second

type Hub struct {
	log        *zap.Logger
	clients    map[*websocket.Conn]bool
	broadcast  chan []byte
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	done       chan struct{}
	mutex      sync.RWMutex
}

type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		log:        log,
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan []byte, 16),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
	}
}

// Run atiende registros y difusiones hasta que ctx termina
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				client.Close()
			}
			h.mutex.Unlock()
			return

		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mutex.Unlock()
			h.log.Debug("🔌 Cliente WebSocket conectado", zap.Int("total", total))

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.Close()
			}
			total := len(h.clients)
			h.mutex.Unlock()
			h.log.Debug("🔌 Cliente WebSocket desconectado", zap.Int("total", total))

		case message := <-h.broadcast:
			h.mutex.Lock()
			for client := range h.clients {
				_ = client.SetWriteDeadline(time.Now().Add(writeWait))
				if err := client.WriteMessage(websocket.TextMessage, message); err != nil {
					h.log.Warn("⚠️ Error enviando mensaje WebSocket", zap.Error(err))
					delete(h.clients, client)
					client.Close()
				}
			}
			h.mutex.Unlock()
		}
	}
}

// Register agrega una conexión; no hace nada si el hub ya terminó
func (h *Hub) Register(conn *websocket.Conn) {
	select {
	case h.register <- conn:
	case <-h.done:
	}
}

func (h *Hub) Unregister(conn *websocket.Conn) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// Count número de clientes conectados
func (h *Hub) Count() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// BroadcastMessage envía un mensaje a todos los clientes
func (h *Hub) BroadcastMessage(msgType string, data interface{}) {
	msgData, err := json.Marshal(Message{Type: msgType, Data: data})
	if err != nil {
		h.log.Error("❌ Error serializando mensaje", zap.Error(err))
		return
	}

	select {
	case h.broadcast <- msgData:
	case <-h.done:
	}
}
