package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Manufactura-api/internal/application/qa"
	"github.com/jhoicas/Manufactura-api/pkg/logger"
)

var _ qa.Notifier = (*Hub)(nil)

var errHubStopped = errors.New("hub de notificaciones detenido")

// WriteWait tiempo máximo de escritura a un cliente; pasado ese plazo el cliente se descarta.
const WriteWait = 5 * time.Second

// Conn lo que el hub necesita de una conexión WebSocket.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Hub registro de clientes WebSocket conectados; difunde cada mensaje a todos.
// Solo Run escribe en las conexiones; mu protege el mapa para Clients.
type Hub struct {
	clients    map[Conn]bool
	register   chan Conn
	unregister chan Conn
	broadcast  chan []byte
	done       chan struct{}
	mu         sync.Mutex
	log        *logger.Logger
}

// NewHub crea el hub. Hay que arrancar Run en una goroutine.
func NewHub(log *logger.Logger) *Hub {
	if log == nil {
		log = logger.Nop()
	}
	return &Hub{
		clients:    make(map[Conn]bool),
		register:   make(chan Conn),
		unregister: make(chan Conn),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
		log:        log.Named("ws_hub"),
	}
}

// Run atiende altas, bajas y difusiones hasta que ctx termina; al salir cierra todos los clientes.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for conn := range h.clients {
				_ = conn.Close()
				delete(h.clients, conn)
			}
			h.mu.Unlock()
			return

		case conn := <-h.register:
			h.mu.Lock()
			h.clients[conn] = true
			n := len(h.clients)
			h.mu.Unlock()
			h.log.Debug().Int("clients", n).Msg("cliente WS conectado")

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				_ = conn.Close()
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.send(message)
		}
	}
}

// send escribe sin tomar mu; un cliente lento espera como mucho WriteWait.
func (h *Hub) send(message []byte) {
	h.mu.Lock()
	conns := make([]Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	var failed []Conn
	for _, conn := range conns {
		err := conn.SetWriteDeadline(time.Now().Add(WriteWait))
		if err == nil {
			err = conn.WriteMessage(websocket.TextMessage, message)
		}
		if err != nil {
			failed = append(failed, conn)
		}
	}
	if len(failed) == 0 {
		return
	}
	h.mu.Lock()
	for _, conn := range failed {
		_ = conn.Close()
		delete(h.clients, conn)
	}
	n := len(h.clients)
	h.mu.Unlock()
	h.log.Debug().Int("dropped", len(failed)).Int("clients", n).Msg("clientes WS descartados")
}

// Register da de alta un cliente. Con el hub detenido cierra la conexión.
func (h *Hub) Register(conn Conn) {
	select {
	case h.register <- conn:
	case <-h.done:
		_ = conn.Close()
	}
}

// Unregister da de baja y cierra un cliente.
func (h *Hub) Unregister(conn Conn) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// Clients número de clientes conectados.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Publish difunde el evento a los clientes locales.
func (h *Hub) Publish(ctx context.Context, eventType string, payload any) error {
	msg, err := Encode(eventType, payload, time.Now())
	if err != nil {
		return err
	}
	return h.Broadcast(ctx, msg)
}

// Broadcast encola un mensaje ya codificado.
func (h *Hub) Broadcast(ctx context.Context, msg []byte) error {
	select {
	case h.broadcast <- msg:
		return nil
	case <-h.done:
		return errHubStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// UpgradeRequired middleware que rechaza con 426 lo que no sea un upgrade WebSocket.
func UpgradeRequired(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return c.SendStatus(fiber.StatusUpgradeRequired)
}

// Handler endpoint GET /ws. El bucle de lectura solo mantiene viva la conexión.
func (h *Hub) Handler() fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		h.Register(c)
		defer h.Unregister(c)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	})
}
