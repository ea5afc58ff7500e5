package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/pictactoe-backend/internal/usecase"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 16
)

type uGame interface {
	View(ctx context.Context) usecase.GameView
	PlacePhoto(ctx context.Context, index int, photoRef string) (*usecase.MoveResult, error)
	Reset(ctx context.Context) usecase.GameView
	React(ctx context.Context, index int, emoji string) (usecase.GameView, bool)
}

type clientMetrics interface {
	ClientConnected()
	ClientDisconnected()
}

type handlerFunc func(ctx context.Context, client *client, message *Message) error

type Server struct {
	logger   *slog.Logger
	uGame    uGame
	metrics  clientMetrics
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[string]*client

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, uGame uGame, metrics clientMetrics) *Server {
	server := &Server{
		logger:  logger.With("component", "websocket"),
		uGame:   uGame,
		metrics: metrics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients:  make(map[string]*client),
		handlers: make(map[string]handlerFunc),
	}

	server.handlers[ActionGameState] = server.handleState
	server.handlers[ActionGameMove] = server.handleMove
	server.handlers[ActionGameReset] = server.handleReset
	server.handlers[ActionGameReact] = server.handleReact

	return server
}

// Handle upgrades the request and serves the connection until it closes.
func (that *Server) Handle(c *gin.Context) {
	log := that.logger.With("method", "Handle")

	conn, err := that.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	cl := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}

	that.register(cl)
	log.Info("client connected", "client", cl.id)

	go that.writePump(cl)
	that.readPump(c.Request.Context(), cl)
}

// Broadcast queues a message for every client. Clients that cannot keep up are dropped.
func (that *Server) Broadcast(action string, payload any) {
	data, err := encode(action, payload)
	if err != nil {
		that.logger.Error("failed to encode broadcast", "action", action, "error", err)
		return
	}

	that.mu.RLock()
	var slow []*client
	for _, cl := range that.clients {
		select {
		case cl.send <- data:
		default:
			slow = append(slow, cl)
		}
	}
	that.mu.RUnlock()

	for _, cl := range slow {
		that.logger.Warn("dropping slow client", "client", cl.id)
		that.unregister(cl)
	}
}

func (that *Server) Clients() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.clients)
}

func (that *Server) register(cl *client) {
	that.mu.Lock()
	that.clients[cl.id] = cl
	that.mu.Unlock()

	that.metrics.ClientConnected()
}

func (that *Server) unregister(cl *client) {
	that.mu.Lock()
	_, ok := that.clients[cl.id]
	if ok {
		delete(that.clients, cl.id)
		close(cl.send)
	}
	that.mu.Unlock()

	if ok {
		that.metrics.ClientDisconnected()
	}
}

func (that *Server) readPump(ctx context.Context, cl *client) {
	log := that.logger.With("method", "readPump", "client", cl.id)

	defer func() {
		that.unregister(cl)
		_ = cl.conn.Close()
		log.Info("client disconnected")
	}()

	cl.conn.SetReadLimit(maxMessageSize)
	_ = cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := cl.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("unexpected close", "error", err)
			}
			return
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Warn("failed to unmarshal message", "error", err)
			that.sendError(cl, "", "malformed message")
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)
			that.sendError(cl, message.Action, "unknown action")
			continue
		}

		if err = handler(ctx, cl, &message); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

func (that *Server) writePump(cl *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = cl.conn.Close()
	}()

	for {
		select {
		case data, ok := <-cl.send:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = cl.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := cl.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// sendMessage queues a reply for one client.
func (that *Server) sendMessage(cl *client, action string, payload any) error {
	data, err := encode(action, payload)
	if err != nil {
		return err
	}

	that.mu.RLock()
	defer that.mu.RUnlock()

	if _, ok := that.clients[cl.id]; !ok {
		return nil
	}

	select {
	case cl.send <- data:
		return nil
	default:
		return fmt.Errorf("send buffer of client %s is full", cl.id)
	}
}

func (that *Server) sendError(cl *client, action, text string) {
	if err := that.sendMessage(cl, ActionError, ErrorPayload{Action: action, Message: text}); err != nil {
		that.logger.Error("failed to send error", "client", cl.id, "error", err)
	}
}

func encode(action string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	data, err := json.Marshal(Message{Action: action, Payload: raw})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}

	return data, nil
}
