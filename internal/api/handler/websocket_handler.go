package handler

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Jayesh2422/smartpark/internal/domain"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketManager fans availability updates out to every connected client.
// Register, unregister and broadcast all go through channels; Start owns the
// client set.
type WebSocketManager struct {
	clients    map[*websocket.Conn]bool
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	broadcast  chan []byte
	mutex      sync.RWMutex
	logger     *zap.Logger
}

func NewWebSocketManager(logger *zap.Logger) *WebSocketManager {
	return &WebSocketManager{
		clients:    make(map[*websocket.Conn]bool),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		broadcast:  make(chan []byte, 64),
		logger:     logger,
	}
}

func (wsm *WebSocketManager) Start() {
	for {
		select {
		case client := <-wsm.register:
			wsm.mutex.Lock()
			wsm.clients[client] = true
			wsm.mutex.Unlock()
			wsm.logger.Debug("websocket client connected", zap.Int("total", len(wsm.clients)))

		case client := <-wsm.unregister:
			wsm.mutex.Lock()
			if _, ok := wsm.clients[client]; ok {
				delete(wsm.clients, client)
				client.Close()
			}
			wsm.mutex.Unlock()
			wsm.logger.Debug("websocket client disconnected", zap.Int("total", len(wsm.clients)))

		case message := <-wsm.broadcast:
			wsm.mutex.Lock()
			for client := range wsm.clients {
				if err := client.WriteMessage(websocket.TextMessage, message); err != nil {
					wsm.logger.Warn("writing to websocket client failed", zap.Error(err))
					client.Close()
					delete(wsm.clients, client)
				}
			}
			wsm.mutex.Unlock()
		}
	}
}

// BroadcastAvailability implements service.AvailabilityBroadcaster. A full
// channel drops the update rather than blocking the booking path.
func (wsm *WebSocketManager) BroadcastAvailability(update domain.AvailabilityUpdate) {
	message, err := json.Marshal(update)
	if err != nil {
		wsm.logger.Warn("encoding availability update failed", zap.Error(err))
		return
	}

	select {
	case wsm.broadcast <- message:
	default:
		wsm.logger.Warn("broadcast channel full, dropping availability update",
			zap.Int("parking_id", update.ParkingID))
	}
}

type WebSocketHandler struct {
	wsManager *WebSocketManager
	logger    *zap.Logger
}

func NewWebSocketHandler(wsManager *WebSocketManager, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{wsManager: wsManager, logger: logger}
}

// GET /ws
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	h.wsManager.register <- conn

	go func() {
		defer func() {
			h.wsManager.unregister <- conn
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					h.logger.Debug("websocket read error", zap.Error(err))
				}
				break
			}
		}
	}()
}
