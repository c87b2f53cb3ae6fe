package ws

import (
	"net/http"
	"strings"

	"talentlink_backend/internal/auth"
	"talentlink_backend/internal/config"
	"talentlink_backend/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     checkOrigin,
}

// checkOrigin пропускает апгрейды только с домена фронтенда.
// Запросы без Origin (не браузерные клиенты) разрешены.
func checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	allowed := strings.TrimSuffix(config.AppConfig.App.BaseURL, "/")
	return strings.EqualFold(strings.TrimSuffix(origin, "/"), allowed)
}

type WebSocketHandler struct {
	Manager *WebSocketManager
}

func NewWebSocketHandler(manager *WebSocketManager) *WebSocketHandler {
	return &WebSocketHandler{Manager: manager}
}

// ServeWS апгрейдит соединение. Роут защищен auth middleware,
// поэтому actor уже в контексте.
func (h *WebSocketHandler) ServeWS(c *gin.Context) {
	value, exists := c.Get("actor")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	actor := value.(auth.Actor)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("WebSocket upgrade error", "error", err)
		return
	}

	client := &Client{
		UserID:  actor.ID,
		Conn:    conn,
		Send:    make(chan Event, 256),
		Manager: h.Manager,
	}

	h.Manager.register <- client

	go client.readPump()
	go client.writePump()
}
