package ws

import (
	"sync"

	"talentlink_backend/internal/logger"
)

// Event - исходящее событие для клиента.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

const (
	EventNewMessage   = "new_message"
	EventNotification = "notification"
)

// WebSocketManager держит активные соединения, ключ - userID.
// У пользователя может быть несколько вкладок, поэтому храним срез клиентов.
type WebSocketManager struct {
	clients    map[string][]*Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{
		clients:    make(map[string][]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (manager *WebSocketManager) Run() {
	for {
		select {
		case client := <-manager.register:
			manager.mu.Lock()
			manager.clients[client.UserID] = append(manager.clients[client.UserID], client)
			total := len(manager.clients)
			manager.mu.Unlock()
			logger.Debug("WebSocket client registered", "user_id", client.UserID, "users_online", total)

		case client := <-manager.unregister:
			manager.mu.Lock()
			conns := manager.clients[client.UserID]
			for i, c := range conns {
				if c == client {
					close(c.Send)
					conns = append(conns[:i], conns[i+1:]...)
					break
				}
			}
			if len(conns) == 0 {
				delete(manager.clients, client.UserID)
			} else {
				manager.clients[client.UserID] = conns
			}
			manager.mu.Unlock()
			logger.Debug("WebSocket client unregistered", "user_id", client.UserID)
		}
	}
}

// SendToUser отправляет событие всем соединениям пользователя.
// Если пользователь не подключен, событие молча отбрасывается.
func (manager *WebSocketManager) SendToUser(userID string, event Event) {
	manager.mu.RLock()
	defer manager.mu.RUnlock()

	for _, client := range manager.clients[userID] {
		select {
		case client.Send <- event:
		default:
			// Канал заполнен, клиент отключается
			go func(c *Client) {
				manager.unregister <- c
			}(client)
		}
	}
}

// IsOnline проверяет, подключен ли пользователь.
func (manager *WebSocketManager) IsOnline(userID string) bool {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return len(manager.clients[userID]) > 0
}

// OnlineCount возвращает количество подключенных пользователей.
func (manager *WebSocketManager) OnlineCount() int {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return len(manager.clients)
}
