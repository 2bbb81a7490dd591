package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"shebeka_backend/internal/logger"
)

// WebSocketManager хранит соединения по пользователям; у одного пользователя может быть несколько вкладок
type WebSocketManager struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
	closed  bool
}

func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{
		clients: make(map[string]map[*Client]struct{}),
	}
}

// Run блокируется до отмены ctx, затем закрывает все соединения
func (m *WebSocketManager) Run(ctx context.Context) error {
	<-ctx.Done()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	for userID, set := range m.clients {
		for client := range set {
			client.close()
		}
		delete(m.clients, userID)
	}
	logger.Info("WebSocket manager stopped")
	return nil
}

func (m *WebSocketManager) register(client *Client) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return false
	}
	set, ok := m.clients[client.UserID]
	if !ok {
		set = make(map[*Client]struct{})
		m.clients[client.UserID] = set
	}
	set[client] = struct{}{}

	logger.Debug("WebSocket client registered", "user_id", client.UserID, "connections", len(set))
	return true
}

func (m *WebSocketManager) unregister(client *Client) {
	m.mu.Lock()
	defer m.mu.Unlock()

	set, ok := m.clients[client.UserID]
	if !ok {
		return
	}
	if _, ok := set[client]; !ok {
		return
	}

	client.close()
	delete(set, client)
	if len(set) == 0 {
		delete(m.clients, client.UserID)
	}
	logger.Debug("WebSocket client unregistered", "user_id", client.UserID)
}

// PushToUser отправляет событие во все соединения пользователя.
// Медленный клиент с переполненным буфером отключается.
func (m *WebSocketManager) PushToUser(userID string, event interface{}) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal ws event: %w", err)
	}

	m.mu.RLock()
	var slow []*Client
	for client := range m.clients[userID] {
		if !client.enqueue(payload) {
			slow = append(slow, client)
		}
	}
	m.mu.RUnlock()

	for _, client := range slow {
		logger.Warn("WebSocket client too slow, disconnecting", "user_id", userID)
		m.unregister(client)
	}
	return nil
}

// ConnectionCount - число соединений пользователя
func (m *WebSocketManager) ConnectionCount(userID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients[userID])
}
