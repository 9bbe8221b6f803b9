package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Hub 评论室连接注册表，按连接 ID 管理成员
// 一个用户可以有多个连接（多标签页、重连等场景）
type Hub struct {
	clients map[int64]*Client
	nextID  int64
	mu      sync.RWMutex
}

type Client struct {
	ID       int64
	UserID   int64
	Username string
	Conn     *websocket.Conn
	mu       sync.Mutex // 写锁，防止并发写入
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[int64]*Client),
	}
}

// Register 注册连接并分配连接 ID
func (h *Hub) Register(client *Client) int64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	client.ID = h.nextID
	h.clients[client.ID] = client

	log.Printf("User %d connected (conn %d), total: %d", client.UserID, client.ID, len(h.clients))
	return client.ID
}

// Unregister 注销连接
func (h *Hub) Unregister(connID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if client, ok := h.clients[connID]; ok {
		delete(h.clients, connID)
		log.Printf("User %d disconnected (conn %d)", client.UserID, connID)
	}
}

// Broadcast 向所有当前连接的成员发送消息，尽力投递
func (h *Hub) Broadcast(msg interface{}) error {
	return h.broadcast(msg, 0)
}

// BroadcastExcept 向除指定连接外的所有成员发送消息
func (h *Hub) BroadcastExcept(exceptConnID int64, msg interface{}) error {
	return h.broadcast(msg, exceptConnID)
}

func (h *Hub) broadcast(msg interface{}, exceptConnID int64) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	// 复制一份引用，避免长时间持锁
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		if c.ID == exceptConnID {
			continue
		}
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.mu.Lock()
		err := c.Conn.WriteMessage(websocket.TextMessage, data)
		c.mu.Unlock()
		if err != nil {
			log.Printf("Broadcast write error for conn %d (user %d): %v", c.ID, c.UserID, err)
		}
	}
	return nil
}

// IsOnline 检查用户是否在线
func (h *Hub) IsOnline(userID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		if c.UserID == userID {
			return true
		}
	}
	return false
}

// ConnectionCount 获取在线连接数
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
