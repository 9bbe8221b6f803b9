package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/qs3c/comment_go_server/internal/pkg/jwt"
	"github.com/qs3c/comment_go_server/internal/pkg/pubsub"
	"github.com/qs3c/comment_go_server/internal/pkg/ws"
	"github.com/qs3c/comment_go_server/internal/repository"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// TODO: 生产环境需要验证 Origin
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// 客户端上行信号
const (
	signalTyping     = "typing"
	signalStopTyping = "stop_typing"
)

type clientSignal struct {
	Type string `json:"type"`
}

type WebSocketHandler struct {
	hub       *ws.Hub
	userRepo  *repository.UserRepository
	jwtSecret string
}

func NewWebSocketHandler(hub *ws.Hub, userRepo *repository.UserRepository, jwtSecret string) *WebSocketHandler {
	return &WebSocketHandler{
		hub:       hub,
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
	}
}

// Handle WebSocket 连接处理，加入评论室
// GET /api/v1/ws?token=xxx
func (h *WebSocketHandler) Handle(c *gin.Context) {
	// 验证 JWT Token
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	claims, err := jwt.ParseToken(token, h.jwtSecret)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	user, err := h.userRepo.GetByID(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
		return
	}

	// 升级连接
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}

	client := &ws.Client{
		UserID:   user.ID,
		Username: user.Username,
		Conn:     conn,
	}

	connID := h.hub.Register(client)

	// 读取循环：转发输入状态信号，同时用于检测断开
	go func() {
		defer func() {
			h.hub.Unregister(connID)
			conn.Close()
		}()
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				break
			}
			h.relaySignal(connID, client.Username, data)
		}
	}()
}

// relaySignal 输入状态信号广播给除发送者外的所有成员，不持久化
func (h *WebSocketHandler) relaySignal(connID int64, username string, data []byte) {
	var signal clientSignal
	if err := json.Unmarshal(data, &signal); err != nil {
		return
	}

	var eventType string
	switch signal.Type {
	case signalTyping:
		eventType = pubsub.EventUserTyping
	case signalStopTyping:
		eventType = pubsub.EventUserStopTyping
	default:
		return
	}

	event, err := pubsub.NewEvent(eventType, &pubsub.TypingPayload{Username: username})
	if err != nil {
		return
	}
	if err := h.hub.BroadcastExcept(connID, event); err != nil {
		log.Printf("Failed to relay %s signal: %v", signal.Type, err)
	}
}
