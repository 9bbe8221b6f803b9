package pubsub

import (
	"encoding/json"
	"fmt"

	"github.com/qs3c/comment_go_server/internal/model/dto"
)

// 评论室广播事件类型
const (
	EventNewComment      = "new_comment"
	EventNewReply        = "new_reply"
	EventCommentUpdated  = "comment_updated"
	EventReplyUpdated    = "reply_updated"
	EventCommentDeleted  = "comment_deleted"
	EventReplyDeleted    = "reply_deleted"
	EventCommentReaction = "comment_reaction"
	EventReplyReaction   = "reply_reaction"
	EventUserTyping      = "user_typing"
	EventUserStopTyping  = "user_stop_typing"
)

// Event 广播事件，Data 为各事件类型对应的固定载荷
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// NewEvent 构造事件，载荷序列化失败时返回错误
func NewEvent(eventType string, payload interface{}) (*Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}
	return &Event{Type: eventType, Data: data}, nil
}

// NewCommentPayload 新顶层评论，携带刷新后的顶层总数
type NewCommentPayload struct {
	Comment    *dto.CommentItem `json:"comment"`
	TotalCount int64            `json:"total_count"`
}

// NewReplyPayload 新回复
type NewReplyPayload struct {
	Comment *dto.CommentItem `json:"comment"`
}

// CommentUpdatedPayload 评论或回复被编辑
type CommentUpdatedPayload struct {
	Comment *dto.CommentItem `json:"comment"`
}

// CommentDeletedPayload 顶层评论被删除
type CommentDeletedPayload struct {
	CommentID  int64 `json:"comment_id"`
	TotalCount int64 `json:"total_count"`
}

// ReplyDeletedPayload 回复被删除，监听方据此递减父评论的回复数
type ReplyDeletedPayload struct {
	CommentID int64 `json:"comment_id"`
	ParentID  int64 `json:"parent_id"`
}

// ReactionPayload 反应变化，计数为服务端权威值
// Type 为 like / dislike / remove
type ReactionPayload struct {
	CommentID    int64  `json:"comment_id"`
	Type         string `json:"type"`
	LikeCount    int64  `json:"like_count"`
	DislikeCount int64  `json:"dislike_count"`
	UserID       int64  `json:"user_id"`
}

// TypingPayload 输入状态信号，不持久化
type TypingPayload struct {
	Username string `json:"username"`
}
