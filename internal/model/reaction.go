package model

import (
	"time"
)

// 反应类型
const (
	ReactionLike    = "like"
	ReactionDislike = "dislike"
)

// Reaction 每个 (评论, 用户) 最多一条记录，唯一索引保证点赞/点踩互斥
type Reaction struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	CommentID int64     `gorm:"not null;uniqueIndex:idx_comment_user" json:"comment_id"`
	UserID    int64     `gorm:"not null;uniqueIndex:idx_comment_user" json:"user_id"`
	Type      string    `gorm:"size:20;not null" json:"type"` // like, dislike
	CreatedAt time.Time `json:"created_at"`
}

func (Reaction) TableName() string {
	return "reactions"
}
