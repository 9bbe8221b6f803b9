package model

import (
	"time"
)

type Comment struct {
	ID       int64  `gorm:"primaryKey" json:"id"`
	AuthorID int64  `gorm:"not null;index" json:"author_id"`
	ParentID *int64 `gorm:"index" json:"parent_id,omitempty"`
	Content  string `gorm:"type:text;not null" json:"content"`

	IsEdited bool       `gorm:"not null;default:false" json:"is_edited"`
	EditedAt *time.Time `json:"edited_at,omitempty"`

	// 软删除标记，false 表示已删除但保留记录
	IsActive bool `gorm:"not null;index" json:"is_active"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 关联
	Author *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

func (Comment) TableName() string {
	return "comments"
}

// IsReply 是否为回复（只支持一级回复）
func (c *Comment) IsReply() bool {
	return c.ParentID != nil
}
