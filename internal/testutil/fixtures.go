package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/gorm"

	"github.com/qs3c/comment_go_server/internal/model"
)

var fixtureSeq int64

func nextSeq() int64 {
	return atomic.AddInt64(&fixtureSeq, 1)
}

// TestUser 创建测试用户
func TestUser(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	seq := nextSeq()
	email := fmt.Sprintf("test_%d@example.com", seq)
	passwordHash := "$2a$10$abcdefghijklmnopqrstuvwxyz123456" // bcrypt hash placeholder
	user := &model.User{
		Username:     fmt.Sprintf("testuser_%d", seq),
		Email:        &email,
		PasswordHash: &passwordHash,
	}

	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// WithUsername 设置用户名
func WithUsername(username string) func(*model.User) {
	return func(u *model.User) {
		u.Username = username
	}
}

// WithEmail 设置邮箱
func WithEmail(email string) func(*model.User) {
	return func(u *model.User) {
		u.Email = &email
	}
}

// TestComment 创建顶层测试评论
func TestComment(t *testing.T, db *gorm.DB, authorID int64, content string) *model.Comment {
	t.Helper()

	comment := &model.Comment{
		AuthorID: authorID,
		Content:  content,
		IsActive: true,
	}

	if err := db.Create(comment).Error; err != nil {
		t.Fatalf("Failed to create test comment: %v", err)
	}

	return comment
}

// TestReply 创建测试回复
func TestReply(t *testing.T, db *gorm.DB, authorID, parentID int64, content string) *model.Comment {
	t.Helper()

	comment := &model.Comment{
		AuthorID: authorID,
		ParentID: &parentID,
		Content:  content,
		IsActive: true,
	}

	if err := db.Create(comment).Error; err != nil {
		t.Fatalf("Failed to create test reply: %v", err)
	}

	return comment
}

// TestReaction 创建测试反应
func TestReaction(t *testing.T, db *gorm.DB, commentID, userID int64, reactionType string) *model.Reaction {
	t.Helper()

	reaction := &model.Reaction{
		CommentID: commentID,
		UserID:    userID,
		Type:      reactionType,
	}

	if err := db.Create(reaction).Error; err != nil {
		t.Fatalf("Failed to create test reaction: %v", err)
	}

	return reaction
}
