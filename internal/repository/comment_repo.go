package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/comment_go_server/internal/model"
)

// 排序方式
const (
	SortNewest       = "newest"
	SortMostLiked    = "most_liked"
	SortMostDisliked = "most_disliked"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create 创建评论
func (r *CommentRepository) Create(comment *model.Comment) error {
	return r.db.Create(comment).Error
}

// GetByID 根据 ID 获取评论（包含已软删除的）
func (r *CommentRepository) GetByID(id int64) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.Where("id = ?", id).First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetActiveByID 获取未删除的评论
func (r *CommentRepository) GetActiveByID(id int64) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.Where("id = ? AND is_active = ?", id, true).First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetActiveByIDWithAuthor 获取未删除的评论及作者信息
func (r *CommentRepository) GetActiveByIDWithAuthor(id int64) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.Preload("Author").Where("id = ? AND is_active = ?", id, true).First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// UpdateContent 更新评论内容并标记为已编辑
func (r *CommentRepository) UpdateContent(id int64, content string, editedAt time.Time) error {
	return r.db.Model(&model.Comment{}).Where("id = ?", id).Updates(map[string]interface{}{
		"content":   content,
		"is_edited": true,
		"edited_at": editedAt,
	}).Error
}

// SoftDelete 软删除，仅标记 is_active，记录保留
func (r *CommentRepository) SoftDelete(id int64) error {
	return r.db.Model(&model.Comment{}).Where("id = ?", id).Update("is_active", false).Error
}

// ListActive 获取未删除评论的分页列表
// parentID 为 nil 时只返回顶层评论，否则返回指定评论的回复
func (r *CommentRepository) ListActive(parentID *int64, sort string, page, limit int) ([]*model.Comment, int64, error) {
	var comments []*model.Comment
	var total int64

	query := r.db.Model(&model.Comment{}).
		Preload("Author").
		Where("is_active = ?", true)

	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch sort {
	case SortMostLiked:
		query = query.Order("(SELECT COUNT(*) FROM reactions WHERE reactions.comment_id = comments.id AND reactions.type = 'like') DESC")
	case SortMostDisliked:
		query = query.Order("(SELECT COUNT(*) FROM reactions WHERE reactions.comment_id = comments.id AND reactions.type = 'dislike') DESC")
	}
	// created_at 相同（同一毫秒写入）时以 id 兜底，保证分页顺序稳定
	query = query.Order("comments.created_at DESC").Order("comments.id DESC")

	offset := (page - 1) * limit
	err := query.Offset(offset).Limit(limit).Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}

	return comments, total, nil
}

// CountActiveTopLevel 获取顶层评论总数
func (r *CommentRepository) CountActiveTopLevel() (int64, error) {
	var count int64
	err := r.db.Model(&model.Comment{}).
		Where("parent_id IS NULL AND is_active = ?", true).
		Count(&count).Error
	return count, err
}

// CountActiveReplies 获取某条评论的未删除回复数
func (r *CommentRepository) CountActiveReplies(parentID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Comment{}).
		Where("parent_id = ? AND is_active = ?", parentID, true).
		Count(&count).Error
	return count, err
}

// CountActiveRepliesByParentIDs 批量获取回复数
func (r *CommentRepository) CountActiveRepliesByParentIDs(parentIDs []int64) (map[int64]int64, error) {
	result := make(map[int64]int64)
	if len(parentIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		ParentID int64
		Cnt      int64
	}
	err := r.db.Model(&model.Comment{}).
		Select("parent_id, COUNT(*) AS cnt").
		Where("parent_id IN ? AND is_active = ?", parentIDs, true).
		Group("parent_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.ParentID] = row.Cnt
	}
	return result, nil
}
