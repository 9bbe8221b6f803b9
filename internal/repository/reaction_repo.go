package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/qs3c/comment_go_server/internal/model"
)

type ReactionRepository struct {
	db *gorm.DB
}

func NewReactionRepository(db *gorm.DB) *ReactionRepository {
	return &ReactionRepository{db: db}
}

// Get 获取用户对某条评论的反应，不存在时返回 gorm.ErrRecordNotFound
func (r *ReactionRepository) Get(commentID, userID int64) (*model.Reaction, error) {
	var reaction model.Reaction
	err := r.db.Where("comment_id = ? AND user_id = ?", commentID, userID).First(&reaction).Error
	if err != nil {
		return nil, err
	}
	return &reaction, nil
}

// Set 写入用户对某条评论的反应
// (comment_id, user_id) 唯一索引加 upsert，单条语句完成状态切换，互斥由约束保证
func (r *ReactionRepository) Set(commentID, userID int64, reactionType string) error {
	reaction := &model.Reaction{
		CommentID: commentID,
		UserID:    userID,
		Type:      reactionType,
		CreatedAt: time.Now(),
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "comment_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"type", "created_at"}),
	}).Create(reaction).Error
}

// Remove 删除用户对某条评论的反应
func (r *ReactionRepository) Remove(commentID, userID int64) error {
	return r.db.Where("comment_id = ? AND user_id = ?", commentID, userID).
		Delete(&model.Reaction{}).Error
}

// Counts 获取某条评论的点赞数和点踩数
func (r *ReactionRepository) Counts(commentID int64) (likes, dislikes int64, err error) {
	counts, err := r.CountsByCommentIDs([]int64{commentID})
	if err != nil {
		return 0, 0, err
	}
	c := counts[commentID]
	return c.Likes, c.Dislikes, nil
}

// ReactionCounts 点赞/点踩计数
type ReactionCounts struct {
	Likes    int64
	Dislikes int64
}

// CountsByCommentIDs 批量获取计数
func (r *ReactionRepository) CountsByCommentIDs(commentIDs []int64) (map[int64]ReactionCounts, error) {
	result := make(map[int64]ReactionCounts)
	if len(commentIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		CommentID int64
		Type      string
		Cnt       int64
	}
	err := r.db.Model(&model.Reaction{}).
		Select("comment_id, type, COUNT(*) AS cnt").
		Where("comment_id IN ?", commentIDs).
		Group("comment_id, type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts := result[row.CommentID]
		switch row.Type {
		case model.ReactionLike:
			counts.Likes = row.Cnt
		case model.ReactionDislike:
			counts.Dislikes = row.Cnt
		}
		result[row.CommentID] = counts
	}
	return result, nil
}

// UserReactions 批量获取用户对一组评论的反应类型
func (r *ReactionRepository) UserReactions(commentIDs []int64, userID int64) (map[int64]string, error) {
	result := make(map[int64]string)
	if len(commentIDs) == 0 || userID == 0 {
		return result, nil
	}

	var reactions []*model.Reaction
	err := r.db.Where("comment_id IN ? AND user_id = ?", commentIDs, userID).
		Find(&reactions).Error
	if err != nil {
		return nil, err
	}

	for _, reaction := range reactions {
		result[reaction.CommentID] = reaction.Type
	}
	return result, nil
}
