package dto

// CreateCommentRequest 创建评论请求
type CreateCommentRequest struct {
	Content  string `json:"content" binding:"required"`
	ParentID *int64 `json:"parent_id,omitempty"`
}

// UpdateCommentRequest 更新评论请求
type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// ReactionRequest 点赞/点踩请求
type ReactionRequest struct {
	Type string `json:"type" binding:"required,oneof=like dislike"`
}

// CommentItem 评论项（含相对于请求者的派生字段）
type CommentItem struct {
	ID               int64          `json:"id"`
	Author           *CommentAuthor `json:"author"`
	Content          string         `json:"content"`
	ParentID         *int64         `json:"parent_id,omitempty"`
	LikeCount        int64          `json:"like_count"`
	DislikeCount     int64          `json:"dislike_count"`
	EngagementScore  int64          `json:"engagement_score"`
	ReplyCount       int64          `json:"reply_count"`
	IsLikedByUser    bool           `json:"is_liked_by_user"`
	IsDislikedByUser bool           `json:"is_disliked_by_user"`
	CanEdit          bool           `json:"can_edit"`
	IsEdited         bool           `json:"is_edited"`
	EditedAt         string         `json:"edited_at,omitempty"`
	CreatedAt        string         `json:"created_at"`
}

// CommentAuthor 评论作者信息
type CommentAuthor struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}

// ReactionResult 反应操作结果
type ReactionResult struct {
	LikeCount        int64 `json:"like_count"`
	DislikeCount     int64 `json:"dislike_count"`
	IsLikedByUser    bool  `json:"is_liked_by_user"`
	IsDislikedByUser bool  `json:"is_disliked_by_user"`
}

// PageMeta 分页元数据，全部由 total/page/limit 推导
type PageMeta struct {
	CurrentPage    int   `json:"current_page"`
	TotalPages     int   `json:"total_pages"`
	Total          int64 `json:"total"`
	HasNextPage    bool  `json:"has_next_page"`
	HasPrevPage    bool  `json:"has_prev_page"`
	IsFirstPage    bool  `json:"is_first_page"`
	IsLastPage     bool  `json:"is_last_page"`
	StartIndex     int64 `json:"start_index"`
	EndIndex       int64 `json:"end_index"`
	RemainingItems int64 `json:"remaining_items"`
}
