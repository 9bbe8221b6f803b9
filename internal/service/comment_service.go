package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/qs3c/comment_go_server/config"
	"github.com/qs3c/comment_go_server/internal/model"
	"github.com/qs3c/comment_go_server/internal/model/dto"
	"github.com/qs3c/comment_go_server/internal/pkg/pubsub"
	"github.com/qs3c/comment_go_server/internal/repository"
)

var (
	ErrCommentNotFound   = errors.New("评论不存在")
	ErrCommentPermission = errors.New("无权操作此评论")
	ErrParentNotFound    = errors.New("父评论不存在")
	ErrParentIsReply     = errors.New("不支持嵌套回复")
	ErrContentLength     = errors.New("评论内容长度需为 1-500 个字符")
	ErrInvalidSort       = errors.New("无效的排序方式，可选 newest、most_liked、most_disliked")
	ErrInvalidReaction   = errors.New("无效的反应类型，可选 like、dislike")
)

const (
	contentMinLen = 1
	contentMaxLen = 500
)

// EventPublisher 广播通道能力，由构造时注入，便于测试替换
type EventPublisher interface {
	Publish(ctx context.Context, event *pubsub.Event) error
}

type CommentService struct {
	commentRepo  *repository.CommentRepository
	reactionRepo *repository.ReactionRepository
	userRepo     *repository.UserRepository
	publisher    EventPublisher
	cfg          *config.Config
}

func NewCommentService(
	commentRepo *repository.CommentRepository,
	reactionRepo *repository.ReactionRepository,
	userRepo *repository.UserRepository,
	publisher EventPublisher,
	cfg *config.Config,
) *CommentService {
	return &CommentService{
		commentRepo:  commentRepo,
		reactionRepo: reactionRepo,
		userRepo:     userRepo,
		publisher:    publisher,
		cfg:          cfg,
	}
}

// List 获取评论分页列表
// parentID 为 nil 时返回顶层评论，否则返回指定评论的回复
// callerID 为 0 表示匿名访问，派生字段按匿名计算
func (s *CommentService) List(callerID int64, parentID *int64, page, limit int, sort string) ([]*dto.CommentItem, dto.PageMeta, error) {
	page = clampPage(page)
	limit = clampLimit(limit)

	switch sort {
	case repository.SortNewest, repository.SortMostLiked, repository.SortMostDisliked:
	default:
		return nil, dto.PageMeta{}, ErrInvalidSort
	}

	// 回复列表要求父评论存在；已软删除的父评论其回复仍可访问（孤儿回复不级联删除）
	if parentID != nil {
		if _, err := s.commentRepo.GetByID(*parentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, dto.PageMeta{}, ErrParentNotFound
			}
			return nil, dto.PageMeta{}, err
		}
	}

	comments, total, err := s.commentRepo.ListActive(parentID, sort, page, limit)
	if err != nil {
		return nil, dto.PageMeta{}, err
	}

	meta := NewPageMeta(total, page, limit)
	if total > 0 && page > meta.TotalPages {
		return nil, dto.PageMeta{}, &PageRangeError{Page: page, TotalPages: meta.TotalPages}
	}

	items, err := s.annotate(comments, callerID)
	if err != nil {
		return nil, dto.PageMeta{}, err
	}

	return items, meta, nil
}

// Create 发表评论或回复
func (s *CommentService) Create(callerID int64, req *dto.CreateCommentRequest) (*dto.CommentItem, error) {
	content, err := validateContent(req.Content)
	if err != nil {
		return nil, err
	}

	// 回复必须指向存在、未删除的顶层评论，只支持一级回复
	if req.ParentID != nil {
		parent, err := s.commentRepo.GetActiveByID(*req.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrParentNotFound
			}
			return nil, err
		}
		if parent.IsReply() {
			return nil, ErrParentIsReply
		}
	}

	author, err := s.userRepo.GetByID(callerID)
	if err != nil {
		return nil, err
	}

	comment := &model.Comment{
		AuthorID: callerID,
		ParentID: req.ParentID,
		Content:  content,
		IsActive: true,
		Author:   author,
	}

	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}

	item := s.buildItem(comment, repository.ReactionCounts{}, 0, "", callerID)

	if comment.IsReply() {
		s.publish(pubsub.EventNewReply, &pubsub.NewReplyPayload{Comment: item})
	} else {
		total, err := s.commentRepo.CountActiveTopLevel()
		if err != nil {
			total = 0
		}
		s.publish(pubsub.EventNewComment, &pubsub.NewCommentPayload{Comment: item, TotalCount: total})
	}

	return item, nil
}

// Update 编辑评论，仅作者可操作
func (s *CommentService) Update(callerID, commentID int64, req *dto.UpdateCommentRequest) (*dto.CommentItem, error) {
	comment, err := s.commentRepo.GetActiveByIDWithAuthor(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}

	if comment.AuthorID != callerID {
		return nil, ErrCommentPermission
	}

	content, err := validateContent(req.Content)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.commentRepo.UpdateContent(commentID, content, now); err != nil {
		return nil, err
	}

	comment.Content = content
	comment.IsEdited = true
	comment.EditedAt = &now

	item, err := s.annotateOne(comment, callerID)
	if err != nil {
		return nil, err
	}

	if comment.IsReply() {
		s.publish(pubsub.EventReplyUpdated, &pubsub.CommentUpdatedPayload{Comment: item})
	} else {
		s.publish(pubsub.EventCommentUpdated, &pubsub.CommentUpdatedPayload{Comment: item})
	}

	return item, nil
}

// Delete 软删除评论，仅作者可操作，不级联删除回复
func (s *CommentService) Delete(callerID, commentID int64) error {
	comment, err := s.commentRepo.GetActiveByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}

	if comment.AuthorID != callerID {
		return ErrCommentPermission
	}

	if err := s.commentRepo.SoftDelete(commentID); err != nil {
		return err
	}

	if comment.IsReply() {
		s.publish(pubsub.EventReplyDeleted, &pubsub.ReplyDeletedPayload{
			CommentID: commentID,
			ParentID:  *comment.ParentID,
		})
	} else {
		total, err := s.commentRepo.CountActiveTopLevel()
		if err != nil {
			total = 0
		}
		s.publish(pubsub.EventCommentDeleted, &pubsub.CommentDeletedPayload{
			CommentID:  commentID,
			TotalCount: total,
		})
	}

	return nil
}

// React 点赞或点踩，状态转移由服务端根据当前状态计算
func (s *CommentService) React(callerID, commentID int64, reactionType string) (*dto.ReactionResult, error) {
	var action ReactionAction
	switch reactionType {
	case model.ReactionLike:
		action = ActionLike
	case model.ReactionDislike:
		action = ActionDislike
	default:
		return nil, ErrInvalidReaction
	}

	return s.applyReaction(callerID, commentID, action, reactionType)
}

// RemoveReaction 移除反应，无反应时幂等
func (s *CommentService) RemoveReaction(callerID, commentID int64) (*dto.ReactionResult, error) {
	return s.applyReaction(callerID, commentID, ActionRemove, "remove")
}

func (s *CommentService) applyReaction(callerID, commentID int64, action ReactionAction, eventType string) (*dto.ReactionResult, error) {
	comment, err := s.commentRepo.GetActiveByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}

	current := StateNone
	if reaction, err := s.reactionRepo.Get(commentID, callerID); err == nil {
		current = ReactionStateOf(reaction.Type)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	next, change := NextReactionState(current, action)

	switch change {
	case ChangeSetLike:
		err = s.reactionRepo.Set(commentID, callerID, model.ReactionLike)
	case ChangeSetDislike:
		err = s.reactionRepo.Set(commentID, callerID, model.ReactionDislike)
	case ChangeClear:
		err = s.reactionRepo.Remove(commentID, callerID)
	}
	if err != nil {
		return nil, err
	}

	likes, dislikes, err := s.reactionRepo.Counts(commentID)
	if err != nil {
		return nil, err
	}

	result := &dto.ReactionResult{
		LikeCount:        likes,
		DislikeCount:     dislikes,
		IsLikedByUser:    next == StateLiked,
		IsDislikedByUser: next == StateDisliked,
	}

	// 幂等操作不产生状态变化，也不广播
	if change != ChangeNone {
		payload := &pubsub.ReactionPayload{
			CommentID:    commentID,
			Type:         eventType,
			LikeCount:    likes,
			DislikeCount: dislikes,
			UserID:       callerID,
		}
		if comment.IsReply() {
			s.publish(pubsub.EventReplyReaction, payload)
		} else {
			s.publish(pubsub.EventCommentReaction, payload)
		}
	}

	return result, nil
}

// annotate 为评论批量计算派生字段
func (s *CommentService) annotate(comments []*model.Comment, callerID int64) ([]*dto.CommentItem, error) {
	if len(comments) == 0 {
		return []*dto.CommentItem{}, nil
	}

	ids := make([]int64, len(comments))
	for i, c := range comments {
		ids[i] = c.ID
	}

	counts, err := s.reactionRepo.CountsByCommentIDs(ids)
	if err != nil {
		return nil, err
	}

	replyCounts, err := s.commentRepo.CountActiveRepliesByParentIDs(ids)
	if err != nil {
		return nil, err
	}

	userReactions := make(map[int64]string)
	if callerID != 0 {
		userReactions, err = s.reactionRepo.UserReactions(ids, callerID)
		if err != nil {
			return nil, err
		}
	}

	items := make([]*dto.CommentItem, len(comments))
	for i, c := range comments {
		items[i] = s.buildItem(c, counts[c.ID], replyCounts[c.ID], userReactions[c.ID], callerID)
	}
	return items, nil
}

func (s *CommentService) annotateOne(comment *model.Comment, callerID int64) (*dto.CommentItem, error) {
	items, err := s.annotate([]*model.Comment{comment}, callerID)
	if err != nil {
		return nil, err
	}
	return items[0], nil
}

func (s *CommentService) buildItem(c *model.Comment, counts repository.ReactionCounts, replyCount int64, userReaction string, callerID int64) *dto.CommentItem {
	item := &dto.CommentItem{
		ID:               c.ID,
		Content:          c.Content,
		ParentID:         c.ParentID,
		LikeCount:        counts.Likes,
		DislikeCount:     counts.Dislikes,
		EngagementScore:  counts.Likes - counts.Dislikes,
		ReplyCount:       replyCount,
		IsLikedByUser:    userReaction == model.ReactionLike,
		IsDislikedByUser: userReaction == model.ReactionDislike,
		CanEdit:          callerID != 0 && c.AuthorID == callerID,
		IsEdited:         c.IsEdited,
		CreatedAt:        c.CreatedAt.Format(time.RFC3339),
	}

	if c.EditedAt != nil {
		item.EditedAt = c.EditedAt.Format(time.RFC3339)
	}

	if c.Author != nil {
		item.Author = &dto.CommentAuthor{
			ID:        c.Author.ID,
			Username:  c.Author.Username,
			AvatarURL: c.Author.AvatarURL,
		}
	}

	return item
}

// publish 广播为尽力投递，失败只记录日志，不影响请求结果
func (s *CommentService) publish(eventType string, payload interface{}) {
	event, err := pubsub.NewEvent(eventType, payload)
	if err != nil {
		log.Printf("Failed to build event %s: %v", eventType, err)
		return
	}
	if err := s.publisher.Publish(context.Background(), event); err != nil {
		log.Printf("Failed to publish event %s: %v", eventType, err)
	}
}

func validateContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	length := utf8.RuneCountInString(content)
	if length < contentMinLen || length > contentMaxLen {
		return "", ErrContentLength
	}
	return content, nil
}
