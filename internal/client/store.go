package client

import (
	"encoding/json"
	"sync"

	"github.com/qs3c/comment_go_server/internal/model/dto"
	"github.com/qs3c/comment_go_server/internal/pkg/pubsub"
)

// Store 单个客户端的本地视图状态
// REST 响应与广播事件都折叠进同一份状态，按评论 ID 去重，重复事件幂等
type Store struct {
	userID int64

	mu         sync.Mutex
	comments   []*dto.CommentItem           // 顶层评论，新的在前
	replies    map[int64][]*dto.CommentItem // 已展开评论的回复
	index      map[int64]*dto.CommentItem
	totalCount int64

	typingFn func(username string, typing bool)
}

// NewStore 创建本地状态，userID 为 0 表示匿名查看
func NewStore(userID int64) *Store {
	return &Store{
		userID:  userID,
		replies: make(map[int64][]*dto.CommentItem),
		index:   make(map[int64]*dto.CommentItem),
	}
}

// OnTyping 注册输入状态回调，信号不进入状态
func (s *Store) OnTyping(fn func(username string, typing bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.typingFn = fn
}

// SetComments 载入一页顶层评论（List 响应）
func (s *Store) SetComments(items []*dto.CommentItem, total int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, old := range s.comments {
		delete(s.index, old.ID)
	}
	s.comments = make([]*dto.CommentItem, 0, len(items))
	for _, item := range items {
		s.comments = append(s.comments, item)
		s.index[item.ID] = item
	}
	s.totalCount = total
}

// SetReplies 载入某条评论的回复（List replies 响应）
func (s *Store) SetReplies(parentID int64, items []*dto.CommentItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, old := range s.replies[parentID] {
		delete(s.index, old.ID)
	}
	s.replies[parentID] = make([]*dto.CommentItem, 0, len(items))
	for _, item := range items {
		s.replies[parentID] = append(s.replies[parentID], item)
		s.index[item.ID] = item
	}
}

// AddLocal 合并自己发起的 REST 创建响应（乐观更新）
// 之后到达的同 ID 广播事件会被去重
func (s *Store) AddLocal(item *dto.CommentItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insert(item) && item.ParentID == nil {
		s.totalCount++
	}
}

// Apply 合并广播事件，未知 ID 的删除/更新为无操作
func (s *Store) Apply(event *pubsub.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch event.Type {
	case pubsub.EventNewComment:
		var payload pubsub.NewCommentPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return err
		}
		s.totalCount = payload.TotalCount
		s.insertRemote(payload.Comment)

	case pubsub.EventNewReply:
		var payload pubsub.NewReplyPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return err
		}
		s.insertRemote(payload.Comment)

	case pubsub.EventCommentUpdated, pubsub.EventReplyUpdated:
		var payload pubsub.CommentUpdatedPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return err
		}
		s.applyUpdate(payload.Comment)

	case pubsub.EventCommentDeleted:
		var payload pubsub.CommentDeletedPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return err
		}
		s.totalCount = payload.TotalCount
		s.removeTopLevel(payload.CommentID)

	case pubsub.EventReplyDeleted:
		var payload pubsub.ReplyDeletedPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return err
		}
		s.removeReply(payload.CommentID, payload.ParentID)

	case pubsub.EventCommentReaction, pubsub.EventReplyReaction:
		var payload pubsub.ReactionPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return err
		}
		s.applyReaction(&payload)

	case pubsub.EventUserTyping:
		s.notifyTyping(event.Data, true)

	case pubsub.EventUserStopTyping:
		s.notifyTyping(event.Data, false)
	}

	return nil
}

// Comments 当前顶层评论列表
func (s *Store) Comments() []*dto.CommentItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]*dto.CommentItem, len(s.comments))
	copy(result, s.comments)
	return result
}

// Replies 某条评论已载入的回复
func (s *Store) Replies(parentID int64) []*dto.CommentItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]*dto.CommentItem, len(s.replies[parentID]))
	copy(result, s.replies[parentID])
	return result
}

// Get 按 ID 查找评论或回复
func (s *Store) Get(id int64) (*dto.CommentItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.index[id]
	return item, ok
}

// TotalCount 顶层评论总数
func (s *Store) TotalCount() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalCount
}

// insert 按 ID 去重后插入，返回是否实际插入
func (s *Store) insert(item *dto.CommentItem) bool {
	if item == nil {
		return false
	}
	if _, ok := s.index[item.ID]; ok {
		return false // 已存在，去重
	}

	s.index[item.ID] = item
	if item.ParentID == nil {
		s.comments = append([]*dto.CommentItem{item}, s.comments...)
		return true
	}

	parentID := *item.ParentID
	if _, loaded := s.replies[parentID]; loaded {
		s.replies[parentID] = append(s.replies[parentID], item)
	}
	if parent, ok := s.index[parentID]; ok {
		parent.ReplyCount++
	}
	return true
}

// insertRemote 合并广播来的新评论事件
// 事件载荷中相对于发起者的字段按本地用户重算
func (s *Store) insertRemote(item *dto.CommentItem) {
	if item == nil {
		return
	}
	if _, ok := s.index[item.ID]; ok {
		return
	}

	item.CanEdit = item.Author != nil && s.userID != 0 && item.Author.ID == s.userID
	item.IsLikedByUser = false
	item.IsDislikedByUser = false
	s.insert(item)
}

func (s *Store) applyUpdate(updated *dto.CommentItem) {
	if updated == nil {
		return
	}
	item, ok := s.index[updated.ID]
	if !ok {
		return
	}
	item.Content = updated.Content
	item.IsEdited = updated.IsEdited
	item.EditedAt = updated.EditedAt
}

func (s *Store) removeTopLevel(id int64) {
	if _, ok := s.index[id]; !ok {
		return
	}
	delete(s.index, id)
	for i, item := range s.comments {
		if item.ID == id {
			s.comments = append(s.comments[:i], s.comments[i+1:]...)
			break
		}
	}
}

func (s *Store) removeReply(id, parentID int64) {
	if _, ok := s.index[id]; !ok {
		return
	}
	delete(s.index, id)
	for i, item := range s.replies[parentID] {
		if item.ID == id {
			s.replies[parentID] = append(s.replies[parentID][:i], s.replies[parentID][i+1:]...)
			break
		}
	}
	if parent, ok := s.index[parentID]; ok && parent.ReplyCount > 0 {
		parent.ReplyCount--
	}
}

// applyReaction 计数无条件采用服务端权威值
// 本地用户自己的点赞/点踩标记只在事件来自本地用户时翻转
func (s *Store) applyReaction(payload *pubsub.ReactionPayload) {
	item, ok := s.index[payload.CommentID]
	if !ok {
		return
	}

	item.LikeCount = payload.LikeCount
	item.DislikeCount = payload.DislikeCount
	item.EngagementScore = payload.LikeCount - payload.DislikeCount

	if s.userID == 0 || payload.UserID != s.userID {
		return
	}

	switch payload.Type {
	case "like":
		item.IsLikedByUser = true
		item.IsDislikedByUser = false
	case "dislike":
		item.IsLikedByUser = false
		item.IsDislikedByUser = true
	case "remove":
		item.IsLikedByUser = false
		item.IsDislikedByUser = false
	}
}

func (s *Store) notifyTyping(data json.RawMessage, typing bool) {
	if s.typingFn == nil {
		return
	}
	var payload pubsub.TypingPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return
	}
	s.typingFn(payload.Username, typing)
}
