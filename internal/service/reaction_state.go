package service

import (
	"github.com/qs3c/comment_go_server/internal/model"
)

// ReactionState 某 (评论, 用户) 对的反应状态
type ReactionState int

const (
	StateNone ReactionState = iota
	StateLiked
	StateDisliked
)

// ReactionAction 用户发起的反应操作
type ReactionAction int

const (
	ActionLike ReactionAction = iota
	ActionDislike
	ActionRemove
)

// ReactionChange 状态转移对应的持久化动作
type ReactionChange int

const (
	ChangeNone ReactionChange = iota // 幂等操作，无需写入
	ChangeSetLike
	ChangeSetDislike
	ChangeClear
)

// ReactionStateOf 由当前反应记录的类型推导状态，空串表示无记录
func ReactionStateOf(reactionType string) ReactionState {
	switch reactionType {
	case model.ReactionLike:
		return StateLiked
	case model.ReactionDislike:
		return StateDisliked
	default:
		return StateNone
	}
}

// NextReactionState 计算状态转移
// 点赞/点踩互相切换时隐式移除旧反应，重复操作幂等
func NextReactionState(current ReactionState, action ReactionAction) (ReactionState, ReactionChange) {
	switch action {
	case ActionLike:
		if current == StateLiked {
			return StateLiked, ChangeNone
		}
		return StateLiked, ChangeSetLike
	case ActionDislike:
		if current == StateDisliked {
			return StateDisliked, ChangeNone
		}
		return StateDisliked, ChangeSetDislike
	case ActionRemove:
		if current == StateNone {
			return StateNone, ChangeNone
		}
		return StateNone, ChangeClear
	default:
		return current, ChangeNone
	}
}
