package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/comment_go_server/internal/api/middleware"
	"github.com/qs3c/comment_go_server/internal/model/dto"
	"github.com/qs3c/comment_go_server/internal/pkg/response"
	"github.com/qs3c/comment_go_server/internal/repository"
	"github.com/qs3c/comment_go_server/internal/service"
)

type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

// List 获取顶层评论列表
// GET /api/v1/comments
func (h *CommentHandler) List(c *gin.Context) {
	callerID, _ := middleware.GetUserID(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	sort := c.DefaultQuery("sort", repository.SortNewest)

	items, meta, err := h.commentService.List(callerID, nil, page, limit, sort)
	if err != nil {
		handleCommentError(c, err)
		return
	}

	response.SuccessPage(c, items, meta)
}

// ListReplies 获取回复列表
// GET /api/v1/comments/:id/replies
func (h *CommentHandler) ListReplies(c *gin.Context) {
	callerID, _ := middleware.GetUserID(c)

	parentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的评论ID")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	sort := c.DefaultQuery("sort", repository.SortNewest)

	items, meta, err := h.commentService.List(callerID, &parentID, page, limit, sort)
	if err != nil {
		handleCommentError(c, err)
		return
	}

	response.SuccessPage(c, items, meta)
}

// Create 发表评论或回复
// POST /api/v1/comments
func (h *CommentHandler) Create(c *gin.Context) {
	callerID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	item, err := h.commentService.Create(callerID, &req)
	if err != nil {
		handleCommentError(c, err)
		return
	}

	response.SuccessWithMessage(c, "评论成功", item)
}

// Update 编辑评论
// PUT /api/v1/comments/:id
func (h *CommentHandler) Update(c *gin.Context) {
	callerID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	commentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的评论ID")
		return
	}

	var req dto.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	item, err := h.commentService.Update(callerID, commentID, &req)
	if err != nil {
		handleCommentError(c, err)
		return
	}

	response.SuccessWithMessage(c, "编辑成功", item)
}

// Delete 删除评论
// DELETE /api/v1/comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	callerID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	commentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的评论ID")
		return
	}

	if err := h.commentService.Delete(callerID, commentID); err != nil {
		handleCommentError(c, err)
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}

// React 点赞或点踩
// POST /api/v1/comments/:id/reactions
func (h *CommentHandler) React(c *gin.Context) {
	callerID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	commentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的评论ID")
		return
	}

	var req dto.ReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	result, err := h.commentService.React(callerID, commentID, req.Type)
	if err != nil {
		handleCommentError(c, err)
		return
	}

	response.Success(c, result)
}

// RemoveReaction 移除反应
// DELETE /api/v1/comments/:id/reactions
func (h *CommentHandler) RemoveReaction(c *gin.Context) {
	callerID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	commentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的评论ID")
		return
	}

	result, err := h.commentService.RemoveReaction(callerID, commentID)
	if err != nil {
		handleCommentError(c, err)
		return
	}

	response.Success(c, result)
}

// handleCommentError 服务错误到响应码的映射
// 未授权与不存在区分返回，客户端据此展示"无权操作"或"已不存在"
func handleCommentError(c *gin.Context, err error) {
	var rangeErr *service.PageRangeError
	if errors.As(err, &rangeErr) {
		response.ParamError(c, rangeErr.Error())
		return
	}

	switch {
	case errors.Is(err, service.ErrCommentNotFound), errors.Is(err, service.ErrParentNotFound):
		response.NotFoundError(c, err.Error())
	case errors.Is(err, service.ErrCommentPermission):
		response.PermissionError(c, err.Error())
	case errors.Is(err, service.ErrContentLength),
		errors.Is(err, service.ErrInvalidSort),
		errors.Is(err, service.ErrInvalidReaction),
		errors.Is(err, service.ErrParentIsReply):
		response.ParamError(c, err.Error())
	default:
		response.ServerError(c, "")
	}
}
