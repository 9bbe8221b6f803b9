package service

import (
	"fmt"

	"github.com/qs3c/comment_go_server/internal/model/dto"
)

// PageRangeError 页码超出有效范围
type PageRangeError struct {
	Page       int
	TotalPages int
}

func (e *PageRangeError) Error() string {
	return fmt.Sprintf("页码 %d 超出范围，有效范围 1-%d", e.Page, e.TotalPages)
}

// NewPageMeta 由 total/page/limit 推导分页元数据
func NewPageMeta(total int64, page, limit int) dto.PageMeta {
	totalPages := int((total + int64(limit) - 1) / int64(limit))

	endIndex := int64(page) * int64(limit)
	if endIndex > total {
		endIndex = total
	}

	remaining := total - int64(page)*int64(limit)
	if remaining < 0 {
		remaining = 0
	}

	return dto.PageMeta{
		CurrentPage:    page,
		TotalPages:     totalPages,
		Total:          total,
		HasNextPage:    page < totalPages,
		HasPrevPage:    page > 1,
		IsFirstPage:    page == 1,
		IsLastPage:     page >= totalPages,
		StartIndex:     int64(page-1)*int64(limit) + 1,
		EndIndex:       endIndex,
		RemainingItems: remaining,
	}
}

// clampPage 页码下限为 1
func clampPage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// clampLimit 每页数量限制在 [1, 100]
func clampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > 100 {
		return 100
	}
	return limit
}
