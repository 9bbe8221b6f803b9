package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPageMeta_MiddlePage(t *testing.T) {
	meta := NewPageMeta(25, 1, 10)
	assert.Equal(t, 3, meta.TotalPages)
	assert.Equal(t, int64(25), meta.Total)
	assert.True(t, meta.HasNextPage)
	assert.False(t, meta.HasPrevPage)
	assert.True(t, meta.IsFirstPage)
	assert.False(t, meta.IsLastPage)
	assert.Equal(t, int64(1), meta.StartIndex)
	assert.Equal(t, int64(10), meta.EndIndex)
	assert.Equal(t, int64(15), meta.RemainingItems)
}

func TestNewPageMeta_LastPartialPage(t *testing.T) {
	meta := NewPageMeta(25, 3, 10)
	assert.Equal(t, 3, meta.TotalPages)
	assert.False(t, meta.HasNextPage)
	assert.True(t, meta.HasPrevPage)
	assert.False(t, meta.IsFirstPage)
	assert.True(t, meta.IsLastPage)
	assert.Equal(t, int64(21), meta.StartIndex)
	assert.Equal(t, int64(25), meta.EndIndex)
	assert.Equal(t, int64(0), meta.RemainingItems)
}

func TestNewPageMeta_ExactMultiple(t *testing.T) {
	meta := NewPageMeta(20, 2, 10)
	assert.Equal(t, 2, meta.TotalPages)
	assert.False(t, meta.HasNextPage)
	assert.True(t, meta.IsLastPage)
	assert.Equal(t, int64(11), meta.StartIndex)
	assert.Equal(t, int64(20), meta.EndIndex)
	assert.Equal(t, int64(0), meta.RemainingItems)
}

func TestNewPageMeta_Empty(t *testing.T) {
	meta := NewPageMeta(0, 1, 10)
	assert.Equal(t, 0, meta.TotalPages)
	assert.True(t, meta.IsFirstPage)
	assert.True(t, meta.IsLastPage)
	assert.False(t, meta.HasNextPage)
	assert.False(t, meta.HasPrevPage)
	assert.Equal(t, int64(0), meta.EndIndex)
	assert.Equal(t, int64(0), meta.RemainingItems)
}

func TestNewPageMeta_SingleItem(t *testing.T) {
	meta := NewPageMeta(1, 1, 10)
	assert.Equal(t, 1, meta.TotalPages)
	assert.True(t, meta.IsLastPage)
	assert.Equal(t, int64(1), meta.StartIndex)
	assert.Equal(t, int64(1), meta.EndIndex)
}

func TestClampPage(t *testing.T) {
	assert.Equal(t, 1, clampPage(0))
	assert.Equal(t, 1, clampPage(-5))
	assert.Equal(t, 7, clampPage(7))
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 1, clampLimit(0))
	assert.Equal(t, 100, clampLimit(1000))
	assert.Equal(t, 20, clampLimit(20))
}

func TestPageRangeError_Message(t *testing.T) {
	err := &PageRangeError{Page: 5, TotalPages: 3}
	assert.Equal(t, "页码 5 超出范围，有效范围 1-3", err.Error())
}
