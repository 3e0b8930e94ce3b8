package helpers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/choirdinated/backend/internal/app/models/dto"
)

const (
	// DefaultPage is the first page
	DefaultPage = 1
	// DefaultPageSize is the default number of items per page
	DefaultPageSize = 20
	// MaxPageSize bounds client-requested page sizes
	MaxPageSize = 100
)

// GetPaginationParams extracts and sanitizes page/pageSize query parameters
func GetPaginationParams(c *gin.Context) (page, size int) {
	page = DefaultPage
	size = DefaultPageSize

	if pageStr := c.Query("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}
	if sizeStr := c.Query("pageSize"); sizeStr != "" {
		if s, err := strconv.Atoi(sizeStr); err == nil && s > 0 {
			size = s
		}
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}

// NewPaginationInfo creates a standard PaginationInfo DTO
func NewPaginationInfo(totalItems int64, page, size int) dto.PaginationInfo {
	totalPages := int(totalItems) / size
	if int(totalItems)%size > 0 {
		totalPages++
	}
	if totalPages == 0 {
		totalPages = 1
	}

	return dto.PaginationInfo{
		CurrentPage: page,
		PageSize:    size,
		TotalItems:  totalItems,
		TotalPages:  totalPages,
	}
}

// Offset converts page/size to a SQL offset
func Offset(page, size int) uint64 {
	if page < 1 {
		page = 1
	}
	return uint64((page - 1) * size)
}
