package service

import "github.com/VelkaressiaBlutkrone/spring-react-product-mng/internal/apperr"

var (
	invalidPageErr = apperr.InvalidArgument("page must not be negative")
	invalidSizeErr = apperr.InvalidArgument("size must be positive")
)

// Page is one slice of a paginated result set. TotalElements always
// reflects the full filtered set, independent of the slice.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

// NewPage builds a page envelope around one slice of content
func NewPage[T any](content []T, page, size int, total int64) *Page[T] {
	if content == nil {
		content = []T{}
	}
	totalPages := int((total + int64(size) - 1) / int64(size))
	return &Page[T]{
		Content:       content,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
	}
}

// validatePage rejects malformed pagination before any query runs
func validatePage(page, size int) error {
	if page < 0 {
		return invalidPageErr
	}
	if size <= 0 {
		return invalidSizeErr
	}
	return nil
}
