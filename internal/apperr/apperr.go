package apperr

import (
	"fmt"
	"net/http"
)

// Error is a business error carrying a stable machine-readable code and a
// human-readable message. The code is what clients branch on; the message
// may change without notice.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches errors by code so wrapped instances compare equal to the
// package sentinels under errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

var (
	// ErrProductNotFound is returned when a product does not exist
	ErrProductNotFound = &Error{Status: http.StatusNotFound, Code: "PRODUCT_001", Message: "Product not found"}

	// ErrCategoryNotFound is returned when a referenced category does not exist
	ErrCategoryNotFound = &Error{Status: http.StatusNotFound, Code: "PRODUCT_002", Message: "Category not found"}

	// ErrDuplicateCode is returned when a product code is already taken
	ErrDuplicateCode = &Error{Status: http.StatusConflict, Code: "PRODUCT_004", Message: "Product code already exists"}
)

// InvalidArgument builds an error for malformed input such as bad
// pagination or an unparseable date range
func InvalidArgument(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: "COMMON_001", Message: message}
}

// Internal wraps an unexpected failure. The wrapped cause is kept for
// logging but never serialized to clients.
func Internal(err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Code: "SERVER_001", Message: "Internal server error", Err: err}
}
