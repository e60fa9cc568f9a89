package customErrors

import (
	"errors"
	"fmt"
)

const (
	ErrNotFound     = "NOT FOUND"
	ErrInvalidInput = "INVALID INPUT"
	ErrAuth         = "UNAUTHORIZED"
	ErrAccessDenied = "ACCESS DENIED"
	ErrConflict     = "CONFLICT"
	ErrInternal     = "INTERNAL"
)

// ErrorResponse is the error value every layer returns upward; Code is one
// of the constants above, Message is safe to show to the user.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e ErrorResponse) Error() string {
	return fmt.Sprintf("code: %s, message: %s", e.Code, e.Message)
}

// AsErrorResponse unwraps err until it finds an ErrorResponse.
func AsErrorResponse(err error) (ErrorResponse, bool) {
	var appErr ErrorResponse
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return ErrorResponse{}, false
}

// HasCode reports whether err carries an ErrorResponse with the given code,
// unwrapping as needed.
func HasCode(err error, code string) bool {
	if appErr, ok := AsErrorResponse(err); ok {
		return appErr.Code == code
	}
	return false
}
