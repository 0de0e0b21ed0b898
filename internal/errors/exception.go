package errors

import (
	"errors"
	"net/http"
)

// Exception is an error carrying the HTTP status it should surface with.
// Anything else maps to 500.
type Exception struct {
	Message    string
	StatusCode int
}

func (e *Exception) Error() string {
	return e.Message
}

func StatusCode(err error) int {
	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}
