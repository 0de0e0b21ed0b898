package errors

import "net/http"

var ErrInvalidToken = &Exception{
	Message:    "invalid or expired token",
	StatusCode: http.StatusUnauthorized,
}
