package errors

import "net/http"

var ErrInvalidLimit = &Exception{
	Message:    "limit must be at least 10",
	StatusCode: http.StatusBadRequest,
}
