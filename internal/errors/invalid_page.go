package errors

import "net/http"

var ErrInvalidPage = &Exception{
	Message:    "page must be at least 1",
	StatusCode: http.StatusBadRequest,
}
