package errors

import "net/http"

var ErrWatchNotFound = &Exception{
	Message:    "watch not found",
	StatusCode: http.StatusNotFound,
}
