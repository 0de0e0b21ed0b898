package errors

import "net/http"

var ErrAlreadyWatching = &Exception{
	Message:    "already watching task",
	StatusCode: http.StatusConflict,
}
