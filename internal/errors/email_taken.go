package errors

import "net/http"

var ErrEmailTaken = &Exception{
	Message:    "user already exists",
	StatusCode: http.StatusConflict,
}
