package errors

import "net/http"

// ErrTaskNotFound covers both a missing row and a denied access check.
// The two cases are deliberately indistinguishable so unauthorized callers
// cannot learn whether a task exists.
var ErrTaskNotFound = &Exception{
	Message:    "task not found",
	StatusCode: http.StatusNotFound,
}
