package http

import (
	"errors"

	"github.com/labstack/echo/v4"

	apperrors "task-tracker.com/task-tracker/internal/errors"
)

// respond wraps payloads in the {code, data} envelope all endpoints share.
func respond(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, echo.Map{
		"code": status,
		"data": data,
	})
}

// httpError maps service errors onto their HTTP status. Echo errors pass
// through untouched.
func httpError(err error) error {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}
	return echo.NewHTTPError(apperrors.StatusCode(err), err.Error())
}
