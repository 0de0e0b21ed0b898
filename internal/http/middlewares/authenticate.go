package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	apperrors "task-tracker.com/task-tracker/internal/errors"
	"task-tracker.com/task-tracker/internal/services"
)

const (
	userIDKey = "userID"
	tokenKey  = "token"
)

// Authenticate resolves the Bearer token to a user id and stores it on the
// request context. Handlers read it back with UserID; the id is threaded
// explicitly into every service call.
func Authenticate(auth *services.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}

			userID, err := auth.Verify(c.Request().Context(), parts[1])
			if err != nil {
				return echo.NewHTTPError(apperrors.StatusCode(err), err.Error())
			}

			c.Set(userIDKey, userID)
			c.Set(tokenKey, parts[1])
			return next(c)
		}
	}
}

func UserID(c echo.Context) string {
	id, _ := c.Get(userIDKey).(string)
	return id
}

func Token(c echo.Context) string {
	token, _ := c.Get(tokenKey).(string)
	return token
}
