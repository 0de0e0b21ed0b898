package validators

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	dto "task-tracker.com/task-tracker/internal/data_models"
)

func ValidateRegisterRequest(r *dto.RegisterRequest) error {
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	if len(r.Password) < 6 {
		return echo.NewHTTPError(http.StatusBadRequest, "password must be at least 6 characters")
	}
	if r.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	return nil
}

func ValidateLoginRequest(r *dto.LoginRequest) error {
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	if r.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "password is required")
	}
	return nil
}

func validateEmail(email string) error {
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 {
		return echo.NewHTTPError(http.StatusBadRequest, "a valid email is required")
	}
	return nil
}
