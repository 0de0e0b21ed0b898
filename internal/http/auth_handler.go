package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	dto "task-tracker.com/task-tracker/internal/data_models"
	middleware "task-tracker.com/task-tracker/internal/http/middlewares"
	"task-tracker.com/task-tracker/internal/http/validators"
	"task-tracker.com/task-tracker/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateRegisterRequest(&req); err != nil {
		return err
	}

	resp, err := h.authService.Register(c.Request().Context(), &req)
	if err != nil {
		return httpError(err)
	}

	return respond(c, http.StatusCreated, resp)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateLoginRequest(&req); err != nil {
		return err
	}

	resp, err := h.authService.Login(c.Request().Context(), &req)
	if err != nil {
		return httpError(err)
	}

	return respond(c, http.StatusOK, resp)
}

func (h *AuthHandler) Info(c echo.Context) error {
	user, err := h.authService.Info(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return httpError(err)
	}

	return respond(c, http.StatusOK, user)
}

func (h *AuthHandler) Logout(c echo.Context) error {
	token := middleware.Token(c)

	if err := h.authService.Logout(c.Request().Context(), token); err != nil {
		return httpError(err)
	}

	return respond(c, http.StatusOK, echo.Map{"logged_out": true})
}
