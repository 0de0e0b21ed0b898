package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	dto "task-tracker.com/task-tracker/internal/data_models"
	middleware "task-tracker.com/task-tracker/internal/http/middlewares"
	"task-tracker.com/task-tracker/internal/http/validators"
	"task-tracker.com/task-tracker/internal/services"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

func (h *TaskHandler) Create(c echo.Context) error {
	var req dto.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateCreateTaskRequest(&req); err != nil {
		return err
	}

	task, err := h.taskService.CreateTask(c.Request().Context(), &req, middleware.UserID(c))
	if err != nil {
		return httpError(err)
	}

	return respond(c, http.StatusCreated, task)
}

func (h *TaskHandler) List(c echo.Context) error {
	page, limit, err := validators.ValidatePagination(c.QueryParam("page"), c.QueryParam("limit"))
	if err != nil {
		return httpError(err)
	}

	result, err := h.taskService.ListTasks(c.Request().Context(), middleware.UserID(c), page, limit)
	if err != nil {
		return httpError(err)
	}

	return respond(c, http.StatusOK, result)
}

func (h *TaskHandler) Get(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "task id is required")
	}

	task, err := h.taskService.GetTask(c.Request().Context(), id, middleware.UserID(c))
	if err != nil {
		return httpError(err)
	}

	return respond(c, http.StatusOK, task)
}

func (h *TaskHandler) Update(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "task id is required")
	}

	var req dto.UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateUpdateTaskRequest(&req); err != nil {
		return err
	}

	task, err := h.taskService.UpdateTask(c.Request().Context(), id, &req, middleware.UserID(c))
	if err != nil {
		return httpError(err)
	}

	return respond(c, http.StatusOK, task)
}

func (h *TaskHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "task id is required")
	}

	if err := h.taskService.DeleteTask(c.Request().Context(), id, middleware.UserID(c)); err != nil {
		return httpError(err)
	}

	return respond(c, http.StatusOK, echo.Map{"deleted": true})
}

func (h *TaskHandler) Assign(c echo.Context) error {
	id := c.Param("id")
	assigneeID := c.Param("userId")
	if id == "" || assigneeID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "task id and user id are required")
	}

	task, err := h.taskService.AssignTask(c.Request().Context(), id, assigneeID, middleware.UserID(c))
	if err != nil {
		return httpError(err)
	}

	return respond(c, http.StatusOK, task)
}

func (h *TaskHandler) Watch(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "task id is required")
	}

	task, err := h.taskService.WatchTask(c.Request().Context(), id, middleware.UserID(c))
	if err != nil {
		return httpError(err)
	}

	return respond(c, http.StatusOK, task)
}

func (h *TaskHandler) Unwatch(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "task id is required")
	}

	task, err := h.taskService.UnwatchTask(c.Request().Context(), id, middleware.UserID(c))
	if err != nil {
		return httpError(err)
	}

	return respond(c, http.StatusOK, task)
}
