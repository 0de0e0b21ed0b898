package validators

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"task-tracker.com/task-tracker/internal/constants"
	dto "task-tracker.com/task-tracker/internal/data_models"
)

func ValidateCreateTaskRequest(r *dto.CreateTaskRequest) error {
	if r.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}
	if err := validateStatus(r.Status); err != nil {
		return err
	}
	return validatePriority(r.Priority)
}

func ValidateUpdateTaskRequest(r *dto.UpdateTaskRequest) error {
	if r.Title != nil && *r.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title must not be empty")
	}
	if err := validateStatus(r.Status); err != nil {
		return err
	}
	return validatePriority(r.Priority)
}

func validateStatus(s *string) error {
	if s == nil {
		return nil
	}
	if _, ok := constants.ValidStatuses[constants.TaskStatus(*s)]; !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid status")
	}
	return nil
}

func validatePriority(p *string) error {
	if p == nil {
		return nil
	}
	if _, ok := constants.ValidPriorities[constants.TaskPriority(*p)]; !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid priority")
	}
	return nil
}
