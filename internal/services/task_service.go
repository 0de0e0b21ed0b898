package services

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"task-tracker.com/task-tracker/internal/constants"
	dto "task-tracker.com/task-tracker/internal/data_models"
	apperrors "task-tracker.com/task-tracker/internal/errors"
	repository "task-tracker.com/task-tracker/internal/repositories"
)

// TaskService is the task lifecycle engine. Every mutating operation and
// single-record read is gated by the access predicate (creator, assignee,
// or watcher); a failed gate is indistinguishable from a missing task.
type TaskService struct {
	tasks    *repository.TaskRepository
	watchers *repository.WatcherRepository
}

func NewTaskService(tasks *repository.TaskRepository, watchers *repository.WatcherRepository) *TaskService {
	return &TaskService{
		tasks:    tasks,
		watchers: watchers,
	}
}

// CreateTask stores a new task for the creator. Assignee, team and parent
// ids are copied verbatim; referential errors surface from the store.
func (s *TaskService) CreateTask(ctx context.Context, req *dto.CreateTaskRequest, userID string) (*dto.TaskResponse, error) {
	log.Printf("creating task for user %s", userID)

	task, err := s.tasks.Create(ctx, req, userID)
	if err != nil {
		return nil, err
	}

	hydrated, err := s.tasks.FindByID(ctx, task.ID)
	if err != nil {
		return nil, err
	}

	return dto.NewTaskResponse(hydrated), nil
}

func (s *TaskService) ListTasks(ctx context.Context, userID string, page, limit int) (*dto.TaskPage, error) {
	log.Printf("listing tasks for user %s (page %d, limit %d)", userID, page, limit)

	offset := (page - 1) * limit

	tasks, err := s.tasks.ListAccessible(ctx, userID, offset, limit)
	if err != nil {
		return nil, err
	}

	total, err := s.tasks.CountAccessible(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]dto.TaskResponse, 0, len(tasks))
	for i := range tasks {
		items = append(items, *dto.NewTaskResponse(&tasks[i]))
	}

	return dto.NewTaskPage(items, page, limit, total), nil
}

func (s *TaskService) GetTask(ctx context.Context, id, userID string) (*dto.TaskResponse, error) {
	task, err := s.tasks.FindAccessible(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, err
	}
	return dto.NewTaskResponse(task), nil
}

// UpdateTask applies a partial patch. A status change to done stamps
// completedAt; any other status change clears it; an absent status leaves
// it alone. Completing a subtask re-checks its parent.
func (s *TaskService) UpdateTask(ctx context.Context, id string, req *dto.UpdateTaskRequest, userID string) (*dto.TaskResponse, error) {
	log.Printf("updating task %s for user %s", id, userID)

	if _, err := s.GetTask(ctx, id, userID); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Priority != nil {
		fields["priority"] = constants.TaskPriority(*req.Priority)
	}
	if req.DueDate != nil {
		fields["due_date"] = *req.DueDate
	}
	if req.EstimatedHours != nil {
		fields["estimated_hours"] = *req.EstimatedHours
	}
	if req.ActualHours != nil {
		fields["actual_hours"] = *req.ActualHours
	}
	if req.AssignedToID != nil {
		fields["assigned_to_id"] = *req.AssignedToID
	}
	if req.TeamID != nil {
		fields["team_id"] = *req.TeamID
	}
	if req.Status != nil {
		status := constants.TaskStatus(*req.Status)
		fields["status"] = status
		if status == constants.StatusDone {
			fields["completed_at"] = time.Now().UTC()
		} else {
			fields["completed_at"] = nil
		}
	}

	if len(fields) > 0 {
		if err := s.tasks.Update(ctx, id, fields); err != nil {
			return nil, err
		}
	}

	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil && constants.TaskStatus(*req.Status) == constants.StatusDone && task.ParentTaskID != nil {
		if err := s.checkParentCompletion(ctx, *task.ParentTaskID); err != nil {
			return nil, err
		}
	}

	return dto.NewTaskResponse(task), nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id, userID string) error {
	log.Printf("deleting task %s for user %s", id, userID)

	if _, err := s.GetTask(ctx, id, userID); err != nil {
		return err
	}

	return s.tasks.Delete(ctx, id)
}

// AssignTask sets the assignee. The assignee id is not checked against the
// user table; that is the caller's responsibility.
func (s *TaskService) AssignTask(ctx context.Context, taskID, assigneeID, userID string) (*dto.TaskResponse, error) {
	log.Printf("assigning task %s to user %s", taskID, assigneeID)

	if _, err := s.GetTask(ctx, taskID, userID); err != nil {
		return nil, err
	}

	if err := s.tasks.Update(ctx, taskID, map[string]interface{}{"assigned_to_id": assigneeID}); err != nil {
		return nil, err
	}

	// Re-fetch without the access gate: reassigning away from oneself must
	// still return the updated task, not a not-found after a committed write.
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	return dto.NewTaskResponse(task), nil
}

// WatchTask subscribes the user to the task. Watching an already-watched
// task is a no-op. Two concurrent calls may both see the row as absent;
// the composite key rejects the second insert and the race surfaces as a
// conflict.
func (s *TaskService) WatchTask(ctx context.Context, taskID, userID string) (*dto.TaskResponse, error) {
	log.Printf("user %s watching task %s", userID, taskID)

	if _, err := s.GetTask(ctx, taskID, userID); err != nil {
		return nil, err
	}

	_, err := s.watchers.Find(ctx, taskID, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if err := s.watchers.Create(ctx, taskID, userID); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, apperrors.ErrAlreadyWatching
			}
			return nil, err
		}
	}

	return s.GetTask(ctx, taskID, userID)
}

// UnwatchTask removes the subscription. Unlike WatchTask it is not
// idempotent: a missing row is an error.
func (s *TaskService) UnwatchTask(ctx context.Context, taskID, userID string) (*dto.TaskResponse, error) {
	log.Printf("user %s unwatching task %s", userID, taskID)

	if _, err := s.GetTask(ctx, taskID, userID); err != nil {
		return nil, err
	}

	deleted, err := s.watchers.Delete(ctx, taskID, userID)
	if err != nil {
		return nil, err
	}
	if !deleted {
		return nil, apperrors.ErrWatchNotFound
	}

	return s.GetTask(ctx, taskID, userID)
}

// checkParentCompletion marks a parent done once every direct subtask is
// done. One level only: a grandparent completes when its own child is
// updated through UpdateTask. The read and the conditional write are not
// transactional; completion converges, so a raced or repeated check is
// harmless.
func (s *TaskService) checkParentCompletion(ctx context.Context, parentID string) error {
	parent, err := s.tasks.FindWithSubtasks(ctx, parentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	if len(parent.Subtasks) == 0 || parent.Status == constants.StatusDone {
		return nil
	}

	for i := range parent.Subtasks {
		if parent.Subtasks[i].Status != constants.StatusDone {
			return nil
		}
	}

	return s.tasks.Update(ctx, parentID, map[string]interface{}{
		"status":       constants.StatusDone,
		"completed_at": time.Now().UTC(),
	})
}
