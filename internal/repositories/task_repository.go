package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"task-tracker.com/task-tracker/internal/constants"
	dto "task-tracker.com/task-tracker/internal/data_models"
	model "task-tracker.com/task-tracker/internal/models"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// accessible restricts a task query to rows the user may see: creator,
// assignee, or watcher. Evaluated in SQL so list queries stay single-pass.
func (r *TaskRepository) accessible(tx *gorm.DB, userID string) *gorm.DB {
	watching := r.db.Model(&model.TaskWatcher{}).
		Select("task_id").
		Where("user_id = ?", userID)

	return tx.Where(
		"created_by_id = ? OR assigned_to_id = ? OR id IN (?)",
		userID, userID, watching,
	)
}

func preloadOne(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("CreatedBy").
		Preload("AssignedTo").
		Preload("Team").
		Preload("ParentTask").
		Preload("Subtasks").
		Preload("Subtasks.CreatedBy").
		Preload("Subtasks.AssignedTo").
		Preload("Subtasks.Watchers.User").
		Preload("Watchers.User")
}

func preloadList(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("CreatedBy").
		Preload("AssignedTo").
		Preload("Team").
		Preload("ParentTask").
		Preload("Subtasks").
		Preload("Watchers.User")
}

func (r *TaskRepository) Create(ctx context.Context, req *dto.CreateTaskRequest, creatorID string) (*model.Task, error) {
	now := time.Now().UTC()

	task := &model.Task{
		ID:             uuid.NewString(),
		Title:          req.Title,
		Description:    req.Description,
		Status:         constants.StatusTodo,
		Priority:       constants.PriorityMedium,
		DueDate:        req.DueDate,
		EstimatedHours: req.EstimatedHours,
		CreatedByID:    creatorID,
		AssignedToID:   req.AssignedToID,
		TeamID:         req.TeamID,
		ParentTaskID:   req.ParentTaskID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if req.Status != nil {
		task.Status = constants.TaskStatus(*req.Status)
	}
	if req.Priority != nil {
		task.Priority = constants.TaskPriority(*req.Priority)
	}

	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return nil, err
	}

	return task, nil
}

// FindByID loads a task with its relations, without the access filter.
// Callers gate access separately.
func (r *TaskRepository) FindByID(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	err := preloadOne(r.db.WithContext(ctx)).First(&task, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// FindAccessible loads a task only if the access predicate holds for the
// user. A missing row and a denied row surface as the same error.
func (r *TaskRepository) FindAccessible(ctx context.Context, id, userID string) (*model.Task, error) {
	var task model.Task
	tx := r.accessible(preloadOne(r.db.WithContext(ctx)), userID)
	if err := tx.First(&task, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) ListAccessible(ctx context.Context, userID string, offset, limit int) ([]model.Task, error) {
	var tasks []model.Task
	tx := r.accessible(preloadList(r.db.WithContext(ctx)), userID).
		Order("created_at desc").
		Offset(offset).
		Limit(limit)

	if err := tx.Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}

func (r *TaskRepository) CountAccessible(ctx context.Context, userID string) (int64, error) {
	var total int64
	tx := r.accessible(r.db.WithContext(ctx).Model(&model.Task{}), userID)
	if err := tx.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// FindWithSubtasks loads a task and its direct subtasks only, for the
// parent completion check.
func (r *TaskRepository) FindWithSubtasks(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).
		Preload("Subtasks").
		First(&task, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Update applies the given column map to one task.
func (r *TaskRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.Task{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// Delete removes the task row. Subtasks are not cascaded; orphans keep
// their dangling parent reference.
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.Task{}, "id = ?", id).Error
}
