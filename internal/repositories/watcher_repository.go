package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	model "task-tracker.com/task-tracker/internal/models"
)

type WatcherRepository struct {
	db *gorm.DB
}

func NewWatcherRepository(db *gorm.DB) *WatcherRepository {
	return &WatcherRepository{db: db}
}

func (r *WatcherRepository) Find(ctx context.Context, taskID, userID string) (*model.TaskWatcher, error) {
	var watch model.TaskWatcher
	err := r.db.WithContext(ctx).
		First(&watch, "task_id = ? AND user_id = ?", taskID, userID).Error
	if err != nil {
		return nil, err
	}
	return &watch, nil
}

func (r *WatcherRepository) Create(ctx context.Context, taskID, userID string) error {
	watch := &model.TaskWatcher{
		TaskID:    taskID,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	return r.db.WithContext(ctx).Create(watch).Error
}

// Delete removes the watch row and reports whether one existed, so the
// caller can surface the missing-row case.
func (r *WatcherRepository) Delete(ctx context.Context, taskID, userID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Delete(&model.TaskWatcher{}, "task_id = ? AND user_id = ?", taskID, userID)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
