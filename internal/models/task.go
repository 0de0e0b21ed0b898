package model

import (
	"time"

	"task-tracker.com/task-tracker/internal/constants"
)

// Task is a tracked work item. Tasks form a tree through ParentTaskID;
// Subtasks is the inverse of that pointer. CompletedAt is non-null exactly
// when Status is done.
type Task struct {
	ID             string                 `gorm:"primaryKey;size:36" json:"id"`
	Title          string                 `gorm:"not null" json:"title"`
	Description    string                 `json:"description,omitempty"`
	Status         constants.TaskStatus   `gorm:"type:varchar(20);not null" json:"status"`
	Priority       constants.TaskPriority `gorm:"type:varchar(20);not null" json:"priority"`
	DueDate        *time.Time             `json:"due_date,omitempty"`
	EstimatedHours *float64               `json:"estimated_hours,omitempty"`
	ActualHours    *float64               `json:"actual_hours,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
	CompletedAt    *time.Time             `json:"completed_at,omitempty"`

	CreatedByID  string  `gorm:"size:36;not null;index" json:"created_by_id"`
	AssignedToID *string `gorm:"size:36;index" json:"assigned_to_id,omitempty"`
	TeamID       *string `gorm:"size:36" json:"team_id,omitempty"`
	ParentTaskID *string `gorm:"size:36;index" json:"parent_task_id,omitempty"`

	CreatedBy  User          `gorm:"foreignKey:CreatedByID" json:"-"`
	AssignedTo *User         `gorm:"foreignKey:AssignedToID" json:"-"`
	Team       *Team         `gorm:"foreignKey:TeamID" json:"-"`
	ParentTask *Task         `gorm:"foreignKey:ParentTaskID" json:"-"`
	Subtasks   []Task        `gorm:"foreignKey:ParentTaskID" json:"-"`
	Watchers   []TaskWatcher `gorm:"foreignKey:TaskID" json:"-"`
}
