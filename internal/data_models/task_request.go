package dto

import "time"

type CreateTaskRequest struct {
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Status         *string    `json:"status"`
	Priority       *string    `json:"priority"`
	DueDate        *time.Time `json:"due_date"`
	EstimatedHours *float64   `json:"estimated_hours"`
	AssignedToID   *string    `json:"assigned_to_id"`
	TeamID         *string    `json:"team_id"`
	ParentTaskID   *string    `json:"parent_task_id"`
}

// UpdateTaskRequest is a partial patch: nil fields are left untouched.
type UpdateTaskRequest struct {
	Title          *string    `json:"title"`
	Description    *string    `json:"description"`
	Status         *string    `json:"status"`
	Priority       *string    `json:"priority"`
	DueDate        *time.Time `json:"due_date"`
	EstimatedHours *float64   `json:"estimated_hours"`
	ActualHours    *float64   `json:"actual_hours"`
	AssignedToID   *string    `json:"assigned_to_id"`
	TeamID         *string    `json:"team_id"`
}
