package dto

import (
	"time"

	"task-tracker.com/task-tracker/internal/constants"
	model "task-tracker.com/task-tracker/internal/models"
)

type UserResponse struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	Name      string  `json:"name"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

type TeamRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ParentTaskRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type TaskResponse struct {
	ID             string                 `json:"id"`
	Title          string                 `json:"title"`
	Description    string                 `json:"description,omitempty"`
	Status         constants.TaskStatus   `json:"status"`
	Priority       constants.TaskPriority `json:"priority"`
	DueDate        *time.Time             `json:"due_date,omitempty"`
	EstimatedHours *float64               `json:"estimated_hours,omitempty"`
	ActualHours    *float64               `json:"actual_hours,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
	CompletedAt    *time.Time             `json:"completed_at,omitempty"`

	CreatedBy  UserResponse   `json:"created_by"`
	AssignedTo *UserResponse  `json:"assigned_to,omitempty"`
	Team       *TeamRef       `json:"team,omitempty"`
	ParentTask *ParentTaskRef `json:"parent_task,omitempty"`
	Subtasks   []TaskResponse `json:"subtasks,omitempty"`
	Watchers   []UserResponse `json:"watchers,omitempty"`
}

func NewUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
	}
}

// NewTaskResponse shapes a hydrated task, recursing into whatever subtasks
// the store loaded.
func NewTaskResponse(t *model.Task) *TaskResponse {
	resp := &TaskResponse{
		ID:             t.ID,
		Title:          t.Title,
		Description:    t.Description,
		Status:         t.Status,
		Priority:       t.Priority,
		DueDate:        t.DueDate,
		EstimatedHours: t.EstimatedHours,
		ActualHours:    t.ActualHours,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
		CompletedAt:    t.CompletedAt,
		CreatedBy:      NewUserResponse(&t.CreatedBy),
	}

	if t.AssignedTo != nil {
		assignee := NewUserResponse(t.AssignedTo)
		resp.AssignedTo = &assignee
	}

	if t.Team != nil {
		resp.Team = &TeamRef{ID: t.Team.ID, Name: t.Team.Name}
	}

	if t.ParentTask != nil {
		resp.ParentTask = &ParentTaskRef{ID: t.ParentTask.ID, Title: t.ParentTask.Title}
	}

	for i := range t.Subtasks {
		resp.Subtasks = append(resp.Subtasks, *NewTaskResponse(&t.Subtasks[i]))
	}

	for i := range t.Watchers {
		resp.Watchers = append(resp.Watchers, NewUserResponse(&t.Watchers[i].User))
	}

	return resp
}
