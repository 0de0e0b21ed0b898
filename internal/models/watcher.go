package model

import "time"

// TaskWatcher subscribes a user to a task. The composite primary key keeps
// the (task, user) pair unique; concurrent duplicate inserts are rejected
// by the store.
type TaskWatcher struct {
	TaskID    string    `gorm:"primaryKey;size:36" json:"task_id"`
	UserID    string    `gorm:"primaryKey;size:36" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
