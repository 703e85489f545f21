package models

import (
	"time"

	"github.com/google/uuid"
)

// Task statuses
const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
	TaskStatusBlocked    = "blocked"
)

// Task priorities
const (
	TaskPriorityLow    = "low"
	TaskPriorityMedium = "medium"
	TaskPriorityHigh   = "high"
	TaskPriorityUrgent = "urgent"
)

type Task struct {
	Base
	Title       string     `gorm:"not null" json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `gorm:"default:'todo';index" json:"status"`
	Priority    string     `gorm:"default:'medium'" json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	ProjectID   uuid.UUID  `gorm:"type:uuid;index;not null" json:"projectId"`
	UserID      uuid.UUID  `gorm:"type:uuid;index;not null" json:"-"`

	Project *Project `gorm:"foreignKey:ProjectID" json:"-"`
}

func (Task) TableName() string {
	return "tasks"
}
