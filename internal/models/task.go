package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

// ValidTaskStatus reports whether s is one of the known statuses.
func ValidTaskStatus(s TaskStatus) bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// ValidTaskPriority reports whether p is one of the known priorities.
func ValidTaskPriority(p TaskPriority) bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

type Task struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Title        string         `gorm:"not null" json:"title"`
	Description  string         `gorm:"type:text" json:"description"`
	Status       TaskStatus     `gorm:"type:varchar(20);not null;default:'todo'" json:"status"`
	Priority     TaskPriority   `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	DueDate      *time.Time     `json:"due_date"`
	ProjectID    uint64         `gorm:"not null;index" json:"project_id"`
	CreatedByID  uint64         `gorm:"not null;index" json:"created_by_id"`
	AssignedToID *uint64        `gorm:"index" json:"assigned_to_id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Project    Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	CreatedBy  User    `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	AssignedTo *User   `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
}

// IsAssignee reports whether the task is currently assigned to the given user.
func (t *Task) IsAssignee(userID uint64) bool {
	return t.AssignedToID != nil && *t.AssignedToID == userID
}
