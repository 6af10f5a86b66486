package task

import (
	"time"
)

// Status is the workflow state of a task. Any transition between the three
// values is allowed; there is no enforced ordering.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Valid reports whether s is one of the three known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Task represents a single task record. OwnerID is assigned from the
// authenticated principal at creation and never changes afterwards.
type Task struct {
	ID          string `gorm:"primaryKey;type:text"`
	Title       string `gorm:"not null;type:text"`
	Description string `gorm:"type:text"`
	Status      Status `gorm:"not null;type:text"`
	OwnerID     string `gorm:"index;not null;type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for the Task entity.
func (Task) TableName() string {
	return "tasks"
}
