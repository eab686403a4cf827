package models

import (
	"strings"
	"time"
)

type Task struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	Description  string    `gorm:"type:text" json:"description"`
	TaskStatusID uint64    `gorm:"not null;index" json:"task_status_id"`
	CreatorID    uint64    `gorm:"not null;index" json:"creator_id"`
	AssignedToID uint64    `gorm:"not null;index" json:"assigned_to_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	TaskStatus TaskStatus `gorm:"foreignKey:TaskStatusID" json:"task_status,omitempty"`
	Creator    User       `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	AssignedTo User       `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
	Tags       []Tag      `gorm:"many2many:task_tags" json:"tags,omitempty"`
}

// TagList returns the comma-joined view of the task's tag set. It is
// computed from the loaded association, never stored.
func (t Task) TagList() string {
	names := make([]string, len(t.Tags))
	for i, tag := range t.Tags {
		names[i] = tag.Name
	}
	return strings.Join(names, ", ")
}
