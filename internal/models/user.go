package models

import (
	"fmt"
	"time"
)

type User struct {
	ID             uint64    `gorm:"primarykey" json:"id"`
	FirstName      string    `gorm:"type:varchar(255);not null" json:"first_name"`
	LastName       string    `gorm:"type:varchar(255)" json:"last_name"`
	Email          string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordDigest string    `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Relations
	CreatedTasks  []Task `gorm:"foreignKey:CreatorID" json:"-"`
	AssignedTasks []Task `gorm:"foreignKey:AssignedToID" json:"-"`
}

// FullName returns the display name used in assignee lists.
func (u User) FullName() string {
	return fmt.Sprintf("%s %s", u.FirstName, u.LastName)
}

// NameWithEmail returns the display name with the email appended.
func (u User) NameWithEmail() string {
	return fmt.Sprintf("%s %s (%s)", u.FirstName, u.LastName, u.Email)
}
