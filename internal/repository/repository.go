package repository

import (
	"errors"

	"taskman/internal/models"
	"taskman/internal/utils"
)

// ErrReferentialConflict is returned when a delete is blocked by rows
// that still reference the record. The route layer turns it into a
// warning notice, not an error status.
var ErrReferentialConflict = errors.New("repository: record is still referenced")

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// FindAll lists all users
	FindAll() ([]models.User, error)

	// Update persists changes to a user
	Update(user *models.User) error

	// Delete removes a user; fails with ErrReferentialConflict if the
	// user still owns or is assigned tasks
	Delete(id uint64) error
}

// StatusRepository defines the interface for task status data access
type StatusRepository interface {
	// Create creates a new status
	Create(status *models.TaskStatus) error

	// FindByID finds a status by ID
	FindByID(id uint64) (*models.TaskStatus, error)

	// FindByName finds a status by exact name
	FindByName(name string) (*models.TaskStatus, error)

	// FindAll lists all statuses
	FindAll() ([]models.TaskStatus, error)

	// Update persists changes to a status
	Update(status *models.TaskStatus) error

	// Delete removes a status; fails with ErrReferentialConflict if
	// tasks still reference it
	Delete(id uint64) error
}

// TaskFilter holds the composable listing scopes. Zero values mean
// "no filter on this dimension".
type TaskFilter struct {
	CreatorID    uint64
	TaskStatusID uint64
	AssignedToID uint64
	TagIDs       []uint64
	Pagination   utils.PaginationParams
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks matching the intersected filter scopes
	List(filter TaskFilter) ([]models.Task, int64, error)

	// Update persists changes to a task
	Update(task *models.Task) error

	// ReplaceTags swaps the task's tag association set wholesale
	ReplaceTags(task *models.Task, tags []models.Tag) error

	// Delete removes a task and its tag links
	Delete(id uint64) error
}

// TagRepository defines the interface for tag data access
type TagRepository interface {
	// FindAll lists all tags
	FindAll() ([]models.Tag, error)

	// FindByName finds a tag by exact name (case-sensitive)
	FindByName(name string) (*models.Tag, error)

	// FindOrCreateByName resolves a tag by name, creating it when
	// absent; a unique-constraint loss falls back to the winner's row
	FindOrCreateByName(name string) (*models.Tag, error)

	// FindByNameWithTasks loads a tag together with its task links
	FindByNameWithTasks(name string) (*models.Tag, error)

	// Delete removes a tag
	Delete(id uint64) error
}
