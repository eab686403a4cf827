package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"taskman/internal/database"
	"taskman/internal/models"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves tasks matching the intersected filter scopes
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	query := r.db.Model(&models.Task{}).Scopes(
		database.ByCreator(filter.CreatorID),
		database.ByStatus(filter.TaskStatusID),
		database.ByAssignee(filter.AssignedToID),
		database.ByTags(filter.TagIDs),
	)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tasks []models.Task
	err := query.
		Scopes(database.Paginate(filter.Pagination)).
		Order("tasks.created_at DESC").
		Preload("TaskStatus").
		Preload("Creator").
		Preload("AssignedTo").
		Preload("Tags").
		Find(&tasks).Error
	if err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update persists changes to a task. Loaded associations are left
// alone; tag links change only through ReplaceTags.
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Omit(clause.Associations).Save(task).Error
}

// ReplaceTags swaps the task's tag association set wholesale
func (r *GormTaskRepository) ReplaceTags(task *models.Task, tags []models.Tag) error {
	if len(tags) == 0 {
		return r.db.Model(task).Association("Tags").Clear()
	}
	return r.db.Model(task).Association("Tags").Replace(&tags)
}

// Delete removes a task and its tag links in a transaction
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM task_tags WHERE task_id = ?", id).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Task{}, id).Error
	})
}
