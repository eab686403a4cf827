package repository

import (
	"gorm.io/gorm"

	"taskman/internal/models"
)

// GormStatusRepository is a GORM implementation of StatusRepository
type GormStatusRepository struct {
	db *gorm.DB
}

// NewStatusRepository creates a new StatusRepository
func NewStatusRepository(db *gorm.DB) StatusRepository {
	return &GormStatusRepository{db: db}
}

// Create creates a new status
func (r *GormStatusRepository) Create(status *models.TaskStatus) error {
	return r.db.Create(status).Error
}

// FindByID finds a status by ID
func (r *GormStatusRepository) FindByID(id uint64) (*models.TaskStatus, error) {
	var status models.TaskStatus
	if err := r.db.First(&status, id).Error; err != nil {
		return nil, err
	}
	return &status, nil
}

// FindByName finds a status by exact name
func (r *GormStatusRepository) FindByName(name string) (*models.TaskStatus, error) {
	var status models.TaskStatus
	if err := r.db.Where("name = ?", name).First(&status).Error; err != nil {
		return nil, err
	}
	return &status, nil
}

// FindAll lists all statuses
func (r *GormStatusRepository) FindAll() ([]models.TaskStatus, error) {
	var statuses []models.TaskStatus
	if err := r.db.Order("id").Find(&statuses).Error; err != nil {
		return nil, err
	}
	return statuses, nil
}

// Update persists changes to a status
func (r *GormStatusRepository) Update(status *models.TaskStatus) error {
	return r.db.Save(status).Error
}

// Delete removes a status unless tasks still reference it
func (r *GormStatusRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&models.Task{}).
			Where("task_status_id = ?", id).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrReferentialConflict
		}

		return tx.Delete(&models.TaskStatus{}, id).Error
	})
}
