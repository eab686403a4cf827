package repository

import (
	"errors"

	"gorm.io/gorm"

	"taskman/internal/models"
)

// GormTagRepository is a GORM implementation of TagRepository
type GormTagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new TagRepository
func NewTagRepository(db *gorm.DB) TagRepository {
	return &GormTagRepository{db: db}
}

// FindAll lists all tags
func (r *GormTagRepository) FindAll() ([]models.Tag, error) {
	var tags []models.Tag
	if err := r.db.Order("name").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// FindByName finds a tag by exact name
func (r *GormTagRepository) FindByName(name string) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.Where("name = ?", name).First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// FindOrCreateByName resolves a tag by name, creating it when absent.
// Two requests can race on the same unseen name; the unique constraint
// arbitrates, and the loser re-fetches the winner's row instead of
// failing the request.
func (r *GormTagRepository) FindOrCreateByName(name string) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.Where("name = ?", name).First(&tag).Error
	if err == nil {
		return &tag, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	tag = models.Tag{Name: name}
	if createErr := r.db.Create(&tag).Error; createErr != nil {
		// Lost the race: the row may exist now.
		var existing models.Tag
		if findErr := r.db.Where("name = ?", name).First(&existing).Error; findErr == nil {
			return &existing, nil
		}
		return nil, createErr
	}

	return &tag, nil
}

// FindByNameWithTasks loads a tag together with its current task links
func (r *GormTagRepository) FindByNameWithTasks(name string) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.Preload("Tasks").Where("name = ?", name).First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// Delete removes a tag
func (r *GormTagRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Tag{}, id).Error
}
