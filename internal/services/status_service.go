package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"taskman/internal/forms"
	"taskman/internal/models"
	"taskman/internal/repository"
	"taskman/internal/validation"
)

var ErrStatusNotFound = errors.New("task status not found")

// StatusService handles task status CRUD. Statuses are a global
// resource: any authenticated session may change them.
type StatusService struct {
	statusRepo repository.StatusRepository
}

// NewStatusService creates a new StatusService.
func NewStatusService(statusRepo repository.StatusRepository) *StatusService {
	return &StatusService{statusRepo: statusRepo}
}

// ListStatuses lists all statuses.
func (s *StatusService) ListStatuses() ([]models.TaskStatus, error) {
	return s.statusRepo.FindAll()
}

// GetStatus retrieves a status by ID.
func (s *StatusService) GetStatus(id uint64) (*models.TaskStatus, error) {
	status, err := s.statusRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStatusNotFound
		}
		return nil, fmt.Errorf("failed to find status: %w", err)
	}
	return status, nil
}

// CreateStatus validates and creates a status.
func (s *StatusService) CreateStatus(name string) (*models.TaskStatus, error) {
	if err := s.validateName(name, 0); err != nil {
		return nil, err
	}

	status := &models.TaskStatus{Name: name}
	if err := s.statusRepo.Create(status); err != nil {
		return nil, fmt.Errorf("failed to create status: %w", err)
	}
	return status, nil
}

// UpdateStatus applies the submitted change-set to an already loaded
// status. An empty change-set short-circuits with ErrNothingToChange.
func (s *StatusService) UpdateStatus(status *models.TaskStatus, submitted map[string]string) error {
	changes := forms.ComputeChanges(submitted, map[string]string{"name": status.Name})
	if len(changes) == 0 {
		return ErrNothingToChange
	}

	name := changes["name"]
	if err := s.validateName(name, status.ID); err != nil {
		return err
	}

	status.Name = name
	if err := s.statusRepo.Update(status); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	return nil
}

// DeleteStatus removes a status. repository.ErrReferentialConflict
// passes through when tasks still reference it.
func (s *StatusService) DeleteStatus(id uint64) error {
	return s.statusRepo.Delete(id)
}

func (s *StatusService) validateName(name string, selfID uint64) error {
	if strings.TrimSpace(name) == "" {
		return validation.New("name", "This field can't be empty")
	}

	other, err := s.statusRepo.FindByName(name)
	if err == nil && other.ID != selfID {
		return validation.New("name", "Status with this name already exists")
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check status name: %w", err)
	}
	return nil
}
