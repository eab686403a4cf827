package services

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"taskman/internal/forms"
	"taskman/internal/models"
	"taskman/internal/repository"
	"taskman/internal/utils"
	"taskman/internal/validation"
)

var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrAssigneeNotFound = errors.New("assigned user not found")
)

// taskPreloads loads everything the task views need.
var taskPreloads = []string{"TaskStatus", "Creator", "AssignedTo", "Tags"}

// TaskService handles task business logic, including the tag
// reconciliation that runs on every create, edit and delete.
type TaskService struct {
	taskRepo   repository.TaskRepository
	tagRepo    repository.TagRepository
	statusRepo repository.StatusRepository
	userRepo   repository.UserRepository
}

// NewTaskService creates a new TaskService.
func NewTaskService(
	taskRepo repository.TaskRepository,
	tagRepo repository.TagRepository,
	statusRepo repository.StatusRepository,
	userRepo repository.UserRepository,
) *TaskService {
	return &TaskService{
		taskRepo:   taskRepo,
		tagRepo:    tagRepo,
		statusRepo: statusRepo,
		userRepo:   userRepo,
	}
}

// ListTasksInput represents filters for listing tasks. Zero values
// leave the corresponding dimension unfiltered.
type ListTasksInput struct {
	MyTasksOnly   bool
	CurrentUserID uint64
	TaskStatusID  uint64
	AssignedToID  uint64
	TagIDs        []uint64
	Pagination    utils.PaginationParams
}

// ListTasks returns tasks matching the intersection of the requested
// scopes.
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, int64, error) {
	filter := repository.TaskFilter{
		TaskStatusID: input.TaskStatusID,
		AssignedToID: input.AssignedToID,
		TagIDs:       input.TagIDs,
		Pagination:   input.Pagination,
	}
	if input.MyTasksOnly && input.CurrentUserID != 0 {
		filter.CreatorID = input.CurrentUserID
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, total, nil
}

// GetTask returns a task with related data.
func (s *TaskService) GetTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, taskPreloads...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// ListTags lists all tags.
func (s *TaskService) ListTags() ([]models.Tag, error) {
	return s.tagRepo.FindAll()
}

// CreateTaskInput represents input for creating a task.
type CreateTaskInput struct {
	Name         string
	Description  string
	TaskStatusID uint64
	AssignedToID uint64
	Tags         string
	CreatorID    uint64
}

// CreateTask validates the input, verifies that the referenced status
// and assignee exist (missing references fail with not-found before
// any task row is written), creates the task and links its tags.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, validation.New("name", "This field can't be empty")
	}

	if err := s.ensureStatusExists(input.TaskStatusID); err != nil {
		return nil, err
	}
	if err := s.ensureUserExists(input.AssignedToID); err != nil {
		return nil, err
	}

	task := &models.Task{
		Name:         input.Name,
		Description:  input.Description,
		TaskStatusID: input.TaskStatusID,
		CreatorID:    input.CreatorID,
		AssignedToID: input.AssignedToID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	if err := s.reconcileTags(task, input.Tags); err != nil {
		return nil, err
	}

	return s.taskRepo.FindByID(task.ID, taskPreloads...)
}

// taskFormValues stringifies the fields the task form edits. Numeric
// IDs arrive as strings from the form, so the stored values are
// stringified for comparison.
func taskFormValues(task *models.Task) map[string]string {
	return map[string]string{
		"name":         task.Name,
		"description":  task.Description,
		"taskStatusId": strconv.FormatUint(task.TaskStatusID, 10),
		"assignedToId": strconv.FormatUint(task.AssignedToID, 10),
	}
}

// UpdateTask applies the submitted change-set to an already loaded
// task (loaded with its tags) and reconciles the tag set when the
// submitted tag string names a different set. A run with no field
// changes and an unchanged tag set short-circuits with
// ErrNothingToChange.
func (s *TaskService) UpdateTask(task *models.Task, submitted map[string]string) (*models.Task, error) {
	rawTags, tagsSubmitted := submitted["tags"]
	delete(submitted, "tags")

	changes := forms.ComputeChanges(submitted, taskFormValues(task))

	tagsChanged := false
	if tagsSubmitted {
		tagsChanged = !equalNameSets(ParseTagNames(rawTags), tagNames(task.Tags))
	}

	if len(changes) == 0 && !tagsChanged {
		return nil, ErrNothingToChange
	}

	if err := s.applyTaskChanges(task, changes); err != nil {
		return nil, err
	}

	if len(changes) > 0 {
		if err := s.taskRepo.Update(task); err != nil {
			return nil, fmt.Errorf("failed to update task: %w", err)
		}
	}

	if tagsChanged {
		if err := s.reconcileTags(task, rawTags); err != nil {
			return nil, err
		}
	}

	return s.taskRepo.FindByID(task.ID, taskPreloads...)
}

func (s *TaskService) applyTaskChanges(task *models.Task, changes map[string]string) error {
	if name, ok := changes["name"]; ok {
		if strings.TrimSpace(name) == "" {
			return validation.New("name", "This field can't be empty")
		}
		task.Name = name
	}
	if description, ok := changes["description"]; ok {
		task.Description = description
	}
	if raw, ok := changes["taskStatusId"]; ok {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return validation.New("taskStatusId", "Status is not valid")
		}
		if err := s.ensureStatusExists(id); err != nil {
			return err
		}
		task.TaskStatusID = id
	}
	if raw, ok := changes["assignedToId"]; ok {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return validation.New("assignedToId", "Assignee is not valid")
		}
		if err := s.ensureUserExists(id); err != nil {
			return err
		}
		task.AssignedToID = id
	}
	return nil
}

// DeleteTask removes a task and garbage-collects tags the deletion
// orphaned.
func (s *TaskService) DeleteTask(task *models.Task) error {
	names := tagNames(task.Tags)

	if err := s.taskRepo.Delete(task.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.cleanupTags(names)
	return nil
}

// reconcileTags replaces the task's tag links with the set named by
// the raw comma-separated string, then garbage-collects tags dropped
// from the task. An empty string clears all tags.
func (s *TaskService) reconcileTags(task *models.Task, raw string) error {
	names := ParseTagNames(raw)
	previous := tagNames(task.Tags)

	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		tag, err := s.tagRepo.FindOrCreateByName(name)
		if err != nil {
			return fmt.Errorf("failed to resolve tag %q: %w", name, err)
		}
		tags = append(tags, *tag)
	}

	if err := s.taskRepo.ReplaceTags(task, tags); err != nil {
		return fmt.Errorf("failed to relink tags: %w", err)
	}

	s.cleanupTags(difference(previous, names))
	return nil
}

// cleanupTags destroys tags that no task links anymore. The cleanup
// runs after the relink commits and is best-effort: a tag rescued by a
// concurrent request keeps its links and survives, and failures are
// logged, never surfaced.
func (s *TaskService) cleanupTags(names []string) {
	for _, name := range names {
		tag, err := s.tagRepo.FindByNameWithTasks(name)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("tag cleanup: failed to fetch %q: %v", name, err)
			}
			continue
		}
		if len(tag.Tasks) > 0 {
			continue
		}
		if err := s.tagRepo.Delete(tag.ID); err != nil {
			log.Printf("tag cleanup: failed to delete %q: %v", name, err)
		}
	}
}

func (s *TaskService) ensureStatusExists(id uint64) error {
	if _, err := s.statusRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStatusNotFound
		}
		return fmt.Errorf("failed to verify status: %w", err)
	}
	return nil
}

func (s *TaskService) ensureUserExists(id uint64) error {
	if _, err := s.userRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssigneeNotFound
		}
		return fmt.Errorf("failed to verify user: %w", err)
	}
	return nil
}

// ParseTagNames splits a raw comma-separated tag string into distinct
// names: tokens are trimmed, emptied tokens dropped, embedded commas
// stripped and duplicates removed while input order is preserved.
// Matching is case-sensitive.
func ParseTagNames(raw string) []string {
	seen := make(map[string]struct{})
	names := make([]string, 0)

	for _, token := range strings.Split(raw, ",") {
		name := strings.ReplaceAll(strings.TrimSpace(token), ",", "")
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	return names
}

func tagNames(tags []models.Tag) []string {
	names := make([]string, len(tags))
	for i, tag := range tags {
		names[i] = tag.Name
	}
	return names
}

func equalNameSets(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]struct{}, len(a))
	for _, name := range a {
		set[name] = struct{}{}
	}
	for _, name := range b {
		if _, ok := set[name]; !ok {
			return false
		}
	}
	return true
}

// difference returns the names in a that are absent from b.
func difference(a, b []string) []string {
	set := make(map[string]struct{}, len(b))
	for _, name := range b {
		set[name] = struct{}{}
	}

	var out []string
	for _, name := range a {
		if _, ok := set[name]; !ok {
			out = append(out, name)
		}
	}
	return out
}
