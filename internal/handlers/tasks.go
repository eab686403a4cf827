package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apierrors "taskman/internal/errors"
	"taskman/internal/flash"
	"taskman/internal/forms"
	"taskman/internal/middleware"
	"taskman/internal/models"
	"taskman/internal/services"
	"taskman/internal/utils"
	"taskman/internal/validation"
)

// TaskHandler serves the task routes. Creation requires a session and
// stamps the creator; edit and delete are open to any authenticated
// session, after the 404-producing load.
type TaskHandler struct {
	taskService   *services.TaskService
	statusService *services.StatusService
	userService   *services.UserService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService, statusService *services.StatusService, userService *services.UserService) *TaskHandler {
	return &TaskHandler{
		taskService:   taskService,
		statusService: statusService,
		userService:   userService,
	}
}

// ListTasks shows tasks matching the intersection of the query
// filters. A zero or absent value leaves its dimension unfiltered.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	input := services.ListTasksInput{
		TaskStatusID: queryID(c, "taskStatusId"),
		AssignedToID: queryID(c, "assignedToId"),
		Pagination:   utils.GetPaginationParams(c),
	}

	if c.Query("myTasksOnly") == "on" {
		if userID, ok := middleware.SessionUserID(c); ok {
			input.MyTasksOnly = true
			input.CurrentUserID = userID
		}
	}

	for _, raw := range c.QueryArray("tagId") {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil && id != 0 {
			input.TagIDs = append(input.TagIDs, id)
		}
	}

	tasks, total, err := h.taskService.ListTasks(input)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": tasks,
		"pagination": utils.PaginationResponse{
			Page:  input.Pagination.Page,
			Limit: input.Pagination.Limit,
			Total: total,
		},
	})
}

// ShowTask shows a single task with its related records.
func (h *TaskHandler) ShowTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": task, "tag_list": task.TagList()})
}

// NewTask prepares the new task form with its selection lists.
func (h *TaskHandler) NewTask(c *gin.Context) {
	statuses, err := h.statusService.ListStatuses()
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}
	users, err := h.userService.ListUsers()
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}
	tags, err := h.taskService.ListTags()
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"form":     gin.H{"name": "", "description": "", "tags": ""},
		"statuses": statuses,
		"users":    userOptions(users),
		"tags":     tags,
	})
}

// CreateTask creates a task for the authenticated user. A status or
// assignee id that references no row fails with 404 before any task
// row is written.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	creatorID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	statusID, ok := formID(c, "taskStatusId")
	if !ok {
		apierrors.ValidationFailed(c, validation.New("taskStatusId", "Status is not valid"))
		return
	}
	assignedToID, ok := formID(c, "assignedToId")
	if !ok {
		apierrors.ValidationFailed(c, validation.New("assignedToId", "Assignee is not valid"))
		return
	}

	_, err := h.taskService.CreateTask(services.CreateTaskInput{
		Name:         c.PostForm("name"),
		Description:  c.PostForm("description"),
		TaskStatusID: statusID,
		AssignedToID: assignedToID,
		Tags:         c.PostForm("tags"),
		CreatorID:    creatorID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	flash.Set(c, flash.Message{Text: "Task has been created", Type: flash.TypeSuccess})
	c.Redirect(http.StatusFound, "/tasks")
}

// EditTask prepares the task edit form.
func (h *TaskHandler) EditTask(c *gin.Context) {
	task, ok := h.loadTaskForWrite(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"form": gin.H{
		"name":         task.Name,
		"description":  task.Description,
		"taskStatusId": task.TaskStatusID,
		"assignedToId": task.AssignedToID,
		"tags":         task.TagList(),
	}})
}

// UpdateTask applies the submitted change-set and reconciles the tag
// set. An unchanged submission skips all writes and reports "nothing
// to change".
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	task, ok := h.loadTaskForWrite(c)
	if !ok {
		return
	}

	submitted := forms.PickValues(c, "name", "description", "taskStatusId", "assignedToId", "tags")
	if _, err := h.taskService.UpdateTask(task, submitted); err != nil {
		if errors.Is(err, services.ErrNothingToChange) {
			flash.Set(c, flash.Message{Text: "There was nothing to change", Type: flash.TypeSecondary})
			c.Redirect(http.StatusFound, "/tasks")
			return
		}
		respondServiceError(c, err)
		return
	}

	flash.Set(c, flash.Message{Text: "Your data has been updated", Type: flash.TypeSuccess})
	c.Redirect(http.StatusFound, "/tasks")
}

// DeleteTask removes a task and garbage-collects its orphaned tags.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	task, ok := h.loadTaskForWrite(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(task); err != nil {
		apierrors.InternalError(c, "")
		return
	}

	flash.Set(c, flash.Message{Text: fmt.Sprintf("Task with id %d was deleted", task.ID), Type: flash.TypeInfo})
	c.Redirect(http.StatusFound, "/tasks")
}

// loadTaskForWrite loads the target task with its relations (404 on a
// missing row) and then checks the session (401), in that order.
func (h *TaskHandler) loadTaskForWrite(c *gin.Context) (*models.Task, bool) {
	id, ok := parseID(c)
	if !ok {
		return nil, false
	}

	task, err := h.taskService.GetTask(id)
	if err != nil {
		respondServiceError(c, err)
		return nil, false
	}

	if _, ok := requireSession(c); !ok {
		return nil, false
	}

	return task, true
}

// queryID reads a numeric query parameter; absent, zero or garbage
// values all mean "no filter".
func queryID(c *gin.Context, name string) uint64 {
	id, err := strconv.ParseUint(c.Query(name), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// formID reads a numeric form field.
func formID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.PostForm(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// userOptions shapes users for assignee selection lists.
func userOptions(users []models.User) []gin.H {
	options := make([]gin.H, len(users))
	for i, user := range users {
		options[i] = gin.H{"id": user.ID, "name": user.FullName()}
	}
	return options
}
