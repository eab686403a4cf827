package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "taskman/internal/errors"
	"taskman/internal/flash"
	"taskman/internal/forms"
	"taskman/internal/models"
	"taskman/internal/repository"
	"taskman/internal/services"
)

// StatusHandler serves the task status routes. Statuses are global:
// writes need a session but no ownership.
type StatusHandler struct {
	statusService *services.StatusService
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(statusService *services.StatusService) *StatusHandler {
	return &StatusHandler{statusService: statusService}
}

// ListStatuses shows all statuses.
func (h *StatusHandler) ListStatuses(c *gin.Context) {
	statuses, err := h.statusService.ListStatuses()
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"statuses": statuses})
}

// NewStatus prepares the new status form.
func (h *StatusHandler) NewStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"form": gin.H{"name": ""}})
}

// CreateStatus creates a status. Authentication is enforced by the
// RequireAuth middleware on this route.
func (h *StatusHandler) CreateStatus(c *gin.Context) {
	if _, err := h.statusService.CreateStatus(c.PostForm("name")); err != nil {
		respondServiceError(c, err)
		return
	}

	flash.Set(c, flash.Message{Text: "Status has been created", Type: flash.TypeSuccess})
	c.Redirect(http.StatusFound, "/statuses")
}

// EditStatus prepares the status edit form.
func (h *StatusHandler) EditStatus(c *gin.Context) {
	status, ok := h.loadStatusForWrite(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"form": gin.H{"name": status.Name}})
}

// UpdateStatus applies the submitted change-set. An empty change-set
// skips the write and reports "nothing to change".
func (h *StatusHandler) UpdateStatus(c *gin.Context) {
	status, ok := h.loadStatusForWrite(c)
	if !ok {
		return
	}

	submitted := forms.PickValues(c, "name")
	if err := h.statusService.UpdateStatus(status, submitted); err != nil {
		if errors.Is(err, services.ErrNothingToChange) {
			flash.Set(c, flash.Message{Text: "There was nothing to change", Type: flash.TypeSecondary})
			c.Redirect(http.StatusFound, "/statuses")
			return
		}
		respondServiceError(c, err)
		return
	}

	flash.Set(c, flash.Message{Text: "Your data has been updated", Type: flash.TypeSuccess})
	c.Redirect(http.StatusFound, "/statuses")
}

// DeleteStatus removes a status. A status still referenced by tasks
// survives, with a warning notice instead of an error status.
func (h *StatusHandler) DeleteStatus(c *gin.Context) {
	status, ok := h.loadStatusForWrite(c)
	if !ok {
		return
	}

	if err := h.statusService.DeleteStatus(status.ID); err != nil {
		if errors.Is(err, repository.ErrReferentialConflict) {
			flash.Set(c, flash.Message{
				Text: fmt.Sprintf("Unable to delete status %s", status.Name),
				Type: flash.TypeWarning,
			})
			c.Redirect(http.StatusFound, "/statuses")
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	flash.Set(c, flash.Message{Text: fmt.Sprintf("Status %s was deleted", status.Name), Type: flash.TypeInfo})
	c.Redirect(http.StatusFound, "/statuses")
}

// loadStatusForWrite loads the target status (404 on a missing row)
// and then checks the session (401), in that order.
func (h *StatusHandler) loadStatusForWrite(c *gin.Context) (*models.TaskStatus, bool) {
	id, ok := parseID(c)
	if !ok {
		return nil, false
	}

	status, err := h.statusService.GetStatus(id)
	if err != nil {
		respondServiceError(c, err)
		return nil, false
	}

	if _, ok := requireSession(c); !ok {
		return nil, false
	}

	return status, true
}
