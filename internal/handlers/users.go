package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"taskman/internal/constants"
	apierrors "taskman/internal/errors"
	"taskman/internal/flash"
	"taskman/internal/forms"
	"taskman/internal/middleware"
	"taskman/internal/models"
	"taskman/internal/repository"
	"taskman/internal/services"
)

// UserHandler serves registration, profile and password routes. All
// per-user routes load the record first, so a missing user yields 404
// before the ownership gate can yield 401.
type UserHandler struct {
	userService *services.UserService
	authService *services.AuthService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService, authService *services.AuthService) *UserHandler {
	return &UserHandler{
		userService: userService,
		authService: authService,
	}
}

// ListUsers shows all registered users.
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers()
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// NewUser prepares the registration form.
func (h *UserHandler) NewUser(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"form": gin.H{
		"firstName": "",
		"lastName":  "",
		"email":     "",
	}})
}

// CreateUser registers a new user.
func (h *UserHandler) CreateUser(c *gin.Context) {
	_, err := h.userService.Register(services.RegisterInput{
		FirstName:       c.PostForm("firstName"),
		LastName:        c.PostForm("lastName"),
		Email:           c.PostForm("email"),
		Password:        c.PostForm("password"),
		ConfirmPassword: c.PostForm("confirmPassword"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	flash.Set(c, flash.Message{Text: "User has been created", Type: flash.TypeSuccess})
	c.Redirect(http.StatusFound, "/")
}

// ShowUser shows a single user.
func (h *UserHandler) ShowUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	user, err := h.authService.GetUser(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "full_name": user.FullName()})
}

// EditUser prepares the profile edit form for the owner.
func (h *UserHandler) EditUser(c *gin.Context) {
	user, ok := h.loadOwnedUser(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"form": gin.H{
		"firstName": user.FirstName,
		"lastName":  user.LastName,
		"email":     user.Email,
	}})
}

// UpdateUser applies profile changes for the owner. An empty change-set
// skips the write and reports "nothing to change".
func (h *UserHandler) UpdateUser(c *gin.Context) {
	user, ok := h.loadOwnedUser(c)
	if !ok {
		return
	}

	submitted := forms.PickValues(c, "firstName", "lastName", "email")
	if err := h.userService.UpdateProfile(user, submitted); err != nil {
		if errors.Is(err, services.ErrNothingToChange) {
			flash.Set(c, flash.Message{Text: "There was nothing to change", Type: flash.TypeSecondary})
			c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d", user.ID))
			return
		}
		respondServiceError(c, err)
		return
	}

	// Keep the displayed name in step with the profile.
	session := sessions.Default(c)
	session.Set(constants.SessionKeyUserName, user.FirstName)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	flash.Set(c, flash.Message{Text: "Your data has been updated", Type: flash.TypeSuccess})
	c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d", user.ID))
}

// EditPassword prepares the password change form for the owner.
func (h *UserHandler) EditPassword(c *gin.Context) {
	user, ok := h.loadOwnedUser(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"form": gin.H{"id": user.ID}})
}

// UpdatePassword changes the owner's password.
func (h *UserHandler) UpdatePassword(c *gin.Context) {
	user, ok := h.loadOwnedUser(c)
	if !ok {
		return
	}

	err := h.userService.ChangePassword(user, services.ChangePasswordInput{
		CurrentPassword: c.PostForm("currentPassword"),
		Password:        c.PostForm("password"),
		ConfirmPassword: c.PostForm("confirmPassword"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	flash.Set(c, flash.Message{Text: "Your password has been updated", Type: flash.TypeSuccess})
	c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d", user.ID))
}

// DeleteUser removes the owner's account. A user that still owns or is
// assigned tasks cannot be deleted; the conflict surfaces as a warning
// notice, not an error status.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	user, ok := h.loadOwnedUser(c)
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(user.ID); err != nil {
		if errors.Is(err, repository.ErrReferentialConflict) {
			flash.Set(c, flash.Message{
				Text: fmt.Sprintf("Unable to delete user %s", user.FullName()),
				Type: flash.TypeWarning,
			})
			c.Redirect(http.StatusFound, "/users")
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	flash.Set(c, flash.Message{Text: "User has been deleted", Type: flash.TypeInfo})
	c.Redirect(http.StatusFound, "/")
}

// loadOwnedUser loads the target user (404 on a missing row) and then
// runs the ownership gate (401 when unauthenticated or not the owner).
func (h *UserHandler) loadOwnedUser(c *gin.Context) (*models.User, bool) {
	id, ok := parseID(c)
	if !ok {
		return nil, false
	}

	user, err := h.authService.GetUser(id)
	if err != nil {
		respondServiceError(c, err)
		return nil, false
	}

	currentID, ok := middleware.SessionUserID(c)
	if !ok || currentID != user.ID {
		apierrors.Unauthorized(c, "")
		return nil, false
	}

	return user, true
}
