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
	"taskman/internal/services"
	"taskman/internal/validation"
)

// SessionHandler establishes and destroys the signed-in session.
type SessionHandler struct {
	authService *services.AuthService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(authService *services.AuthService) *SessionHandler {
	return &SessionHandler{authService: authService}
}

// NewSession prepares the login form.
func (h *SessionHandler) NewSession(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"form": gin.H{"email": ""}})
}

// CreateSession verifies credentials and writes the identity into the
// session.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	user, err := h.authService.Login(services.LoginInput{
		Email:    email,
		Password: password,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownEmail):
			apierrors.ValidationFailed(c, validation.New("email", "Some problems with the entered Email"))
		case errors.Is(err, services.ErrWrongPassword):
			apierrors.ValidationFailed(c, validation.New("password", "Some problems with the entered password"))
		default:
			apierrors.InternalError(c, "")
		}
		return
	}

	session := sessions.Default(c)
	session.Set(constants.SessionKeyUserID, user.ID)
	session.Set(constants.SessionKeyUserName, user.FirstName)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	flash.Set(c, flash.Message{Text: fmt.Sprintf("Hello, %s", user.FirstName), Type: flash.TypeInfo})
	c.Redirect(http.StatusFound, "/")
}

// DestroySession clears the session.
func (h *SessionHandler) DestroySession(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	flash.Set(c, flash.Message{Text: "Bye!", Type: flash.TypeInfo})
	c.Redirect(http.StatusFound, "/")
}
