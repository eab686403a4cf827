package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	apierrors "taskman/internal/errors"
	"taskman/internal/middleware"
	"taskman/internal/services"
	"taskman/internal/validation"
)

// parseID reads the :id route parameter. An unparsable id behaves like
// a missing record and yields 404.
func parseID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		apierrors.NotFound(c, "")
		return 0, false
	}
	return id, true
}

// requireSession enforces the session gate for handlers that check
// existence before authorization and therefore cannot sit behind the
// RequireAuth middleware.
func requireSession(c *gin.Context) (uint64, bool) {
	userID, ok := middleware.SessionUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return 0, false
	}
	return userID, true
}

// respondServiceError translates service errors into HTTP responses:
// validation failures become 422 with field-tagged messages, missing
// references become 404, everything else is a 500.
func respondServiceError(c *gin.Context, err error) {
	var verr *validation.Errors
	switch {
	case errors.As(err, &verr):
		apierrors.ValidationFailed(c, verr)
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrStatusNotFound),
		errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrAssigneeNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
