package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"taskman/internal/models"
)

func TestCreateStatusRequiresAuth(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do("POST", "/statuses", url.Values{"name": {"In Review"}}, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	var count int64
	require.NoError(t, env.db.Model(&models.TaskStatus{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestCreateStatusSuccess(t *testing.T) {
	env := setupTestEnv(t)
	env.createUser(t, "alice@example.com", "password123")
	cookies := env.login(t, "alice@example.com", "password123")

	w := env.do("POST", "/statuses", url.Values{"name": {"In Review"}}, cookies)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/statuses", w.Header().Get("Location"))

	var status models.TaskStatus
	require.NoError(t, env.db.Where("name = ?", "In Review").First(&status).Error)
}

func TestCreateStatusEmptyName(t *testing.T) {
	env := setupTestEnv(t)
	env.createUser(t, "alice@example.com", "password123")
	cookies := env.login(t, "alice@example.com", "password123")

	w := env.do("POST", "/statuses", url.Values{"name": {"   "}}, cookies)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.Contains(t, w.Body.String(), "This field can't be empty")
}

func TestCreateStatusDuplicateName(t *testing.T) {
	env := setupTestEnv(t)
	env.createUser(t, "alice@example.com", "password123")
	env.createStatus(t, "New")
	cookies := env.login(t, "alice@example.com", "password123")

	w := env.do("POST", "/statuses", url.Values{"name": {"New"}}, cookies)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.Contains(t, w.Body.String(), "Status with this name already exists")
}

func TestUpdateMissingStatusIs404BeforeAuth(t *testing.T) {
	env := setupTestEnv(t)

	// No session at all, yet the missing record wins.
	w := env.do("PATCH", "/statuses/9999", url.Values{"name": {"X"}}, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateStatusRequiresAuth(t *testing.T) {
	env := setupTestEnv(t)
	status := env.createStatus(t, "New")

	w := env.do("PATCH", fmt.Sprintf("/statuses/%d", status.ID), url.Values{"name": {"Fresh"}}, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateStatusNothingToChange(t *testing.T) {
	env := setupTestEnv(t)
	env.createUser(t, "alice@example.com", "password123")
	status := env.createStatus(t, "New")
	cookies := env.login(t, "alice@example.com", "password123")

	w := env.do("PATCH", fmt.Sprintf("/statuses/%d", status.ID), url.Values{"name": {"New"}}, cookies)
	require.Equal(t, http.StatusFound, w.Code)

	var reloaded models.TaskStatus
	require.NoError(t, env.db.First(&reloaded, status.ID).Error)
	require.Equal(t, "New", reloaded.Name)
}

func TestUpdateStatusSuccess(t *testing.T) {
	env := setupTestEnv(t)
	env.createUser(t, "alice@example.com", "password123")
	status := env.createStatus(t, "New")
	cookies := env.login(t, "alice@example.com", "password123")

	w := env.do("PATCH", fmt.Sprintf("/statuses/%d", status.ID), url.Values{"name": {"Fresh"}}, cookies)
	require.Equal(t, http.StatusFound, w.Code)

	var reloaded models.TaskStatus
	require.NoError(t, env.db.First(&reloaded, status.ID).Error)
	require.Equal(t, "Fresh", reloaded.Name)
}

func TestDeleteReferencedStatusIsRefused(t *testing.T) {
	env := setupTestEnv(t)
	user := env.createUser(t, "alice@example.com", "password123")
	status := env.createStatus(t, "New")
	env.createTask(t, "Work", status.ID, user.ID, user.ID)
	cookies := env.login(t, "alice@example.com", "password123")

	w := env.do("DELETE", fmt.Sprintf("/statuses/%d", status.ID), nil, cookies)

	// The conflict redirects with a warning notice; the row survives.
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/statuses", w.Header().Get("Location"))

	var count int64
	require.NoError(t, env.db.Model(&models.TaskStatus{}).Where("id = ?", status.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestDeleteUnreferencedStatus(t *testing.T) {
	env := setupTestEnv(t)
	env.createUser(t, "alice@example.com", "password123")
	status := env.createStatus(t, "Obsolete")
	cookies := env.login(t, "alice@example.com", "password123")

	w := env.do("DELETE", fmt.Sprintf("/statuses/%d", status.ID), nil, cookies)
	require.Equal(t, http.StatusFound, w.Code)

	var count int64
	require.NoError(t, env.db.Model(&models.TaskStatus{}).Where("id = ?", status.ID).Count(&count).Error)
	require.Zero(t, count)
}
