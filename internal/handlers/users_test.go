package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/suite"

	"taskman/internal/models"
)

type UserHandlerSuite struct {
	suite.Suite
	env *testEnv
}

func (s *UserHandlerSuite) SetupTest() {
	s.env = setupTestEnv(s.T())
}

func (s *UserHandlerSuite) register(form url.Values) *models.User {
	w := s.env.do("POST", "/users", form, nil)
	s.Require().Equal(http.StatusFound, w.Code)

	var user models.User
	s.Require().NoError(s.env.db.Where("email = ?", form.Get("email")).First(&user).Error)
	return &user
}

func (s *UserHandlerSuite) TestRegisterSuccess() {
	user := s.register(url.Values{
		"firstName":       {"Alice"},
		"lastName":        {"Smith"},
		"email":           {"alice@example.com"},
		"password":        {"password123"},
		"confirmPassword": {"password123"},
	})

	s.Equal("Alice", user.FirstName)
	s.Equal("Smith", user.LastName)
	s.Equal(s.env.encryptor.Digest("password123"), user.PasswordDigest)
}

func (s *UserHandlerSuite) TestRegisterShortPassword() {
	w := s.env.do("POST", "/users", url.Values{
		"firstName":       {"Alice"},
		"lastName":        {"Smith"},
		"email":           {"alice@example.com"},
		"password":        {"short"},
		"confirmPassword": {"short"},
	}, nil)

	s.Equal(http.StatusUnprocessableEntity, w.Code)
	s.Contains(w.Body.String(), "password")

	var count int64
	s.Require().NoError(s.env.db.Model(&models.User{}).Count(&count).Error)
	s.Zero(count)
}

func (s *UserHandlerSuite) TestRegisterPasswordMismatch() {
	w := s.env.do("POST", "/users", url.Values{
		"firstName":       {"Alice"},
		"lastName":        {"Smith"},
		"email":           {"alice@example.com"},
		"password":        {"password123"},
		"confirmPassword": {"password456"},
	}, nil)

	s.Equal(http.StatusUnprocessableEntity, w.Code)
	s.Contains(w.Body.String(), "confirmPassword")
}

func (s *UserHandlerSuite) TestRegisterInvalidEmail() {
	w := s.env.do("POST", "/users", url.Values{
		"firstName":       {"Alice"},
		"lastName":        {"Smith"},
		"email":           {"not-an-email"},
		"password":        {"password123"},
		"confirmPassword": {"password123"},
	}, nil)

	s.Equal(http.StatusUnprocessableEntity, w.Code)
	s.Contains(w.Body.String(), "Email is not valid")
}

func (s *UserHandlerSuite) TestRegisterDuplicateEmail() {
	s.env.createUser(s.T(), "alice@example.com", "password123")

	w := s.env.do("POST", "/users", url.Values{
		"firstName":       {"Alice"},
		"lastName":        {"Smith"},
		"email":           {"alice@example.com"},
		"password":        {"password123"},
		"confirmPassword": {"password123"},
	}, nil)

	s.Equal(http.StatusUnprocessableEntity, w.Code)
	s.Contains(w.Body.String(), "Email already in use")
}

func (s *UserHandlerSuite) TestEditUserRequiresOwnership() {
	owner := s.env.createUser(s.T(), "alice@example.com", "password123")
	s.env.createUser(s.T(), "bob@example.com", "password123")

	// Anonymous visitor.
	w := s.env.do("GET", fmt.Sprintf("/users/%d/edit", owner.ID), nil, nil)
	s.Equal(http.StatusUnauthorized, w.Code)

	// Authenticated, but not the owner.
	cookies := s.env.login(s.T(), "bob@example.com", "password123")
	w = s.env.do("GET", fmt.Sprintf("/users/%d/edit", owner.ID), nil, cookies)
	s.Equal(http.StatusUnauthorized, w.Code)

	// The owner.
	cookies = s.env.login(s.T(), "alice@example.com", "password123")
	w = s.env.do("GET", fmt.Sprintf("/users/%d/edit", owner.ID), nil, cookies)
	s.Equal(http.StatusOK, w.Code)
}

func (s *UserHandlerSuite) TestEditMissingUserIs404EvenAnonymous() {
	w := s.env.do("GET", "/users/9999/edit", nil, nil)
	s.Equal(http.StatusNotFound, w.Code)

	w = s.env.do("PATCH", "/users/9999", url.Values{"firstName": {"X"}}, nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *UserHandlerSuite) TestUpdateUserNothingToChange() {
	user := s.env.createUser(s.T(), "alice@example.com", "password123")
	cookies := s.env.login(s.T(), "alice@example.com", "password123")

	var before models.User
	s.Require().NoError(s.env.db.First(&before, user.ID).Error)

	w := s.env.do("PATCH", fmt.Sprintf("/users/%d", user.ID), url.Values{
		"firstName": {user.FirstName},
		"lastName":  {user.LastName},
		"email":     {user.Email},
	}, cookies)

	s.Equal(http.StatusFound, w.Code)
	s.Equal(fmt.Sprintf("/users/%d", user.ID), w.Header().Get("Location"))

	var reloaded models.User
	s.Require().NoError(s.env.db.First(&reloaded, user.ID).Error)
	s.Equal(before.UpdatedAt, reloaded.UpdatedAt)
}

func (s *UserHandlerSuite) TestUpdateUserAppliesChanges() {
	user := s.env.createUser(s.T(), "alice@example.com", "password123")
	cookies := s.env.login(s.T(), "alice@example.com", "password123")

	w := s.env.do("PATCH", fmt.Sprintf("/users/%d", user.ID), url.Values{
		"firstName": {"Alicia"},
	}, cookies)

	s.Equal(http.StatusFound, w.Code)

	var reloaded models.User
	s.Require().NoError(s.env.db.First(&reloaded, user.ID).Error)
	s.Equal("Alicia", reloaded.FirstName)
	s.Equal(user.LastName, reloaded.LastName)
	s.Equal(user.Email, reloaded.Email)
}

func (s *UserHandlerSuite) TestUpdatePasswordWrongCurrent() {
	user := s.env.createUser(s.T(), "alice@example.com", "password123")
	cookies := s.env.login(s.T(), "alice@example.com", "password123")

	w := s.env.do("PATCH", fmt.Sprintf("/users/%d/password", user.ID), url.Values{
		"currentPassword": {"wrong-password"},
		"password":        {"newpassword1"},
		"confirmPassword": {"newpassword1"},
	}, cookies)

	s.Equal(http.StatusUnprocessableEntity, w.Code)
	s.Contains(w.Body.String(), "Wrong value of current password")
}

func (s *UserHandlerSuite) TestUpdatePasswordSuccess() {
	user := s.env.createUser(s.T(), "alice@example.com", "password123")
	cookies := s.env.login(s.T(), "alice@example.com", "password123")

	w := s.env.do("PATCH", fmt.Sprintf("/users/%d/password", user.ID), url.Values{
		"currentPassword": {"password123"},
		"password":        {"newpassword1"},
		"confirmPassword": {"newpassword1"},
	}, cookies)

	s.Equal(http.StatusFound, w.Code)

	var reloaded models.User
	s.Require().NoError(s.env.db.First(&reloaded, user.ID).Error)
	s.Equal(s.env.encryptor.Digest("newpassword1"), reloaded.PasswordDigest)
}

func (s *UserHandlerSuite) TestDeleteUserWithTasksIsRefused() {
	user := s.env.createUser(s.T(), "alice@example.com", "password123")
	status := s.env.createStatus(s.T(), "New")
	s.env.createTask(s.T(), "Pending work", status.ID, user.ID, user.ID)

	cookies := s.env.login(s.T(), "alice@example.com", "password123")
	w := s.env.do("DELETE", fmt.Sprintf("/users/%d", user.ID), nil, cookies)

	// The conflict redirects with a warning notice; the row survives.
	s.Equal(http.StatusFound, w.Code)
	s.Equal("/users", w.Header().Get("Location"))

	var count int64
	s.Require().NoError(s.env.db.Model(&models.User{}).Where("id = ?", user.ID).Count(&count).Error)
	s.EqualValues(1, count)
}

func (s *UserHandlerSuite) TestDeleteUserSuccess() {
	user := s.env.createUser(s.T(), "alice@example.com", "password123")
	cookies := s.env.login(s.T(), "alice@example.com", "password123")

	w := s.env.do("DELETE", fmt.Sprintf("/users/%d", user.ID), nil, cookies)
	s.Equal(http.StatusFound, w.Code)
	s.Equal("/", w.Header().Get("Location"))

	var count int64
	s.Require().NoError(s.env.db.Model(&models.User{}).Where("id = ?", user.ID).Count(&count).Error)
	s.Zero(count)
}

func TestUserHandlerSuite(t *testing.T) {
	suite.Run(t, new(UserHandlerSuite))
}
