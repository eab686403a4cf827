package services

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"gorm.io/gorm"

	"taskman/internal/forms"
	"taskman/internal/models"
	"taskman/internal/repository"
	"taskman/internal/secure"
	"taskman/internal/validation"
)

// ErrNothingToChange signals that a submitted change-set is empty; the
// route layer answers with an informational notice and skips the write.
var ErrNothingToChange = errors.New("there was nothing to change")

var (
	firstNameRe = regexp.MustCompile(`^[a-zA-Z _]+$`)
	emailRe     = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	passwordRe  = regexp.MustCompile(`^\S{8,64}$`)
)

// UserService handles registration, profile and password updates.
type UserService struct {
	userRepo  repository.UserRepository
	encryptor *secure.Encryptor
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, encryptor *secure.Encryptor) *UserService {
	return &UserService{
		userRepo:  userRepo,
		encryptor: encryptor,
	}
}

// RegisterInput represents the registration form.
type RegisterInput struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	ConfirmPassword string
}

// Register validates the form and creates the user. The password is
// digested up front; plaintext never reaches the store.
func (s *UserService) Register(input RegisterInput) (*models.User, error) {
	verr := &validation.Errors{}

	if !firstNameRe.MatchString(input.FirstName) {
		verr.Add("firstName", "This field must contain at least 1 characters")
	}
	if !emailRe.MatchString(input.Email) {
		verr.Add("email", "Email is not valid")
	}
	if !passwordRe.MatchString(input.Password) {
		verr.Add("password", "The password length should be more 8 characters")
	}
	if input.Password != input.ConfirmPassword {
		verr.Add("confirmPassword", "Values of entered passwords must match")
	}
	if verr.Any() {
		return nil, verr
	}

	if _, err := s.userRepo.FindByEmail(input.Email); err == nil {
		return nil, validation.New("email", "Email already in use")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	user := &models.User{
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Email:          input.Email,
		PasswordDigest: s.encryptor.Digest(input.Password),
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// userFormValues stringifies the fields the profile form edits.
func userFormValues(user *models.User) map[string]string {
	return map[string]string{
		"firstName": user.FirstName,
		"lastName":  user.LastName,
		"email":     user.Email,
	}
}

// UpdateProfile applies the submitted change-set to an already loaded
// user. An empty change-set short-circuits with ErrNothingToChange.
func (s *UserService) UpdateProfile(user *models.User, submitted map[string]string) error {
	changes := forms.ComputeChanges(submitted, userFormValues(user))
	if len(changes) == 0 {
		return ErrNothingToChange
	}

	verr := &validation.Errors{}
	if firstName, ok := changes["firstName"]; ok && !firstNameRe.MatchString(firstName) {
		verr.Add("firstName", "This field must contain at least 1 characters")
	}
	if email, ok := changes["email"]; ok {
		if !emailRe.MatchString(email) {
			verr.Add("email", "Email is not valid")
		} else if other, err := s.userRepo.FindByEmail(email); err == nil && other.ID != user.ID {
			verr.Add("email", "Email already in use")
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check email: %w", err)
		}
	}
	if verr.Any() {
		return verr
	}

	if v, ok := changes["firstName"]; ok {
		user.FirstName = v
	}
	if v, ok := changes["lastName"]; ok {
		user.LastName = v
	}
	if v, ok := changes["email"]; ok {
		user.Email = v
	}

	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	return nil
}

// ChangePasswordInput represents the password form.
type ChangePasswordInput struct {
	CurrentPassword string
	Password        string
	ConfirmPassword string
}

// ChangePassword verifies the current password and installs a new
// digest. Failures are field-specific so the re-rendered form can
// highlight the right input.
func (s *UserService) ChangePassword(user *models.User, input ChangePasswordInput) error {
	if !s.encryptor.Verify(input.CurrentPassword, user.PasswordDigest) {
		return validation.New("currentPassword", "Wrong value of current password")
	}
	if !passwordRe.MatchString(input.Password) {
		return validation.New("password", "The password length should be more 8 characters")
	}
	if input.Password != input.ConfirmPassword {
		return validation.New("confirmPassword", "Values of entered passwords must match")
	}

	user.PasswordDigest = s.encryptor.Digest(input.Password)
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

// ListUsers lists all users.
func (s *UserService) ListUsers() ([]models.User, error) {
	return s.userRepo.FindAll()
}

// DeleteUser removes a user. repository.ErrReferentialConflict passes
// through when the user still owns or is assigned tasks.
func (s *UserService) DeleteUser(id uint64) error {
	if err := s.userRepo.Delete(id); err != nil {
		if errors.Is(err, repository.ErrReferentialConflict) {
			return err
		}
		return fmt.Errorf("failed to delete user %s: %w", strconv.FormatUint(id, 10), err)
	}
	return nil
}
