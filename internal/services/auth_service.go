package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"taskman/internal/models"
	"taskman/internal/repository"
	"taskman/internal/secure"
)

var (
	ErrUnknownEmail  = errors.New("some problems with the entered Email")
	ErrWrongPassword = errors.New("some problems with the entered password")
	ErrUserNotFound  = errors.New("user not found")
)

// AuthService handles credential verification.
type AuthService struct {
	userRepo  repository.UserRepository
	encryptor *secure.Encryptor
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, encryptor *secure.Encryptor) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		encryptor: encryptor,
	}
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the authenticated user.
// Unknown email and wrong password fail with distinct errors so the
// login form can highlight the offending field.
func (s *AuthService) Login(input LoginInput) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownEmail
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !s.encryptor.Verify(input.Password, user.PasswordDigest) {
		return nil, ErrWrongPassword
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}
