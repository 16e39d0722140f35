package services

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"storerating/internal/apperror"
	"storerating/internal/models"
	"storerating/internal/repositories"
)

// AuthService handles business logic for accounts and authentication.
type AuthService struct {
	userRepo repositories.UserRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

// Register creates a self-service account. The role is always forced to
// "user"; privileged roles can only be assigned through CreateUser.
func (s *AuthService) Register(user *models.User) error {
	user.Role = models.RoleUser
	return s.createUser(user)
}

// CreateUser creates an account with any role. Admin-only at the API layer.
func (s *AuthService) CreateUser(user *models.User) error {
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	return s.createUser(user)
}

func (s *AuthService) createUser(user *models.User) error {
	// Checked explicitly before insert so a duplicate email is reported as
	// such instead of a generic constraint failure. The unique index still
	// backstops concurrent registrations.
	if existing, err := s.userRepo.GetByEmail(user.Email); err == nil && existing != nil {
		return apperror.ErrEmailTaken
	} else if err != nil && !errors.Is(err, apperror.ErrUserNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hash)

	return s.userRepo.Create(user)
}

// Login authenticates a user by email and password. The same error is
// returned for an unknown email and a wrong password.
func (s *AuthService) Login(email, password string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, apperror.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}
	return user, nil
}

// ChangePassword verifies the current password and replaces the stored hash.
func (s *AuthService) ChangePassword(userID uint, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(currentPassword)); err != nil {
		return apperror.ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.userRepo.UpdatePassword(userID, string(hash))
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint) (*models.User, error) {
	return s.userRepo.GetByID(id)
}

// ListUsers retrieves all users ordered by name.
func (s *AuthService) ListUsers() ([]models.User, error) {
	return s.userRepo.List()
}
