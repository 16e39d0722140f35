package repositories

import "storerating/internal/models"

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	UpdatePassword(id uint, passwordHash string) error
	List() ([]models.User, error)
	Count() (int64, error)
}
