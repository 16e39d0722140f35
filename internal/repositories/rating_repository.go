package repositories

import "storerating/internal/models"

// RatingRepository defines the interface for rating data access.
type RatingRepository interface {
	Create(rating *models.Rating) error
	Update(userID, storeID uint, rating int, review string) (*models.Rating, error)
	GetByUserAndStore(userID, storeID uint) (*models.Rating, error)
	ListByStore(storeID uint) ([]models.Rating, error)
	ListByUser(userID uint) ([]models.Rating, error)
	AggregateForStore(storeID uint) (average float64, total int64, err error)
	Count() (int64, error)
}
