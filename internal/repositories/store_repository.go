package repositories

import "storerating/internal/models"

// StoreRepository defines the interface for store data access.
type StoreRepository interface {
	Create(store *models.Store) error
	GetByID(id uint) (*models.Store, error)
	List(search, sortBy, sortOrder string) ([]models.Store, error)
	ListByOwner(ownerID uint) ([]models.Store, error)
	UpdateAggregate(storeID uint, averageRating string, totalRatings int) error
	Count() (int64, error)
}
