package repositories

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"storerating/internal/apperror"
	"storerating/internal/models"
)

// sortColumns whitelists the sortBy values accepted by List and maps them to
// database columns. Anything else falls back to name.
var sortColumns = map[string]string{
	"name":          "name",
	"email":         "email",
	"address":       "address",
	"averageRating": "average_rating",
	"totalRatings":  "total_ratings",
	"createdAt":     "created_at",
}

// GORMStoreRepository is a GORM implementation of StoreRepository.
type GORMStoreRepository struct {
	db *gorm.DB
}

// NewGORMStoreRepository creates a new instance of GORMStoreRepository.
func NewGORMStoreRepository(db *gorm.DB) *GORMStoreRepository {
	return &GORMStoreRepository{db: db}
}

// Create inserts a new store.
func (r *GORMStoreRepository) Create(store *models.Store) error {
	if err := r.db.Create(store).Error; err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}
	return nil
}

// GetByID retrieves a store by its ID.
func (r *GORMStoreRepository) GetByID(id uint) (*models.Store, error) {
	var store models.Store
	if err := r.db.First(&store, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrStoreNotFound
		}
		return nil, fmt.Errorf("failed to get store by ID %d: %w", id, err)
	}
	return &store, nil
}

// List returns stores, optionally filtered by a case-insensitive substring
// match against name or address, ordered by a whitelisted column.
func (r *GORMStoreRepository) List(search, sortBy, sortOrder string) ([]models.Store, error) {
	q := r.db.Model(&models.Store{})
	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(address) LIKE ?", pattern, pattern)
	}

	column, ok := sortColumns[sortBy]
	if !ok {
		column = "name"
	}
	direction := "asc"
	if strings.EqualFold(sortOrder, "desc") {
		direction = "desc"
	}

	var stores []models.Store
	if err := q.Order(column + " " + direction).Find(&stores).Error; err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}
	return stores, nil
}

// ListByOwner returns all stores owned by the given user, ordered by name.
func (r *GORMStoreRepository) ListByOwner(ownerID uint) ([]models.Store, error) {
	var stores []models.Store
	if err := r.db.Where("owner_id = ?", ownerID).Order("name asc").Find(&stores).Error; err != nil {
		return nil, fmt.Errorf("failed to list stores for owner %d: %w", ownerID, err)
	}
	return stores, nil
}

// UpdateAggregate writes the recomputed rating statistics onto a store row.
func (r *GORMStoreRepository) UpdateAggregate(storeID uint, averageRating string, totalRatings int) error {
	res := r.db.Model(&models.Store{}).Where("id = ?", storeID).Updates(map[string]interface{}{
		"average_rating": averageRating,
		"total_ratings":  totalRatings,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update aggregate for store %d: %w", storeID, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.ErrStoreNotFound
	}
	return nil
}

// Count returns the total number of stores.
func (r *GORMStoreRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Store{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count stores: %w", err)
	}
	return count, nil
}
