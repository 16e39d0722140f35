package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"storerating/internal/apperror"
	"storerating/internal/models"
)

// GORMRatingRepository is a GORM implementation of RatingRepository.
type GORMRatingRepository struct {
	db *gorm.DB
}

// NewGORMRatingRepository creates a new instance of GORMRatingRepository.
func NewGORMRatingRepository(db *gorm.DB) *GORMRatingRepository {
	return &GORMRatingRepository{db: db}
}

// Create inserts a new rating. A violation of the (user, store) unique index
// is surfaced as apperror.ErrRatingExists so the caller can retry as an
// update when two submissions race.
func (r *GORMRatingRepository) Create(rating *models.Rating) error {
	if err := r.db.Create(rating).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperror.ErrRatingExists
		}
		return fmt.Errorf("failed to create rating: %w", err)
	}
	return nil
}

// Update rewrites the rating and review of the unique (user, store) row and
// returns the updated row. Returns apperror.ErrRatingNotFound when no such
// row exists.
func (r *GORMRatingRepository) Update(userID, storeID uint, rating int, review string) (*models.Rating, error) {
	res := r.db.Model(&models.Rating{}).
		Where("user_id = ? AND store_id = ?", userID, storeID).
		Updates(map[string]interface{}{"rating": rating, "review": review})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update rating for user %d store %d: %w", userID, storeID, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperror.ErrRatingNotFound
	}
	return r.GetByUserAndStore(userID, storeID)
}

// GetByUserAndStore retrieves the rating a user gave a store.
func (r *GORMRatingRepository) GetByUserAndStore(userID, storeID uint) (*models.Rating, error) {
	var rating models.Rating
	if err := r.db.First(&rating, "user_id = ? AND store_id = ?", userID, storeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrRatingNotFound
		}
		return nil, fmt.Errorf("failed to get rating for user %d store %d: %w", userID, storeID, err)
	}
	return &rating, nil
}

// ListByStore returns all ratings for a store, newest first, with the rating
// user preloaded for response annotation.
func (r *GORMRatingRepository) ListByStore(storeID uint) ([]models.Rating, error) {
	var ratings []models.Rating
	if err := r.db.Preload("User").Where("store_id = ?", storeID).Order("created_at desc").Find(&ratings).Error; err != nil {
		return nil, fmt.Errorf("failed to list ratings for store %d: %w", storeID, err)
	}
	return ratings, nil
}

// ListByUser returns all ratings submitted by a user, newest first.
func (r *GORMRatingRepository) ListByUser(userID uint) ([]models.Rating, error) {
	var ratings []models.Rating
	if err := r.db.Where("user_id = ?", userID).Order("created_at desc").Find(&ratings).Error; err != nil {
		return nil, fmt.Errorf("failed to list ratings for user %d: %w", userID, err)
	}
	return ratings, nil
}

// AggregateForStore computes avg(rating) and count(*) over a store's ratings.
// With zero rows the average is 0 and the count is 0.
func (r *GORMRatingRepository) AggregateForStore(storeID uint) (float64, int64, error) {
	var result struct {
		Average float64
		Total   int64
	}
	err := r.db.Model(&models.Rating{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS total").
		Where("store_id = ?", storeID).
		Scan(&result).Error
	if err != nil {
		return 0, 0, fmt.Errorf("failed to aggregate ratings for store %d: %w", storeID, err)
	}
	return result.Average, result.Total, nil
}

// Count returns the total number of ratings.
func (r *GORMRatingRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Rating{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count ratings: %w", err)
	}
	return count, nil
}
