package services

import (
	"errors"

	"storerating/internal/apperror"
	"storerating/internal/models"
	"storerating/internal/repositories"
)

// StoreListItem is a store annotated with the calling user's own rating,
// or null when the caller has not rated it (or is an admin).
type StoreListItem struct {
	models.Store
	UserRating *int `json:"userRating"`
}

// Statistics holds the platform-wide entity counts shown on the admin
// dashboard.
type Statistics struct {
	TotalUsers   int64 `json:"totalUsers"`
	TotalStores  int64 `json:"totalStores"`
	TotalRatings int64 `json:"totalRatings"`
}

// StoreService handles business logic related to stores.
type StoreService struct {
	storeRepo  repositories.StoreRepository
	userRepo   repositories.UserRepository
	ratingRepo repositories.RatingRepository
}

// NewStoreService creates a new StoreService.
func NewStoreService(storeRepo repositories.StoreRepository, userRepo repositories.UserRepository, ratingRepo repositories.RatingRepository) *StoreService {
	return &StoreService{
		storeRepo:  storeRepo,
		userRepo:   userRepo,
		ratingRepo: ratingRepo,
	}
}

// CreateStore creates a new store after verifying the owner exists. The
// owner's role is not checked; ownership is a plain reference.
func (s *StoreService) CreateStore(store *models.Store) error {
	if _, err := s.userRepo.GetByID(store.OwnerID); err != nil {
		if errors.Is(err, apperror.ErrUserNotFound) {
			return apperror.ErrOwnerNotFound
		}
		return err
	}
	return s.storeRepo.Create(store)
}

// GetStore retrieves a store by ID.
func (s *StoreService) GetStore(id uint) (*models.Store, error) {
	return s.storeRepo.GetByID(id)
}

// ListStores returns stores matching the search/sort parameters. When
// forUserID is non-nil, each store carries that user's own rating so the
// client can show "your rating" next to the aggregate.
func (s *StoreService) ListStores(search, sortBy, sortOrder string, forUserID *uint) ([]StoreListItem, error) {
	stores, err := s.storeRepo.List(search, sortBy, sortOrder)
	if err != nil {
		return nil, err
	}

	ownRatings := make(map[uint]int)
	if forUserID != nil {
		ratings, err := s.ratingRepo.ListByUser(*forUserID)
		if err != nil {
			return nil, err
		}
		for _, r := range ratings {
			ownRatings[r.StoreID] = r.Rating
		}
	}

	items := make([]StoreListItem, 0, len(stores))
	for _, store := range stores {
		item := StoreListItem{Store: store}
		if rating, ok := ownRatings[store.ID]; ok {
			r := rating
			item.UserRating = &r
		}
		items = append(items, item)
	}
	return items, nil
}

// ListStoresByOwner returns every store owned by the given user. Owners may
// hold more than one store; callers must not assume a single element.
func (s *StoreService) ListStoresByOwner(ownerID uint) ([]models.Store, error) {
	return s.storeRepo.ListByOwner(ownerID)
}

// GetStatistics returns the platform-wide user, store and rating counts.
func (s *StoreService) GetStatistics() (*Statistics, error) {
	users, err := s.userRepo.Count()
	if err != nil {
		return nil, err
	}
	stores, err := s.storeRepo.Count()
	if err != nil {
		return nil, err
	}
	ratings, err := s.ratingRepo.Count()
	if err != nil {
		return nil, err
	}
	return &Statistics{TotalUsers: users, TotalStores: stores, TotalRatings: ratings}, nil
}
