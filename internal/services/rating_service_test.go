package services_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"storerating/internal/apperror"
	"storerating/internal/models"
	"storerating/internal/services"
)

// MockRatingRepository is a mock implementation of repositories.RatingRepository.
type MockRatingRepository struct {
	mock.Mock
}

func (m *MockRatingRepository) Create(rating *models.Rating) error {
	args := m.Called(rating)
	return args.Error(0)
}

func (m *MockRatingRepository) Update(userID, storeID uint, rating int, review string) (*models.Rating, error) {
	args := m.Called(userID, storeID, rating, review)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rating), args.Error(1)
}

func (m *MockRatingRepository) GetByUserAndStore(userID, storeID uint) (*models.Rating, error) {
	args := m.Called(userID, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rating), args.Error(1)
}

func (m *MockRatingRepository) ListByStore(storeID uint) ([]models.Rating, error) {
	args := m.Called(storeID)
	return args.Get(0).([]models.Rating), args.Error(1)
}

func (m *MockRatingRepository) ListByUser(userID uint) ([]models.Rating, error) {
	args := m.Called(userID)
	return args.Get(0).([]models.Rating), args.Error(1)
}

func (m *MockRatingRepository) AggregateForStore(storeID uint) (float64, int64, error) {
	args := m.Called(storeID)
	return args.Get(0).(float64), args.Get(1).(int64), args.Error(2)
}

func (m *MockRatingRepository) Count() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

// MockStoreRepository is a mock implementation of repositories.StoreRepository.
type MockStoreRepository struct {
	mock.Mock
}

func (m *MockStoreRepository) Create(store *models.Store) error {
	args := m.Called(store)
	return args.Error(0)
}

func (m *MockStoreRepository) GetByID(id uint) (*models.Store, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Store), args.Error(1)
}

func (m *MockStoreRepository) List(search, sortBy, sortOrder string) ([]models.Store, error) {
	args := m.Called(search, sortBy, sortOrder)
	return args.Get(0).([]models.Store), args.Error(1)
}

func (m *MockStoreRepository) ListByOwner(ownerID uint) ([]models.Store, error) {
	args := m.Called(ownerID)
	return args.Get(0).([]models.Store), args.Error(1)
}

func (m *MockStoreRepository) UpdateAggregate(storeID uint, averageRating string, totalRatings int) error {
	args := m.Called(storeID, averageRating, totalRatings)
	return args.Error(0)
}

func (m *MockStoreRepository) Count() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

// MockEventPublisher is a mock implementation of services.EventPublisher.
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishRatingSubmitted(event map[string]interface{}) error {
	args := m.Called(event)
	return args.Error(0)
}

func TestRatingService_SubmitRating_CreatesOnFirstSubmission(t *testing.T) {
	mockRatings := new(MockRatingRepository)
	mockStores := new(MockStoreRepository)
	service := services.NewRatingService(mockRatings, mockStores, nil)

	mockStores.On("GetByID", uint(10)).Return(&models.Store{ID: 10}, nil).Once()
	mockRatings.On("GetByUserAndStore", uint(1), uint(10)).Return(nil, apperror.ErrRatingNotFound).Once()
	mockRatings.On("Create", mock.AnythingOfType("*models.Rating")).Return(nil).Once()
	mockRatings.On("AggregateForStore", uint(10)).Return(4.0, int64(1), nil).Once()
	mockStores.On("UpdateAggregate", uint(10), "4.00", 1).Return(nil).Once()

	rating, err := service.SubmitRating(1, 10, 4, "")

	assert.NoError(t, err)
	assert.Equal(t, 4, rating.Rating)
	assert.Equal(t, uint(1), rating.UserID)
	mockRatings.AssertExpectations(t)
	mockStores.AssertExpectations(t)
}

func TestRatingService_SubmitRating_UpdatesOnResubmission(t *testing.T) {
	mockRatings := new(MockRatingRepository)
	mockStores := new(MockStoreRepository)
	service := services.NewRatingService(mockRatings, mockStores, nil)

	existing := &models.Rating{ID: 3, UserID: 1, StoreID: 10, Rating: 4}
	updated := &models.Rating{ID: 3, UserID: 1, StoreID: 10, Rating: 5}

	mockStores.On("GetByID", uint(10)).Return(&models.Store{ID: 10}, nil).Once()
	mockRatings.On("GetByUserAndStore", uint(1), uint(10)).Return(existing, nil).Once()
	mockRatings.On("Update", uint(1), uint(10), 5, "").Return(updated, nil).Once()
	mockRatings.On("AggregateForStore", uint(10)).Return(3.5, int64(2), nil).Once()
	mockStores.On("UpdateAggregate", uint(10), "3.50", 2).Return(nil).Once()

	rating, err := service.SubmitRating(1, 10, 5, "")

	assert.NoError(t, err)
	assert.Equal(t, uint(3), rating.ID)
	assert.Equal(t, 5, rating.Rating)
	mockRatings.AssertNotCalled(t, "Create", mock.Anything)
	mockRatings.AssertExpectations(t)
	mockStores.AssertExpectations(t)
}

func TestRatingService_SubmitRating_RaceRetriesAsUpdate(t *testing.T) {
	mockRatings := new(MockRatingRepository)
	mockStores := new(MockStoreRepository)
	service := services.NewRatingService(mockRatings, mockStores, nil)

	updated := &models.Rating{ID: 4, UserID: 1, StoreID: 10, Rating: 2}

	mockStores.On("GetByID", uint(10)).Return(&models.Store{ID: 10}, nil).Once()
	// The existence check misses, then a concurrent submission wins the
	// insert and the unique index rejects ours.
	mockRatings.On("GetByUserAndStore", uint(1), uint(10)).Return(nil, apperror.ErrRatingNotFound).Once()
	mockRatings.On("Create", mock.AnythingOfType("*models.Rating")).Return(apperror.ErrRatingExists).Once()
	mockRatings.On("Update", uint(1), uint(10), 2, "ok").Return(updated, nil).Once()
	mockRatings.On("AggregateForStore", uint(10)).Return(2.0, int64(1), nil).Once()
	mockStores.On("UpdateAggregate", uint(10), "2.00", 1).Return(nil).Once()

	rating, err := service.SubmitRating(1, 10, 2, "ok")

	assert.NoError(t, err)
	assert.Equal(t, uint(4), rating.ID)
	mockRatings.AssertExpectations(t)
	mockStores.AssertExpectations(t)
}

func TestRatingService_SubmitRating_StoreMissing(t *testing.T) {
	mockRatings := new(MockRatingRepository)
	mockStores := new(MockStoreRepository)
	service := services.NewRatingService(mockRatings, mockStores, nil)

	mockStores.On("GetByID", uint(99)).Return(nil, apperror.ErrStoreNotFound).Once()

	rating, err := service.SubmitRating(1, 99, 4, "")

	assert.ErrorIs(t, err, apperror.ErrStoreNotFound)
	assert.Nil(t, rating)
	mockRatings.AssertNotCalled(t, "Create", mock.Anything)
	mockStores.AssertExpectations(t)
}

func TestRatingService_SubmitRating_PublishesEvent(t *testing.T) {
	mockRatings := new(MockRatingRepository)
	mockStores := new(MockStoreRepository)
	mockPublisher := new(MockEventPublisher)
	service := services.NewRatingService(mockRatings, mockStores, mockPublisher)

	mockStores.On("GetByID", uint(10)).Return(&models.Store{ID: 10}, nil).Once()
	mockRatings.On("GetByUserAndStore", uint(1), uint(10)).Return(nil, apperror.ErrRatingNotFound).Once()
	mockRatings.On("Create", mock.AnythingOfType("*models.Rating")).Return(nil).Once()
	mockRatings.On("AggregateForStore", uint(10)).Return(4.0, int64(1), nil).Once()
	mockStores.On("UpdateAggregate", uint(10), "4.00", 1).Return(nil).Once()
	// A broker failure must not fail the submission.
	mockPublisher.On("PublishRatingSubmitted", mock.Anything).Return(fmt.Errorf("broker down")).Once()

	rating, err := service.SubmitRating(1, 10, 4, "")

	assert.NoError(t, err)
	assert.NotNil(t, rating)
	mockPublisher.AssertExpectations(t)
}

func TestRatingService_Recompute_ZeroRatings(t *testing.T) {
	mockRatings := new(MockRatingRepository)
	mockStores := new(MockStoreRepository)
	service := services.NewRatingService(mockRatings, mockStores, nil)

	mockRatings.On("AggregateForStore", uint(10)).Return(0.0, int64(0), nil).Once()
	mockStores.On("UpdateAggregate", uint(10), "0.00", 0).Return(nil).Once()

	err := service.RecomputeStoreAggregate(10)

	assert.NoError(t, err)
	mockRatings.AssertExpectations(t)
	mockStores.AssertExpectations(t)
}

func TestRatingService_Recompute_Idempotent(t *testing.T) {
	mockRatings := new(MockRatingRepository)
	mockStores := new(MockStoreRepository)
	service := services.NewRatingService(mockRatings, mockStores, nil)

	mockRatings.On("AggregateForStore", uint(10)).Return(3.5, int64(2), nil).Twice()
	mockStores.On("UpdateAggregate", uint(10), "3.50", 2).Return(nil).Twice()

	assert.NoError(t, service.RecomputeStoreAggregate(10))
	assert.NoError(t, service.RecomputeStoreAggregate(10))
	mockRatings.AssertExpectations(t)
	mockStores.AssertExpectations(t)
}

func TestRatingService_ListRatingsForStore_AnnotatesRater(t *testing.T) {
	mockRatings := new(MockRatingRepository)
	mockStores := new(MockStoreRepository)
	service := services.NewRatingService(mockRatings, mockStores, nil)

	ratings := []models.Rating{
		{ID: 1, UserID: 1, StoreID: 10, Rating: 4, User: &models.User{Name: "Johnathan Storefront Reviewer", Email: "john@example.com"}},
		{ID: 2, UserID: 2, StoreID: 10, Rating: 2, Review: "ok", User: &models.User{Name: "Berthold Storefront Reviewer", Email: "bert@example.com"}},
	}
	mockRatings.On("ListByStore", uint(10)).Return(ratings, nil).Once()

	annotated, err := service.ListRatingsForStore(10)

	assert.NoError(t, err)
	assert.Len(t, annotated, 2)
	assert.Equal(t, "john@example.com", annotated[0].User.Email)
	assert.Equal(t, "Berthold Storefront Reviewer", annotated[1].User.Name)
	assert.Equal(t, "ok", annotated[1].Review)
	mockRatings.AssertExpectations(t)
}
