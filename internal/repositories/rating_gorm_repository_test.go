package repositories_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"storerating/internal/apperror"
	"storerating/internal/models"
	"storerating/internal/repositories"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.User{}, &models.Store{}, &models.Rating{}))
	return db
}

func seedUserAndStore(t *testing.T, db *gorm.DB) (uint, uint) {
	t.Helper()
	user := &models.User{Name: "Johnathan Storefront Reviewer", Email: "john@example.com", Password: "x", Role: models.RoleUser}
	assert.NoError(t, db.Create(user).Error)
	store := &models.Store{Name: "Corner Coffee House", Email: "coffee@example.com", Address: "12 Bean Street", OwnerID: user.ID, AverageRating: "0.00"}
	assert.NoError(t, db.Create(store).Error)
	return user.ID, store.ID
}

func TestRatingRepository_UniqueUserStorePair(t *testing.T) {
	db := setupDB(t)
	userID, storeID := seedUserAndStore(t, db)
	repo := repositories.NewGORMRatingRepository(db)

	assert.NoError(t, repo.Create(&models.Rating{UserID: userID, StoreID: storeID, Rating: 4}))

	// A second insert for the same pair hits the unique index
	err := repo.Create(&models.Rating{UserID: userID, StoreID: storeID, Rating: 5})
	assert.ErrorIs(t, err, apperror.ErrRatingExists)

	// Update rewrites the single row in place
	updated, err := repo.Update(userID, storeID, 5, "better now")
	assert.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)
	assert.Equal(t, "better now", updated.Review)

	count, err := repo.Count()
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRatingRepository_UpdateMissingRow(t *testing.T) {
	db := setupDB(t)
	userID, storeID := seedUserAndStore(t, db)
	repo := repositories.NewGORMRatingRepository(db)

	_, err := repo.Update(userID, storeID, 3, "")
	assert.ErrorIs(t, err, apperror.ErrRatingNotFound)

	_, err = repo.GetByUserAndStore(userID, storeID)
	assert.ErrorIs(t, err, apperror.ErrRatingNotFound)
}

func TestRatingRepository_AggregateForStore(t *testing.T) {
	db := setupDB(t)
	userID, storeID := seedUserAndStore(t, db)
	repo := repositories.NewGORMRatingRepository(db)

	// Zero rows aggregate to (0, 0), not NULL
	average, total, err := repo.AggregateForStore(storeID)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, average)
	assert.Equal(t, int64(0), total)

	other := &models.User{Name: "Berthold Storefront Reviewer", Email: "bert@example.com", Password: "x", Role: models.RoleUser}
	assert.NoError(t, db.Create(other).Error)

	assert.NoError(t, repo.Create(&models.Rating{UserID: userID, StoreID: storeID, Rating: 5}))
	assert.NoError(t, repo.Create(&models.Rating{UserID: other.ID, StoreID: storeID, Rating: 2}))

	average, total, err = repo.AggregateForStore(storeID)
	assert.NoError(t, err)
	assert.Equal(t, 3.5, average)
	assert.Equal(t, int64(2), total)
}

func TestStoreRepository_SearchAndSort(t *testing.T) {
	db := setupDB(t)
	ownerID, _ := seedUserAndStore(t, db)
	repo := repositories.NewGORMStoreRepository(db)

	assert.NoError(t, repo.Create(&models.Store{Name: "Harbor Bookshop", Email: "books@example.com", Address: "3 Quay Lane", OwnerID: ownerID, AverageRating: "0.00"}))

	// Case-insensitive substring match against name
	stores, err := repo.List("COFFEE", "", "")
	assert.NoError(t, err)
	assert.Len(t, stores, 1)
	assert.Equal(t, "Corner Coffee House", stores[0].Name)

	// Match against address
	stores, err = repo.List("quay", "", "")
	assert.NoError(t, err)
	assert.Len(t, stores, 1)
	assert.Equal(t, "Harbor Bookshop", stores[0].Name)

	// Unknown sort column falls back to the name column
	stores, err = repo.List("", "password", "desc")
	assert.NoError(t, err)
	assert.Len(t, stores, 2)
	assert.Equal(t, "Harbor Bookshop", stores[0].Name)

	stores, err = repo.List("", "name", "")
	assert.NoError(t, err)
	assert.Equal(t, "Corner Coffee House", stores[0].Name)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	db := setupDB(t)
	repo := repositories.NewGORMUserRepository(db)

	assert.NoError(t, repo.Create(&models.User{Name: "Johnathan Storefront Reviewer", Email: "john@example.com", Password: "x", Role: models.RoleUser}))

	err := repo.Create(&models.User{Name: "Johnathan Storefront Imposter", Email: "john@example.com", Password: "x", Role: models.RoleUser})
	assert.ErrorIs(t, err, apperror.ErrEmailTaken)
}
