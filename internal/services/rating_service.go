package services

import (
	"errors"
	"fmt"
	"log"

	"storerating/internal/apperror"
	"storerating/internal/models"
	"storerating/internal/repositories"
)

// EventPublisher publishes rating events to the message broker. A nil
// publisher disables eventing; publish failures never fail the request.
type EventPublisher interface {
	PublishRatingSubmitted(event map[string]interface{}) error
}

// RatedBy identifies the user who submitted a rating.
type RatedBy struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// RatingWithUser is a rating annotated with its submitter's name and email.
type RatingWithUser struct {
	models.Rating
	User RatedBy `json:"user"`
}

// RatingService handles rating submission and the store aggregate.
type RatingService struct {
	ratingRepo repositories.RatingRepository
	storeRepo  repositories.StoreRepository
	publisher  EventPublisher
}

// NewRatingService creates a new RatingService.
func NewRatingService(ratingRepo repositories.RatingRepository, storeRepo repositories.StoreRepository, publisher EventPublisher) *RatingService {
	return &RatingService{
		ratingRepo: ratingRepo,
		storeRepo:  storeRepo,
		publisher:  publisher,
	}
}

// SubmitRating records a user's rating of a store, creating the row on first
// submission and updating it in place on resubmission. When a concurrent
// first submission wins the insert, the unique index rejects ours and the
// write is retried as an update. Every successful write recomputes the
// store's aggregate.
func (s *RatingService) SubmitRating(userID, storeID uint, rating int, review string) (*models.Rating, error) {
	if _, err := s.storeRepo.GetByID(storeID); err != nil {
		return nil, err
	}

	var result *models.Rating
	_, err := s.ratingRepo.GetByUserAndStore(userID, storeID)
	switch {
	case err == nil:
		result, err = s.ratingRepo.Update(userID, storeID, rating, review)
		if err != nil {
			return nil, err
		}
	case errors.Is(err, apperror.ErrRatingNotFound):
		newRating := &models.Rating{UserID: userID, StoreID: storeID, Rating: rating, Review: review}
		createErr := s.ratingRepo.Create(newRating)
		if errors.Is(createErr, apperror.ErrRatingExists) {
			result, createErr = s.ratingRepo.Update(userID, storeID, rating, review)
		} else {
			result = newRating
		}
		if createErr != nil {
			return nil, createErr
		}
	default:
		return nil, err
	}

	if err := s.RecomputeStoreAggregate(storeID); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		event := map[string]interface{}{
			"storeId": storeID,
			"userId":  userID,
			"rating":  rating,
		}
		if err := s.publisher.PublishRatingSubmitted(event); err != nil {
			// The rating is already durable; the event is best effort.
			log.Printf("failed to publish rating event for store %d: %v", storeID, err)
		}
	}

	return result, nil
}

// RecomputeStoreAggregate rewrites a store's averageRating and totalRatings
// from its rating rows. A store with no ratings gets "0.00" and 0. The
// recompute is idempotent: without an intervening rating write, repeated
// calls produce identical values.
func (s *RatingService) RecomputeStoreAggregate(storeID uint) error {
	average, total, err := s.ratingRepo.AggregateForStore(storeID)
	if err != nil {
		return err
	}
	formatted := "0.00"
	if total > 0 {
		formatted = fmt.Sprintf("%.2f", average)
	}
	return s.storeRepo.UpdateAggregate(storeID, formatted, int(total))
}

// ListRatingsForStore returns a store's ratings, newest first, each
// annotated with the submitter's name and email.
func (s *RatingService) ListRatingsForStore(storeID uint) ([]RatingWithUser, error) {
	ratings, err := s.ratingRepo.ListByStore(storeID)
	if err != nil {
		return nil, err
	}
	annotated := make([]RatingWithUser, 0, len(ratings))
	for _, r := range ratings {
		item := RatingWithUser{Rating: r}
		if r.User != nil {
			item.User = RatedBy{Name: r.User.Name, Email: r.User.Email}
		}
		annotated = append(annotated, item)
	}
	return annotated, nil
}
