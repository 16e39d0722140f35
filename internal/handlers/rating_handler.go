package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"storerating/internal/middleware"
	"storerating/internal/services"
)

// RatingHandler handles HTTP requests for ratings.
type RatingHandler struct {
	ratingService *services.RatingService
	sessions      *session.Store
	validate      *validator.Validate
}

// NewRatingHandler creates a new RatingHandler.
func NewRatingHandler(ratingService *services.RatingService, sessions *session.Store) *RatingHandler {
	return &RatingHandler{
		ratingService: ratingService,
		sessions:      sessions,
		validate:      newValidator(),
	}
}

// RegisterRoutes registers the rating routes with the Fiber app.
func (h *RatingHandler) RegisterRoutes(router fiber.Router) {
	ratingRoutes := router.Group("/ratings", middleware.RequireAuthenticated(h.sessions))
	ratingRoutes.Post("/", h.HandleSubmitRating)
	ratingRoutes.Get("/store/:storeId", h.HandleListByStore)
}

// SubmitRatingRequest is the rating submission payload. The submitter is
// always the session user; the body carries no user identity.
type SubmitRatingRequest struct {
	StoreID uint   `json:"storeId" validate:"required"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Review  string `json:"review" validate:"omitempty,max=1000"`
}

// HandleSubmitRating creates or updates the session user's rating of a
// store and returns the resulting row.
func (h *RatingHandler) HandleSubmitRating(c *fiber.Ctx) error {
	var req SubmitRatingRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, firstValidationMessage(err))
	}

	userID := c.Locals(middleware.LocalUserID).(uint)
	rating, err := h.ratingService.SubmitRating(userID, req.StoreID, req.Rating, req.Review)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "rating submitted",
		"rating":  rating,
	})
}

// HandleListByStore returns a store's ratings annotated with each rater's
// name and email.
func (h *RatingHandler) HandleListByStore(c *fiber.Ctx) error {
	storeID, err := c.ParamsInt("storeId")
	if err != nil || storeID < 1 {
		return badRequest(c, "invalid store id")
	}

	ratings, err := h.ratingService.ListRatingsForStore(uint(storeID))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(ratings)
}
