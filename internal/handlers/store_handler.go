package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"storerating/internal/middleware"
	"storerating/internal/models"
	"storerating/internal/services"
)

// StoreHandler handles HTTP requests for stores.
type StoreHandler struct {
	storeService *services.StoreService
	sessions     *session.Store
	validate     *validator.Validate
}

// NewStoreHandler creates a new StoreHandler.
func NewStoreHandler(storeService *services.StoreService, sessions *session.Store) *StoreHandler {
	return &StoreHandler{
		storeService: storeService,
		sessions:     sessions,
		validate:     newValidator(),
	}
}

// RegisterRoutes registers the store routes with the Fiber app.
func (h *StoreHandler) RegisterRoutes(router fiber.Router) {
	storeRoutes := router.Group("/stores")
	storeRoutes.Get("/", middleware.RequireAuthenticated(h.sessions), h.HandleListStores)
	storeRoutes.Post("/", middleware.RequireAdmin(h.sessions), h.HandleCreateStore)
	storeRoutes.Get("/owner/:ownerId", middleware.RequireAuthenticated(h.sessions), h.HandleListByOwner)
}

// HandleListStores returns stores filtered by ?search= and ordered by
// ?sortBy=/?sortOrder=. Non-admin callers get each store annotated with
// their own rating, or null when they have not rated it.
func (h *StoreHandler) HandleListStores(c *fiber.Ctx) error {
	var forUserID *uint
	if c.Locals(middleware.LocalRole) != string(models.RoleAdmin) {
		userID := c.Locals(middleware.LocalUserID).(uint)
		forUserID = &userID
	}

	stores, err := h.storeService.ListStores(c.Query("search"), c.Query("sortBy"), c.Query("sortOrder"), forUserID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(stores)
}

// CreateStoreRequest is the admin store creation payload.
type CreateStoreRequest struct {
	Name    string `json:"name" validate:"required,max=255"`
	Email   string `json:"email" validate:"required,email"`
	Address string `json:"address" validate:"required,max=400"`
	OwnerID uint   `json:"ownerId" validate:"required"`
}

// HandleCreateStore creates a store. Admin only.
func (h *StoreHandler) HandleCreateStore(c *fiber.Ctx) error {
	var req CreateStoreRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, firstValidationMessage(err))
	}

	store := &models.Store{
		Name:          req.Name,
		Email:         req.Email,
		Address:       req.Address,
		OwnerID:       req.OwnerID,
		AverageRating: "0.00",
	}
	if err := h.storeService.CreateStore(store); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "store created",
		"store":   store,
	})
}

// HandleListByOwner returns every store owned by the given user.
func (h *StoreHandler) HandleListByOwner(c *fiber.Ctx) error {
	ownerID, err := c.ParamsInt("ownerId")
	if err != nil || ownerID < 1 {
		return badRequest(c, "invalid owner id")
	}

	stores, err := h.storeService.ListStoresByOwner(uint(ownerID))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(stores)
}
