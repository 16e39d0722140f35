package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"storerating/internal/middleware"
	"storerating/internal/models"
	"storerating/internal/services"
)

// UserHandler handles the admin-only user management and statistics routes.
type UserHandler struct {
	authService  *services.AuthService
	storeService *services.StoreService
	sessions     *session.Store
	validate     *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(authService *services.AuthService, storeService *services.StoreService, sessions *session.Store) *UserHandler {
	return &UserHandler{
		authService:  authService,
		storeService: storeService,
		sessions:     sessions,
		validate:     newValidator(),
	}
}

// RegisterRoutes registers the user management routes with the Fiber app.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/users", middleware.RequireAdmin(h.sessions))
	userRoutes.Get("/", h.HandleListUsers)
	userRoutes.Post("/", h.HandleCreateUser)
	router.Get("/statistics", middleware.RequireAdmin(h.sessions), h.HandleStatistics)
}

// HandleListUsers returns all users ordered by name. Password hashes are
// never serialized.
func (h *UserHandler) HandleListUsers(c *fiber.Ctx) error {
	users, err := h.authService.ListUsers()
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(users)
}

// CreateUserRequest is the admin user creation payload; unlike self-service
// registration it may assign any role.
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,min=20,max=60"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=16,passwd"`
	Address  string `json:"address" validate:"omitempty,max=400"`
	Role     string `json:"role" validate:"required,oneof=admin user store_owner"`
}

// HandleCreateUser creates a user with the given role. Admin only.
func (h *UserHandler) HandleCreateUser(c *fiber.Ctx) error {
	var req CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, firstValidationMessage(err))
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Address:  req.Address,
		Role:     models.Role(req.Role),
	}
	if err := h.authService.CreateUser(user); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "user created",
		"user":    user,
	})
}

// HandleStatistics returns the platform-wide entity counts.
func (h *UserHandler) HandleStatistics(c *fiber.Ctx) error {
	stats, err := h.storeService.GetStatistics()
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(stats)
}
