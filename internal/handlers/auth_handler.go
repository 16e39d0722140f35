package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"storerating/internal/middleware"
	"storerating/internal/models"
	"storerating/internal/services"
)

// AuthHandler handles HTTP requests for registration, login and the session
// lifecycle.
type AuthHandler struct {
	authService *services.AuthService
	sessions    *session.Store
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, sessions *session.Store) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		sessions:    sessions,
		validate:    newValidator(),
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Post("/logout", middleware.RequireAuthenticated(h.sessions), h.HandleLogout)
	authRoutes.Get("/me", middleware.RequireAuthenticated(h.sessions), h.HandleMe)
	authRoutes.Post("/change-password", middleware.RequireAuthenticated(h.sessions), h.HandleChangePassword)
}

// RegisterRequest is the self-service registration payload.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=20,max=60"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=16,passwd"`
	Address  string `json:"address" validate:"omitempty,max=400"`
}

// HandleRegister creates a self-service account with role "user".
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
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
	}
	if err := h.authService.Register(user); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "registration successful",
		"user":    user,
	})
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin authenticates the user and writes the identity snapshot into a
// new session. Failed logins never touch the session store.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, firstValidationMessage(err))
	}

	user, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		return serviceError(c, err)
	}

	sess, err := h.sessions.Get(c)
	if err != nil {
		log.Printf("session open failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "internal server error",
		})
	}
	sess.Set(middleware.SessionKeyUserID, user.ID)
	sess.Set(middleware.SessionKeyName, user.Name)
	sess.Set(middleware.SessionKeyEmail, user.Email)
	sess.Set(middleware.SessionKeyRole, string(user.Role))
	if err := sess.Save(); err != nil {
		log.Printf("session save failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "internal server error",
		})
	}

	return c.JSON(fiber.Map{
		"message": "login successful",
		"user":    user,
	})
}

// HandleLogout destroys the session.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	sess, err := h.sessions.Get(c)
	if err == nil {
		err = sess.Destroy()
	}
	if err != nil {
		log.Printf("session destroy failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "internal server error",
		})
	}
	return c.JSON(fiber.Map{
		"message": "logout successful",
	})
}

// HandleMe returns the authenticated user, re-read from the database rather
// than the session snapshot so the client sees current account data.
func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	userID := c.Locals(middleware.LocalUserID).(uint)
	user, err := h.authService.GetUser(userID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(user)
}

// ChangePasswordRequest is the password change payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=16,passwd"`
}

// HandleChangePassword verifies the current password and stores a new hash.
func (h *AuthHandler) HandleChangePassword(c *fiber.Ctx) error {
	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, firstValidationMessage(err))
	}

	userID := c.Locals(middleware.LocalUserID).(uint)
	if err := h.authService.ChangePassword(userID, req.CurrentPassword, req.NewPassword); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "password updated",
	})
}
