package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"storerating/internal/models"
)

// Session keys for the snapshot written at login. The role stored here is
// the one the user had when the session was created; a role change takes
// effect at the next login.
const (
	SessionKeyUserID = "user_id"
	SessionKeyName   = "user_name"
	SessionKeyEmail  = "user_email"
	SessionKeyRole   = "user_role"
)

// Locals keys populated by the guards for downstream handlers.
const (
	LocalUserID = "user_id"
	LocalRole   = "user_role"
)

// RequireAuthenticated rejects requests that carry no authenticated session.
// On success the session's user ID and role snapshot are stored in Locals.
func RequireAuthenticated(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, role, ok := sessionIdentity(store, c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "authentication required",
			})
		}
		c.Locals(LocalUserID, userID)
		c.Locals(LocalRole, role)
		return c.Next()
	}
}

// RequireAdmin rejects unauthenticated requests with 401 and authenticated
// non-admin requests with 403, before any handler runs.
func RequireAdmin(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, role, ok := sessionIdentity(store, c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "authentication required",
			})
		}
		if role != string(models.RoleAdmin) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "admin access required",
			})
		}
		c.Locals(LocalUserID, userID)
		c.Locals(LocalRole, role)
		return c.Next()
	}
}

// sessionIdentity extracts the user ID and role snapshot from the request's
// session, reporting ok=false when the session is absent or anonymous.
func sessionIdentity(store *session.Store, c *fiber.Ctx) (uint, string, bool) {
	sess, err := store.Get(c)
	if err != nil {
		return 0, "", false
	}
	userID, ok := sess.Get(SessionKeyUserID).(uint)
	if !ok {
		return 0, "", false
	}
	role, _ := sess.Get(SessionKeyRole).(string)
	return userID, role, true
}
