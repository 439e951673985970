package middleware

import (
	"Snack-Tracker/domain"
	"Snack-Tracker/internal/api/presenters"
	"Snack-Tracker/pkg/coordinator"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

type (
	Middleware interface {
		CORSMiddleware() fiber.Handler
		// RequireSession lets the request through only with a Bearer token of
		// the signed-in user, resuming that user's session when nobody is
		// signed in, and stores the user id in Locals("user_id").
		RequireSession() fiber.Handler
	}

	middleware struct {
		coordinator *coordinator.Coordinator
	}
)

func NewMiddleware(coord *coordinator.Coordinator) Middleware {
	return &middleware{coordinator: coord}
}

func (m *middleware) CORSMiddleware() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, DELETE, OPTIONS",
	})
}

func (m *middleware) RequireSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageNotAuthenticated, domain.ErrTokenNotFound)
		}
		token := strings.TrimPrefix(header, "Bearer ")

		userID, err := m.coordinator.Authorize(c.Context(), token)
		if err != nil {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedTokenInvalid, err)
		}
		c.Locals("user_id", userID)
		return c.Next()
	}
}
