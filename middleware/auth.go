package middleware

import (
	"context"

	"farmhith/constants"
	"farmhith/logger"
	"farmhith/services/auth"
	"farmhith/types"
	"farmhith/utils"

	"github.com/gofiber/fiber/v2"
)

// SessionResolver turns an access token into a session. The auth service satisfies it.
type SessionResolver interface {
	GetSession(ctx context.Context, accessToken string) (*auth.Session, error)
}

// Authenticate loads the caller's session, if any, into Locals. It never rejects a request.
func Authenticate(resolver SessionResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := utils.ExtractBearerToken(c)
		if token == "" {
			return c.Next()
		}

		sess, err := resolver.GetSession(c.UserContext(), token)
		if err != nil {
			logger.Error("Failed to resolve session", err)
			return c.Next()
		}
		if sess != nil {
			c.Locals(constants.LocalsSession, sess)
			c.Locals(constants.LocalsToken, token)
		}
		return c.Next()
	}
}

// RequireAuth rejects requests without a session. It expects Authenticate to run first.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentSession(c) == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
				Status:  fiber.StatusUnauthorized,
				Message: "Authorization token missing or invalid",
			})
		}
		return c.Next()
	}
}

// RequireAdmin rejects requests whose session is missing or not an admin's.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := CurrentSession(c)
		if sess == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
				Status:  fiber.StatusUnauthorized,
				Message: "Authorization token missing or invalid",
			})
		}
		if !sess.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(types.ApiResponse{
				Status:  fiber.StatusForbidden,
				Message: "Access denied: Admin privileges required",
			})
		}
		return c.Next()
	}
}

// CurrentSession returns the session stored by Authenticate, or nil.
func CurrentSession(c *fiber.Ctx) *auth.Session {
	sess, _ := c.Locals(constants.LocalsSession).(*auth.Session)
	return sess
}
