package utils

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// AccessCookie is the cookie checked when no Authorization header is sent.
const AccessCookie = "access"

// ExtractBearerToken reads "Authorization: Bearer <token>", falling back to the access cookie.
// It returns "" when neither is present or the header is malformed.
func ExtractBearerToken(c *fiber.Ctx) string {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return c.Cookies(AccessCookie)
	}

	tokenParts := strings.Fields(authHeader)
	if len(tokenParts) != 2 || !strings.EqualFold(tokenParts[0], "Bearer") {
		return ""
	}
	return tokenParts[1]
}
