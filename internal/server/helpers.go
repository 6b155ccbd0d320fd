package server

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// bearerToken extracts the credential token from the Authorization header.
// Returns "" when the header is absent or malformed; the business layer
// turns that into an authentication error.
func bearerToken(c *fiber.Ctx) string {
	header := c.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
