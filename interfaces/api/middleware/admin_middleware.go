package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"

	"staff-directory/pkg/logger"
	"staff-directory/pkg/utils"
)

// AdminOnly accepts requests carrying the admin token in the X-Admin-Token
// header or the token query parameter. An empty token disables the routes.
func AdminOnly(adminToken string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if adminToken == "" {
			return utils.ErrorResponse(c, fiber.StatusForbidden, "Admin endpoints are disabled", nil)
		}

		token := c.Get("X-Admin-Token")
		if token == "" {
			token = c.Query("token")
		}
		if subtle.ConstantTimeCompare([]byte(token), []byte(adminToken)) != 1 {
			logger.Warn(logger.CategoryAPI, "admin_denied", "Invalid admin token", map[string]interface{}{"path": c.Path(), "ip": c.IP()})
			return utils.UnauthorizedResponse(c, "Invalid admin token")
		}
		return c.Next()
	}
}
