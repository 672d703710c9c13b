package api

import (
	"regexp"

	"github.com/gofiber/fiber/v2"
)

var dateKeyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// dateParam reads a YYYY-MM-DD value from the named query parameter, falling
// back when absent. An empty return means the value was malformed.
func dateParam(c *fiber.Ctx, name string, fallback string) string {
	value := c.Query(name, fallback)
	if !dateKeyPattern.MatchString(value) {
		return ""
	}
	return value
}
