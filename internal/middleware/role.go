package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/workly_be/internal/models"
	"github.com/Windi-Fikriyansyah/workly_be/internal/policy"
)

// RequireRoles rejects callers whose role is not listed. Must run after JWTAuth.
func RequireRoles(allowed ...models.Role) fiber.Handler {
	rule := policy.Roles(allowed...)

	return func(c *fiber.Ctx) error {
		actor, err := Actor(c)
		if err != nil {
			return err
		}
		if err := policy.Check(actor, rule, nil); err != nil {
			return err
		}
		return c.Next()
	}
}
