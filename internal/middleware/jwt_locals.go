package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/workly_be/internal/apperrors"
	"github.com/Windi-Fikriyansyah/workly_be/internal/models"
	"github.com/Windi-Fikriyansyah/workly_be/internal/policy"
)

const (
	localUserID = "userId"
	localRole   = "role"
)

func setActor(c *fiber.Ctx, uid uuid.UUID, role models.Role) {
	c.Locals(localUserID, uid)
	c.Locals(localRole, role)
}

// Actor returns the authenticated caller set by JWTAuth.
func Actor(c *fiber.Ctx) (policy.Actor, error) {
	uid, ok := c.Locals(localUserID).(uuid.UUID)
	if !ok || uid == uuid.Nil {
		return policy.Actor{}, apperrors.Unauthorized("No token, authorization denied")
	}
	role, ok := c.Locals(localRole).(models.Role)
	if !ok {
		return policy.Actor{}, apperrors.Unauthorized("Token is not valid")
	}
	return policy.Actor{ID: uid, Role: role}, nil
}
