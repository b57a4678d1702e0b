package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/workly_be/internal/apperrors"
	"github.com/Windi-Fikriyansyah/workly_be/internal/utils"
)

const TokenCookie = "wm_token"

// tokenFrom prefers an Authorization bearer token and falls back to the session cookie.
func tokenFrom(c *fiber.Ctx) string {
	if h := c.Get(fiber.HeaderAuthorization); h != "" {
		if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
			return strings.TrimSpace(h[7:])
		}
	}
	return c.Cookies(TokenCookie)
}

// JWTAuth verifies the token and stores the caller's id and role in locals.
func JWTAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := tokenFrom(c)
		if tokenStr == "" {
			return apperrors.Unauthorized("No token, authorization denied")
		}

		uid, role, err := utils.ParseJWT(secret, tokenStr)
		if err != nil {
			return apperrors.Unauthorized("Token is not valid")
		}

		setActor(c, uid, role)
		return c.Next()
	}
}
