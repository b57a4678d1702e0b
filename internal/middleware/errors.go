package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Windi-Fikriyansyah/workly_be/internal/apperrors"
)

// ErrorHandler renders every error returned by a handler as
// {"success": false, "message": ..., "errors": ...}.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{
				"success": false,
				"message": fe.Message,
			})
		}

		appErr := apperrors.As(err)
		if appErr.Status >= fiber.StatusInternalServerError {
			log.Error("request failed",
				zap.Error(err),
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
			)
		}

		body := fiber.Map{
			"success": false,
			"message": appErr.Message,
		}
		if len(appErr.Fields) > 0 {
			body["errors"] = appErr.Fields
		}
		return c.Status(appErr.Status).JSON(body)
	}
}
