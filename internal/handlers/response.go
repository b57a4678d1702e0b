package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/workly_be/internal/apperrors"
	"github.com/Windi-Fikriyansyah/workly_be/internal/utils"
)

func ok(c *fiber.Ctx, status int, message string, data interface{}) error {
	body := fiber.Map{"success": true}
	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
	}
	return c.Status(status).JSON(body)
}

func paged(c *fiber.Ctx, data interface{}, meta utils.PageMeta) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
		"meta":    meta,
	})
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.Validation("Invalid request body")
	}
	return nil
}

func paramUUID(c *fiber.Ctx, name, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperrors.Validation("Invalid " + what + " id")
	}
	return id, nil
}
