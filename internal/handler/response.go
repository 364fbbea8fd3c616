package handler

import (
	"errors"
	"strconv"

	"go-farm-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

// getUserID returns the authenticated user, or "system" when auth is off.
func getUserID(c *fiber.Ctx) string {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return "system"
	}
	return userID
}

// paramID reads the :id route parameter as a positive integer.
func paramID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, &service.ValidationError{Message: "Invalid ID"}
	}
	return uint(id), nil
}

// queryID reads an optional positive integer query parameter; 0 when absent.
func queryID(c *fiber.Ctx, key string) (uint, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, &service.ValidationError{Message: "Invalid " + key}
	}
	return uint(id), nil
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return &service.ValidationError{Message: "Invalid JSON"}
	}
	return nil
}

// respondError maps service errors onto HTTP status codes.
func respondError(c *fiber.Ctx, err error) error {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": vErr.Message})
	case errors.Is(err, service.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrLineageCorrupt):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
