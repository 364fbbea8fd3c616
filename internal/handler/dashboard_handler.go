package handler

import (
	"go-farm-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetDashboard returns stock by category, the latest operations and the
// harvest total of the last 30 days.
func (h *DashboardHandler) GetDashboard(c *fiber.Ctx) error {
	data, err := h.service.GetDashboard(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(data)
}

func (h *DashboardHandler) Categories(c *fiber.Ctx) error {
	categories, err := h.service.Categories(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(categories)
}

func (h *DashboardHandler) Units(c *fiber.Ctx) error {
	units, err := h.service.Units(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(units)
}

func (h *DashboardHandler) OperationTypes(c *fiber.Ctx) error {
	types, err := h.service.OperationTypes(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(types)
}

func (h *DashboardHandler) SeedlingsAvailable(c *fiber.Ctx) error {
	seedlings, err := h.service.SeedlingsAvailable(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(seedlings)
}
