package handler

import (
	"go-farm-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type PlotHandler struct {
	service service.PlotService
}

func NewPlotHandler(s service.PlotService) *PlotHandler {
	return &PlotHandler{service: s}
}

// GET /api/plots lists active plots only.
func (h *PlotHandler) List(c *fiber.Ctx) error {
	plots, err := h.service.ListActive(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(plots)
}

func (h *PlotHandler) Create(c *fiber.Ctx) error {
	var req service.CreatePlotRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	plot, err := h.service.Create(c.UserContext(), &req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": plot.ID, "message": "Plot created"})
}
