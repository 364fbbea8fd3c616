package handler

import (
	"go-farm-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type OperationHandler struct {
	service service.OperationService
}

func NewOperationHandler(s service.OperationService) *OperationHandler {
	return &OperationHandler{service: s}
}

// GET /api/operations?plot_id=&type=&from=&to=
func (h *OperationHandler) List(c *fiber.Ctx) error {
	plotID, err := queryID(c, "plot_id")
	if err != nil {
		return respondError(c, err)
	}
	filter, err := service.OperationQuery{
		PlotID:   plotID,
		TypeCode: c.Query("type"),
		From:     c.Query("from"),
		To:       c.Query("to"),
	}.Filter()
	if err != nil {
		return respondError(c, err)
	}

	ops, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(ops)
}

// GET /api/operations/:id
func (h *OperationHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	op, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(op)
}

// POST /api/operations
func (h *OperationHandler) Record(c *fiber.Ctx) error {
	var req service.RecordOperationRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	result, err := h.service.Record(c.UserContext(), &req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// PUT /api/operations/:id
func (h *OperationHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req service.UpdateOperationRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	op, err := h.service.Update(c.UserContext(), id, &req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Operation updated", "data": op})
}

// DELETE /api/operations/:id reverses the stock movements first.
func (h *OperationHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.service.Delete(c.UserContext(), id, getUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Operation deleted"})
}

// GET /api/harvests
func (h *OperationHandler) ListHarvests(c *fiber.Ctx) error {
	harvests, err := h.service.Harvests(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(harvests)
}

// POST /api/harvests
func (h *OperationHandler) RecordHarvest(c *fiber.Ctx) error {
	var req service.RecordHarvestRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	result, err := h.service.RecordHarvest(c.UserContext(), &req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}
