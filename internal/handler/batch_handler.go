package handler

import (
	"go-farm-inventory/internal/repository"
	"go-farm-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type BatchHandler struct {
	service service.BatchService
	reports service.ReportService
}

func NewBatchHandler(s service.BatchService, reports service.ReportService) *BatchHandler {
	return &BatchHandler{service: s, reports: reports}
}

// GET /api/batches?product_id=&with_stock=true
func (h *BatchHandler) List(c *fiber.Ctx) error {
	productID, err := queryID(c, "product_id")
	if err != nil {
		return respondError(c, err)
	}
	filter := repository.BatchFilter{
		ProductID: productID,
		WithStock: c.QueryBool("with_stock"),
	}
	batches, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(batches)
}

// GET /api/batches/:id
func (h *BatchHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	batch, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(batch)
}

// POST /api/batches
func (h *BatchHandler) Create(c *fiber.Ctx) error {
	var req service.CreateBatchRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	batch, err := h.service.Create(c.UserContext(), &req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":         batch.ID,
		"batch_code": batch.BatchCode,
		"message":    "Batch created",
	})
}

// GET /api/batches/:id/trace
func (h *BatchHandler) Trace(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	steps, err := h.service.Trace(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(steps)
}

// GET /api/batches/:id/label
func (h *BatchHandler) Label(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	pdf, name, err := h.reports.BatchLabel(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+name+`"`)
	return c.Send(pdf)
}
