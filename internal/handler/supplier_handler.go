package handler

import (
	"go-farm-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SupplierHandler struct {
	service service.SupplierService
}

func NewSupplierHandler(s service.SupplierService) *SupplierHandler {
	return &SupplierHandler{service: s}
}

func (h *SupplierHandler) List(c *fiber.Ctx) error {
	suppliers, err := h.service.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(suppliers)
}

func (h *SupplierHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	supplier, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(supplier)
}

func (h *SupplierHandler) Create(c *fiber.Ctx) error {
	var req service.CreateSupplierRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	supplier, err := h.service.Create(c.UserContext(), &req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":      supplier.ID,
		"code":    supplier.Code,
		"message": "Supplier created",
	})
}

func (h *SupplierHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req service.UpdateSupplierRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	supplier, err := h.service.Update(c.UserContext(), id, &req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Supplier updated", "data": supplier})
}
