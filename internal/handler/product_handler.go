package handler

import (
	"go-farm-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	service service.ProductService
}

func NewProductHandler(s service.ProductService) *ProductHandler {
	return &ProductHandler{service: s}
}

// GET /api/products
func (h *ProductHandler) List(c *fiber.Ctx) error {
	products, err := h.service.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// GET /api/products/:id
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	product, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// GET /api/products-with-stock
func (h *ProductHandler) WithStock(c *fiber.Ctx) error {
	products, err := h.service.WithStock(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// POST /api/products
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var req service.CreateProductRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	product, err := h.service.Create(c.UserContext(), &req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":      product.ID,
		"sku":     product.SKU,
		"message": "Product created",
	})
}

// PUT /api/products/:id
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req service.UpdateProductRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	product, err := h.service.Update(c.UserContext(), id, &req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": product})
}

// DELETE /api/products/:id removes the product with its batches and ledger lines.
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.service.Delete(c.UserContext(), id, getUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

// POST /api/products/with-purchase
func (h *ProductHandler) CreateWithPurchase(c *fiber.Ctx) error {
	var req service.PurchaseRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	result, err := h.service.CreateWithPurchase(c.UserContext(), &req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}
