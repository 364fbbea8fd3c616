package handler

import (
	"context"
	"fmt"
	"time"

	"go-farm-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	service service.ReportService
}

func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{service: s}
}

func (h *ReportHandler) sendWorkbook(c *fiber.Ctx, prefix string, build func(context.Context) ([]byte, error)) error {
	data, err := build(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	name := fmt.Sprintf("%s-%s.xlsx", prefix, time.Now().Format("20060102"))
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Send(data)
}

// GET /api/reports/stock.xlsx
func (h *ReportHandler) Stock(c *fiber.Ctx) error {
	return h.sendWorkbook(c, "stock", h.service.StockWorkbook)
}

// GET /api/reports/harvests.xlsx
func (h *ReportHandler) Harvests(c *fiber.Ctx) error {
	return h.sendWorkbook(c, "harvests", h.service.HarvestWorkbook)
}
