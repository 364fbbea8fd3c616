package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"strings"
	"time"

	"go-farm-inventory/internal/repository"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

type ReportService interface {
	StockWorkbook(ctx context.Context) ([]byte, error)
	HarvestWorkbook(ctx context.Context) ([]byte, error)
	BatchLabel(ctx context.Context, id uint) ([]byte, string, error)
}

type reportService struct {
	batches  repository.BatchRepository
	harvests repository.HarvestRepository
	now      func() time.Time
}

func NewReportService(batches repository.BatchRepository, harvests repository.HarvestRepository) ReportService {
	return &reportService{batches: batches, harvests: harvests, now: time.Now}
}

const reportSheet = "Sheet1"

// writeWorkbook lays out headings on row 1 and one row per record below.
func writeWorkbook(headings []string, rows [][]interface{}) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	for i, h := range headings {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(reportSheet, cell, h); err != nil {
			return nil, err
		}
	}
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(reportSheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func deref(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func (s *reportService) StockWorkbook(ctx context.Context) ([]byte, error) {
	batches, err := s.batches.List(ctx, repository.BatchFilter{})
	if err != nil {
		return nil, err
	}

	rows := make([][]interface{}, 0, len(batches))
	for _, b := range batches {
		initial, _ := b.InitialQty.Float64()
		current, _ := b.CurrentQty.Float64()
		rows = append(rows, []interface{}{
			b.BatchCode, b.SKU, b.ProductName, deref(b.SupplierName, ""),
			b.SourceType, deref(b.ParentBatchCode, ""),
			initial, current, deref(b.UnitCode, ""),
			formatDate(b.PurchaseDate), formatDate(b.ExpiryDate),
		})
	}
	return writeWorkbook([]string{
		"BatchCode", "SKU", "Product", "Supplier", "Source", "ParentBatch",
		"InitialQty", "CurrentQty", "Unit", "PurchaseDate", "ExpiryDate",
	}, rows)
}

func (s *reportService) HarvestWorkbook(ctx context.Context) ([]byte, error) {
	harvests, err := s.harvests.List(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([][]interface{}, 0, len(harvests))
	for _, h := range harvests {
		kg, _ := h.QuantityKg.Float64()
		date := h.HarvestDate
		rows = append(rows, []interface{}{
			formatDate(&date), deref(h.PlotName, ""), h.ProductName, kg,
			h.QualityGrade, h.Destination, h.OperationID,
		})
	}
	return writeWorkbook([]string{
		"Date", "Plot", "Product", "QuantityKg", "QualityGrade", "Destination", "OperationID",
	}, rows)
}

// BatchLabel renders a printable label with a Code128 barcode of the batch
// code. The second return value is a file name for the download.
func (s *reportService) BatchLabel(ctx context.Context, id uint) ([]byte, string, error) {
	b, err := s.batches.FindView(ctx, id)
	if err != nil {
		return nil, "", mapNotFound(err, "batch", id)
	}

	barcodePNG, err := renderCode128PNG(b.BatchCode, 1200, 260)
	if err != nil {
		return nil, "", err
	}

	pdf := gofpdf.New("L", "mm", "A6", "")
	pdf.SetTitle("Batch "+b.BatchCode, false)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	productName := strings.TrimSpace(b.ProductName)
	if productName == "" {
		productName = "Unnamed product"
	}

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, productName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, "SKU: "+b.SKU, "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, "Supplier: "+deref(b.SupplierName, "-"), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Qty: %s %s", b.InitialQty.String(), deref(b.UnitCode, "")), "", 1, "C", false, 0, "")
	if b.ExpiryDate != nil {
		pdf.CellFormat(0, 6, "Expiry: "+formatDate(b.ExpiryDate), "", 1, "C", false, 0, "")
	}
	pdf.CellFormat(0, 6, "Printed: "+s.now().Format("2006-01-02"), "", 1, "C", false, 0, "")

	opt := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	imageName := fmt.Sprintf("batch-barcode-%d", b.ID)
	pdf.RegisterImageOptionsReader(imageName, opt, bytes.NewReader(barcodePNG))
	pageW, _ := pdf.GetPageSize()
	imgW := 110.0
	imgH := 24.0
	x := (pageW - imgW) / 2
	y := 62.0
	pdf.ImageOptions(imageName, x, y, imgW, imgH, false, opt, 0, "")

	pdf.SetY(y + imgH + 2)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, b.BatchCode, "", 1, "C", false, 0, "")

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, "", err
	}
	return out.Bytes(), b.BatchCode + ".pdf", nil
}

func renderCode128PNG(value string, width, height int) ([]byte, error) {
	code, err := code128.Encode(value)
	if err != nil {
		return nil, err
	}
	scaled, err := barcode.Scale(code, width, height)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := png.Encode(&out, toNRGBA(scaled)); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// toNRGBA copies the barcode into a plain NRGBA image, which gofpdf's PNG
// reader accepts without an alpha-channel conversion.
func toNRGBA(src image.Image) *image.NRGBA {
	bounds := src.Bounds()
	dst := image.NewNRGBA(bounds)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Src)
	return dst
}
