package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"go-farm-inventory/internal/model"

	"github.com/xuri/excelize/v2"
)

func TestStockWorkbook(t *testing.T) {
	env := newTestEnv(t, OperationOptions{})
	res := env.purchase(t, "Tomato seed", model.CategorySeed, 4)

	data, err := env.reports.StockWorkbook(context.Background())
	if err != nil {
		t.Fatalf("StockWorkbook: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	header, err := f.GetCellValue(reportSheet, "A1")
	if err != nil || header != "BatchCode" {
		t.Errorf("expected BatchCode header, got %q (%v)", header, err)
	}
	code, err := f.GetCellValue(reportSheet, "A2")
	if err != nil || code != res.BatchCode {
		t.Errorf("expected %s in A2, got %q (%v)", res.BatchCode, code, err)
	}
	qty, err := f.GetCellValue(reportSheet, "H2")
	if err != nil || qty != "4" {
		t.Errorf("expected current qty 4, got %q (%v)", qty, err)
	}
}

func TestHarvestWorkbook(t *testing.T) {
	env := newTestEnv(t, OperationOptions{})
	if _, err := env.operations.RecordHarvest(context.Background(), &RecordHarvestRequest{
		OperationDate: "2026-07-01",
		QuantityKg:    dec("15"),
		ProductName:   "Melons",
	}, "tester"); err != nil {
		t.Fatalf("RecordHarvest: %v", err)
	}

	data, err := env.reports.HarvestWorkbook(context.Background())
	if err != nil {
		t.Fatalf("HarvestWorkbook: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(reportSheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header and one row, got %d rows", len(rows))
	}
	if rows[1][0] != "2026-07-01" || rows[1][2] != "Melons" {
		t.Errorf("unexpected harvest row: %v", rows[1])
	}
}

func TestBatchLabel(t *testing.T) {
	env := newTestEnv(t, OperationOptions{})
	res := env.purchase(t, "Tomato seed", model.CategorySeed, 4)

	pdf, name, err := env.reports.BatchLabel(context.Background(), res.BatchID)
	if err != nil {
		t.Fatalf("BatchLabel: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Errorf("expected a PDF document, got %q", pdf[:8])
	}
	if name != res.BatchCode+".pdf" {
		t.Errorf("expected file name %s.pdf, got %s", res.BatchCode, name)
	}

	if _, _, err := env.reports.BatchLabel(context.Background(), 404); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
