package service

import (
	"fmt"
	"time"

	"go-farm-inventory/internal/metrics"
	"go-farm-inventory/internal/model"
	"go-farm-inventory/internal/repository"

	"gorm.io/gorm"
)

// FormatSKU renders a product code, e.g. SEM-2026-007.
func FormatSKU(prefix string, year int, n int64) string {
	return fmt.Sprintf("%s-%d-%03d", prefix, year, n)
}

// FormatLotCode renders a batch code, e.g. LOT-2026-0042.
func FormatLotCode(year int, n int64) string {
	return fmt.Sprintf("%s-%d-%04d", model.CounterLot, year, n)
}

// FormatSupplierCode renders a supplier code, e.g. FOR-003.
func FormatSupplierCode(n int64) string {
	return fmt.Sprintf("%s-%03d", model.CounterSupplier, n)
}

// CodeAllocator hands out human-readable codes. Every method runs inside the
// caller's transaction so the code and the row it labels commit together.
type CodeAllocator struct {
	counters repository.CounterRepository
	now      func() time.Time
}

func NewCodeAllocator(counters repository.CounterRepository) *CodeAllocator {
	return &CodeAllocator{counters: counters, now: time.Now}
}

func (a *CodeAllocator) next(tx *gorm.DB, prefix string) (int64, error) {
	n, err := a.counters.Next(tx, prefix)
	if err != nil {
		return 0, fmt.Errorf("allocate %s code: %w", prefix, err)
	}
	metrics.ObserveCode(prefix)
	return n, nil
}

// ProductSKU allocates the next SKU for a product in categoryCode.
func (a *CodeAllocator) ProductSKU(tx *gorm.DB, categoryCode string) (string, error) {
	prefix := model.SKUPrefix(categoryCode)
	n, err := a.next(tx, prefix)
	if err != nil {
		return "", err
	}
	return FormatSKU(prefix, a.now().Year(), n), nil
}

func (a *CodeAllocator) BatchCode(tx *gorm.DB) (string, error) {
	n, err := a.next(tx, model.CounterLot)
	if err != nil {
		return "", err
	}
	return FormatLotCode(a.now().Year(), n), nil
}

func (a *CodeAllocator) SupplierCode(tx *gorm.DB) (string, error) {
	n, err := a.next(tx, model.CounterSupplier)
	if err != nil {
		return "", err
	}
	return FormatSupplierCode(n), nil
}
