package repository

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"go-farm-inventory/internal/model"
	"go-farm-inventory/pkg/database"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "repo.db"), true)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	if err := model.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := NewLookupRepo(db).SeedDefaults(); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return db
}

func TestCounterSequential(t *testing.T) {
	db := openTestDB(t)
	counters := NewCounterRepo()

	for want := int64(1); want <= 3; want++ {
		var got int64
		err := db.Transaction(func(tx *gorm.DB) error {
			var err error
			got, err = counters.Next(tx, model.CounterLot)
			return err
		})
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if got != want {
			t.Errorf("expected %d, got %d", want, got)
		}
	}

	// Prefixes count independently.
	var other int64
	if err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		other, err = counters.Next(tx, model.CounterSupplier)
		return err
	}); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if other != 1 {
		t.Errorf("expected a fresh sequence for %s, got %d", model.CounterSupplier, other)
	}
}

func TestCounterConcurrentAllocationsAreDistinct(t *testing.T) {
	db := openTestDB(t)
	counters := NewCounterRepo()

	const workers = 20
	results := make(chan int64, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := db.Transaction(func(tx *gorm.DB) error {
				n, err := counters.Next(tx, "SEM")
				if err != nil {
					return err
				}
				results <- n
				return nil
			})
			if err != nil {
				t.Errorf("Next: %v", err)
			}
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[int64]bool)
	for n := range results {
		if seen[n] {
			t.Errorf("number %d handed out twice", n)
		}
		seen[n] = true
	}
	if len(seen) != workers {
		t.Errorf("expected %d distinct numbers, got %d", workers, len(seen))
	}
}

func TestCounterRollbackLeavesGap(t *testing.T) {
	db := openTestDB(t)
	counters := NewCounterRepo()
	rollback := errors.New("rollback")

	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := counters.Next(tx, model.CounterLot); err != nil {
			return err
		}
		return rollback
	})
	if !errors.Is(err, rollback) {
		t.Fatalf("expected rollback error, got %v", err)
	}

	var n int64
	if err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		n, err = counters.Next(tx, model.CounterLot)
		return err
	}); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if n != 1 {
		t.Errorf("expected rolled back allocation to be discarded, got %d", n)
	}
}

func createBatch(t *testing.T, db *gorm.DB, code string, qty int64) *model.Batch {
	t.Helper()
	product := &model.Product{SKU: "SKU-" + code, Name: code, ConversionFactor: decimal.NewFromInt(1), Active: true}
	if err := NewProductRepo(db).Create(db, product); err != nil {
		t.Fatalf("create product: %v", err)
	}
	batch := &model.Batch{
		BatchCode:  code,
		ProductID:  product.ID,
		SourceType: model.SourcePurchase,
		InitialQty: decimal.NewFromInt(qty),
		CurrentQty: decimal.NewFromInt(qty),
	}
	if err := NewBatchRepo(db).Create(db, batch); err != nil {
		t.Fatalf("create batch: %v", err)
	}
	return batch
}

func TestAdjustQty(t *testing.T) {
	db := openTestDB(t)
	batches := NewBatchRepo(db)
	batch := createBatch(t, db, "LOT-A", 10)

	if err := batches.AdjustQty(db, batch.ID, decimal.RequireFromString("-12.5")); err != nil {
		t.Fatalf("AdjustQty: %v", err)
	}
	view, err := batches.FindView(context.Background(), batch.ID)
	if err != nil {
		t.Fatalf("FindView: %v", err)
	}
	if !view.CurrentQty.Equal(decimal.RequireFromString("-2.5")) {
		t.Errorf("expected -2.5, got %s", view.CurrentQty)
	}
	if !view.InitialQty.Equal(decimal.NewFromInt(10)) {
		t.Errorf("initial qty must not change, got %s", view.InitialQty)
	}

	if err := batches.AdjustQty(db, 9999, decimal.NewFromInt(1)); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound, got %v", err)
	}
}

// Concurrent adjustments of one batch must all land: the increment happens in
// the UPDATE statement, never as read-modify-write in Go.
func TestAdjustQtyConcurrentOnOneBatch(t *testing.T) {
	db := openTestDB(t)
	batches := NewBatchRepo(db)
	batch := createBatch(t, db, "LOT-C", 100)

	const workers = 25
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := db.Transaction(func(tx *gorm.DB) error {
				return batches.AdjustQty(tx, batch.ID, decimal.NewFromInt(-1))
			})
			if err != nil {
				t.Errorf("AdjustQty: %v", err)
			}
		}()
	}
	wg.Wait()

	view, err := batches.FindView(context.Background(), batch.ID)
	if err != nil {
		t.Fatalf("FindView: %v", err)
	}
	if want := decimal.NewFromInt(100 - workers); !view.CurrentQty.Equal(want) {
		t.Errorf("expected %s after %d concurrent adjustments, got %s", want, workers, view.CurrentQty)
	}
}

func TestSeedlingConsumeIsConditional(t *testing.T) {
	db := openTestDB(t)
	seedlings := NewSeedlingRepo(db)
	s := &model.Seedling{Name: "Lettuce", Source: model.SeedlingFromPurchase, ProducedQty: 5, AvailableQty: 5}
	if err := seedlings.Create(db, s); err != nil {
		t.Fatalf("Create: %v", err)
	}

	tests := []struct {
		qty       int
		applied   bool
		available int
	}{
		{8, false, 5},
		{3, true, 2},
		{2, true, 0},
		{1, false, 0},
	}
	for _, tt := range tests {
		applied, err := seedlings.Consume(db, s.ID, tt.qty)
		if err != nil {
			t.Fatalf("Consume(%d): %v", tt.qty, err)
		}
		if applied != tt.applied {
			t.Errorf("Consume(%d): expected applied=%v", tt.qty, tt.applied)
		}
		got, err := seedlings.FindByID(db, s.ID)
		if err != nil {
			t.Fatalf("FindByID: %v", err)
		}
		if got.AvailableQty != tt.available {
			t.Errorf("after Consume(%d): expected %d available, got %d", tt.qty, tt.available, got.AvailableQty)
		}
	}

	available, err := seedlings.FindAvailable(context.Background())
	if err != nil {
		t.Fatalf("FindAvailable: %v", err)
	}
	if len(available) != 0 {
		t.Errorf("expected no available seedlings, got %d", len(available))
	}
}

func TestSeedlingRestore(t *testing.T) {
	db := openTestDB(t)
	seedlings := NewSeedlingRepo(db)
	s := &model.Seedling{Name: "Leek", Source: model.SeedlingFromPurchase, ProducedQty: 10, AvailableQty: 4}
	if err := seedlings.Create(db, s); err != nil {
		t.Fatalf("Create: %v", err)
	}

	restored, err := seedlings.Restore(db, s.ID, 6)
	if err != nil || !restored {
		t.Fatalf("Restore: restored=%v err=%v", restored, err)
	}
	got, err := seedlings.FindByID(db, s.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.AvailableQty != 10 {
		t.Errorf("expected 10 available, got %d", got.AvailableQty)
	}

	restored, err = seedlings.Restore(db, 9999, 6)
	if err != nil {
		t.Fatalf("Restore missing: %v", err)
	}
	if restored {
		t.Error("expected a missing seedling to report nothing restored")
	}
}

func TestAddPlotsIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	ops := NewOperationRepo(db)
	plots := NewPlotRepo(db)
	lookups := NewLookupRepo(db)
	ctx := context.Background()

	plot := &model.Plot{Code: "P1", Name: "Orchard", Active: true}
	if err := plots.Create(ctx, plot); err != nil {
		t.Fatalf("create plot: %v", err)
	}
	opType, err := lookups.OperationTypeByCode(db, model.OpPruning)
	if err != nil {
		t.Fatalf("operation type: %v", err)
	}
	op := &model.Operation{OperationTypeID: opType.ID, OperationDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}
	if err := ops.Create(db, op); err != nil {
		t.Fatalf("create operation: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := ops.AddPlots(db, op.ID, []uint{plot.ID}); err != nil {
			t.Fatalf("AddPlots run %d: %v", i+1, err)
		}
	}
	var n int64
	if err := db.Model(&model.OperationPlot{}).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("expected one association, got %d", n)
	}
}
