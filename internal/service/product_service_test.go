package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"go-farm-inventory/internal/model"

	"github.com/shopspring/decimal"
)

func TestPurchaseOfSeedlingsCreatesOneSeedling(t *testing.T) {
	env := newTestEnv(t, OperationOptions{})

	res := env.purchase(t, "Lettuce seedlings", model.CategorySeedling, 48)
	if res.Seedling == nil {
		t.Fatal("expected a seedling in the result")
	}
	if res.Seedling.AvailableQty != 48 || res.Seedling.Source != model.SeedlingFromPurchase {
		t.Errorf("unexpected seedling: %+v", res.Seedling)
	}
	if n := env.count(t, &model.Seedling{}); n != 1 {
		t.Errorf("expected exactly one seedling, got %d", n)
	}
}

func TestPurchaseOfOtherCategoriesCreatesNoSeedling(t *testing.T) {
	env := newTestEnv(t, OperationOptions{})

	res := env.purchase(t, "Tomato seed", model.CategorySeed, 2)
	if res.Seedling != nil {
		t.Errorf("expected no seedling, got %+v", res.Seedling)
	}
	if n := env.count(t, &model.Seedling{}); n != 0 {
		t.Errorf("expected no seedlings, got %d", n)
	}
}

func TestPurchaseAllocatesCodes(t *testing.T) {
	env := newTestEnv(t, OperationOptions{})
	year := time.Now().Year()

	first := env.purchase(t, "Tomato seed", model.CategorySeed, 2)
	second := env.purchase(t, "Onion seed", model.CategorySeed, 2)

	if want := fmt.Sprintf("SEM-%d-001", year); first.SKU != want {
		t.Errorf("expected SKU %s, got %s", want, first.SKU)
	}
	if want := fmt.Sprintf("SEM-%d-002", year); second.SKU != want {
		t.Errorf("expected SKU %s, got %s", want, second.SKU)
	}
	if want := fmt.Sprintf("LOT-%d-0002", year); second.BatchCode != want {
		t.Errorf("expected batch code %s, got %s", want, second.BatchCode)
	}

	batch, err := env.batchSvc.Get(context.Background(), first.BatchID)
	if err != nil {
		t.Fatalf("Get batch: %v", err)
	}
	if !batch.CurrentQty.Equal(batch.InitialQty) {
		t.Errorf("expected current = initial, got %s / %s", batch.CurrentQty, batch.InitialQty)
	}
	if batch.PurchaseDate == nil {
		t.Error("expected purchase date to default to today")
	}
}

func TestPurchaseValidation(t *testing.T) {
	env := newTestEnv(t, OperationOptions{})
	supplierID := env.supplier(t)
	unit := env.unitID(t, "kg")

	tests := []struct {
		name string
		req  PurchaseRequest
	}{
		{"missing name", PurchaseRequest{SupplierID: supplierID, Quantity: decimal.NewFromInt(1), UnitID: unit}},
		{"missing supplier", PurchaseRequest{Name: "X", Quantity: decimal.NewFromInt(1), UnitID: unit}},
		{"zero quantity", PurchaseRequest{Name: "X", SupplierID: supplierID, UnitID: unit}},
		{"missing unit", PurchaseRequest{Name: "X", SupplierID: supplierID, Quantity: decimal.NewFromInt(1)}},
		{"bad expiry", PurchaseRequest{Name: "X", SupplierID: supplierID, Quantity: decimal.NewFromInt(1), UnitID: unit, ExpiryDate: "2026-13-01"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := env.products.CreateWithPurchase(context.Background(), &req, "tester")
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
	if n := env.count(t, &model.Product{}); n != 0 {
		t.Errorf("expected no products, got %d", n)
	}
}

func TestPurchaseUnknownSupplierRollsBack(t *testing.T) {
	env := newTestEnv(t, OperationOptions{})

	_, err := env.products.CreateWithPurchase(context.Background(), &PurchaseRequest{
		Name:       "Orphan",
		SupplierID: 404,
		Quantity:   decimal.NewFromInt(1),
		UnitID:     env.unitID(t, "kg"),
	}, "tester")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if n := env.count(t, &model.Product{}); n != 0 {
		t.Errorf("expected no products, got %d", n)
	}
	if n := env.count(t, &model.Batch{}); n != 0 {
		t.Errorf("expected no batches, got %d", n)
	}
}

func TestPurchaseOfFractionalSeedlingsIsRejected(t *testing.T) {
	env := newTestEnv(t, OperationOptions{})

	_, err := env.products.CreateWithPurchase(context.Background(), &PurchaseRequest{
		Name:       "Pepper seedlings",
		CategoryID: env.categoryID(t, model.CategorySeedling),
		SupplierID: env.supplier(t),
		Quantity:   decimal.RequireFromString("2.5"),
		UnitID:     env.unitID(t, "kg"),
	}, "tester")
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected a validation error, got %v", err)
	}
	for _, table := range []interface{}{&model.Product{}, &model.Batch{}, &model.Seedling{}} {
		if n := env.count(t, table); n != 0 {
			t.Errorf("expected nothing stored in %T, got %d", table, n)
		}
	}
}

func TestCreateProductWithoutCategoryUsesGenericPrefix(t *testing.T) {
	env := newTestEnv(t, OperationOptions{})

	product, err := env.products.Create(context.Background(), &CreateProductRequest{Name: "Twine"}, "tester")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !strings.HasPrefix(product.SKU, model.GenericSKUPrefix+"-") {
		t.Errorf("expected generic prefix, got %s", product.SKU)
	}
	if !product.ConversionFactor.Equal(decimal.NewFromInt(1)) {
		t.Errorf("expected default conversion factor 1, got %s", product.ConversionFactor)
	}
}

func TestUpdateProduct(t *testing.T) {
	env := newTestEnv(t, OperationOptions{})
	ctx := context.Background()
	product, err := env.products.Create(ctx, &CreateProductRequest{Name: "Twine"}, "tester")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	name := "Jute twine"
	notes := "5 mm"
	updated, err := env.products.Update(ctx, product.ID, &UpdateProductRequest{
		Name:       &name,
		Notes:      &notes,
		CategoryID: env.categoryID(t, model.CategoryOther),
	}, "editor")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != name || updated.Notes != notes || updated.CategoryID == nil {
		t.Errorf("unexpected product after update: %+v", updated)
	}
	if updated.SKU != product.SKU {
		t.Errorf("SKU must not change, got %s", updated.SKU)
	}

	if _, err := env.products.Update(ctx, 999, &UpdateProductRequest{Name: &name}, "editor"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteProductCascades(t *testing.T) {
	env := newTestEnv(t, OperationOptions{})
	ctx := context.Background()
	seedlings := env.purchase(t, "Melon seedlings", model.CategorySeedling, 10)
	other := env.purchase(t, "Peat", model.CategorySubstrate, 10)

	// A batch of another product derived from the one being deleted.
	child, err := env.batchSvc.Create(ctx, &CreateBatchRequest{
		ProductID:     other.ProductID,
		ParentBatchID: &seedlings.BatchID,
		SourceType:    model.SourceDerived,
		InitialQty:    dec("1"),
	}, "tester")
	if err != nil {
		t.Fatalf("Create child batch: %v", err)
	}

	if _, err := env.operations.Record(ctx, &RecordOperationRequest{
		TypeCode:      model.OpWeeding,
		OperationDate: todayString(),
		Movements: []MovementRequest{
			{BatchID: seedlings.BatchID, MovementType: model.MovementInput, Quantity: dec("1")},
			{BatchID: other.BatchID, MovementType: model.MovementInput, Quantity: dec("1")},
		},
	}, "tester"); err != nil {
		t.Fatalf("Record: %v", err)
	}

	if err := env.products.Delete(ctx, seedlings.ProductID, "tester"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := env.products.Get(ctx, seedlings.ProductID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected product gone, got %v", err)
	}
	if _, err := env.batchSvc.Get(ctx, seedlings.BatchID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected batch gone, got %v", err)
	}
	if n := env.count(t, &model.Seedling{}); n != 0 {
		t.Errorf("expected seedlings removed, got %d", n)
	}
	if n := env.count(t, &model.OperationMovement{}); n != 1 {
		t.Errorf("expected only the other product's movement left, got %d", n)
	}

	view, err := env.batchSvc.Get(ctx, child.ID)
	if err != nil {
		t.Fatalf("Get child: %v", err)
	}
	if view.ParentBatchID != nil {
		t.Errorf("expected child detached, parent is %d", *view.ParentBatchID)
	}

	if err := env.products.Delete(ctx, seedlings.ProductID, "tester"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestProductsWithStock(t *testing.T) {
	env := newTestEnv(t, OperationOptions{})
	ctx := context.Background()
	stocked := env.purchase(t, "Seed A", model.CategorySeed, 5)
	empty := env.purchase(t, "Seed B", model.CategorySeed, 1)

	if _, err := env.operations.Record(ctx, &RecordOperationRequest{
		TypeCode:      model.OpSeeding,
		OperationDate: todayString(),
		Movements: []MovementRequest{
			{BatchID: empty.BatchID, MovementType: model.MovementInput, Quantity: dec("1")},
		},
	}, "tester"); err != nil {
		t.Fatalf("Record: %v", err)
	}

	products, err := env.products.WithStock(ctx)
	if err != nil {
		t.Fatalf("WithStock: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("expected 1 product with stock, got %d", len(products))
	}
	p := products[0]
	if p.ID != stocked.ProductID || !p.TotalStock.Equal(dec("5")) {
		t.Errorf("unexpected stock row: %+v", p)
	}
	if p.FirstBatchID == nil || *p.FirstBatchID != stocked.BatchID {
		t.Errorf("expected first batch %d, got %v", stocked.BatchID, p.FirstBatchID)
	}
}

func TestSupplierCodesAndUpdate(t *testing.T) {
	env := newTestEnv(t, OperationOptions{})
	ctx := context.Background()

	first, err := env.suppliers.Create(ctx, &CreateSupplierRequest{Name: "Vivai Bianchi"}, "tester")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	second, err := env.suppliers.Create(ctx, &CreateSupplierRequest{Name: "Consorzio Agrario"}, "tester")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if first.Code != "FOR-001" || second.Code != "FOR-002" {
		t.Errorf("unexpected codes %s, %s", first.Code, second.Code)
	}

	city := "Latina"
	updated, err := env.suppliers.Update(ctx, first.ID, &UpdateSupplierRequest{City: &city}, "editor")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.City != city || updated.Name != "Vivai Bianchi" {
		t.Errorf("unexpected supplier after update: %+v", updated)
	}

	if _, err := env.suppliers.Update(ctx, 999, &UpdateSupplierRequest{City: &city}, "editor"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	bad := "not-an-email"
	var vErr *ValidationError
	if _, err := env.suppliers.Update(ctx, first.ID, &UpdateSupplierRequest{Email: &bad}, "editor"); !errors.As(err, &vErr) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}
