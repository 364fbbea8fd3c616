package service

import (
	"context"
	"errors"
	"testing"

	"go-farm-inventory/internal/model"
	"go-farm-inventory/internal/repository"
)

// lineage builds root <- middle <- leaf and returns their ids leaf first.
func lineage(t *testing.T, env *testEnv) []uint {
	t.Helper()
	ctx := context.Background()
	root := env.purchase(t, "Tomato seed", model.CategorySeed, 10)

	middle, err := env.batchSvc.Create(ctx, &CreateBatchRequest{
		BatchCode:     "TRAY-1",
		ProductID:     root.ProductID,
		ParentBatchID: &root.BatchID,
		SourceType:    model.SourceDerived,
		InitialQty:    dec("200"),
	}, "tester")
	if err != nil {
		t.Fatalf("create middle: %v", err)
	}
	leaf, err := env.batchSvc.Create(ctx, &CreateBatchRequest{
		BatchCode:     "FIELD-1",
		ProductID:     root.ProductID,
		ParentBatchID: &middle.ID,
		SourceType:    model.SourceDerived,
		InitialQty:    dec("180"),
	}, "tester")
	if err != nil {
		t.Fatalf("create leaf: %v", err)
	}
	return []uint{leaf.ID, middle.ID, root.BatchID}
}

func TestTraceWalksLeafToRoot(t *testing.T) {
	env := newTestEnv(t, OperationOptions{})
	ids := lineage(t, env)

	steps, err := env.batchSvc.Trace(context.Background(), ids[0])
	if err != nil {
		t.Fatalf("Trace: %v", err)
	}
	if len(steps) != len(ids) {
		t.Fatalf("expected %d steps, got %d", len(ids), len(steps))
	}
	for i, step := range steps {
		if step.ID != ids[i] || step.Level != i {
			t.Errorf("step %d: expected batch %d at level %d, got batch %d at level %d", i, ids[i], i, step.ID, step.Level)
		}
	}
	if steps[0].ParentBatchCode == nil || *steps[0].ParentBatchCode != "TRAY-1" {
		t.Errorf("expected parent code TRAY-1, got %v", steps[0].ParentBatchCode)
	}
}

func TestTraceOfRootIsItself(t *testing.T) {
	env := newTestEnv(t, OperationOptions{})
	root := env.purchase(t, "Seed", model.CategorySeed, 1)

	steps, err := env.batchSvc.Trace(context.Background(), root.BatchID)
	if err != nil {
		t.Fatalf("Trace: %v", err)
	}
	if len(steps) != 1 || steps[0].ID != root.BatchID {
		t.Errorf("expected only the root, got %+v", steps)
	}
}

func TestTraceFailsClosed(t *testing.T) {
	t.Run("cycle", func(t *testing.T) {
		env := newTestEnv(t, OperationOptions{})
		ids := lineage(t, env)
		// Close the loop behind the API's back.
		if err := env.db.Model(&model.Batch{}).Where("id = ?", ids[2]).Update("parent_batch_id", ids[0]).Error; err != nil {
			t.Fatalf("corrupt lineage: %v", err)
		}
		if _, err := env.batchSvc.Trace(context.Background(), ids[0]); !errors.Is(err, ErrLineageCorrupt) {
			t.Errorf("expected ErrLineageCorrupt, got %v", err)
		}
	})

	t.Run("missing parent", func(t *testing.T) {
		env := newTestEnv(t, OperationOptions{})
		ids := lineage(t, env)
		if err := env.db.Model(&model.Batch{}).Where("id = ?", ids[1]).Update("parent_batch_id", 9999).Error; err != nil {
			t.Fatalf("corrupt lineage: %v", err)
		}
		if _, err := env.batchSvc.Trace(context.Background(), ids[0]); !errors.Is(err, ErrLineageCorrupt) {
			t.Errorf("expected ErrLineageCorrupt, got %v", err)
		}
	})

	t.Run("too deep", func(t *testing.T) {
		env := newTestEnv(t, OperationOptions{})
		ids := lineage(t, env)
		shallow := NewBatchService(env.db, env.batches, repository.NewProductRepo(env.db),
			repository.NewSupplierRepo(env.db), env.lookups, nil, nil, 2)
		if _, err := shallow.Trace(context.Background(), ids[0]); !errors.Is(err, ErrLineageCorrupt) {
			t.Errorf("expected ErrLineageCorrupt, got %v", err)
		}
	})

	t.Run("unknown batch", func(t *testing.T) {
		env := newTestEnv(t, OperationOptions{})
		if _, err := env.batchSvc.Trace(context.Background(), 404); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestCreateBatchReferences(t *testing.T) {
	env := newTestEnv(t, OperationOptions{})
	ctx := context.Background()
	root := env.purchase(t, "Seed", model.CategorySeed, 1)
	missing := uint(9999)

	tests := []struct {
		name string
		req  CreateBatchRequest
	}{
		{"unknown product", CreateBatchRequest{ProductID: missing, SourceType: model.SourcePurchase, InitialQty: dec("1")}},
		{"unknown parent", CreateBatchRequest{ProductID: root.ProductID, ParentBatchID: &missing, SourceType: model.SourceDerived, InitialQty: dec("1")}},
		{"unknown supplier", CreateBatchRequest{ProductID: root.ProductID, SupplierID: &missing, SourceType: model.SourcePurchase, InitialQty: dec("1")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			if _, err := env.batchSvc.Create(ctx, &req, "tester"); !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
		})
	}
	if n := env.count(t, &model.Batch{}); n != 1 {
		t.Errorf("expected only the purchased batch, got %d", n)
	}
}

func TestCreateBatchValidation(t *testing.T) {
	env := newTestEnv(t, OperationOptions{})
	root := env.purchase(t, "Seed", model.CategorySeed, 1)

	tests := []struct {
		name string
		req  CreateBatchRequest
	}{
		{"zero quantity", CreateBatchRequest{ProductID: root.ProductID, SourceType: model.SourcePurchase}},
		{"bad source", CreateBatchRequest{ProductID: root.ProductID, SourceType: "gift", InitialQty: dec("1")}},
		{"bad date", CreateBatchRequest{ProductID: root.ProductID, SourceType: model.SourcePurchase, InitialQty: dec("1"), PurchaseDate: "tomorrow"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := env.batchSvc.Create(context.Background(), &req, "tester")
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Errorf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestListBatchesFilters(t *testing.T) {
	env := newTestEnv(t, OperationOptions{})
	ctx := context.Background()
	a := env.purchase(t, "Seed A", model.CategorySeed, 3)
	b := env.purchase(t, "Seed B", model.CategorySeed, 1)

	if _, err := env.operations.Record(ctx, &RecordOperationRequest{
		TypeCode:      model.OpSeeding,
		OperationDate: todayString(),
		Movements: []MovementRequest{
			{BatchID: b.BatchID, MovementType: model.MovementInput, Quantity: dec("1")},
		},
	}, "tester"); err != nil {
		t.Fatalf("Record: %v", err)
	}

	tests := []struct {
		name   string
		filter repository.BatchFilter
		want   int
	}{
		{"all", repository.BatchFilter{}, 2},
		{"by product", repository.BatchFilter{ProductID: a.ProductID}, 1},
		{"with stock", repository.BatchFilter{WithStock: true}, 1},
		{"product without stock", repository.BatchFilter{ProductID: b.ProductID, WithStock: true}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batches, err := env.batchSvc.List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(batches) != tt.want {
				t.Errorf("expected %d batches, got %d", tt.want, len(batches))
			}
		})
	}
}
