package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"go-farm-inventory/internal/model"
	"go-farm-inventory/internal/repository"
	"go-farm-inventory/pkg/database"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// testEnv wires every service against a fresh sqlite file.
type testEnv struct {
	db         *gorm.DB
	lookups    repository.LookupRepository
	batches    repository.BatchRepository
	seedlings  repository.SeedlingRepository
	products   ProductService
	batchSvc   BatchService
	suppliers  SupplierService
	plots      PlotService
	operations OperationService
	dashboard  DashboardService
	reports    ReportService
}

func newTestEnv(t *testing.T, opts OperationOptions) *testEnv {
	t.Helper()

	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "farm.db"), true)
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

	lookupRepo := repository.NewLookupRepo(db)
	if err := lookupRepo.SeedDefaults(); err != nil {
		t.Fatalf("seed lookups: %v", err)
	}

	productRepo := repository.NewProductRepo(db)
	batchRepo := repository.NewBatchRepo(db)
	supplierRepo := repository.NewSupplierRepo(db)
	plotRepo := repository.NewPlotRepo(db)
	operationRepo := repository.NewOperationRepo(db)
	seedlingRepo := repository.NewSeedlingRepo(db)
	harvestRepo := repository.NewHarvestRepo(db)

	codes := NewCodeAllocator(repository.NewCounterRepo())
	intake := NewBatchIntake(codes, batchRepo, seedlingRepo)

	return &testEnv{
		db:         db,
		lookups:    lookupRepo,
		batches:    batchRepo,
		seedlings:  seedlingRepo,
		products:   NewProductService(db, productRepo, batchRepo, seedlingRepo, operationRepo, supplierRepo, lookupRepo, codes, intake, nil),
		batchSvc:   NewBatchService(db, batchRepo, productRepo, supplierRepo, lookupRepo, intake, nil, 100),
		suppliers:  NewSupplierService(db, supplierRepo, codes),
		plots:      NewPlotService(plotRepo),
		operations: NewOperationService(db, operationRepo, lookupRepo, plotRepo, seedlingRepo, harvestRepo, NewLedger(batchRepo), nil, opts),
		dashboard:  NewDashboardService(repository.NewDashboardRepo(db), operationRepo, harvestRepo, lookupRepo, seedlingRepo),
		reports:    NewReportService(batchRepo, harvestRepo),
	}
}

func (e *testEnv) categoryID(t *testing.T, code string) *uint {
	t.Helper()
	category, err := e.lookups.CategoryByCode(e.db, code)
	if err != nil {
		t.Fatalf("category %s: %v", code, err)
	}
	return &category.ID
}

func (e *testEnv) unitID(t *testing.T, code string) uint {
	t.Helper()
	var unit model.Unit
	if err := e.db.Where("code = ?", code).First(&unit).Error; err != nil {
		t.Fatalf("unit %s: %v", code, err)
	}
	return unit.ID
}

func (e *testEnv) supplier(t *testing.T) uint {
	t.Helper()
	s, err := e.suppliers.Create(context.Background(), &CreateSupplierRequest{Name: "Agraria Rossi"}, "tester")
	if err != nil {
		t.Fatalf("create supplier: %v", err)
	}
	return s.ID
}

// purchase creates a product of the given category with one purchased batch.
func (e *testEnv) purchase(t *testing.T, name, category string, qty int64) *PurchaseResult {
	t.Helper()
	res, err := e.products.CreateWithPurchase(context.Background(), &PurchaseRequest{
		Name:       name,
		CategoryID: e.categoryID(t, category),
		SupplierID: e.supplier(t),
		Quantity:   decimal.NewFromInt(qty),
		UnitID:     e.unitID(t, "kg"),
	}, "tester")
	if err != nil {
		t.Fatalf("purchase %s: %v", name, err)
	}
	return res
}

func (e *testEnv) plot(t *testing.T, code string) uint {
	t.Helper()
	p, err := e.plots.Create(context.Background(), &CreatePlotRequest{Code: code, Name: "Plot " + code}, "tester")
	if err != nil {
		t.Fatalf("create plot: %v", err)
	}
	return p.ID
}

func (e *testEnv) stock(t *testing.T, batchID uint) decimal.Decimal {
	t.Helper()
	view, err := e.batches.FindView(context.Background(), batchID)
	if err != nil {
		t.Fatalf("find batch %d: %v", batchID, err)
	}
	return view.CurrentQty
}

func (e *testEnv) count(t *testing.T, table interface{}) int64 {
	t.Helper()
	var n int64
	if err := e.db.Model(table).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func todayString() string {
	return time.Now().UTC().Format("2006-01-02")
}

func daysAgo(n int) string {
	return time.Now().UTC().AddDate(0, 0, -n).Format("2006-01-02")
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func nullDec(v string) decimal.NullDecimal {
	return decimal.NewNullDecimal(dec(v))
}
