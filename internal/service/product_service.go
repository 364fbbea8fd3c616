package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go-farm-inventory/internal/model"
	"go-farm-inventory/internal/repository"
	"go-farm-inventory/internal/ws"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductService interface {
	List(ctx context.Context) ([]repository.ProductView, error)
	Get(ctx context.Context, id uint) (*model.Product, error)
	WithStock(ctx context.Context) ([]repository.ProductStock, error)
	Create(ctx context.Context, req *CreateProductRequest, actor string) (*model.Product, error)
	Update(ctx context.Context, id uint, req *UpdateProductRequest, actor string) (*model.Product, error)
	Delete(ctx context.Context, id uint, actor string) error
	CreateWithPurchase(ctx context.Context, req *PurchaseRequest, actor string) (*PurchaseResult, error)
}

type CreateProductRequest struct {
	Name             string              `json:"name" validate:"required"`
	CategoryID       *uint               `json:"category_id"`
	StockUnitID      *uint               `json:"stock_unit_id"`
	UsageUnitID      *uint               `json:"usage_unit_id"`
	ConversionFactor decimal.NullDecimal `json:"conversion_factor"`
	Notes            string              `json:"notes"`
}

type UpdateProductRequest struct {
	Name             *string             `json:"name" validate:"omitempty,min=1"`
	CategoryID       *uint               `json:"category_id"`
	StockUnitID      *uint               `json:"stock_unit_id"`
	UsageUnitID      *uint               `json:"usage_unit_id"`
	ConversionFactor decimal.NullDecimal `json:"conversion_factor"`
	Notes            *string             `json:"notes"`
	Active           *bool               `json:"active"`
}

// PurchaseRequest creates a product together with its first purchased batch.
type PurchaseRequest struct {
	Name       string `json:"name" validate:"required"`
	CategoryID *uint  `json:"category_id"`
	Notes      string `json:"notes"`

	SupplierID     uint                `json:"supplier_id" validate:"required"`
	Quantity       decimal.Decimal     `json:"quantity"`
	UnitID         uint                `json:"unit_id" validate:"required"`
	BatchCode      string              `json:"batch_code"`
	DocumentType   string              `json:"document_type"`
	DocumentNumber string              `json:"document_number"`
	DocumentDate   string              `json:"document_date" validate:"omitempty,date"`
	PurchasePrice  decimal.NullDecimal `json:"purchase_price"`
	ExpiryDate     string              `json:"expiry_date" validate:"omitempty,date"`
}

type PurchaseResult struct {
	ProductID uint            `json:"product_id"`
	SKU       string          `json:"sku"`
	BatchID   uint            `json:"batch_id"`
	BatchCode string          `json:"batch_code"`
	Seedling  *model.Seedling `json:"seedling,omitempty"`
	Message   string          `json:"message"`
}

type productService struct {
	db        *gorm.DB
	products  repository.ProductRepository
	batches   repository.BatchRepository
	seedlings repository.SeedlingRepository
	movements repository.OperationRepository
	suppliers repository.SupplierRepository
	lookups   repository.LookupRepository
	codes     *CodeAllocator
	intake    *BatchIntake
	wsHub     *ws.Hub
	now       func() time.Time
}

func NewProductService(
	db *gorm.DB,
	products repository.ProductRepository,
	batches repository.BatchRepository,
	seedlings repository.SeedlingRepository,
	operations repository.OperationRepository,
	suppliers repository.SupplierRepository,
	lookups repository.LookupRepository,
	codes *CodeAllocator,
	intake *BatchIntake,
	hub *ws.Hub,
) ProductService {
	return &productService{
		db:        db,
		products:  products,
		batches:   batches,
		seedlings: seedlings,
		movements: operations,
		suppliers: suppliers,
		lookups:   lookups,
		codes:     codes,
		intake:    intake,
		wsHub:     hub,
		now:       time.Now,
	}
}

func (s *productService) List(ctx context.Context) ([]repository.ProductView, error) {
	return s.products.FindActive(ctx)
}

func (s *productService) Get(ctx context.Context, id uint) (*model.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, "product", id)
	}
	return product, nil
}

func (s *productService) WithStock(ctx context.Context) ([]repository.ProductStock, error) {
	return s.products.WithStock(ctx)
}

// categoryCode resolves the category of a new product; nil means uncategorized.
func (s *productService) categoryCode(tx *gorm.DB, categoryID *uint) (string, error) {
	if categoryID == nil {
		return "", nil
	}
	category, err := s.lookups.CategoryByID(tx, *categoryID)
	if err != nil {
		return "", mapNotFound(err, "category", *categoryID)
	}
	return category.Code, nil
}

func conversionFactor(v decimal.NullDecimal) (decimal.Decimal, error) {
	if !v.Valid || v.Decimal.IsZero() {
		return decimal.NewFromInt(1), nil
	}
	if v.Decimal.IsNegative() {
		return decimal.Zero, invalid("conversion_factor must be positive")
	}
	return v.Decimal, nil
}

func (s *productService) Create(ctx context.Context, req *CreateProductRequest, actor string) (*model.Product, error) {
	// 1. Validate request
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	factor, err := conversionFactor(req.ConversionFactor)
	if err != nil {
		return nil, err
	}

	product := &model.Product{
		Name:             strings.TrimSpace(req.Name),
		CategoryID:       req.CategoryID,
		StockUnitID:      req.StockUnitID,
		UsageUnitID:      req.UsageUnitID,
		ConversionFactor: factor,
		Notes:            req.Notes,
		Active:           true,
	}
	product.Stamp(actor)

	// 2. SKU allocation and insert commit together
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		code, err := s.categoryCode(tx, req.CategoryID)
		if err != nil {
			return err
		}
		if product.SKU, err = s.codes.ProductSKU(tx, code); err != nil {
			return err
		}
		return s.products.Create(tx, product)
	})
	if err != nil {
		logFailure("ProductService.Create", "create product", req, err)
		return nil, err
	}

	s.wsHub.Notify("product_created", fmt.Sprintf("Product %s created", product.SKU), product)
	return product, nil
}

func (s *productService) Update(ctx context.Context, id uint, req *UpdateProductRequest, actor string) (*model.Product, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, "product", id)
	}

	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.CategoryID != nil {
		product.CategoryID = req.CategoryID
	}
	if req.StockUnitID != nil {
		product.StockUnitID = req.StockUnitID
	}
	if req.UsageUnitID != nil {
		product.UsageUnitID = req.UsageUnitID
	}
	if req.ConversionFactor.Valid {
		if product.ConversionFactor, err = conversionFactor(req.ConversionFactor); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		product.Notes = *req.Notes
	}
	if req.Active != nil {
		product.Active = *req.Active
	}
	product.UpdatedBy = actor

	if err := s.products.Update(ctx, product); err != nil {
		logFailure("ProductService.Update", "update product", id, err)
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes the product with its batches, their movements and the
// seedlings bought with them. Batches derived from the removed ones lose
// their parent reference.
func (s *productService) Delete(ctx context.Context, id uint, actor string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. Lock product
		if _, err := s.products.Lock(tx, id); err != nil {
			return mapNotFound(err, "product", id)
		}

		// 2. Collect batches
		batchIDs, err := s.batches.IDsByProduct(tx, id)
		if err != nil {
			return err
		}

		// 3. Dependants first, then the rows they point at
		if err := s.movements.DeleteMovementsByBatches(tx, batchIDs); err != nil {
			return err
		}
		if err := s.seedlings.DeleteByBatches(tx, batchIDs); err != nil {
			return err
		}
		if err := s.batches.DetachChildren(tx, batchIDs); err != nil {
			return err
		}
		if err := s.batches.DeleteByProduct(tx, id); err != nil {
			return err
		}
		return s.products.Delete(tx, id)
	})
	if err != nil {
		logFailure("ProductService.Delete", "delete product", id, err)
		return err
	}

	s.wsHub.Notify("product_deleted", fmt.Sprintf("Product %d deleted by %s", id, actor), map[string]uint{"id": id})
	return nil
}

func (s *productService) CreateWithPurchase(ctx context.Context, req *PurchaseRequest, actor string) (*PurchaseResult, error) {
	// 1. Validate before any write
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if !req.Quantity.IsPositive() {
		return nil, invalid("quantity must be greater than zero")
	}
	documentDate, err := parseOptionalDate("document_date", req.DocumentDate)
	if err != nil {
		return nil, err
	}
	expiryDate, err := parseOptionalDate("expiry_date", req.ExpiryDate)
	if err != nil {
		return nil, err
	}
	purchaseDate := today(s.now())
	if documentDate != nil {
		purchaseDate = *documentDate
	}

	unitID := req.UnitID
	product := &model.Product{
		Name:             strings.TrimSpace(req.Name),
		CategoryID:       req.CategoryID,
		StockUnitID:      &unitID,
		UsageUnitID:      &unitID,
		ConversionFactor: decimal.NewFromInt(1),
		Notes:            req.Notes,
		Active:           true,
	}
	product.Stamp(actor)

	supplierID := req.SupplierID
	batch := &model.Batch{
		BatchCode:      strings.TrimSpace(req.BatchCode),
		SourceType:     model.SourcePurchase,
		SupplierID:     &supplierID,
		DocumentType:   req.DocumentType,
		DocumentNumber: req.DocumentNumber,
		DocumentDate:   documentDate,
		PurchaseDate:   &purchaseDate,
		PurchasePrice:  req.PurchasePrice,
		InitialQty:     req.Quantity,
		UnitID:         &unitID,
		ExpiryDate:     expiryDate,
	}
	batch.Stamp(actor)

	var seedling *model.Seedling

	// 2. Product, SKU, lot code, batch and seedling are all or nothing
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := s.suppliers.Exists(tx, req.SupplierID)
		if err != nil {
			return err
		}
		if !ok {
			return notFound("supplier", req.SupplierID)
		}

		code, err := s.categoryCode(tx, req.CategoryID)
		if err != nil {
			return err
		}
		if product.SKU, err = s.codes.ProductSKU(tx, code); err != nil {
			return err
		}
		if err := s.products.Create(tx, product); err != nil {
			return err
		}

		batch.ProductID = product.ID
		seedling, err = s.intake.Receive(tx, batch, product.Name, code)
		return err
	})
	if err != nil {
		logFailure("ProductService.CreateWithPurchase", "create product with purchase", req, err)
		return nil, err
	}

	s.wsHub.Notify("batch_created",
		fmt.Sprintf("%s received %s %s", batch.BatchCode, batch.InitialQty.String(), product.Name),
		batch)

	return &PurchaseResult{
		ProductID: product.ID,
		SKU:       product.SKU,
		BatchID:   batch.ID,
		BatchCode: batch.BatchCode,
		Seedling:  seedling,
		Message:   "Product and purchase recorded",
	}, nil
}
