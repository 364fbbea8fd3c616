package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-farm-inventory/internal/model"
	"go-farm-inventory/internal/repository"
	"go-farm-inventory/internal/ws"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type BatchService interface {
	List(ctx context.Context, filter repository.BatchFilter) ([]repository.BatchView, error)
	Get(ctx context.Context, id uint) (*repository.BatchView, error)
	Create(ctx context.Context, req *CreateBatchRequest, actor string) (*model.Batch, error)
	Trace(ctx context.Context, id uint) ([]TraceStep, error)
}

type CreateBatchRequest struct {
	BatchCode      string              `json:"batch_code" validate:"max=50"`
	ProductID      uint                `json:"product_id" validate:"required"`
	ParentBatchID  *uint               `json:"parent_batch_id"`
	SourceType     string              `json:"source_type" validate:"required,oneof=purchase derived"`
	SupplierID     *uint               `json:"supplier_id"`
	DocumentType   string              `json:"document_type"`
	DocumentNumber string              `json:"document_number"`
	DocumentDate   string              `json:"document_date" validate:"omitempty,date"`
	PurchaseDate   string              `json:"purchase_date" validate:"omitempty,date"`
	PurchasePrice  decimal.NullDecimal `json:"purchase_price"`
	InitialQty     decimal.Decimal     `json:"initial_qty"`
	UnitID         *uint               `json:"unit_id"`
	ExpiryDate     string              `json:"expiry_date" validate:"omitempty,date"`
	Notes          string              `json:"notes"`
}

// TraceStep is one batch of a lineage; level 0 is the batch asked for.
type TraceStep struct {
	Level int `json:"level"`
	repository.BatchView
}

type batchService struct {
	db        *gorm.DB
	batches   repository.BatchRepository
	products  repository.ProductRepository
	suppliers repository.SupplierRepository
	lookups   repository.LookupRepository
	intake    *BatchIntake
	wsHub     *ws.Hub
	maxDepth  int
	now       func() time.Time
}

func NewBatchService(
	db *gorm.DB,
	batches repository.BatchRepository,
	products repository.ProductRepository,
	suppliers repository.SupplierRepository,
	lookups repository.LookupRepository,
	intake *BatchIntake,
	hub *ws.Hub,
	maxDepth int,
) BatchService {
	if maxDepth <= 0 {
		maxDepth = 100
	}
	return &batchService{
		db:        db,
		batches:   batches,
		products:  products,
		suppliers: suppliers,
		lookups:   lookups,
		intake:    intake,
		wsHub:     hub,
		maxDepth:  maxDepth,
		now:       time.Now,
	}
}

func (s *batchService) List(ctx context.Context, filter repository.BatchFilter) ([]repository.BatchView, error) {
	return s.batches.List(ctx, filter)
}

func (s *batchService) Get(ctx context.Context, id uint) (*repository.BatchView, error) {
	view, err := s.batches.FindView(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, "batch", id)
	}
	return view, nil
}

func (s *batchService) Create(ctx context.Context, req *CreateBatchRequest, actor string) (*model.Batch, error) {
	// 1. Validate before any write
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if !req.InitialQty.IsPositive() {
		return nil, invalid("initial_qty must be greater than zero")
	}
	documentDate, err := parseOptionalDate("document_date", req.DocumentDate)
	if err != nil {
		return nil, err
	}
	purchaseDate, err := parseOptionalDate("purchase_date", req.PurchaseDate)
	if err != nil {
		return nil, err
	}
	expiryDate, err := parseOptionalDate("expiry_date", req.ExpiryDate)
	if err != nil {
		return nil, err
	}
	if purchaseDate == nil && req.SourceType == model.SourcePurchase {
		d := today(s.now())
		if documentDate != nil {
			d = *documentDate
		}
		purchaseDate = &d
	}

	batch := &model.Batch{
		BatchCode:      strings.TrimSpace(req.BatchCode),
		ProductID:      req.ProductID,
		ParentBatchID:  req.ParentBatchID,
		SourceType:     req.SourceType,
		SupplierID:     req.SupplierID,
		DocumentType:   req.DocumentType,
		DocumentNumber: req.DocumentNumber,
		DocumentDate:   documentDate,
		PurchaseDate:   purchaseDate,
		PurchasePrice:  req.PurchasePrice,
		InitialQty:     req.InitialQty,
		UnitID:         req.UnitID,
		ExpiryDate:     expiryDate,
		Notes:          req.Notes,
	}
	batch.Stamp(actor)

	var product *model.Product
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 2. References must exist; a parent that exists cannot close a cycle
		var err error
		if product, err = s.products.Lock(tx, req.ProductID); err != nil {
			return mapNotFound(err, "product", req.ProductID)
		}
		if req.ParentBatchID != nil {
			ok, err := s.batches.Exists(tx, *req.ParentBatchID)
			if err != nil {
				return err
			}
			if !ok {
				return notFound("parent batch", *req.ParentBatchID)
			}
		}
		if req.SupplierID != nil {
			ok, err := s.suppliers.Exists(tx, *req.SupplierID)
			if err != nil {
				return err
			}
			if !ok {
				return notFound("supplier", *req.SupplierID)
			}
		}

		// 3. Insert batch and, for seedlings, the seedling stock
		categoryCode := ""
		if product.CategoryID != nil {
			category, err := s.lookups.CategoryByID(tx, *product.CategoryID)
			if err != nil {
				return err
			}
			categoryCode = category.Code
		}
		_, err = s.intake.Receive(tx, batch, product.Name, categoryCode)
		return err
	})
	if err != nil {
		logFailure("BatchService.Create", "create batch", req, err)
		return nil, err
	}

	s.wsHub.Notify("batch_created",
		fmt.Sprintf("%s received %s %s", batch.BatchCode, batch.InitialQty.String(), product.Name),
		batch)
	return batch, nil
}

// Trace follows parent links from id up to the root batch. The walk keeps a
// visited set and a depth cap, so corrupt data fails instead of looping.
func (s *batchService) Trace(ctx context.Context, id uint) ([]TraceStep, error) {
	visited := make(map[uint]bool)
	var chain []TraceStep

	next := &id
	for level := 0; next != nil; level++ {
		current := *next
		if level >= s.maxDepth {
			return nil, fmt.Errorf("%w: more than %d ancestors above batch %d", ErrLineageCorrupt, s.maxDepth, id)
		}
		if visited[current] {
			return nil, fmt.Errorf("%w: batch %d appears twice in the lineage of batch %d", ErrLineageCorrupt, current, id)
		}
		visited[current] = true

		view, err := s.batches.FindView(ctx, current)
		if err != nil {
			if level == 0 {
				return nil, mapNotFound(err, "batch", id)
			}
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: parent batch %d is missing", ErrLineageCorrupt, current)
			}
			return nil, err
		}

		chain = append(chain, TraceStep{Level: level, BatchView: *view})
		next = view.ParentBatchID
	}
	return chain, nil
}
