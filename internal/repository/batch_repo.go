package repository

import (
	"context"
	"time"

	"go-farm-inventory/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BatchView is a batch joined with product, supplier and unit labels.
type BatchView struct {
	ID              uint                `json:"id"`
	BatchCode       string              `json:"batch_code"`
	ProductID       uint                `json:"product_id"`
	SKU             string              `json:"sku"`
	ProductName     string              `json:"product_name"`
	CategoryCode    *string             `json:"category_code"`
	ParentBatchID   *uint               `json:"parent_batch_id"`
	ParentBatchCode *string             `json:"parent_batch_code"`
	SourceType      string              `json:"source_type"`
	SupplierID      *uint               `json:"supplier_id"`
	SupplierName    *string             `json:"supplier_name"`
	DocumentType    string              `json:"document_type"`
	DocumentNumber  string              `json:"document_number"`
	DocumentDate    *time.Time          `json:"document_date"`
	PurchaseDate    *time.Time          `json:"purchase_date"`
	PurchasePrice   decimal.NullDecimal `json:"purchase_price"`
	InitialQty      decimal.Decimal     `json:"initial_qty"`
	CurrentQty      decimal.Decimal     `json:"current_qty"`
	UnitID          *uint               `json:"unit_id"`
	UnitCode        *string             `json:"unit_code"`
	ExpiryDate      *time.Time          `json:"expiry_date"`
	Notes           string              `json:"notes"`
	CreatedAt       time.Time           `json:"created_at"`
}

// BatchFilter narrows a batch listing. Zero values disable a filter.
type BatchFilter struct {
	ProductID uint
	WithStock bool
}

type BatchRepository interface {
	Create(tx *gorm.DB, batch *model.Batch) error
	Exists(tx *gorm.DB, id uint) (bool, error)
	FindView(ctx context.Context, id uint) (*BatchView, error)
	List(ctx context.Context, filter BatchFilter) ([]BatchView, error)
	AdjustQty(tx *gorm.DB, id uint, delta decimal.Decimal) error
	IDsByProduct(tx *gorm.DB, productID uint) ([]uint, error)
	DetachChildren(tx *gorm.DB, parentIDs []uint) error
	DeleteByProduct(tx *gorm.DB, productID uint) error
}

type batchRepo struct {
	db *gorm.DB
}

func NewBatchRepo(db *gorm.DB) BatchRepository {
	return &batchRepo{db}
}

func (r *batchRepo) Create(tx *gorm.DB, batch *model.Batch) error {
	return tx.Omit("Product", "Supplier", "Unit").Create(batch).Error
}

func (r *batchRepo) Exists(tx *gorm.DB, id uint) (bool, error) {
	var count int64
	err := tx.Model(&model.Batch{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *batchRepo) viewQuery(db *gorm.DB) *gorm.DB {
	return db.Table("batches b").
		Select(`b.id, b.batch_code, b.product_id, p.sku, p.name AS product_name, c.code AS category_code,
			b.parent_batch_id, pb.batch_code AS parent_batch_code, b.source_type, b.supplier_id, s.name AS supplier_name,
			b.document_type, b.document_number, b.document_date, b.purchase_date, b.purchase_price,
			b.initial_qty, b.current_qty, b.unit_id, u.code AS unit_code, b.expiry_date, b.notes, b.created_at`).
		Joins("JOIN products p ON p.id = b.product_id").
		Joins("LEFT JOIN categories c ON c.id = p.category_id").
		Joins("LEFT JOIN suppliers s ON s.id = b.supplier_id").
		Joins("LEFT JOIN units u ON u.id = b.unit_id").
		Joins("LEFT JOIN batches pb ON pb.id = b.parent_batch_id")
}

func (r *batchRepo) FindView(ctx context.Context, id uint) (*BatchView, error) {
	var views []BatchView
	if err := r.viewQuery(r.db.WithContext(ctx)).Where("b.id = ?", id).Limit(1).Scan(&views).Error; err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &views[0], nil
}

func (r *batchRepo) List(ctx context.Context, filter BatchFilter) ([]BatchView, error) {
	q := r.viewQuery(r.db.WithContext(ctx))
	if filter.ProductID != 0 {
		q = q.Where("b.product_id = ?", filter.ProductID)
	}
	if filter.WithStock {
		q = q.Where("b.current_qty > 0")
	}

	var batches []BatchView
	err := q.Order("b.created_at DESC").Order("b.id DESC").Scan(&batches).Error
	return batches, err
}

// AdjustQty adds a signed delta to current_qty. The arithmetic runs in the
// database so concurrent adjustments on the same row serialize there.
func (r *batchRepo) AdjustQty(tx *gorm.DB, id uint, delta decimal.Decimal) error {
	res := tx.Model(&model.Batch{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"current_qty": gorm.Expr("current_qty + ?", delta),
			"updated_at":  time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *batchRepo) IDsByProduct(tx *gorm.DB, productID uint) ([]uint, error) {
	var ids []uint
	err := tx.Model(&model.Batch{}).Where("product_id = ?", productID).Pluck("id", &ids).Error
	return ids, err
}

// DetachChildren clears parent references pointing at the given batches.
func (r *batchRepo) DetachChildren(tx *gorm.DB, parentIDs []uint) error {
	if len(parentIDs) == 0 {
		return nil
	}
	return tx.Model(&model.Batch{}).
		Where("parent_batch_id IN ?", parentIDs).
		Update("parent_batch_id", nil).Error
}

func (r *batchRepo) DeleteByProduct(tx *gorm.DB, productID uint) error {
	return tx.Where("product_id = ?", productID).Delete(&model.Batch{}).Error
}
