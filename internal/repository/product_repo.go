package repository

import (
	"context"

	"go-farm-inventory/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductView is a product joined with its category and unit codes.
type ProductView struct {
	ID               uint            `json:"id"`
	SKU              string          `json:"sku"`
	Name             string          `json:"name"`
	CategoryID       *uint           `json:"category_id"`
	CategoryCode     *string         `json:"category_code"`
	CategoryName     *string         `json:"category_name"`
	StockUnitID      *uint           `json:"stock_unit_id"`
	StockUnitCode    *string         `json:"stock_unit_code"`
	UsageUnitID      *uint           `json:"usage_unit_id"`
	UsageUnitCode    *string         `json:"usage_unit_code"`
	ConversionFactor decimal.Decimal `json:"conversion_factor"`
	Notes            string          `json:"notes"`
	Active           bool            `json:"active"`
}

// ProductStock is a product's positive stock summed over its batches.
// FirstBatchID is the oldest batch that still has stock.
type ProductStock struct {
	ID           uint            `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	CategoryID   *uint           `json:"category_id"`
	CategoryName *string         `json:"category_name"`
	TotalStock   decimal.Decimal `json:"total_stock"`
	UnitName     *string         `json:"unit_name"`
	BatchCount   int64           `json:"batch_count"`
	FirstBatchID *uint           `json:"first_batch_id"`
}

type ProductRepository interface {
	Create(tx *gorm.DB, product *model.Product) error
	FindActive(ctx context.Context) ([]ProductView, error)
	FindByID(ctx context.Context, id uint) (*model.Product, error)
	WithStock(ctx context.Context) ([]ProductStock, error)
	Update(ctx context.Context, product *model.Product) error
	Lock(tx *gorm.DB, id uint) (*model.Product, error)
	Delete(tx *gorm.DB, id uint) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(tx *gorm.DB, product *model.Product) error {
	return tx.Omit("Category", "StockUnit", "UsageUnit", "Batches").Create(product).Error
}

func (r *productRepo) FindActive(ctx context.Context) ([]ProductView, error) {
	var products []ProductView
	err := r.db.WithContext(ctx).Table("products p").
		Select(`p.id, p.sku, p.name, p.category_id, c.code AS category_code, c.name AS category_name,
			p.stock_unit_id, su.code AS stock_unit_code, p.usage_unit_id, uu.code AS usage_unit_code,
			p.conversion_factor, p.notes, p.active`).
		Joins("LEFT JOIN categories c ON c.id = p.category_id").
		Joins("LEFT JOIN units su ON su.id = p.stock_unit_id").
		Joins("LEFT JOIN units uu ON uu.id = p.usage_unit_id").
		Where("p.active = ?", true).
		Order("p.name").
		Scan(&products).Error
	return products, err
}

func (r *productRepo) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Preload("Category").Preload("StockUnit").Preload("UsageUnit").
		First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) WithStock(ctx context.Context) ([]ProductStock, error) {
	var rows []ProductStock
	err := r.db.WithContext(ctx).Table("products p").
		Select(`p.id, p.sku, p.name, p.category_id, c.name AS category_name,
			SUM(b.current_qty) AS total_stock, u.name AS unit_name,
			COUNT(b.id) AS batch_count, MIN(b.id) AS first_batch_id`).
		Joins("JOIN batches b ON b.product_id = p.id AND b.current_qty > 0").
		Joins("LEFT JOIN categories c ON c.id = p.category_id").
		Joins("LEFT JOIN units u ON u.id = p.stock_unit_id").
		Where("p.active = ?", true).
		Group("p.id, p.sku, p.name, p.category_id, c.name, u.name").
		Order("c.name").Order("p.name").
		Scan(&rows).Error
	return rows, err
}

func (r *productRepo) Update(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Model(product).
		Select("Name", "CategoryID", "StockUnitID", "UsageUnitID", "ConversionFactor", "Notes", "Active", "UpdatedBy", "UpdatedAt").
		Updates(product).Error
}

// Lock loads the product with a row lock for the rest of tx.
func (r *productRepo) Lock(tx *gorm.DB, id uint) (*model.Product, error) {
	var product model.Product
	if err := tx.Clauses(lockForUpdate).First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) Delete(tx *gorm.DB, id uint) error {
	return tx.Delete(&model.Product{}, id).Error
}
