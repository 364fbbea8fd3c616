package repository

import (
	"context"

	"go-farm-inventory/internal/model"

	"gorm.io/gorm"
)

type SupplierRepository interface {
	Create(tx *gorm.DB, supplier *model.Supplier) error
	FindAll(ctx context.Context) ([]model.Supplier, error)
	FindByID(ctx context.Context, id uint) (*model.Supplier, error)
	Exists(tx *gorm.DB, id uint) (bool, error)
	Update(ctx context.Context, id uint, fields map[string]interface{}) error
}

type supplierRepo struct {
	db *gorm.DB
}

func NewSupplierRepo(db *gorm.DB) SupplierRepository {
	return &supplierRepo{db}
}

func (r *supplierRepo) Create(tx *gorm.DB, supplier *model.Supplier) error {
	return tx.Create(supplier).Error
}

func (r *supplierRepo) FindAll(ctx context.Context) ([]model.Supplier, error) {
	var suppliers []model.Supplier
	err := r.db.WithContext(ctx).Order("name").Find(&suppliers).Error
	return suppliers, err
}

func (r *supplierRepo) FindByID(ctx context.Context, id uint) (*model.Supplier, error) {
	var supplier model.Supplier
	if err := r.db.WithContext(ctx).First(&supplier, id).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *supplierRepo) Exists(tx *gorm.DB, id uint) (bool, error) {
	var count int64
	err := tx.Model(&model.Supplier{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// Update writes only the given columns, leaving the rest untouched.
func (r *supplierRepo) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&model.Supplier{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
