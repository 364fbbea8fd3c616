package repository

import (
	"context"

	"go-farm-inventory/internal/model"

	"gorm.io/gorm"
)

type SeedlingRepository interface {
	Create(tx *gorm.DB, seedling *model.Seedling) error
	FindAvailable(ctx context.Context) ([]model.Seedling, error)
	FindByID(tx *gorm.DB, id uint) (*model.Seedling, error)
	Consume(tx *gorm.DB, id uint, qty int) (bool, error)
	Restore(tx *gorm.DB, id uint, qty int) (bool, error)
	DeleteByOperation(tx *gorm.DB, operationID uint) error
	DeleteByBatches(tx *gorm.DB, batchIDs []uint) error
}

type seedlingRepo struct {
	db *gorm.DB
}

func NewSeedlingRepo(db *gorm.DB) SeedlingRepository {
	return &seedlingRepo{db}
}

func (r *seedlingRepo) Create(tx *gorm.DB, seedling *model.Seedling) error {
	return tx.Create(seedling).Error
}

func (r *seedlingRepo) FindAvailable(ctx context.Context) ([]model.Seedling, error) {
	var seedlings []model.Seedling
	err := r.db.WithContext(ctx).
		Where("available_qty > 0").
		Order("created_at DESC").Order("id DESC").
		Find(&seedlings).Error
	return seedlings, err
}

func (r *seedlingRepo) FindByID(tx *gorm.DB, id uint) (*model.Seedling, error) {
	var seedling model.Seedling
	if err := tx.First(&seedling, id).Error; err != nil {
		return nil, err
	}
	return &seedling, nil
}

// Consume takes qty seedlings only if that many are available, in one
// conditional UPDATE. It reports whether the decrement happened.
func (r *seedlingRepo) Consume(tx *gorm.DB, id uint, qty int) (bool, error) {
	res := tx.Model(&model.Seedling{}).
		Where("id = ? AND available_qty >= ?", id, qty).
		Update("available_qty", gorm.Expr("available_qty - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// Restore gives qty back to the seedling. It reports false when the seedling
// no longer exists.
func (r *seedlingRepo) Restore(tx *gorm.DB, id uint, qty int) (bool, error) {
	result := tx.Model(&model.Seedling{}).
		Where("id = ?", id).
		Update("available_qty", gorm.Expr("available_qty + ?", qty))
	return result.RowsAffected == 1, result.Error
}

func (r *seedlingRepo) DeleteByOperation(tx *gorm.DB, operationID uint) error {
	return tx.Where("operation_id = ?", operationID).Delete(&model.Seedling{}).Error
}

func (r *seedlingRepo) DeleteByBatches(tx *gorm.DB, batchIDs []uint) error {
	if len(batchIDs) == 0 {
		return nil
	}
	return tx.Where("batch_id IN ?", batchIDs).Delete(&model.Seedling{}).Error
}
