package repository

import (
	"context"

	"go-farm-inventory/internal/model"

	"gorm.io/gorm"
)

// LookupRepository serves the fixed vocabularies: categories, units and
// operation types.
type LookupRepository interface {
	Categories(ctx context.Context) ([]model.Category, error)
	Units(ctx context.Context) ([]model.Unit, error)
	OperationTypes(ctx context.Context) ([]model.OperationType, error)
	CategoryByID(tx *gorm.DB, id uint) (*model.Category, error)
	CategoryByCode(tx *gorm.DB, code string) (*model.Category, error)
	OperationTypeByCode(tx *gorm.DB, code string) (*model.OperationType, error)
	SeedDefaults() error
}

type lookupRepo struct {
	db *gorm.DB
}

func NewLookupRepo(db *gorm.DB) LookupRepository {
	return &lookupRepo{db: db}
}

func (r *lookupRepo) Categories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	err := r.db.WithContext(ctx).Order("name").Find(&categories).Error
	return categories, err
}

func (r *lookupRepo) Units(ctx context.Context) ([]model.Unit, error) {
	var units []model.Unit
	err := r.db.WithContext(ctx).Order("type").Order("name").Find(&units).Error
	return units, err
}

func (r *lookupRepo) OperationTypes(ctx context.Context) ([]model.OperationType, error) {
	var types []model.OperationType
	err := r.db.WithContext(ctx).Order("name").Find(&types).Error
	return types, err
}

func (r *lookupRepo) CategoryByID(tx *gorm.DB, id uint) (*model.Category, error) {
	var category model.Category
	if err := tx.First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *lookupRepo) CategoryByCode(tx *gorm.DB, code string) (*model.Category, error) {
	var category model.Category
	if err := tx.Where("code = ?", code).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *lookupRepo) OperationTypeByCode(tx *gorm.DB, code string) (*model.OperationType, error) {
	var opType model.OperationType
	if err := tx.Where("code = ?", code).First(&opType).Error; err != nil {
		return nil, err
	}
	return &opType, nil
}

// SeedDefaults inserts any missing vocabulary rows
func (r *lookupRepo) SeedDefaults() error {
	for _, c := range model.DefaultCategories {
		var existing model.Category
		if err := r.db.Where("code = ?", c.Code).First(&existing).Error; err == gorm.ErrRecordNotFound {
			if err := r.db.Create(&c).Error; err != nil {
				return err
			}
		}
	}
	for _, u := range model.DefaultUnits {
		var existing model.Unit
		if err := r.db.Where("code = ?", u.Code).First(&existing).Error; err == gorm.ErrRecordNotFound {
			if err := r.db.Create(&u).Error; err != nil {
				return err
			}
		}
	}
	for _, t := range model.DefaultOperationTypes {
		var existing model.OperationType
		if err := r.db.Where("code = ?", t.Code).First(&existing).Error; err == gorm.ErrRecordNotFound {
			if err := r.db.Create(&t).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
