package repository

import (
	"context"

	"go-farm-inventory/internal/model"

	"gorm.io/gorm"
)

type PlotRepository interface {
	Create(ctx context.Context, plot *model.Plot) error
	FindActive(ctx context.Context) ([]model.Plot, error)
	CountByIDs(tx *gorm.DB, ids []uint) (int64, error)
}

type plotRepo struct {
	db *gorm.DB
}

func NewPlotRepo(db *gorm.DB) PlotRepository {
	return &plotRepo{db}
}

func (r *plotRepo) Create(ctx context.Context, plot *model.Plot) error {
	return r.db.WithContext(ctx).Create(plot).Error
}

func (r *plotRepo) FindActive(ctx context.Context) ([]model.Plot, error) {
	var plots []model.Plot
	err := r.db.WithContext(ctx).Where("active = ?", true).Order("name").Find(&plots).Error
	return plots, err
}

func (r *plotRepo) CountByIDs(tx *gorm.DB, ids []uint) (int64, error) {
	var count int64
	err := tx.Model(&model.Plot{}).Where("id IN ?", ids).Count(&count).Error
	return count, err
}
