package repository

import (
	"context"
	"time"

	"go-farm-inventory/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// HarvestView is a harvest with its operation date and plot name.
type HarvestView struct {
	ID            uint            `json:"id"`
	OperationID   uint            `json:"operation_id"`
	PlotID        *uint           `json:"plot_id"`
	PlotName      *string         `json:"plot_name"`
	ProductName   string          `json:"product_name"`
	QuantityKg    decimal.Decimal `json:"quantity_kg"`
	QualityGrade  string          `json:"quality_grade"`
	Destination   string          `json:"destination"`
	HarvestDate   time.Time       `json:"harvest_date"`
	OperationDate time.Time       `json:"operation_date"`
	Notes         string          `json:"notes"`
}

type HarvestRepository interface {
	Create(tx *gorm.DB, harvest *model.Harvest) error
	List(ctx context.Context) ([]HarvestView, error)
	ByOperation(ctx context.Context, operationID uint) ([]model.Harvest, error)
	SumSince(ctx context.Context, since time.Time) (decimal.Decimal, error)
	SetDate(tx *gorm.DB, operationID uint, date time.Time) error
	DeleteByOperation(tx *gorm.DB, operationID uint) error
}

type harvestRepo struct {
	db *gorm.DB
}

func NewHarvestRepo(db *gorm.DB) HarvestRepository {
	return &harvestRepo{db}
}

func (r *harvestRepo) Create(tx *gorm.DB, harvest *model.Harvest) error {
	return tx.Create(harvest).Error
}

func (r *harvestRepo) List(ctx context.Context) ([]HarvestView, error) {
	var harvests []HarvestView
	err := r.db.WithContext(ctx).Table("harvests h").
		Select(`h.id, h.operation_id, COALESCE(h.plot_id, o.plot_id) AS plot_id, pl.name AS plot_name,
			h.product_name, h.quantity_kg, h.quality_grade, h.destination, h.harvest_date,
			o.operation_date, h.notes`).
		Joins("JOIN operations o ON o.id = h.operation_id").
		Joins("LEFT JOIN plots pl ON pl.id = COALESCE(h.plot_id, o.plot_id)").
		Order("o.operation_date DESC").Order("h.id DESC").
		Scan(&harvests).Error
	return harvests, err
}

func (r *harvestRepo) ByOperation(ctx context.Context, operationID uint) ([]model.Harvest, error) {
	var harvests []model.Harvest
	err := r.db.WithContext(ctx).Where("operation_id = ?", operationID).Order("id").Find(&harvests).Error
	return harvests, err
}

// SumSince totals harvested kilograms on or after since; 0 when there are none.
func (r *harvestRepo) SumSince(ctx context.Context, since time.Time) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&model.Harvest{}).
		Select("SUM(quantity_kg)").
		Where("harvest_date >= ?", since).
		Row().Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// SetDate moves the harvests of an operation to the operation's new date.
func (r *harvestRepo) SetDate(tx *gorm.DB, operationID uint, date time.Time) error {
	return tx.Model(&model.Harvest{}).Where("operation_id = ?", operationID).Update("harvest_date", date).Error
}

func (r *harvestRepo) DeleteByOperation(tx *gorm.DB, operationID uint) error {
	return tx.Where("operation_id = ?", operationID).Delete(&model.Harvest{}).Error
}
