package repository

import (
	"context"
	"time"

	"go-farm-inventory/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OperationFilter narrows an operation listing. Zero values disable a filter.
type OperationFilter struct {
	PlotID   uint
	TypeCode string
	From     *time.Time
	To       *time.Time
	Limit    int
}

// MovementView is a movement joined with its batch, product and unit.
type MovementView struct {
	ID           uint            `json:"id"`
	OperationID  uint            `json:"operation_id"`
	BatchID      uint            `json:"batch_id"`
	BatchCode    *string         `json:"batch_code"`
	SKU          *string         `json:"sku"`
	ProductName  *string         `json:"product_name"`
	MovementType string          `json:"movement_type"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitID       *uint           `json:"unit_id"`
	UnitCode     *string         `json:"unit_code"`
	Notes        string          `json:"notes"`
}

type OperationRepository interface {
	Create(tx *gorm.DB, op *model.Operation) error
	AddPlots(tx *gorm.DB, operationID uint, plotIDs []uint) error
	FindByID(ctx context.Context, id uint) (*model.Operation, error)
	Lock(tx *gorm.DB, id uint) (*model.Operation, error)
	List(ctx context.Context, filter OperationFilter) ([]model.Operation, error)
	Update(tx *gorm.DB, id uint, fields map[string]interface{}) error
	Delete(tx *gorm.DB, id uint) error
	DeletePlots(tx *gorm.DB, operationID uint) error

	CreateMovement(tx *gorm.DB, movement *model.OperationMovement) error
	Movements(tx *gorm.DB, operationID uint) ([]model.OperationMovement, error)
	MovementViews(ctx context.Context, operationID uint) ([]MovementView, error)
	UpdateMovementQty(tx *gorm.DB, id uint, qty decimal.Decimal) error
	DeleteMovements(tx *gorm.DB, operationID uint) error
	DeleteMovementsByBatches(tx *gorm.DB, batchIDs []uint) error
}

type operationRepo struct {
	db *gorm.DB
}

func NewOperationRepo(db *gorm.DB) OperationRepository {
	return &operationRepo{db}
}

func (r *operationRepo) Create(tx *gorm.DB, op *model.Operation) error {
	return tx.Omit("OperationType", "Plot", "Plots").Create(op).Error
}

// AddPlots links plots to the operation; pairs that already exist are skipped.
func (r *operationRepo) AddPlots(tx *gorm.DB, operationID uint, plotIDs []uint) error {
	if len(plotIDs) == 0 {
		return nil
	}
	links := make([]model.OperationPlot, 0, len(plotIDs))
	for _, pid := range plotIDs {
		links = append(links, model.OperationPlot{OperationID: operationID, PlotID: pid})
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error
}

func (r *operationRepo) FindByID(ctx context.Context, id uint) (*model.Operation, error) {
	var op model.Operation
	err := r.db.WithContext(ctx).
		Preload("OperationType").Preload("Plot").Preload("Plots").
		First(&op, id).Error
	if err != nil {
		return nil, err
	}
	return &op, nil
}

func (r *operationRepo) Lock(tx *gorm.DB, id uint) (*model.Operation, error) {
	var op model.Operation
	if err := tx.Clauses(lockForUpdate).First(&op, id).Error; err != nil {
		return nil, err
	}
	return &op, nil
}

func (r *operationRepo) List(ctx context.Context, filter OperationFilter) ([]model.Operation, error) {
	q := r.db.WithContext(ctx).Model(&model.Operation{}).
		Preload("OperationType").Preload("Plot").Preload("Plots")

	if filter.PlotID != 0 {
		q = q.Where("(plot_id = ? OR id IN (SELECT operation_id FROM operation_plots WHERE plot_id = ?))",
			filter.PlotID, filter.PlotID)
	}
	if filter.TypeCode != "" {
		q = q.Where("operation_type_id IN (SELECT id FROM operation_types WHERE code = ?)", filter.TypeCode)
	}
	if filter.From != nil {
		q = q.Where("operation_date >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("operation_date <= ?", *filter.To)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var ops []model.Operation
	err := q.Order("operation_date DESC").Order("id DESC").Find(&ops).Error
	return ops, err
}

func (r *operationRepo) Update(tx *gorm.DB, id uint, fields map[string]interface{}) error {
	return tx.Model(&model.Operation{}).Where("id = ?", id).Updates(fields).Error
}

func (r *operationRepo) Delete(tx *gorm.DB, id uint) error {
	return tx.Delete(&model.Operation{}, id).Error
}

func (r *operationRepo) DeletePlots(tx *gorm.DB, operationID uint) error {
	return tx.Where("operation_id = ?", operationID).Delete(&model.OperationPlot{}).Error
}

func (r *operationRepo) CreateMovement(tx *gorm.DB, movement *model.OperationMovement) error {
	return tx.Create(movement).Error
}

func (r *operationRepo) Movements(tx *gorm.DB, operationID uint) ([]model.OperationMovement, error) {
	var movements []model.OperationMovement
	err := tx.Where("operation_id = ?", operationID).Order("id").Find(&movements).Error
	return movements, err
}

func (r *operationRepo) MovementViews(ctx context.Context, operationID uint) ([]MovementView, error) {
	var movements []MovementView
	err := r.db.WithContext(ctx).Table("operation_movements m").
		Select(`m.id, m.operation_id, m.batch_id, b.batch_code, p.sku, p.name AS product_name,
			m.movement_type, m.quantity, m.unit_id, u.code AS unit_code, m.notes`).
		Joins("LEFT JOIN batches b ON b.id = m.batch_id").
		Joins("LEFT JOIN products p ON p.id = b.product_id").
		Joins("LEFT JOIN units u ON u.id = m.unit_id").
		Where("m.operation_id = ?", operationID).
		Order("m.id").
		Scan(&movements).Error
	return movements, err
}

func (r *operationRepo) UpdateMovementQty(tx *gorm.DB, id uint, qty decimal.Decimal) error {
	return tx.Model(&model.OperationMovement{}).Where("id = ?", id).Update("quantity", qty).Error
}

func (r *operationRepo) DeleteMovements(tx *gorm.DB, operationID uint) error {
	return tx.Where("operation_id = ?", operationID).Delete(&model.OperationMovement{}).Error
}

func (r *operationRepo) DeleteMovementsByBatches(tx *gorm.DB, batchIDs []uint) error {
	if len(batchIDs) == 0 {
		return nil
	}
	return tx.Where("batch_id IN ?", batchIDs).Delete(&model.OperationMovement{}).Error
}
