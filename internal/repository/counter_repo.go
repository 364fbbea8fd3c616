package repository

import (
	"go-farm-inventory/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CounterRepository interface {
	Next(tx *gorm.DB, prefix string) (int64, error)
}

type counterRepo struct{}

func NewCounterRepo() CounterRepository {
	return &counterRepo{}
}

// Next allocates the next number for prefix inside tx. The increment happens
// in a single INSERT .. ON CONFLICT DO UPDATE so concurrent callers never
// read the same value; a rolled back tx leaves a gap, never a duplicate.
func (r *counterRepo) Next(tx *gorm.DB, prefix string) (int64, error) {
	row := model.Counter{Prefix: prefix, LastNumber: 1}
	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "prefix"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"last_number": gorm.Expr("counters.last_number + 1"),
		}),
	}).Create(&row).Error
	if err != nil {
		return 0, err
	}

	var current model.Counter
	if err := tx.Where("prefix = ?", prefix).First(&current).Error; err != nil {
		return 0, err
	}
	return current.LastNumber, nil
}
