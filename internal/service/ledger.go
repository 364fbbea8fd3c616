package service

import (
	"go-farm-inventory/internal/metrics"
	"go-farm-inventory/internal/model"
	"go-farm-inventory/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Ledger is the only writer of batch current_qty. Each persisted movement
// gets exactly one Apply; editing or deleting it goes through Adjust or
// Reverse so that current_qty = initial_qty + sum of signed movements.
type Ledger struct {
	batches repository.BatchRepository
}

func NewLedger(batches repository.BatchRepository) *Ledger {
	return &Ledger{batches: batches}
}

// Adjust adds delta to the batch stock. There is no lower bound.
func (l *Ledger) Adjust(tx *gorm.DB, batchID uint, delta decimal.Decimal) error {
	if err := l.batches.AdjustQty(tx, batchID, delta); err != nil {
		return mapNotFound(err, "batch", batchID)
	}
	metrics.ObserveAdjustment(delta)
	return nil
}

// Apply books a freshly inserted movement.
func (l *Ledger) Apply(tx *gorm.DB, m *model.OperationMovement) error {
	return l.Adjust(tx, m.BatchID, m.SignedQuantity())
}

// Reverse undoes a movement that is about to be deleted.
func (l *Ledger) Reverse(tx *gorm.DB, m *model.OperationMovement) error {
	return l.Adjust(tx, m.BatchID, m.SignedQuantity().Neg())
}
