package service

import (
	"go-farm-inventory/internal/model"
	"go-farm-inventory/internal/repository"

	"gorm.io/gorm"
)

// BatchIntake books new stock: it inserts the batch, allocating a lot code
// when none was supplied, and registers purchased seedlings.
type BatchIntake struct {
	codes     *CodeAllocator
	batches   repository.BatchRepository
	seedlings repository.SeedlingRepository
}

func NewBatchIntake(codes *CodeAllocator, batches repository.BatchRepository, seedlings repository.SeedlingRepository) *BatchIntake {
	return &BatchIntake{codes: codes, batches: batches, seedlings: seedlings}
}

// Receive must run inside tx. The returned seedling is nil unless the
// product belongs to the seedling category. Seedlings are counted in whole
// plants, so a fractional seedling quantity is rejected.
func (in *BatchIntake) Receive(tx *gorm.DB, batch *model.Batch, productName, categoryCode string) (*model.Seedling, error) {
	if categoryCode == model.CategorySeedling && !batch.InitialQty.IsInteger() {
		return nil, invalid("seedling quantity must be a whole number, got %s", batch.InitialQty.String())
	}
	if batch.BatchCode == "" {
		code, err := in.codes.BatchCode(tx)
		if err != nil {
			return nil, err
		}
		batch.BatchCode = code
	}
	batch.CurrentQty = batch.InitialQty

	if err := in.batches.Create(tx, batch); err != nil {
		return nil, err
	}

	if categoryCode != model.CategorySeedling {
		return nil, nil
	}

	qty := int(batch.InitialQty.IntPart())
	seedling := &model.Seedling{
		BatchID:      &batch.ID,
		Name:         productName,
		Source:       model.SeedlingFromPurchase,
		ProducedQty:  qty,
		AvailableQty: qty,
	}
	seedling.Stamp(batch.CreatedBy)
	if err := in.seedlings.Create(tx, seedling); err != nil {
		return nil, err
	}
	return seedling, nil
}
