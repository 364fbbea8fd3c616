package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-farm-inventory/internal/model"
	"go-farm-inventory/internal/repository"
	"go-farm-inventory/internal/ws"
	"go-farm-inventory/pkg/logger"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OperationService interface {
	List(ctx context.Context, filter repository.OperationFilter) ([]model.Operation, error)
	Get(ctx context.Context, id uint) (*OperationDetail, error)
	Record(ctx context.Context, req *RecordOperationRequest, actor string) (*RecordResult, error)
	Update(ctx context.Context, id uint, req *UpdateOperationRequest, actor string) (*OperationDetail, error)
	Delete(ctx context.Context, id uint, actor string) error
	RecordHarvest(ctx context.Context, req *RecordHarvestRequest, actor string) (*HarvestResult, error)
	Harvests(ctx context.Context) ([]repository.HarvestView, error)
}

// OperationDetail is an operation with its ledger lines and harvests.
type OperationDetail struct {
	model.Operation
	Movements []repository.MovementView `json:"movements"`
	Harvests  []model.Harvest           `json:"harvests"`
}

type RecordResult struct {
	ID      uint   `json:"id"`
	Message string `json:"message"`
	// ActualQuantityUsed is set when consumption was derived from the dosage.
	ActualQuantityUsed *decimal.Decimal `json:"actual_quantity_used"`
	// TransplantApplied is set for transplants; false means the seedlings
	// were not available and nothing was decremented.
	TransplantApplied *bool `json:"transplant_applied,omitempty"`
}

type HarvestResult struct {
	OperationID uint   `json:"operation_id"`
	HarvestID   uint   `json:"harvest_id"`
	Message     string `json:"message"`
}

// OperationOptions holds the policies of the recorder.
type OperationOptions struct {
	// StrictSeedlingStock turns an over-quantity transplant into a
	// validation error instead of a silent no-op.
	StrictSeedlingStock bool
}

type operationService struct {
	db        *gorm.DB
	ops       repository.OperationRepository
	lookups   repository.LookupRepository
	plots     repository.PlotRepository
	seedlings repository.SeedlingRepository
	harvests  repository.HarvestRepository
	ledger    *Ledger
	wsHub     *ws.Hub
	opts      OperationOptions
}

func NewOperationService(
	db *gorm.DB,
	ops repository.OperationRepository,
	lookups repository.LookupRepository,
	plots repository.PlotRepository,
	seedlings repository.SeedlingRepository,
	harvests repository.HarvestRepository,
	ledger *Ledger,
	hub *ws.Hub,
	opts OperationOptions,
) OperationService {
	return &operationService{
		db:        db,
		ops:       ops,
		lookups:   lookups,
		plots:     plots,
		seedlings: seedlings,
		harvests:  harvests,
		ledger:    ledger,
		wsHub:     hub,
		opts:      opts,
	}
}

func (s *operationService) List(ctx context.Context, filter repository.OperationFilter) ([]model.Operation, error) {
	return s.ops.List(ctx, filter)
}

func (s *operationService) Get(ctx context.Context, id uint) (*OperationDetail, error) {
	op, err := s.ops.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, "operation", id)
	}
	movements, err := s.ops.MovementViews(ctx, id)
	if err != nil {
		return nil, err
	}
	harvests, err := s.harvests.ByOperation(ctx, id)
	if err != nil {
		return nil, err
	}
	return &OperationDetail{Operation: *op, Movements: movements, Harvests: harvests}, nil
}

func (s *operationService) resolveType(tx *gorm.DB, code string) (*model.OperationType, error) {
	opType, err := s.lookups.OperationTypeByCode(tx, code)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, invalid("unknown operation type '%s'", code)
	}
	return opType, err
}

func (s *operationService) checkPlots(tx *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	count, err := s.plots.CountByIDs(tx, ids)
	if err != nil {
		return err
	}
	if count != int64(len(ids)) {
		return fmt.Errorf("%w: one or more plots of %v", ErrNotFound, ids)
	}
	return nil
}

// Record books an operation with every side effect in one transaction:
// plot links, seedlings produced or transplanted, harvests, and the ledger
// movements with their stock adjustments.
func (s *operationService) Record(ctx context.Context, req *RecordOperationRequest, actor string) (*RecordResult, error) {
	// 1. Validate the whole request before any write
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	opDate, err := parseDate("operation_date", req.OperationDate)
	if err != nil {
		return nil, err
	}
	if err := req.checkDetails(); err != nil {
		return nil, err
	}
	derived, hasDerived := req.derivedQuantity()
	for i, m := range req.Movements {
		if !hasDerived && !m.Quantity.IsPositive() {
			return nil, invalid("movements[%d].quantity must be greater than zero", i)
		}
	}
	plotIDs := req.plotIDs()

	op := &model.Operation{
		OperationDate:     opDate,
		PlotID:            req.PlotID,
		Notes:             req.Notes,
		WeatherConditions: req.WeatherConditions,
	}
	switch {
	case req.Seeding != nil:
		op.SeedLocation = req.Seeding.Location
		if req.Seeding.SeedlingsProduced > 0 {
			produced := req.Seeding.SeedlingsProduced
			op.SeedlingsProduced = &produced
		}
	case req.Transplant != nil:
		op.TransplantSeedlingID = &req.Transplant.SeedlingID
		op.TransplantQty = &req.Transplant.Quantity
	case req.Dosage != nil:
		op.DosagePerHl = req.Dosage.PerHl
		op.DosageUnit = req.Dosage.Unit
		op.WaterLiters = req.Dosage.WaterLiters
	case req.Irrigation != nil:
		op.WaterLiters = req.Irrigation.WaterLiters
	}
	op.Stamp(actor)

	result := &RecordResult{Message: "Operation recorded"}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 2. Resolve type and references
		opType, err := s.resolveType(tx, req.TypeCode)
		if err != nil {
			return err
		}
		op.OperationTypeID = opType.ID
		if err := s.checkPlots(tx, plotIDs); err != nil {
			return err
		}

		// 3. Transplant: decrement only when enough seedlings are available
		if t := req.Transplant; t != nil {
			seedling, err := s.seedlings.FindByID(tx, t.SeedlingID)
			if err != nil {
				return mapNotFound(err, "seedling", t.SeedlingID)
			}
			applied, err := s.seedlings.Consume(tx, t.SeedlingID, t.Quantity)
			if err != nil {
				return err
			}
			if !applied && s.opts.StrictSeedlingStock {
				return invalid("seedling %d has %d available, %d requested", t.SeedlingID, seedling.AvailableQty, t.Quantity)
			}
			op.TransplantApplied = applied
			result.TransplantApplied = &applied
		}

		// 4. Operation row and plot links
		if err := s.ops.Create(tx, op); err != nil {
			return err
		}
		if err := s.ops.AddPlots(tx, op.ID, plotIDs); err != nil {
			return err
		}

		// 5. Tray seeding produces seedlings
		if sd := req.Seeding; sd != nil && sd.Location == "tray" && sd.SeedlingsProduced > 0 && sd.SeedlingName != "" {
			seedling := &model.Seedling{
				OperationID:  &op.ID,
				Name:         sd.SeedlingName,
				Source:       model.SeedlingFromTraySeeding,
				ProducedQty:  sd.SeedlingsProduced,
				AvailableQty: sd.SeedlingsProduced,
			}
			seedling.Stamp(actor)
			if err := s.seedlings.Create(tx, seedling); err != nil {
				return err
			}
		}

		// 6. Harvest: one record per plot, each carrying the full weight
		if h := req.Harvest; h != nil && h.QuantityKg.IsPositive() {
			if err := s.recordHarvests(tx, op, h, plotIDs, actor); err != nil {
				return err
			}
		}

		// 7. Movements and their stock adjustments
		for _, m := range req.Movements {
			qty := m.Quantity
			if hasDerived {
				qty = derived
			}
			movement := &model.OperationMovement{
				OperationID:  op.ID,
				BatchID:      m.BatchID,
				MovementType: m.MovementType,
				Quantity:     qty,
				UnitID:       m.UnitID,
				Notes:        m.Notes,
			}
			if err := s.ops.CreateMovement(tx, movement); err != nil {
				return err
			}
			if err := s.ledger.Apply(tx, movement); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logFailure("OperationService.Record", "record operation", req, err)
		return nil, err
	}

	result.ID = op.ID
	if hasDerived {
		result.ActualQuantityUsed = &derived
	}
	if len(req.Movements) > 0 {
		s.wsHub.Notify("operation_recorded",
			fmt.Sprintf("%s on %s moved %d batches", req.TypeCode, req.OperationDate, len(req.Movements)),
			result)
	}
	return result, nil
}

func (s *operationService) recordHarvests(tx *gorm.DB, op *model.Operation, h *HarvestDetails, plotIDs []uint, actor string) error {
	for i := range plotIDs {
		harvest := &model.Harvest{
			OperationID:  op.ID,
			PlotID:       &plotIDs[i],
			ProductName:  h.ProductName,
			QuantityKg:   h.QuantityKg,
			QualityGrade: h.QualityGrade,
			Destination:  h.Destination,
			HarvestDate:  op.OperationDate,
		}
		harvest.Stamp(actor)
		if err := s.harvests.Create(tx, harvest); err != nil {
			return err
		}
	}
	return nil
}

func (s *operationService) Update(ctx context.Context, id uint, req *UpdateOperationRequest, actor string) (*OperationDetail, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	var newDate *time.Time
	if req.OperationDate != nil {
		d, err := parseDate("operation_date", *req.OperationDate)
		if err != nil {
			return nil, err
		}
		newDate = &d
	}
	if req.Quantity != nil && req.Quantity.IsNegative() {
		return nil, invalid("quantity cannot be negative")
	}

	stockChanged := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. Lock operation
		if _, err := s.ops.Lock(tx, id); err != nil {
			return mapNotFound(err, "operation", id)
		}

		// 2. Quantity edit: book only the difference, with the movement's sign
		if req.Quantity != nil {
			movements, err := s.ops.Movements(tx, id)
			if err != nil {
				return err
			}
			if len(movements) != 1 {
				return invalid("quantity can only be edited on an operation with exactly one movement, this one has %d", len(movements))
			}
			mv := movements[0]
			diff := req.Quantity.Sub(mv.Quantity)
			if !diff.IsZero() {
				if err := s.ledger.Adjust(tx, mv.BatchID, diff.Mul(model.MovementSign(mv.MovementType))); err != nil {
					return err
				}
				if err := s.ops.UpdateMovementQty(tx, mv.ID, *req.Quantity); err != nil {
					return err
				}
				stockChanged = true
			}
		}

		// 3. Header fields
		fields := map[string]interface{}{
			"updated_by": actor,
			"updated_at": time.Now(),
		}
		if newDate != nil {
			fields["operation_date"] = *newDate
			if err := s.harvests.SetDate(tx, id, *newDate); err != nil {
				return err
			}
		}
		if req.Notes != nil {
			fields["notes"] = *req.Notes
		}
		if req.WeatherConditions != nil {
			fields["weather_conditions"] = *req.WeatherConditions
		}
		return s.ops.Update(tx, id, fields)
	})
	if err != nil {
		logFailure("OperationService.Update", "update operation", id, err)
		return nil, err
	}

	if stockChanged {
		s.wsHub.Notify("operation_updated", fmt.Sprintf("Operation %d quantity changed", id), map[string]uint{"id": id})
	}
	return s.Get(ctx, id)
}

// Delete reverses every movement of the operation and removes it together
// with its plot links, harvests and produced seedlings. An applied
// transplant gives its seedlings back.
func (s *operationService) Delete(ctx context.Context, id uint, actor string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. Lock operation
		op, err := s.ops.Lock(tx, id)
		if err != nil {
			return mapNotFound(err, "operation", id)
		}

		// 2. Reverse ledger
		movements, err := s.ops.Movements(tx, id)
		if err != nil {
			return err
		}
		for i := range movements {
			if err := s.ledger.Reverse(tx, &movements[i]); err != nil {
				return err
			}
		}

		// 3. Restore transplanted seedlings
		if op.TransplantApplied && op.TransplantSeedlingID != nil && op.TransplantQty != nil {
			restored, err := s.seedlings.Restore(tx, *op.TransplantSeedlingID, *op.TransplantQty)
			if err != nil {
				return err
			}
			// The seedling goes away when its seeding operation is deleted first.
			if !restored {
				logger.Get().WithField("operation_id", id).
					WithField("seedling_id", *op.TransplantSeedlingID).
					Warn("transplanted seedling no longer exists, nothing restored")
			}
		}

		// 4. Dependants, then the operation
		if err := s.ops.DeleteMovements(tx, id); err != nil {
			return err
		}
		if err := s.ops.DeletePlots(tx, id); err != nil {
			return err
		}
		if err := s.harvests.DeleteByOperation(tx, id); err != nil {
			return err
		}
		if err := s.seedlings.DeleteByOperation(tx, id); err != nil {
			return err
		}
		return s.ops.Delete(tx, id)
	})
	if err != nil {
		logFailure("OperationService.Delete", "delete operation", id, err)
		return err
	}

	s.wsHub.Notify("operation_deleted", fmt.Sprintf("Operation %d deleted by %s", id, actor), map[string]uint{"id": id})
	return nil
}

func (s *operationService) RecordHarvest(ctx context.Context, req *RecordHarvestRequest, actor string) (*HarvestResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	opDate, err := parseDate("operation_date", req.OperationDate)
	if err != nil {
		return nil, err
	}
	if !req.QuantityKg.IsPositive() {
		return nil, invalid("quantity_kg must be greater than zero")
	}

	var plotIDs []uint
	if req.PlotID != nil {
		plotIDs = []uint{*req.PlotID}
	}

	op := &model.Operation{
		OperationDate:     opDate,
		PlotID:            req.PlotID,
		Notes:             req.Notes,
		WeatherConditions: req.WeatherConditions,
	}
	op.Stamp(actor)
	harvest := &model.Harvest{
		PlotID:       req.PlotID,
		ProductName:  req.ProductName,
		QuantityKg:   req.QuantityKg,
		QualityGrade: req.QualityGrade,
		Destination:  req.Destination,
		HarvestDate:  opDate,
		Notes:        req.Notes,
	}
	harvest.Stamp(actor)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		opType, err := s.resolveType(tx, model.OpHarvest)
		if err != nil {
			return err
		}
		op.OperationTypeID = opType.ID
		if err := s.checkPlots(tx, plotIDs); err != nil {
			return err
		}
		if err := s.ops.Create(tx, op); err != nil {
			return err
		}
		if err := s.ops.AddPlots(tx, op.ID, plotIDs); err != nil {
			return err
		}
		harvest.OperationID = op.ID
		return s.harvests.Create(tx, harvest)
	})
	if err != nil {
		logFailure("OperationService.RecordHarvest", "record harvest", req, err)
		return nil, err
	}

	return &HarvestResult{OperationID: op.ID, HarvestID: harvest.ID, Message: "Harvest recorded"}, nil
}

func (s *operationService) Harvests(ctx context.Context) ([]repository.HarvestView, error) {
	return s.harvests.List(ctx)
}
