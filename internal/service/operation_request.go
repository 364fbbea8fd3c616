package service

import (
	"sort"

	"go-farm-inventory/internal/model"
	"go-farm-inventory/internal/repository"

	"github.com/shopspring/decimal"
)

type MovementRequest struct {
	BatchID      uint            `json:"batch_id" validate:"required"`
	MovementType string          `json:"movement_type" validate:"required,oneof=input output"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitID       *uint           `json:"unit_id"`
	Notes        string          `json:"notes"`
}

type SeedingDetails struct {
	Location          string `json:"location" validate:"omitempty,oneof=tray field"`
	SeedlingsProduced int    `json:"seedlings_produced" validate:"gte=0"`
	SeedlingName      string `json:"seedling_name"`
}

type TransplantDetails struct {
	SeedlingID uint `json:"seedling_id" validate:"required"`
	Quantity   int  `json:"quantity" validate:"gt=0"`
}

type HarvestDetails struct {
	QuantityKg   decimal.Decimal `json:"quantity_kg"`
	ProductName  string          `json:"product_name"`
	QualityGrade string          `json:"quality_grade"`
	Destination  string          `json:"destination"`
}

type DosageDetails struct {
	PerHl       decimal.NullDecimal `json:"per_hl"`
	Unit        string              `json:"unit"`
	WaterLiters decimal.NullDecimal `json:"water_liters"`
}

type IrrigationDetails struct {
	WaterLiters decimal.NullDecimal `json:"water_liters"`
}

// RecordOperationRequest carries the common fields of every operation plus at
// most one detail block, which must match TypeCode.
type RecordOperationRequest struct {
	TypeCode          string            `json:"type_code" validate:"required"`
	OperationDate     string            `json:"operation_date" validate:"required,date"`
	PlotID            *uint             `json:"plot_id"`
	PlotIDs           []uint            `json:"plot_ids"`
	Notes             string            `json:"notes"`
	WeatherConditions string            `json:"weather_conditions" validate:"max=100"`
	Movements         []MovementRequest `json:"movements" validate:"dive"`

	Seeding    *SeedingDetails    `json:"seeding,omitempty"`
	Transplant *TransplantDetails `json:"transplant,omitempty"`
	Harvest    *HarvestDetails    `json:"harvest,omitempty"`
	Dosage     *DosageDetails     `json:"dosage,omitempty"`
	Irrigation *IrrigationDetails `json:"irrigation,omitempty"`
}

// detailOwners names the operation types each detail block belongs to.
var detailOwners = map[string][]string{
	"seeding":    {model.OpSeeding},
	"transplant": {model.OpTransplant},
	"harvest":    {model.OpHarvest},
	"dosage":     {model.OpFertilization, model.OpTreatment},
	"irrigation": {model.OpIrrigation},
}

func (r *RecordOperationRequest) presentDetails() []string {
	present := map[string]bool{
		"seeding":    r.Seeding != nil,
		"transplant": r.Transplant != nil,
		"harvest":    r.Harvest != nil,
		"dosage":     r.Dosage != nil,
		"irrigation": r.Irrigation != nil,
	}
	var names []string
	for name, ok := range present {
		if ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// checkDetails rejects detail blocks that do not belong to the operation type.
func (r *RecordOperationRequest) checkDetails() error {
	for _, name := range r.presentDetails() {
		allowed := false
		for _, code := range detailOwners[name] {
			if code == r.TypeCode {
				allowed = true
				break
			}
		}
		if !allowed {
			return invalid("'%s' details are not valid for operation type '%s'", name, r.TypeCode)
		}
	}
	if r.Harvest != nil && r.Harvest.QuantityKg.IsNegative() {
		return invalid("harvest quantity_kg cannot be negative")
	}
	if r.Dosage != nil {
		if r.Dosage.PerHl.Valid && r.Dosage.PerHl.Decimal.IsNegative() {
			return invalid("dosage per_hl cannot be negative")
		}
		if r.Dosage.WaterLiters.Valid && r.Dosage.WaterLiters.Decimal.IsNegative() {
			return invalid("dosage water_liters cannot be negative")
		}
	}
	return nil
}

// plotIDs merges plot_ids with the legacy plot_id, dropping duplicates.
func (r *RecordOperationRequest) plotIDs() []uint {
	seen := make(map[uint]bool)
	var ids []uint
	add := func(id uint) {
		if id != 0 && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, id := range r.PlotIDs {
		add(id)
	}
	if r.PlotID != nil {
		add(*r.PlotID)
	}
	return ids
}

// derivedQuantity is the dosage-based consumption, when this request has one.
func (r *RecordOperationRequest) derivedQuantity() (decimal.Decimal, bool) {
	if !model.UsesDosage(r.TypeCode) || r.Dosage == nil {
		return decimal.Zero, false
	}
	return DerivedQuantity(r.Dosage.PerHl, r.Dosage.WaterLiters)
}

// UpdateOperationRequest edits an operation. Quantity rewrites the single
// movement of the operation.
type UpdateOperationRequest struct {
	OperationDate     *string          `json:"operation_date" validate:"omitempty,date"`
	Notes             *string          `json:"notes"`
	WeatherConditions *string          `json:"weather_conditions" validate:"omitempty,max=100"`
	Quantity          *decimal.Decimal `json:"quantity"`
}

// RecordHarvestRequest registers a harvest with its own harvest operation.
type RecordHarvestRequest struct {
	OperationDate     string          `json:"operation_date" validate:"required,date"`
	PlotID            *uint           `json:"plot_id"`
	ProductName       string          `json:"product_name"`
	QuantityKg        decimal.Decimal `json:"quantity_kg"`
	QualityGrade      string          `json:"quality_grade"`
	Destination       string          `json:"destination"`
	Notes             string          `json:"notes"`
	WeatherConditions string          `json:"weather_conditions" validate:"max=100"`
}

// OperationQuery is the listing filter as it arrives on the query string.
type OperationQuery struct {
	PlotID   uint
	TypeCode string
	From     string
	To       string
}

// Filter parses the date bounds; a malformed date is a validation error.
func (q OperationQuery) Filter() (repository.OperationFilter, error) {
	from, err := parseOptionalDate("from", q.From)
	if err != nil {
		return repository.OperationFilter{}, err
	}
	to, err := parseOptionalDate("to", q.To)
	if err != nil {
		return repository.OperationFilter{}, err
	}
	return repository.OperationFilter{
		PlotID:   q.PlotID,
		TypeCode: q.TypeCode,
		From:     from,
		To:       to,
	}, nil
}
