package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Operation struct {
	BaseModel
	OperationTypeID uint           `gorm:"index;not null" json:"operation_type_id"`
	OperationType   *OperationType `gorm:"foreignKey:OperationTypeID" json:"operation_type,omitempty"`
	OperationDate   time.Time      `gorm:"type:date;index;not null" json:"operation_date"`
	// PlotID is the single plot of older clients; Plots is the full association set.
	PlotID            *uint               `gorm:"index" json:"plot_id"`
	Plot              *Plot               `gorm:"foreignKey:PlotID" json:"plot,omitempty"`
	Plots             []Plot              `gorm:"many2many:operation_plots;" json:"plots,omitempty"`
	Notes             string              `gorm:"type:text" json:"notes"`
	WeatherConditions string              `gorm:"type:varchar(100)" json:"weather_conditions"`
	SeedLocation      string              `gorm:"type:varchar(20)" json:"seed_location,omitempty"`
	WaterLiters       decimal.NullDecimal `gorm:"type:decimal(20,4)" json:"water_liters"`
	DosagePerHl       decimal.NullDecimal `gorm:"type:decimal(20,4)" json:"dosage_per_hl"`
	DosageUnit        string              `gorm:"type:varchar(20)" json:"dosage_unit,omitempty"`
	SeedlingsProduced *int                `json:"seedlings_produced,omitempty"`

	// Transplant bookkeeping; TransplantApplied records whether the seedling
	// availability was actually decremented, so deletion can restore it.
	TransplantSeedlingID *uint `json:"transplant_seedling_id,omitempty"`
	TransplantQty        *int  `json:"transplant_qty,omitempty"`
	TransplantApplied    bool  `gorm:"not null;default:false" json:"transplant_applied"`
}

// OperationPlot links an operation to a plot. The pair is the key, so
// associating the same plot twice is a no-op.
type OperationPlot struct {
	OperationID uint `gorm:"primaryKey;autoIncrement:false" json:"operation_id"`
	PlotID      uint `gorm:"primaryKey;autoIncrement:false" json:"plot_id"`
}

const (
	MovementInput  = "input"
	MovementOutput = "output"
)

// OperationMovement is one ledger line: an input consumes stock from a batch,
// an output returns or produces stock into it.
type OperationMovement struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	OperationID  uint            `gorm:"index;not null" json:"operation_id"`
	BatchID      uint            `gorm:"index;not null" json:"batch_id"`
	MovementType string          `gorm:"type:varchar(10);not null" json:"movement_type"`
	Quantity     decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"quantity"`
	UnitID       *uint           `json:"unit_id"`
	Notes        string          `gorm:"type:text" json:"notes"`
	CreatedAt    time.Time       `json:"created_at"`
}

// MovementSign is -1 for inputs and +1 for outputs.
func MovementSign(movementType string) decimal.Decimal {
	if movementType == MovementInput {
		return decimal.NewFromInt(-1)
	}
	return decimal.NewFromInt(1)
}

// SignedQuantity is the delta this movement applies to its batch.
func (m *OperationMovement) SignedQuantity() decimal.Decimal {
	return m.Quantity.Mul(MovementSign(m.MovementType))
}
