package model

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Quantities travel as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// BaseModel handles the integer ID and the audit trail columns.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Audit User Tracking
	CreatedBy string `gorm:"type:varchar(255)" json:"created_by,omitempty"`
	UpdatedBy string `gorm:"type:varchar(255)" json:"updated_by,omitempty"`
}

// Stamp sets both audit columns for a new row.
func (base *BaseModel) Stamp(actor string) {
	base.CreatedBy = actor
	base.UpdatedBy = actor
}
