package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	SourcePurchase = "purchase"
	SourceDerived  = "derived"
)

// Batch is a traceable lot of one product. CurrentQty is only ever changed
// through signed ledger adjustments and may go negative.
type Batch struct {
	BaseModel
	BatchCode      string              `gorm:"type:varchar(50);uniqueIndex;not null" json:"batch_code"`
	ProductID      uint                `gorm:"index;not null" json:"product_id"`
	Product        *Product            `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	ParentBatchID  *uint               `gorm:"index" json:"parent_batch_id"`
	SourceType     string              `gorm:"type:varchar(20);not null" json:"source_type"`
	SupplierID     *uint               `gorm:"index" json:"supplier_id"`
	Supplier       *Supplier           `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	DocumentType   string              `gorm:"type:varchar(30)" json:"document_type"`
	DocumentNumber string              `gorm:"type:varchar(50)" json:"document_number"`
	DocumentDate   *time.Time          `gorm:"type:date" json:"document_date"`
	PurchaseDate   *time.Time          `gorm:"type:date" json:"purchase_date"`
	PurchasePrice  decimal.NullDecimal `gorm:"type:decimal(20,4)" json:"purchase_price"`
	InitialQty     decimal.Decimal     `gorm:"type:decimal(20,4);not null" json:"initial_qty"`
	CurrentQty     decimal.Decimal     `gorm:"type:decimal(20,4);not null" json:"current_qty"`
	UnitID         *uint               `json:"unit_id"`
	Unit           *Unit               `gorm:"foreignKey:UnitID" json:"unit,omitempty"`
	ExpiryDate     *time.Time          `gorm:"type:date" json:"expiry_date"`
	Notes          string              `gorm:"type:text" json:"notes"`
}
