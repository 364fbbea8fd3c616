package model

import "github.com/shopspring/decimal"

type Product struct {
	BaseModel
	SKU              string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku"`
	Name             string          `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	CategoryID       *uint           `gorm:"index" json:"category_id"`
	Category         *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	StockUnitID      *uint           `json:"stock_unit_id"`
	StockUnit        *Unit           `gorm:"foreignKey:StockUnitID" json:"stock_unit,omitempty"`
	UsageUnitID      *uint           `json:"usage_unit_id"`
	UsageUnit        *Unit           `gorm:"foreignKey:UsageUnitID" json:"usage_unit,omitempty"`
	ConversionFactor decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"conversion_factor"`
	Notes            string          `gorm:"type:text" json:"notes"`
	Active           bool            `gorm:"not null" json:"active"`

	// Relations
	Batches []Batch `json:"batches,omitempty"`
}
