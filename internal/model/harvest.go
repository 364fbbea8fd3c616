package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Harvest struct {
	BaseModel
	OperationID  uint            `gorm:"index;not null" json:"operation_id"`
	PlotID       *uint           `gorm:"index" json:"plot_id"`
	ProductName  string          `gorm:"type:varchar(255)" json:"product_name"`
	QuantityKg   decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"quantity_kg"`
	QualityGrade string          `gorm:"type:varchar(30)" json:"quality_grade"`
	Destination  string          `gorm:"type:varchar(100)" json:"destination"`
	HarvestDate  time.Time       `gorm:"type:date;index;not null" json:"harvest_date"`
	Notes        string          `gorm:"type:text" json:"notes"`
}
