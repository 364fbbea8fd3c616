package model

import "github.com/shopspring/decimal"

type Plot struct {
	BaseModel
	Code    string              `gorm:"type:varchar(30);uniqueIndex;not null" json:"code"`
	Name    string              `gorm:"type:varchar(255);not null" json:"name"`
	AreaSqm decimal.NullDecimal `gorm:"type:decimal(20,4)" json:"area_sqm"`
	Notes   string              `gorm:"type:text" json:"notes"`
	Active  bool                `gorm:"not null" json:"active"`
}
