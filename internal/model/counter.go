package model

// Counter is the last number handed out for a code prefix.
type Counter struct {
	Prefix     string `gorm:"type:varchar(30);primaryKey" json:"prefix"`
	LastNumber int64  `gorm:"not null" json:"last_number"`
}

const (
	CounterLot      = "LOT"
	CounterSupplier = "FOR"
)
