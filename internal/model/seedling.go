package model

const (
	SeedlingFromPurchase    = "purchase"
	SeedlingFromTraySeeding = "tray_seeding"
)

// Seedling tracks plants available for transplanting. It comes either from a
// purchased batch or from a tray seeding operation.
type Seedling struct {
	BaseModel
	OperationID  *uint  `gorm:"index" json:"operation_id"`
	BatchID      *uint  `gorm:"index" json:"batch_id"`
	Name         string `gorm:"type:varchar(255);not null" json:"name"`
	Source       string `gorm:"type:varchar(20);not null" json:"source"`
	ProducedQty  int    `gorm:"not null" json:"produced_qty"`
	AvailableQty int    `gorm:"not null" json:"available_qty"`
}
