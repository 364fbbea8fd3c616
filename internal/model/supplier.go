package model

type Supplier struct {
	BaseModel
	Code      string `gorm:"type:varchar(20);uniqueIndex;not null" json:"code"`
	Name      string `gorm:"type:varchar(255);not null" json:"name"`
	Address   string `gorm:"type:varchar(255)" json:"address"`
	City      string `gorm:"type:varchar(100)" json:"city"`
	Province  string `gorm:"type:varchar(50)" json:"province"`
	ZipCode   string `gorm:"type:varchar(20)" json:"zip_code"`
	VatNumber string `gorm:"type:varchar(30)" json:"vat_number"`
	Phone     string `gorm:"type:varchar(30)" json:"phone"`
	Email     string `gorm:"type:varchar(255)" json:"email"`
	Notes     string `gorm:"type:text" json:"notes"`
}
