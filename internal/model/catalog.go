package model

// Category groups products; its code picks the SKU prefix.
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(30);uniqueIndex;not null" json:"code"`
	Name string `gorm:"type:varchar(100);not null" json:"name"`
}

const (
	CategorySeed          = "seed"
	CategorySeedling      = "seedling"
	CategoryFertilizer    = "fertilizer"
	CategoryPhytosanitary = "phytosanitary"
	CategorySubstrate     = "substrate"
	CategoryOther         = "other"
)

var DefaultCategories = []Category{
	{Code: CategorySeed, Name: "Seeds"},
	{Code: CategorySeedling, Name: "Seedlings"},
	{Code: CategoryFertilizer, Name: "Fertilizers"},
	{Code: CategoryPhytosanitary, Name: "Phytosanitary products"},
	{Code: CategorySubstrate, Name: "Substrates"},
	{Code: CategoryOther, Name: "Other"},
}

// GenericSKUPrefix is used for uncategorized products and unknown categories.
const GenericSKUPrefix = "GEN"

var skuPrefixes = map[string]string{
	CategorySeed:          "SEM",
	CategorySeedling:      "PIA",
	CategoryFertilizer:    "CON",
	CategoryPhytosanitary: "FIT",
	CategorySubstrate:     "SUB",
}

// SKUPrefix maps a category code to the prefix of its product codes.
func SKUPrefix(categoryCode string) string {
	if p, ok := skuPrefixes[categoryCode]; ok {
		return p
	}
	return GenericSKUPrefix
}

// Unit is a unit of measure.
type Unit struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(20);uniqueIndex;not null" json:"code"`
	Name string `gorm:"type:varchar(100);not null" json:"name"`
	Type string `gorm:"type:varchar(20);not null" json:"type"` // weight, volume, count, area
}

const (
	UnitTypeWeight = "weight"
	UnitTypeVolume = "volume"
	UnitTypeCount  = "count"
	UnitTypeArea   = "area"
)

var DefaultUnits = []Unit{
	{Code: "kg", Name: "Kilogram", Type: UnitTypeWeight},
	{Code: "g", Name: "Gram", Type: UnitTypeWeight},
	{Code: "l", Name: "Liter", Type: UnitTypeVolume},
	{Code: "ml", Name: "Milliliter", Type: UnitTypeVolume},
	{Code: "pcs", Name: "Piece", Type: UnitTypeCount},
	{Code: "pack", Name: "Pack", Type: UnitTypeCount},
	{Code: "m2", Name: "Square meter", Type: UnitTypeArea},
}

// OperationType is the fixed vocabulary of field operations.
type OperationType struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(30);uniqueIndex;not null" json:"code"`
	Name string `gorm:"type:varchar(100);not null" json:"name"`
}

const (
	OpSeeding       = "seeding"
	OpTransplant    = "transplant"
	OpFertilization = "fertilization"
	OpTreatment     = "treatment"
	OpIrrigation    = "irrigation"
	OpPruning       = "pruning"
	OpWeeding       = "weeding"
	OpHarvest       = "harvest"
)

var DefaultOperationTypes = []OperationType{
	{Code: OpSeeding, Name: "Seeding"},
	{Code: OpTransplant, Name: "Transplant"},
	{Code: OpFertilization, Name: "Fertilization"},
	{Code: OpTreatment, Name: "Treatment"},
	{Code: OpIrrigation, Name: "Irrigation"},
	{Code: OpPruning, Name: "Pruning"},
	{Code: OpWeeding, Name: "Weeding"},
	{Code: OpHarvest, Name: "Harvest"},
}

// UsesDosage reports whether consumption for this operation type is derived
// from a dosage and a water volume.
func UsesDosage(typeCode string) bool {
	return typeCode == OpFertilization || typeCode == OpTreatment
}
