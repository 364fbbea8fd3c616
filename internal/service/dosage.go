package service

import "github.com/shopspring/decimal"

var thousand = decimal.NewFromInt(1000)

// DerivedQuantity computes the product consumed by a fertilization or
// treatment: (dosage per hectoliter / 1000) * water liters. It reports false
// when either input is missing.
func DerivedQuantity(dosagePerHl, waterLiters decimal.NullDecimal) (decimal.Decimal, bool) {
	if !dosagePerHl.Valid || !waterLiters.Valid {
		return decimal.Zero, false
	}
	if dosagePerHl.Decimal.IsZero() || waterLiters.Decimal.IsZero() {
		return decimal.Zero, false
	}
	return dosagePerHl.Decimal.Div(thousand).Mul(waterLiters.Decimal), true
}
