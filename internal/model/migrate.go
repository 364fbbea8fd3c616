package model

import "gorm.io/gorm"

// Migrate creates or updates every table of the application.
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&Operation{}, "Plots", &OperationPlot{}); err != nil {
		return err
	}
	return db.AutoMigrate(
		&Category{}, &Unit{}, &OperationType{}, &Counter{},
		&Supplier{}, &Plot{}, &Product{}, &Batch{},
		&Operation{}, &OperationPlot{}, &OperationMovement{},
		&Seedling{}, &Harvest{},
		&Privilege{}, &Role{}, &User{},
	)
}
