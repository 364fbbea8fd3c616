package repository

import (
	"go-farm-inventory/internal/model"

	"gorm.io/gorm"
)

type PrivilegeRepository interface {
	FindAll() ([]model.Privilege, error)
	SeedDefaults() error
}

type privilegeRepo struct {
	db *gorm.DB
}

func NewPrivilegeRepo(db *gorm.DB) PrivilegeRepository {
	return &privilegeRepo{db}
}

func (r *privilegeRepo) FindAll() ([]model.Privilege, error) {
	var privileges []model.Privilege
	if err := r.db.Order("code").Find(&privileges).Error; err != nil {
		return nil, err
	}
	return privileges, nil
}

// SeedDefaults creates default privileges if they don't exist
func (r *privilegeRepo) SeedDefaults() error {
	for _, p := range model.DefaultPrivileges {
		var existing model.Privilege
		if err := r.db.Where("code = ?", p.Code).First(&existing).Error; err == gorm.ErrRecordNotFound {
			if err := r.db.Create(&p).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
