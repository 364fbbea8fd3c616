package repository

import (
	"go-farm-inventory/internal/model"

	"gorm.io/gorm"
)

type RoleRepository interface {
	FindByCode(code string) (*model.Role, error)
	AssignPrivileges(role *model.Role, privileges []model.Privilege) error
	SeedDefaults() error
}

type roleRepo struct {
	db *gorm.DB
}

func NewRoleRepo(db *gorm.DB) RoleRepository {
	return &roleRepo{db: db}
}

func (r *roleRepo) FindByCode(code string) (*model.Role, error) {
	var role model.Role
	err := r.db.Preload("Privileges").Where("code = ?", code).First(&role).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepo) AssignPrivileges(role *model.Role, privileges []model.Privilege) error {
	return r.db.Model(role).Association("Privileges").Replace(privileges)
}

func (r *roleRepo) SeedDefaults() error {
	for _, defaultRole := range model.DefaultRoles {
		var existingRole model.Role
		err := r.db.Where("code = ?", defaultRole.Code).First(&existingRole).Error
		if err == gorm.ErrRecordNotFound {
			if err := r.db.Create(&defaultRole).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
