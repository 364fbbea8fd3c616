package service

import (
	"errors"

	"go-farm-inventory/internal/model"
	"go-farm-inventory/internal/repository"
	"go-farm-inventory/pkg/logger"

	"gorm.io/gorm"
)

// SeedAccess creates default privileges, roles and the first manager account
// when they are missing. Existing role assignments are left untouched.
func SeedAccess(
	privileges repository.PrivilegeRepository,
	roles repository.RoleRepository,
	users repository.UserRepository,
	adminEmail, adminPassword string,
) error {
	log := logger.Get()

	// 1. Seed privileges first
	if err := privileges.SeedDefaults(); err != nil {
		return err
	}

	// 2. Seed roles
	if err := roles.SeedDefaults(); err != nil {
		return err
	}

	// 3. Assign privileges to roles
	all, err := privileges.FindAll()
	if err != nil {
		return err
	}

	manager, err := roles.FindByCode(model.RoleFarmManager)
	if err != nil {
		return err
	}
	if len(manager.Privileges) == 0 {
		if err := roles.AssignPrivileges(manager, all); err != nil {
			return err
		}
		log.Info("FARM_MANAGER role assigned all privileges")
	}

	operator, err := roles.FindByCode(model.RoleOperator)
	if err != nil {
		return err
	}
	if len(operator.Privileges) == 0 {
		var granted []model.Privilege
		for _, p := range all {
			if !model.OperatorExcluded[p.Code] {
				granted = append(granted, p)
			}
		}
		if err := roles.AssignPrivileges(operator, granted); err != nil {
			return err
		}
		log.Info("OPERATOR role assigned limited privileges")
	}

	// 4. Create the manager account
	if adminEmail == "" {
		return nil
	}
	_, err = users.FindByEmail(adminEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	admin := &model.User{
		Email:    adminEmail,
		FullName: "Farm Manager",
		RoleID:   &manager.ID,
		IsActive: true,
	}
	admin.Stamp("system")
	if err := admin.SetPassword(adminPassword); err != nil {
		return err
	}
	if err := users.Create(admin); err != nil {
		return err
	}
	log.WithField("email", adminEmail).Info("manager account created")
	return nil
}
