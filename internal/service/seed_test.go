package service

import (
	"testing"

	"go-farm-inventory/internal/model"
	"go-farm-inventory/internal/repository"
)

func TestSeedAccess(t *testing.T) {
	env := newTestEnv(t, OperationOptions{})
	privileges := repository.NewPrivilegeRepo(env.db)
	roles := repository.NewRoleRepo(env.db)
	users := repository.NewUserRepo(env.db)

	// Seeding twice must not duplicate anything.
	for i := 0; i < 2; i++ {
		if err := SeedAccess(privileges, roles, users, "boss@farm.local", "s3cret-pass"); err != nil {
			t.Fatalf("SeedAccess run %d: %v", i+1, err)
		}
	}

	if n := env.count(t, &model.User{}); n != 1 {
		t.Errorf("expected one user, got %d", n)
	}

	manager, err := users.FindByEmail("boss@farm.local")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if !manager.CheckPassword("s3cret-pass") {
		t.Error("expected the configured password")
	}
	if got := len(manager.PrivilegeCodes()); got != len(model.DefaultPrivileges) {
		t.Errorf("expected manager to hold all %d privileges, got %d", len(model.DefaultPrivileges), got)
	}

	operator, err := roles.FindByCode(model.RoleOperator)
	if err != nil {
		t.Fatalf("FindByCode: %v", err)
	}
	for _, p := range operator.Privileges {
		if model.OperatorExcluded[p.Code] {
			t.Errorf("operator must not hold %s", p.Code)
		}
	}
	if want := len(model.DefaultPrivileges) - len(model.OperatorExcluded); len(operator.Privileges) != want {
		t.Errorf("expected %d operator privileges, got %d", want, len(operator.Privileges))
	}
}
