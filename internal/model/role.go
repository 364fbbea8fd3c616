package model

// Role groups privileges for operators.
type Role struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Code        string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Name        string      `gorm:"type:varchar(100)" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Privileges  []Privilege `gorm:"many2many:role_privileges;" json:"privileges,omitempty"`
}

const (
	RoleFarmManager = "FARM_MANAGER"
	RoleOperator    = "OPERATOR"
)

var DefaultRoles = []Role{
	{
		Code:        RoleFarmManager,
		Name:        "Farm manager",
		Description: "Full access, including deletions and exports",
	},
	{
		Code:        RoleOperator,
		Name:        "Field operator",
		Description: "Records operations, purchases and harvests",
	},
}

// OperatorExcluded lists the privileges the operator role does not receive.
var OperatorExcluded = map[string]bool{
	PrivProductDelete:   true,
	PrivOperationDelete: true,
}
