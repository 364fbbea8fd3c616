package model

import (
	"golang.org/x/crypto/bcrypt"
)

// User is a farm operator allowed to sign in when authentication is enabled.
type User struct {
	BaseModel
	Email        string      `gorm:"type:varchar(255);uniqueIndex;not null" json:"email" validate:"required,email"`
	Password     string      `gorm:"type:varchar(255);not null" json:"-"`
	FullName     string      `gorm:"type:varchar(255)" json:"full_name" validate:"required"`
	RoleID       *uint       `gorm:"index" json:"role_id"`
	Role         *Role       `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	IsActive     bool        `gorm:"not null;default:true" json:"is_active"`
	Privileges   []Privilege `gorm:"many2many:user_privileges;" json:"privileges,omitempty"`
	TokenVersion string      `gorm:"type:varchar(255);default:''" json:"-"` // For single session enforcement
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}

// PrivilegeCodes merges the user's direct privileges with the role's.
func (u *User) PrivilegeCodes() []string {
	seen := make(map[string]bool)
	var codes []string
	add := func(list []Privilege) {
		for _, p := range list {
			if !seen[p.Code] {
				seen[p.Code] = true
				codes = append(codes, p.Code)
			}
		}
	}
	add(u.Privileges)
	if u.Role != nil {
		add(u.Role.Privileges)
	}
	return codes
}

// UserResponse is used for API responses (without sensitive data)
type UserResponse struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	RoleID   *uint  `json:"role_id,omitempty"`
	Role     *Role  `json:"role,omitempty"`
	IsActive bool   `json:"is_active"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:       u.ID,
		Email:    u.Email,
		FullName: u.FullName,
		RoleID:   u.RoleID,
		Role:     u.Role,
		IsActive: u.IsActive,
	}
}
