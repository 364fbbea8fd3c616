package service

import (
	"errors"

	"github.com/google/uuid"

	"go-farm-inventory/internal/model"
	"go-farm-inventory/internal/repository"
	"go-farm-inventory/pkg/jwt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrSessionReplaced    = errors.New("session expired (logged in on another device)")
)

type AuthService interface {
	Login(email, password string) (*LoginResponse, error)
	ChangePassword(email, oldPassword, newPassword string) error
	ValidateToken(tokenString string) (*TokenValidationResponse, error)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

type LoginResponse struct {
	Token      string             `json:"token"`
	User       model.UserResponse `json:"user"`
	Role       *model.Role        `json:"role"`
	Privileges []string           `json:"privileges"`
}

type TokenValidationResponse struct {
	User       model.UserResponse `json:"user"`
	Role       *model.Role        `json:"role"`
	Privileges []string           `json:"privileges"`
}

type authService struct {
	userRepo repository.UserRepository
}

func NewAuthService(userRepo repository.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

func (s *authService) Login(email, password string) (*LoginResponse, error) {
	// 1. Find user by email
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	// 2. Check if user is active
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	// 3. Verify password
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	roleCode := ""
	if user.Role != nil {
		roleCode = user.Role.Code
	}

	// 4. Single session: a new token version invalidates older tokens
	version := uuid.New().String()
	if err := s.userRepo.UpdateTokenVersion(user.ID, version); err != nil {
		logFailure("Login", "update token version", user.ID, err)
		return nil, errors.New("failed to update session")
	}

	privileges := user.PrivilegeCodes()
	token, err := jwt.GenerateToken(user.ID, user.Email, user.FullName, roleCode, privileges, version)
	if err != nil {
		logFailure("Login", "generate token", user.ID, err)
		return nil, errors.New("failed to generate token")
	}

	return &LoginResponse{
		Token:      token,
		User:       user.ToResponse(),
		Role:       user.Role,
		Privileges: privileges,
	}, nil
}

func (s *authService) ChangePassword(email, oldPassword, newPassword string) error {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return ErrUserNotFound
	}
	if !user.CheckPassword(oldPassword) {
		return ErrWrongPassword
	}
	if err := user.SetPassword(newPassword); err != nil {
		return errors.New("failed to hash new password")
	}
	if err := s.userRepo.UpdatePassword(user.ID, user.Password); err != nil {
		return err
	}
	// Existing tokens stop validating after a password change.
	return s.userRepo.UpdateTokenVersion(user.ID, uuid.New().String())
}

func (s *authService) ValidateToken(tokenString string) (*TokenValidationResponse, error) {
	claims, err := jwt.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	if user.TokenVersion != claims.TokenVersion {
		return nil, ErrSessionReplaced
	}

	return &TokenValidationResponse{
		User:       user.ToResponse(),
		Role:       user.Role,
		Privileges: user.PrivilegeCodes(),
	}, nil
}
