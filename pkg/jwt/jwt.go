package jwt

import (
	"errors"
	"os"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingToken = errors.New("missing authorization token")
)

const (
	issuer        = "go-farm-inventory"
	tokenLifetime = 24 * time.Hour
)

// Claims represents the JWT claims structure
type Claims struct {
	UserID       uint     `json:"user_id"`
	Email        string   `json:"email"`
	Name         string   `json:"name"`
	RoleCode     string   `json:"role_code"`
	Privileges   []string `json:"privileges"`
	TokenVersion string   `json:"token_version"`
	jwt.RegisteredClaims
}

var (
	secretMu sync.RWMutex
	secret   []byte
)

// SetSecret overrides the signing key. An empty value restores the
// JWT_SECRET lookup.
func SetSecret(key string) {
	secretMu.Lock()
	defer secretMu.Unlock()
	secret = []byte(key)
}

// GetSecretKey returns the configured secret, then JWT_SECRET, then a default
func GetSecretKey() []byte {
	secretMu.RLock()
	defer secretMu.RUnlock()
	if len(secret) > 0 {
		return secret
	}
	if env := os.Getenv("JWT_SECRET"); env != "" {
		return []byte(env)
	}
	return []byte("your-super-secret-key-change-in-production")
}

// GenerateToken creates a new JWT token for a user
func GenerateToken(userID uint, email, name, roleCode string, privileges []string, tokenVersion string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:       userID,
		Email:        email,
		Name:         name,
		RoleCode:     roleCode,
		Privileges:   privileges,
		TokenVersion: tokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(GetSecretKey())
}

// ValidateToken parses and validates a JWT token
func ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return GetSecretKey(), nil
	}, jwt.WithIssuer(issuer))

	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}
