package services

import (
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const adminTokenTTL = 12 * time.Hour

// AuthService exchanges the shared admin secret for a capability token.
// Every mutating operation requires the token, so privileged and
// unprivileged paths can be exercised without any UI in front.
type AuthService interface {
	Login(secret string) (string, error)
}

type authService struct {
	adminSecret []byte
	jwtSecret   []byte
}

func NewAuthService(adminSecret, jwtSecret string) AuthService {
	return &authService{
		adminSecret: []byte(adminSecret),
		jwtSecret:   []byte(jwtSecret),
	}
}

func (s *authService) Login(secret string) (string, error) {
	if subtle.ConstantTimeCompare(s.adminSecret, []byte(secret)) != 1 {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"role": "admin",
		"iat":  now.Unix(),
		"exp":  now.Add(adminTokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign admin token: %w", err)
	}
	return signed, nil
}
