package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	jwt "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.ApiService/implementation/jwt"
	apierrors "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Errors"
)

// AuthService checks the dashboard password and hands out tokens.
// There is exactly one principal, identified by a single bcrypt hash.
type AuthService struct {
	hashedPassword []byte
	jwtService     *jwt.Service
}

// NewAuthService creates a new auth service
func NewAuthService(hashedPassword string, jwtService *jwt.Service) *AuthService {
	return &AuthService{
		hashedPassword: []byte(hashedPassword),
		jwtService:     jwtService,
	}
}

// Login compares password against the stored hash and issues a token on match
func (s *AuthService) Login(ctx context.Context, password string) (string, error) {
	if len(s.hashedPassword) == 0 {
		return "", apierrors.Internal(errors.New("hashed password is not configured"))
	}

	err := bcrypt.CompareHashAndPassword(s.hashedPassword, []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return "", apierrors.Forbidden(errors.New("invalid credentials"))
	}
	if err != nil {
		return "", apierrors.Internal(err)
	}

	return s.jwtService.Issue()
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
