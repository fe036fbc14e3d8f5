package api_models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTConfig holds token signing configuration
type JWTConfig struct {
	SecretKey     string
	TokenDuration time.Duration
}

// TokenClaims carries only the registered issue and expiry times.
// There is a single principal, so no subject or role is embedded.
type TokenClaims struct {
	jwt.RegisteredClaims
}
