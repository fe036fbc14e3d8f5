package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/golang-jwt/jwt/v5"

	apierrors "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Errors"
	api_models "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Models/api"
)

const bearerPrefix = "bearer "

// Service issues and verifies the dashboard's session tokens
type Service struct {
	config api_models.JWTConfig
	now    func() time.Time
}

// NewService creates a new JWT service
func NewService(config api_models.JWTConfig) *Service {
	return &Service{
		config: config,
		now:    time.Now,
	}
}

// Issue signs a new token valid for the configured duration
func (s *Service) Issue() (string, error) {
	if s.config.SecretKey == "" {
		return "", apierrors.Internal(errors.New("jwt secret is not configured"))
	}

	now := s.now()
	claims := api_models.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TokenDuration)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.SecretKey))
	if err != nil {
		return "", apierrors.Internal(fmt.Errorf("failed to sign token: %w", err))
	}
	return signed, nil
}

// Verify checks the signature, algorithm and expiry of a token
func (s *Service) Verify(tokenString string) (*api_models.TokenClaims, error) {
	if s.config.SecretKey == "" {
		return nil, apierrors.Internal(errors.New("jwt secret is not configured"))
	}

	claims := &api_models.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.config.SecretKey), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, apierrors.Unauthorized(err)
	}
	if !token.Valid {
		return nil, apierrors.Unauthorized(errors.New("invalid token"))
	}
	return claims, nil
}

// VerifyRequest extracts the bearer token of an API Gateway request and verifies it
func (s *Service) VerifyRequest(req *events.APIGatewayV2HTTPRequest) (*api_models.TokenClaims, error) {
	if req == nil {
		return nil, apierrors.Unauthorized(errors.New("no request"))
	}
	token, err := ExtractBearer(req.Headers)
	if err != nil {
		return nil, err
	}
	return s.Verify(token)
}

// ExtractBearer returns the token of an "Authorization: Bearer <token>" header.
// Header names are matched case-insensitively.
func ExtractBearer(headers map[string]string) (string, error) {
	var value string
	found := false
	for name, v := range headers {
		if strings.EqualFold(name, "Authorization") {
			value, found = v, true
			break
		}
	}
	if !found {
		return "", apierrors.Unauthorized(errors.New("authorization header is missing"))
	}

	value = strings.TrimSpace(value)
	if len(value) < len(bearerPrefix) || !strings.EqualFold(value[:len(bearerPrefix)], bearerPrefix) {
		return "", apierrors.Unauthorized(errors.New("authorization header is not a bearer token"))
	}

	token := strings.TrimSpace(value[len(bearerPrefix):])
	if token == "" {
		return "", apierrors.Unauthorized(errors.New("bearer token is empty"))
	}
	return token, nil
}
