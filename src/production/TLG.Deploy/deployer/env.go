package deployer

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.ApiService/implementation/auth"
)

// RequiredEnv are the .env variables a deployment cannot go ahead without
var RequiredEnv = []string{"APP_NAME", "IAM_PROFILE", "DOMAIN", "DEV_DOMAIN"}

const passwordHashCost = 10

// CheckEnv reads path and reports the first required variable that is missing or empty
func CheckEnv(path string, required []string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	for _, name := range required {
		if values[name] == "" {
			return nil, fmt.Errorf("missing environment variable %s in %s", name, path)
		}
	}
	return values, nil
}

// EnsureGeneratedEnv makes sure path holds HASHED_PASSWORD and JWT_SECRET. When either
// is missing, askPassword is called and a fresh signing secret is generated.
func EnsureGeneratedEnv(path string, askPassword func() (string, error)) (bool, error) {
	existing, err := godotenv.Read(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if existing["HASHED_PASSWORD"] != "" && existing["JWT_SECRET"] != "" {
		return false, nil
	}

	password, err := askPassword()
	if err != nil {
		return false, err
	}
	if password == "" {
		return false, errors.New("password must not be empty")
	}

	hashed, err := auth.HashPassword(password, passwordHashCost)
	if err != nil {
		return false, fmt.Errorf("failed to hash password: %w", err)
	}
	secret, err := newJWTSecret()
	if err != nil {
		return false, err
	}

	if err := godotenv.Write(map[string]string{
		"HASHED_PASSWORD": hashed,
		"JWT_SECRET":      secret,
	}, path); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return true, nil
}

func newJWTSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate jwt secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
