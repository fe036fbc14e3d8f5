package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setApiEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_NAME", "templog")
	t.Setenv("STAGE", "dev")
	t.Setenv("HASHED_PASSWORD", "$2a$10$abcdefghijklmnopqrstuv")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DOMAIN", "https://dash.example.com")
	t.Setenv("DEV_DOMAIN", "http://localhost:3000, http://127.0.0.1:3000")
}

func TestLoadApiConfig(t *testing.T) {
	setApiEnv(t)

	cfg, err := LoadApiConfig()
	require.NoError(t, err)

	assert.Equal(t, "templog", cfg.App.Name)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.TokenDuration)
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, cfg.AllowedOrigins())
	assert.Equal(t, 100, cfg.DeviceScanLimit)
	assert.Equal(t, "dynamodb", cfg.Database.Backend)
}

func TestAllowedOriginsProdStage(t *testing.T) {
	setApiEnv(t)
	t.Setenv("STAGE", ProdStage)

	cfg, err := LoadApiConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://dash.example.com"}, cfg.AllowedOrigins())
}

func TestLoadApiConfigMissingRequired(t *testing.T) {
	tests := []struct {
		name  string
		unset string
	}{
		{"app name", "APP_NAME"},
		{"password hash", "HASHED_PASSWORD"},
		{"jwt secret", "JWT_SECRET"},
		{"dev origins", "DEV_DOMAIN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setApiEnv(t)
			t.Setenv(tt.unset, "")

			_, err := LoadApiConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.unset)
		})
	}
}

func TestLoadPollerConfig(t *testing.T) {
	t.Setenv("APP_NAME", "templog")
	t.Setenv("OPEN_WEATHER_MAP_API_KEY", "key")
	t.Setenv("LATITUDE", "60.17")
	t.Setenv("LONGITUDE", "24.94")

	cfg, err := LoadPollerConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://api.openweathermap.org", cfg.Weather.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Weather.Timeout)

	t.Setenv("LATITUDE", "")
	_, err = LoadPollerConfig()
	require.Error(t, err)
}

func TestInvalidStoreBackend(t *testing.T) {
	setApiEnv(t)
	t.Setenv("STORE_BACKEND", "postgres")

	_, err := LoadApiConfig()
	require.Error(t, err)
}
