package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ProdStage is the deployment stage that selects the production CORS origins
const ProdStage = "prod"

// Config holds all application configuration
type Config struct {
	// Application naming, used to resolve physical table names
	App AppConfig `json:"app"`

	// Local development server configuration
	Server ServerConfig `json:"server"`

	// DynamoDB configuration
	Database DatabaseConfig `json:"database"`

	// Auth configuration
	Auth AuthConfig `json:"auth"`

	// CORS configuration
	CORS CORSConfig `json:"cors"`

	// Logging configuration
	Logging LoggingConfig `json:"logging"`

	// Weather poller configuration
	Weather WeatherConfig `json:"weather"`

	// Maximum number of devices returned by GET /devices
	DeviceScanLimit int `json:"device_scan_limit"`
}

// AppConfig names the deployment
type AppConfig struct {
	Name  string `json:"name"`
	Stage string `json:"stage"`
}

// ServerConfig holds local server configuration
type ServerConfig struct {
	Port         string        `json:"port"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	IdleTimeout  time.Duration `json:"idle_timeout"`
}

// DatabaseConfig holds DynamoDB-related configuration
type DatabaseConfig struct {
	Backend  string `json:"backend"` // dynamodb or memory
	Region   string `json:"region"`
	Endpoint string `json:"endpoint"`
}

// AuthConfig holds authentication-related configuration
type AuthConfig struct {
	HashedPassword string        `json:"-"`
	JWTSecret      string        `json:"-"`
	TokenDuration  time.Duration `json:"token_duration"`
}

// CORSConfig holds the stage-scoped origin allowlists and the headers sent with allowed responses
type CORSConfig struct {
	ProdOrigins    []string `json:"prod_origins"`
	DevOrigins     []string `json:"dev_origins"`
	AllowedMethods []string `json:"allowed_methods"`
	AllowedHeaders []string `json:"allowed_headers"`
	MaxAge         int      `json:"max_age"`
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level        string `json:"level"`
	Format       string `json:"format"` // json or text
	Output       string `json:"output"` // stdout or stderr
	EnableCaller bool   `json:"enable_caller"`
}

// WeatherConfig holds configuration for the outside temperature poller
type WeatherConfig struct {
	APIKey    string        `json:"-"`
	BaseURL   string        `json:"base_url"`
	Latitude  string        `json:"latitude"`
	Longitude string        `json:"longitude"`
	Timeout   time.Duration `json:"timeout"`
}

// AllowedOrigins returns the origin allowlist for the configured stage
func (c *Config) AllowedOrigins() []string {
	if c.App.Stage == ProdStage {
		return c.CORS.ProdOrigins
	}
	return c.CORS.DevOrigins
}

// LoadApiConfig loads configuration for the HTTP handlers
func LoadApiConfig() (*Config, error) {
	loadEnvFiles()

	config := load()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

// LoadPollerConfig loads configuration for the scheduled weather poller
func LoadPollerConfig() (*Config, error) {
	loadEnvFiles()

	config := load()
	if err := config.ValidatePoller(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

func load() *Config {
	return &Config{
		App: AppConfig{
			Name:  getEnv("APP_NAME", ""),
			Stage: getEnv("STAGE", "dev"),
		},
		Server: ServerConfig{
			Port:         getEnv("PORT", "9002"),
			ReadTimeout:  getDuration("READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getDuration("WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getDuration("IDLE_TIMEOUT", 120*time.Second),
		},
		Database: DatabaseConfig{
			Backend:  getEnv("STORE_BACKEND", "dynamodb"),
			Region:   getEnv("AWS_REGION", "us-east-1"),
			Endpoint: getEnv("DYNAMODB_ENDPOINT", ""),
		},
		Auth: AuthConfig{
			HashedPassword: getEnv("HASHED_PASSWORD", ""),
			JWTSecret:      getEnv("JWT_SECRET", ""),
			TokenDuration:  getDuration("JWT_TOKEN_DURATION", 7*24*time.Hour),
		},
		CORS: CORSConfig{
			ProdOrigins:    getStringSlice("DOMAIN", nil),
			DevOrigins:     getStringSlice("DEV_DOMAIN", nil),
			AllowedMethods: getStringSlice("CORS_ALLOWED_METHODS", []string{"GET", "HEAD", "OPTIONS", "POST", "PUT", "DELETE"}),
			AllowedHeaders: getStringSlice("CORS_ALLOWED_HEADERS", []string{"Origin", "X-Requested-With", "Content-Type", "Accept", "Authorization"}),
			MaxAge:         getInt("CORS_MAX_AGE", 86400),
		},
		Logging: LoggingConfig{
			Level:        getEnv("LOG_LEVEL", "info"),
			Format:       getEnv("LOG_FORMAT", "json"),
			Output:       getEnv("LOG_OUTPUT", "stdout"),
			EnableCaller: getBool("LOG_ENABLE_CALLER", false),
		},
		Weather: WeatherConfig{
			APIKey:    getEnv("OPEN_WEATHER_MAP_API_KEY", ""),
			BaseURL:   getEnv("OPEN_WEATHER_MAP_URL", "https://api.openweathermap.org"),
			Latitude:  getEnv("LATITUDE", ""),
			Longitude: getEnv("LONGITUDE", ""),
			Timeout:   getDuration("WEATHER_TIMEOUT", 10*time.Second),
		},
		DeviceScanLimit: getInt("DEVICE_SCAN_LIMIT", 100),
	}
}

// Validate checks the values the HTTP handlers cannot run without
func (c *Config) Validate() error {
	if err := c.validateStorage(); err != nil {
		return err
	}
	if c.Auth.HashedPassword == "" {
		return fmt.Errorf("HASHED_PASSWORD is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Auth.TokenDuration <= 0 {
		return fmt.Errorf("JWT_TOKEN_DURATION must be positive")
	}
	if len(c.AllowedOrigins()) == 0 {
		if c.App.Stage == ProdStage {
			return fmt.Errorf("DOMAIN is required")
		}
		return fmt.Errorf("DEV_DOMAIN is required")
	}
	if c.DeviceScanLimit <= 0 {
		return fmt.Errorf("DEVICE_SCAN_LIMIT must be positive")
	}
	return nil
}

// ValidatePoller checks the values the weather poller cannot run without
func (c *Config) ValidatePoller() error {
	if err := c.validateStorage(); err != nil {
		return err
	}
	if c.Weather.APIKey == "" {
		return fmt.Errorf("OPEN_WEATHER_MAP_API_KEY is required")
	}
	if c.Weather.Latitude == "" || c.Weather.Longitude == "" {
		return fmt.Errorf("LATITUDE and LONGITUDE are required")
	}
	return nil
}

func (c *Config) validateStorage() error {
	if c.App.Name == "" {
		return fmt.Errorf("APP_NAME is required")
	}
	if c.App.Stage == "" {
		return fmt.Errorf("STAGE is required")
	}
	switch c.Database.Backend {
	case "dynamodb", "memory":
	default:
		return fmt.Errorf("invalid STORE_BACKEND %q (expected dynamodb or memory)", c.Database.Backend)
	}
	return nil
}

// loadEnvFiles reads .env and the deploy-generated secrets file if present.
// Variables already set in the process environment win.
func loadEnvFiles() {
	for _, file := range []string{".env", "generated.env"} {
		if _, err := os.Stat(file); err == nil {
			_ = godotenv.Load(file)
		}
	}
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}

func getBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}

func getStringSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := make([]string, 0)
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
