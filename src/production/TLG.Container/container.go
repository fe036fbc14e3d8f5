package container

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.ApiService/handlers"
	"gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.ApiService/health"
	"gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.ApiService/implementation/auth"
	jwt "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.ApiService/implementation/jwt"
	"gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.ApiService/response"
	"gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.ApiService/validation"
	config "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Config"
	logger "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Logger"
	api_models "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Models/api"
	implementation "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Repository/Implementation"
	interfaces "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Repository/Interfaces"
	"gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.WeatherPoller/client"
	"gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.WeatherPoller/poller"
)

const (
	BackendDynamoDB = "dynamodb"
	BackendMemory   = "memory"
)

// Container manages dependencies and their lifecycle. One is built per cold start
// and reused across invocations.
type Container struct {
	config *config.Config
	logger *logger.Logger
	store  interfaces.ItemStore

	deviceRepo  *implementation.DeviceRepository
	readingRepo *implementation.ReadingRepository

	healthChecker *health.HealthChecker
	mu            sync.Mutex
}

// ApiContainer adds the services behind the HTTP handlers
type ApiContainer struct {
	*Container

	jwtService  *jwt.Service
	authService *auth.AuthService
	validator   *validation.Validator
	responses   *response.Builder
}

// PollerContainer manages dependencies for the weather poller
type PollerContainer struct {
	*Container
}

// NewApiContainer creates a new container for the HTTP handlers
func NewApiContainer(ctx context.Context) (*ApiContainer, error) {
	cfg, err := config.LoadApiConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load API configuration: %w", err)
	}
	return NewApiContainerWithConfig(ctx, cfg, logger.NewLogger(&cfg.Logging))
}

// NewApiContainerWithConfig builds an API container from an already loaded configuration
func NewApiContainerWithConfig(ctx context.Context, cfg *config.Config, log *logger.Logger) (*ApiContainer, error) {
	base, err := newContainer(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	jwtService := jwt.NewService(api_models.JWTConfig{
		SecretKey:     cfg.Auth.JWTSecret,
		TokenDuration: cfg.Auth.TokenDuration,
	})

	return &ApiContainer{
		Container:   base,
		jwtService:  jwtService,
		authService: auth.NewAuthService(cfg.Auth.HashedPassword, jwtService),
		validator:   validation.NewValidator(log),
		responses:   response.NewBuilder(cfg, log),
	}, nil
}

// NewPollerContainer creates a new container for the weather poller
func NewPollerContainer(ctx context.Context) (*PollerContainer, error) {
	cfg, err := config.LoadPollerConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load poller configuration: %w", err)
	}

	base, err := newContainer(ctx, cfg, logger.NewLogger(&cfg.Logging))
	if err != nil {
		return nil, err
	}
	return &PollerContainer{Container: base}, nil
}

func newContainer(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	store, err := newStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	log.Logger.Info().
		Str("app", cfg.App.Name).
		Str("stage", cfg.App.Stage).
		Str("backend", cfg.Database.Backend).
		Msg("Container initialized")

	return &Container{
		config:      cfg,
		logger:      log,
		store:       store,
		deviceRepo:  implementation.NewDeviceRepository(store),
		readingRepo: implementation.NewReadingRepository(store),
	}, nil
}

func newStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (interfaces.ItemStore, error) {
	names := implementation.TableNames{App: cfg.App.Name, Stage: cfg.App.Stage}

	switch cfg.Database.Backend {
	case BackendMemory:
		log.Warn("Using in-memory store, data is lost on restart")
		return implementation.NewMemoryStore(names, implementation.DefaultSchemas()), nil
	case BackendDynamoDB, "":
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Database.Backend)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Database.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	dynamoClient := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Database.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Database.Endpoint)
		}
	})
	return implementation.NewDynamoStore(dynamoClient, names, log), nil
}

// GetConfig returns the configuration
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetLogger returns the logger
func (c *Container) GetLogger() *logger.Logger {
	return c.logger
}

// GetStore returns the item store
func (c *Container) GetStore() interfaces.ItemStore {
	return c.store
}

// GetDeviceRepository returns the device repository
func (c *Container) GetDeviceRepository() *implementation.DeviceRepository {
	return c.deviceRepo
}

// GetHealthChecker returns the health checker
func (c *Container) GetHealthChecker() *health.HealthChecker {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.healthChecker == nil {
		c.healthChecker = health.NewHealthChecker(c.store)
	}
	return c.healthChecker
}

// HealthCheck performs a health check of every table
func (c *Container) HealthCheck(ctx context.Context) map[string]interface{} {
	return c.GetHealthChecker().GetHealthStatus(ctx)
}

func (c *ApiContainer) AuthHandler() *handlers.AuthHandler {
	return handlers.NewAuthHandler(c.authService, c.jwtService, c.validator, c.responses, c.logger)
}

func (c *ApiContainer) DevicesHandler() *handlers.DevicesHandler {
	return handlers.NewDevicesHandler(c.deviceRepo, c.jwtService, c.responses, c.logger, c.config.DeviceScanLimit)
}

func (c *ApiContainer) SensorsHandler() *handlers.SensorsHandler {
	return handlers.NewSensorsHandler(c.readingRepo, c.jwtService, c.validator, c.responses, c.logger)
}

func (c *ApiContainer) TemperatureHandler() *handlers.TemperatureHandler {
	return handlers.NewTemperatureHandler(c.readingRepo, c.jwtService, c.validator, c.responses, c.logger)
}

// Poller builds the weather poller from the weather configuration
func (c *PollerContainer) Poller() *poller.Poller {
	w := c.config.Weather
	weather := client.NewWeatherClient(w.BaseURL, w.APIKey, w.Latitude, w.Longitude, w.Timeout)
	return poller.NewPoller(weather, c.readingRepo, c.readingRepo, c.logger)
}
