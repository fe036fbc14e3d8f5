package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"

	jwt "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.ApiService/implementation/jwt"
	"gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.ApiService/response"
	"gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.ApiService/validation"
	logger "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Logger"
	tlgmodels "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Models"
	api_models "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Models/api"
	interfaces "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Repository/Interfaces"
)

// SensorsHandler serves /sensors, the endpoint devices report to
type SensorsHandler struct {
	temperatureRepo interfaces.TemperatureRepository
	jwtService      *jwt.Service
	validator       *validation.Validator
	responses       *response.Builder
	logger          *logger.Logger
	now             func() time.Time
}

func NewSensorsHandler(temperatureRepo interfaces.TemperatureRepository, jwtService *jwt.Service, validator *validation.Validator, responses *response.Builder, log *logger.Logger) *SensorsHandler {
	return &SensorsHandler{
		temperatureRepo: temperatureRepo,
		jwtService:      jwtService,
		validator:       validator,
		responses:       responses,
		logger:          log.WithComponent("sensors_handler"),
		now:             time.Now,
	}
}

func (h *SensorsHandler) Handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	return dispatch(ctx, req, routes{
		http.MethodGet:  h.status,
		http.MethodPost: h.report,
	}, h.responses, h.logger)
}

func (h *SensorsHandler) status(ctx context.Context, req *events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	if _, err := h.jwtService.VerifyRequest(req); err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	return h.responses.Build(http.StatusOK, req, api_models.SensorStatus{Temperature: "yes"}), nil
}

func (h *SensorsHandler) report(ctx context.Context, req *events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	if _, err := h.jwtService.VerifyRequest(req); err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}

	var body api_models.PostSensorsBody
	if err := h.validator.ValidateBody(req, &body); err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}

	if body.Temperature != nil {
		reading := tlgmodels.Temperature{
			DeviceID:  body.DeviceID,
			Timestamp: h.now().UnixMilli(),
			Celsius:   *body.Temperature,
		}
		if err := h.temperatureRepo.CreateTemperature(ctx, reading); err != nil {
			return events.APIGatewayV2HTTPResponse{}, err
		}
		h.logger.Logger.Info().Str("device_id", body.DeviceID).Float64("celsius", reading.Celsius).Msg("Stored sensor reading")
	}
	return h.responses.Build(http.StatusCreated, req, nil), nil
}
