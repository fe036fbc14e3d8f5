package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	jwt "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.ApiService/implementation/jwt"
	"gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.ApiService/response"
	"gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.ApiService/validation"
	apierrors "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Errors"
	logger "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Logger"
	tlgmodels "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Models"
	api_models "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Models/api"
	interfaces "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Repository/Interfaces"
)

// TemperatureHandler serves /temperature: range queries and single reading ingestion
type TemperatureHandler struct {
	temperatureRepo interfaces.TemperatureRepository
	jwtService      *jwt.Service
	validator       *validation.Validator
	responses       *response.Builder
	logger          *logger.Logger
}

func NewTemperatureHandler(temperatureRepo interfaces.TemperatureRepository, jwtService *jwt.Service, validator *validation.Validator, responses *response.Builder, log *logger.Logger) *TemperatureHandler {
	return &TemperatureHandler{
		temperatureRepo: temperatureRepo,
		jwtService:      jwtService,
		validator:       validator,
		responses:       responses,
		logger:          log.WithComponent("temperature_handler"),
	}
}

func (h *TemperatureHandler) Handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	return dispatch(ctx, req, routes{
		http.MethodGet:  h.getRange,
		http.MethodPost: h.create,
	}, h.responses, h.logger)
}

func (h *TemperatureHandler) getRange(ctx context.Context, req *events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	if _, err := h.jwtService.VerifyRequest(req); err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}

	var query api_models.GetTemperatureQuery
	if err := h.validator.ValidateQuery(req, &query); err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	if *query.From > *query.To {
		return events.APIGatewayV2HTTPResponse{}, apierrors.BadRequest(fmt.Errorf("from %d is after to %d", *query.From, *query.To))
	}

	readings, found, err := h.temperatureRepo.GetTemperatures(ctx, interfaces.ReadingRange{
		DeviceID: query.DeviceID,
		From:     *query.From,
		To:       *query.To,
	})
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	if !found {
		return events.APIGatewayV2HTTPResponse{}, apierrors.NotFound(fmt.Errorf("no readings for %s", query.DeviceID))
	}
	return h.responses.Build(http.StatusOK, req, readings), nil
}

func (h *TemperatureHandler) create(ctx context.Context, req *events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	if _, err := h.jwtService.VerifyRequest(req); err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}

	var body api_models.PostTemperatureBody
	if err := h.validator.ValidateBody(req, &body); err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}

	// TODO: reject readings for device IDs that are not in the devices table
	if err := h.temperatureRepo.CreateTemperature(ctx, tlgmodels.Temperature{
		DeviceID:  body.DeviceID,
		Timestamp: *body.Timestamp,
		Celsius:   *body.Celsius,
	}); err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	return h.responses.Build(http.StatusCreated, req, nil), nil
}
