package handlers

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	jwt "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.ApiService/implementation/jwt"
	"gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.ApiService/response"
	logger "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Logger"
	interfaces "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Repository/Interfaces"
)

// DevicesHandler serves GET /devices
type DevicesHandler struct {
	deviceRepo interfaces.DeviceRepository
	jwtService *jwt.Service
	responses  *response.Builder
	logger     *logger.Logger
	scanLimit  int
}

func NewDevicesHandler(deviceRepo interfaces.DeviceRepository, jwtService *jwt.Service, responses *response.Builder, log *logger.Logger, scanLimit int) *DevicesHandler {
	return &DevicesHandler{
		deviceRepo: deviceRepo,
		jwtService: jwtService,
		responses:  responses,
		logger:     log.WithComponent("devices_handler"),
		scanLimit:  scanLimit,
	}
}

func (h *DevicesHandler) Handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	return dispatch(ctx, req, routes{
		http.MethodGet: h.listDevices,
	}, h.responses, h.logger)
}

func (h *DevicesHandler) listDevices(ctx context.Context, req *events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	if _, err := h.jwtService.VerifyRequest(req); err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}

	devices, err := h.deviceRepo.ListDevices(ctx, h.scanLimit)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	return h.responses.Build(http.StatusOK, req, devices), nil
}
