package handlers

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.ApiService/implementation/auth"
	jwt "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.ApiService/implementation/jwt"
	"gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.ApiService/response"
	"gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.ApiService/validation"
	logger "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Logger"
	api_models "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Models/api"
)

// AuthHandler serves /auth: GET checks a token, POST logs in
type AuthHandler struct {
	authService *auth.AuthService
	jwtService  *jwt.Service
	validator   *validation.Validator
	responses   *response.Builder
	logger      *logger.Logger
}

func NewAuthHandler(authService *auth.AuthService, jwtService *jwt.Service, validator *validation.Validator, responses *response.Builder, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		jwtService:  jwtService,
		validator:   validator,
		responses:   responses,
		logger:      log.WithComponent("auth_handler"),
	}
}

func (h *AuthHandler) Handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	return dispatch(ctx, req, routes{
		http.MethodGet:  h.checkToken,
		http.MethodPost: h.login,
	}, h.responses, h.logger)
}

func (h *AuthHandler) checkToken(ctx context.Context, req *events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	if _, err := h.jwtService.VerifyRequest(req); err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	return h.responses.Build(http.StatusOK, req, nil), nil
}

func (h *AuthHandler) login(ctx context.Context, req *events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	var body api_models.PostAuthBody
	if err := h.validator.ValidateBody(req, &body); err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}

	token, err := h.authService.Login(ctx, body.Password)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	return h.responses.Build(http.StatusCreated, req, api_models.AuthResponse{Token: token}), nil
}
