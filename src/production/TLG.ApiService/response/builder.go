package response

import (
	"errors"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	json "github.com/goccy/go-json"

	config "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Config"
	apierrors "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Errors"
	logger "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Logger"
	api_models "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Models/api"
)

// Builder produces every API Gateway response. CORS headers are only attached
// when the request origin is on the allowlist of the configured stage.
type Builder struct {
	origins        []string
	allowedHeaders string
	allowedMethods string
	maxAge         string
	logger         *logger.Logger
}

// NewBuilder creates a response builder from the CORS section of cfg
func NewBuilder(cfg *config.Config, log *logger.Logger) *Builder {
	return &Builder{
		origins:        cfg.AllowedOrigins(),
		allowedHeaders: strings.Join(cfg.CORS.AllowedHeaders, ", "),
		allowedMethods: strings.Join(cfg.CORS.AllowedMethods, ","),
		maxAge:         strconv.Itoa(cfg.CORS.MaxAge),
		logger:         log.WithComponent("response"),
	}
}

// Build returns a response with the given code and optional JSON body.
// It never fails: problems are logged and answered with an empty 404.
func (b *Builder) Build(code int, req *events.APIGatewayV2HTTPRequest, body any) events.APIGatewayV2HTTPResponse {
	b.logger.Logger.Info().Int("status", code).Msg("Returning response")
	if code >= http.StatusBadRequest {
		b.logger.Logger.Error().Int("status", code).Msg("Returning error response")
	}

	fallback := events.APIGatewayV2HTTPResponse{StatusCode: http.StatusNotFound}
	if req == nil {
		b.logger.ErrorWithError(errors.New("request was not supplied"), "Failed to build response")
		return fallback
	}

	origin := Header(req.Headers, "Origin")
	if origin == "" {
		b.logger.Warn("Request has no origin header")
		return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusBadRequest}
	}
	if !slices.Contains(b.origins, origin) {
		b.logger.Logger.Warn().Str("origin", origin).Msg("Request origin is not in the allowlist")
		return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusUnauthorized}
	}

	var payload string
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			b.logger.ErrorWithError(err, "Failed to encode response body")
			return fallback
		}
		payload = string(encoded)
	}

	return events.APIGatewayV2HTTPResponse{
		StatusCode: code,
		Headers: map[string]string{
			"Content-Type":                     "application/json",
			"Access-Control-Allow-Origin":      origin,
			"Access-Control-Allow-Credentials": "true",
			"Access-Control-Allow-Headers":     b.allowedHeaders,
			"Access-Control-Allow-Methods":     b.allowedMethods,
			"Access-Control-Max-Age":           b.maxAge,
			"Vary":                             "Origin",
			"X-Frame-Options":                  "SAMEORIGIN",
			"X-XSS-Protection":                 "1",
		},
		Body: payload,
	}
}

// ErrorResponse answers err with its status and generic message. The cause is logged only.
func (b *Builder) ErrorResponse(err error, req *events.APIGatewayV2HTTPRequest) events.APIGatewayV2HTTPResponse {
	code, message := apierrors.StatusAndMessage(err)
	if code >= http.StatusInternalServerError {
		b.logger.ErrorWithError(err, "Unexpected error")
	} else {
		b.logger.Logger.Warn().Err(err).Int("status", code).Msg("Request failed")
	}

	return b.Build(code, req, api_models.ErrorResponse{
		Status: code,
		Error:  message,
	})
}

// Header looks up a header by name, ignoring case
func Header(headers map[string]string, name string) string {
	if v, ok := headers[name]; ok {
		return v
	}
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}
