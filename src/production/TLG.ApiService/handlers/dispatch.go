package handlers

import (
	"context"
	"fmt"

	"github.com/aws/aws-lambda-go/events"

	"gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.ApiService/response"
	apierrors "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Errors"
	logger "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Logger"
)

// LambdaHandler is the signature passed to lambda.Start for API Gateway HTTP API routes
type LambdaHandler func(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error)

type methodFunc func(ctx context.Context, req *events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error)

// routes maps an HTTP method to its implementation
type routes map[string]methodFunc

// dispatch runs the method handler for req and converts any error or panic into
// an error envelope. The returned error is always nil so Lambda never retries.
func dispatch(ctx context.Context, req events.APIGatewayV2HTTPRequest, methods routes, responses *response.Builder, log *logger.Logger) (res events.APIGatewayV2HTTPResponse, err error) {
	method := req.RequestContext.HTTP.Method
	log = log.WithRequestID(req.RequestContext.RequestID)
	log.Logger.Info().Str("method", method).Str("path", req.RawPath).Msg("Handling request")

	defer func() {
		if r := recover(); r != nil {
			log.Logger.Error().Interface("panic", r).Msg("Recovered from panic")
			res, err = responses.ErrorResponse(apierrors.Internal(fmt.Errorf("panic: %v", r)), &req), nil
		}
	}()

	fn, ok := methods[method]
	if !ok {
		return responses.ErrorResponse(apierrors.MethodNotAllowed(method), &req), nil
	}

	res, callErr := fn(ctx, &req)
	if callErr != nil {
		return responses.ErrorResponse(callErr, &req), nil
	}
	return res, nil
}
