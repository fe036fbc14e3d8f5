package devserver

import (
	"encoding/base64"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.ApiService/handlers"
	logger "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Logger"
)

// Adapt serves a Lambda handler from gin by translating the request into an
// API Gateway HTTP API (v2) event and writing the returned envelope back.
func Adapt(h handlers.LambdaHandler, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			log.ErrorWithError(err, "Failed to read request body")
			c.Status(http.StatusBadRequest)
			return
		}

		res, err := h(c.Request.Context(), ToEvent(c.Request, body))
		if err != nil {
			log.ErrorWithError(err, "Handler returned an error")
			c.Status(http.StatusInternalServerError)
			return
		}
		WriteResponse(c, res)
	}
}

// ToEvent builds the event API Gateway would deliver for r. Header names are
// lower-cased and repeated values joined with commas, as API Gateway does.
func ToEvent(r *http.Request, body []byte) events.APIGatewayV2HTTPRequest {
	headers := make(map[string]string, len(r.Header))
	for name, values := range r.Header {
		headers[strings.ToLower(name)] = strings.Join(values, ",")
	}

	var query map[string]string
	if values := r.URL.Query(); len(values) > 0 {
		query = make(map[string]string, len(values))
		for key, v := range values {
			query[key] = strings.Join(v, ",")
		}
	}

	event := events.APIGatewayV2HTTPRequest{
		Version:               "2.0",
		RouteKey:              r.Method + " " + r.URL.Path,
		RawPath:               r.URL.Path,
		RawQueryString:        r.URL.RawQuery,
		Headers:               headers,
		QueryStringParameters: query,
	}
	if len(body) > 0 {
		if utf8.Valid(body) {
			event.Body = string(body)
		} else {
			event.Body = base64.StdEncoding.EncodeToString(body)
			event.IsBase64Encoded = true
		}
	}

	now := time.Now()
	event.RequestContext = events.APIGatewayV2HTTPRequestContext{
		RequestID: uuid.NewString(),
		Stage:     "$default",
		Time:      now.UTC().Format("02/Jan/2006:15:04:05 -0700"),
		TimeEpoch: now.UnixMilli(),
		HTTP: events.APIGatewayV2HTTPRequestContextHTTPDescription{
			Method:    r.Method,
			Path:      r.URL.Path,
			Protocol:  r.Proto,
			SourceIP:  r.RemoteAddr,
			UserAgent: r.UserAgent(),
		},
	}
	return event
}

// WriteResponse copies an API Gateway response envelope onto the gin response
func WriteResponse(c *gin.Context, res events.APIGatewayV2HTTPResponse) {
	for name, value := range res.Headers {
		c.Header(name, value)
	}

	if res.Body == "" {
		c.Status(res.StatusCode)
		return
	}

	body := []byte(res.Body)
	if res.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(res.Body)
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		body = decoded
	}
	c.Data(res.StatusCode, res.Headers["Content-Type"], body)
}
