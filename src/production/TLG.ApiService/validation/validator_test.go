package validation

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Errors"
	logger "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Logger"
	api_models "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Models/api"
)

func assertBadRequest(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	code, _ := apierrors.StatusAndMessage(err)
	assert.Equal(t, 400, code)
}

func TestValidateBodyTemperature(t *testing.T) {
	v := NewValidator(logger.Nop())

	var body api_models.PostTemperatureBody
	err := v.ValidateBody(&events.APIGatewayV2HTTPRequest{
		Body: `{"deviceId":"dev-1","timestamp":1700000000000,"celsius":0}`,
	}, &body)
	require.NoError(t, err)
	assert.Equal(t, "dev-1", body.DeviceID)
	assert.Equal(t, int64(1700000000000), *body.Timestamp)
	assert.Equal(t, 0.0, *body.Celsius)
}

func TestValidateBodyBase64(t *testing.T) {
	v := NewValidator(logger.Nop())

	var body api_models.PostAuthBody
	err := v.ValidateBody(&events.APIGatewayV2HTTPRequest{
		Body:            base64.StdEncoding.EncodeToString([]byte(`{"password":"hunter2"}`)),
		IsBase64Encoded: true,
	}, &body)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", body.Password)
}

func TestValidateBodyRejects(t *testing.T) {
	tests := []struct {
		name string
		req  *events.APIGatewayV2HTTPRequest
	}{
		{"nil request", nil},
		{"missing body", &events.APIGatewayV2HTTPRequest{}},
		{"not json", &events.APIGatewayV2HTTPRequest{Body: "deviceId=dev-1"}},
		{"bad base64", &events.APIGatewayV2HTTPRequest{Body: "%%%", IsBase64Encoded: true}},
		{"missing celsius", &events.APIGatewayV2HTTPRequest{Body: `{"deviceId":"dev-1","timestamp":5}`}},
		{"negative timestamp", &events.APIGatewayV2HTTPRequest{Body: `{"deviceId":"dev-1","timestamp":-1,"celsius":20}`}},
		{"string celsius", &events.APIGatewayV2HTTPRequest{Body: `{"deviceId":"dev-1","timestamp":1,"celsius":"warm"}`}},
	}

	v := NewValidator(logger.Nop())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body api_models.PostTemperatureBody
			assertBadRequest(t, v.ValidateBody(tt.req, &body))
		})
	}
}

func TestValidateBodySensorsNeedsUUID(t *testing.T) {
	v := NewValidator(logger.Nop())

	var body api_models.PostSensorsBody
	err := v.ValidateBody(&events.APIGatewayV2HTTPRequest{Body: `{"deviceId":"kitchen"}`}, &body)
	assertBadRequest(t, err)

	err = v.ValidateBody(&events.APIGatewayV2HTTPRequest{
		Body: `{"deviceId":"6f1c2b0e-3d4a-4b5c-8d9e-0f1a2b3c4d5e","temperature":21.5}`,
	}, &body)
	require.NoError(t, err)
	assert.Equal(t, 21.5, *body.Temperature)
}

func TestValidateQueryCoercesNumbers(t *testing.T) {
	v := NewValidator(logger.Nop())

	var query api_models.GetTemperatureQuery
	err := v.ValidateQuery(&events.APIGatewayV2HTTPRequest{
		QueryStringParameters: map[string]string{"deviceId": "dev-1", "from": "100", "to": "200"},
	}, &query)
	require.NoError(t, err)
	assert.Equal(t, "dev-1", query.DeviceID)
	assert.Equal(t, int64(100), *query.From)
	assert.Equal(t, int64(200), *query.To)
}

func TestValidateQueryRejects(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]string
	}{
		{"no params", nil},
		{"missing to", map[string]string{"deviceId": "dev-1", "from": "1"}},
		{"not a number", map[string]string{"deviceId": "dev-1", "from": "yesterday", "to": "2"}},
		{"negative", map[string]string{"deviceId": "dev-1", "from": "-5", "to": "2"}},
	}

	v := NewValidator(logger.Nop())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var query api_models.GetTemperatureQuery
			err := v.ValidateQuery(&events.APIGatewayV2HTTPRequest{QueryStringParameters: tt.params}, &query)
			assertBadRequest(t, err)
		})
	}
}

func TestValidationDetailsAreLoggedNotReturned(t *testing.T) {
	var buf bytes.Buffer
	v := NewValidator(logger.NewWithWriter(&buf))

	var body api_models.PostAuthBody
	err := v.ValidateBody(&events.APIGatewayV2HTTPRequest{Body: `{}`}, &body)
	assertBadRequest(t, err)

	_, message := apierrors.StatusAndMessage(err)
	assert.Equal(t, "Bad request", message)
	assert.Contains(t, buf.String(), "Password:required")
}
