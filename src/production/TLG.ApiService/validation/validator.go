package validation

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	apierrors "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Errors"
	logger "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Logger"
)

// Validator decodes request bodies and query strings into the api_models shapes
// and checks their binding tags. Every failure is a 400; details only go to the log.
type Validator struct {
	logger *logger.Logger
}

func NewValidator(log *logger.Logger) *Validator {
	return &Validator{logger: log.WithComponent("validation")}
}

// ValidateBody decodes the JSON body of req into out, which must be a pointer to a struct
func (v *Validator) ValidateBody(req *events.APIGatewayV2HTTPRequest, out any) error {
	if req == nil || req.Body == "" {
		v.logger.Error("No body in request")
		return apierrors.BadRequest(errors.New("request body is missing"))
	}

	raw := []byte(req.Body)
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			v.logger.ErrorWithError(err, "Unable to decode base64 request body")
			return apierrors.BadRequest(err)
		}
		raw = decoded
	}

	if err := binding.JSON.BindBody(raw, out); err != nil {
		v.logFailure(err)
		return apierrors.BadRequest(err)
	}
	return nil
}

// ValidateQuery maps the query string parameters of req onto the form tags of out.
// Numeric fields are parsed from their string form.
func (v *Validator) ValidateQuery(req *events.APIGatewayV2HTTPRequest, out any) error {
	form := make(map[string][]string)
	if req != nil {
		for key, value := range req.QueryStringParameters {
			form[key] = []string{value}
		}
	}

	if err := binding.MapFormWithTag(out, form, "form"); err != nil {
		v.logFailure(err)
		return apierrors.BadRequest(err)
	}
	if binding.Validator == nil {
		return apierrors.Internal(errors.New("no struct validator registered"))
	}
	if err := binding.Validator.ValidateStruct(out); err != nil {
		v.logFailure(err)
		return apierrors.BadRequest(err)
	}
	return nil
}

func (v *Validator) logFailure(err error) {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		v.logger.ErrorWithError(err, "Validation check failed")
		return
	}

	fields := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		fields = append(fields, fmt.Sprintf("%s:%s", fe.Field(), fe.Tag()))
	}
	v.logger.Logger.Error().Strs("fields", fields).Msg("Validation check failed")
}
