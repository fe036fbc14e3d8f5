package apierrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusAndMessage(t *testing.T) {
	cause := errors.New("token is expired")

	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"bad request", BadRequest(cause), http.StatusBadRequest, "Bad request"},
		{"unauthorized", Unauthorized(cause), http.StatusUnauthorized, "Unauthorized"},
		{"forbidden", Forbidden(nil), http.StatusForbidden, "Forbidden"},
		{"not found", NotFound(nil), http.StatusNotFound, "Not found"},
		{"method", MethodNotAllowed("PATCH"), http.StatusMethodNotAllowed, "Method not allowed"},
		{"internal", Internal(cause), http.StatusInternalServerError, "Internal server error"},
		{"wrapped", fmt.Errorf("login: %w", Forbidden(cause)), http.StatusForbidden, "Forbidden"},
		{"plain error", cause, http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, message := StatusAndMessage(tt.err)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.message, message)
		})
	}
}

func TestMessageNeverLeaksCause(t *testing.T) {
	err := Unauthorized(errors.New("signature is invalid"))
	_, message := StatusAndMessage(err)
	assert.NotContains(t, message, "signature")
	assert.ErrorContains(t, err, "signature is invalid")
}

func TestIsKind(t *testing.T) {
	assert.True(t, IsKind(Unauthorized(nil), KindAuthentication))
	assert.True(t, IsKind(Forbidden(nil), KindAuthentication))
	assert.True(t, IsKind(MethodNotAllowed("PUT"), KindClient))
	assert.False(t, IsKind(errors.New("boom"), KindInternal))
}
