package jwt

import (
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Errors"
	api_models "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Models/api"
)

func newTestService(secret string, now time.Time) *Service {
	s := NewService(api_models.JWTConfig{SecretKey: secret, TokenDuration: 7 * 24 * time.Hour})
	s.now = func() time.Time { return now }
	return s
}

func TestIssueThenVerify(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	s := newTestService("s3cret", now)

	token, err := s.Issue()
	require.NoError(t, err)

	claims, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, now.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, now.Add(7*24*time.Hour).Unix(), claims.ExpiresAt.Unix())
	assert.Empty(t, claims.Subject)
}

func TestIssueWithoutSecret(t *testing.T) {
	_, err := newTestService("", time.Now()).Issue()
	require.Error(t, err)
	assert.True(t, apierrors.IsKind(err, apierrors.KindInternal))
}

func TestVerifyRejectsOtherSecret(t *testing.T) {
	now := time.Now()
	token, err := newTestService("one", now).Issue()
	require.NoError(t, err)

	_, err = newTestService("two", now).Verify(token)
	require.Error(t, err)
	code, _ := apierrors.StatusAndMessage(err)
	assert.Equal(t, 401, code)
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	s := newTestService("s3cret", time.Now())
	token, err := s.Issue()
	require.NoError(t, err)

	sig := strings.LastIndex(token, ".") + 1
	replacement := "A"
	if token[sig] == 'A' {
		replacement = "B"
	}
	tampered := token[:sig] + replacement + token[sig+1:]

	_, err = s.Verify(tampered)
	assert.True(t, apierrors.IsKind(err, apierrors.KindAuthentication))
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	issued := time.Unix(1_700_000_000, 0)
	token, err := newTestService("s3cret", issued).Issue()
	require.NoError(t, err)

	later := newTestService("s3cret", issued.Add(8*24*time.Hour))
	_, err = later.Verify(token)
	assert.True(t, apierrors.IsKind(err, apierrors.KindAuthentication))
}

func TestVerifyRejectsOtherAlgorithm(t *testing.T) {
	claims := api_models.TokenClaims{RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	_, err = newTestService("s3cret", time.Now()).Verify(token)
	assert.True(t, apierrors.IsKind(err, apierrors.KindAuthentication))
}

func TestExtractBearer(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		token   string
		wantErr bool
	}{
		{"canonical", map[string]string{"Authorization": "Bearer abc"}, "abc", false},
		{"lower case header", map[string]string{"authorization": "bearer abc"}, "abc", false},
		{"missing", map[string]string{"origin": "https://a"}, "", true},
		{"nil headers", nil, "", true},
		{"basic scheme", map[string]string{"authorization": "Basic abc"}, "", true},
		{"empty token", map[string]string{"authorization": "Bearer   "}, "", true},
		{"no space", map[string]string{"authorization": "Bearerabc"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := ExtractBearer(tt.headers)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apierrors.IsKind(err, apierrors.KindAuthentication))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.token, token)
		})
	}
}

func TestVerifyRequest(t *testing.T) {
	s := newTestService("s3cret", time.Now())
	token, err := s.Issue()
	require.NoError(t, err)

	_, err = s.VerifyRequest(&events.APIGatewayV2HTTPRequest{
		Headers: map[string]string{"authorization": "Bearer " + token},
	})
	assert.NoError(t, err)

	_, err = s.VerifyRequest(nil)
	assert.Error(t, err)
}
