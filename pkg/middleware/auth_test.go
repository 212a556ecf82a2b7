package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/marketing-report-api/internal/config"
	"github.com/vfg2006/marketing-report-api/pkg/apiErrors"
	"golang.org/x/crypto/bcrypt"
)

const testServiceSecret = "segredo-de-servico"

func testAuthConfig(t *testing.T) config.ServiceAuth {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testServiceSecret), bcrypt.MinCost)
	require.NoError(t, err)

	return config.ServiceAuth{
		SecretHash: string(hash),
		Secret:     testServiceSecret,
	}
}

func signedServiceToken(t *testing.T, secret string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(5 * time.Minute).Unix(),
	})

	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)

	return signed
}

func TestServiceAuth(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		authorization  string
		expectedStatus int
		expectNext     bool
	}{
		{
			name:           "Sem cabeçalho Authorization retorna 401",
			path:           "/v1/collect/current/run",
			authorization:  "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Cabeçalho sem prefixo Bearer retorna 401",
			path:           "/v1/collect/current/run",
			authorization:  testServiceSecret,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Credencial inválida retorna 401",
			path:           "/v1/collect/current/run",
			authorization:  "Bearer credencial-errada",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Segredo de serviço válido libera a requisição",
			path:           "/v1/collect/current/run",
			authorization:  "Bearer " + testServiceSecret,
			expectedStatus: http.StatusOK,
			expectNext:     true,
		},
		{
			name:           "Healthcheck dispensa autenticação",
			path:           "/healthcheck",
			authorization:  "",
			expectedStatus: http.StatusOK,
			expectNext:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodPost, tt.path, nil)
			if tt.authorization != "" {
				req.Header.Set("Authorization", tt.authorization)
			}

			recorder := httptest.NewRecorder()
			ServiceAuth(testAuthConfig(t))(next).ServeHTTP(recorder, req)

			assert.Equal(t, tt.expectedStatus, recorder.Code)
			assert.Equal(t, tt.expectNext, nextCalled)

			if tt.expectedStatus == http.StatusUnauthorized {
				var apiErr apiErrors.APIError
				require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &apiErr))
				assert.Equal(t, apiErrors.ErrInvalidServiceToken, apiErr.Code)
				assert.NotEmpty(t, apiErr.Message)
				assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))
			}
		})
	}
}

func TestServiceAuthAcceptsSignedToken(t *testing.T) {
	authConfig := testAuthConfig(t)

	nextCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/collect/historical/run", nil)
	req.Header.Set("Authorization", "Bearer "+signedServiceToken(t, authConfig.Secret))

	recorder := httptest.NewRecorder()
	ServiceAuth(authConfig)(next).ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, nextCalled)
}

func TestServiceAuthRejectsTokenWithWrongSecret(t *testing.T) {
	authConfig := testAuthConfig(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/collect/historical/run", nil)
	req.Header.Set("Authorization", "Bearer "+signedServiceToken(t, "outro-segredo"))

	recorder := httptest.NewRecorder()
	ServiceAuth(authConfig)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("requisição não deveria passar pela autenticação")
	})).ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	var apiErr apiErrors.APIError
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &apiErr))
	assert.Equal(t, apiErrors.ErrInvalidServiceToken, apiErr.Code)
}
