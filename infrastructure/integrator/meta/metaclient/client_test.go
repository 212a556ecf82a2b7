package metaclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/marketing-report-api/internal/config"
	"github.com/vfg2006/marketing-report-api/internal/domain"
)

func testCredentials() domain.PlatformCredentials {
	return domain.PlatformCredentials{
		AccessToken: "token-de-teste",
		AccountID:   "123456",
	}
}

func newTestClient(serverURL string) *MetaClient {
	return &MetaClient{
		Cfg: &config.Config{
			Meta: config.Meta{URL: serverURL},
		},
		HTTPClient: &http.Client{},
	}
}

func TestGetCampaignInsightsClassifiesErrors(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		validate   func(t *testing.T, err error)
	}{
		{
			name:       "Token expirado vira erro de credencial",
			statusCode: http.StatusUnauthorized,
			body:       `{"error":{"message":"Error validating access token: Session has expired","type":"OAuthException","code":190,"fbtrace_id":"A1b2"}}`,
			validate: func(t *testing.T, err error) {
				assert.True(t, domain.IsCredentialError(err))
			},
		},
		{
			name:       "Código 190 sem tipo OAuthException também vira erro de credencial",
			statusCode: http.StatusBadRequest,
			body:       `{"error":{"message":"Invalid OAuth access token","type":"GraphMethodException","code":190,"fbtrace_id":"C3d4"}}`,
			validate: func(t *testing.T, err error) {
				assert.True(t, domain.IsCredentialError(err))
			},
		},
		{
			name:       "Código de limite de aplicação vira erro de throttling",
			statusCode: http.StatusBadRequest,
			body:       `{"error":{"message":"Application request limit reached","type":"FacebookApiException","code":4,"fbtrace_id":"E5f6"}}`,
			validate: func(t *testing.T, err error) {
				assert.True(t, domain.IsRateLimitError(err))
			},
		},
		{
			name:       "HTTP 429 vira erro de throttling mesmo sem corpo estruturado",
			statusCode: http.StatusTooManyRequests,
			body:       `limite atingido`,
			validate: func(t *testing.T, err error) {
				assert.True(t, domain.IsRateLimitError(err))
			},
		},
		{
			name:       "Erro interno do fornecedor vira falha do fornecedor",
			statusCode: http.StatusInternalServerError,
			body:       `{"error":{"message":"An unknown error occurred","type":"FacebookApiException","code":1,"fbtrace_id":"G7h8"}}`,
			validate: func(t *testing.T, err error) {
				assert.False(t, domain.IsCredentialError(err))
				assert.False(t, domain.IsRateLimitError(err))

				var upstreamErr *domain.UpstreamError
				require.ErrorAs(t, err, &upstreamErr)
				assert.Equal(t, http.StatusInternalServerError, upstreamErr.StatusCode)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := newTestClient(server.URL)

			_, err := client.GetCampaignInsights(context.Background(), testCredentials(), time.Now().AddDate(0, 0, -7), time.Now())
			require.Error(t, err)
			tt.validate(t, err)
		})
	}
}

func TestGetCampaignInsightsParsesResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/act_123456/insights", r.URL.Path)
		assert.Equal(t, "campaign", r.URL.Query().Get("level"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"campaign_id":"c1","campaign_name":"Campanha Verão","spend":"100.50","impressions":"2000","clicks":"80","actions":[]}],"paging":{}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	insights, err := client.GetCampaignInsights(context.Background(), testCredentials(), time.Now().AddDate(0, 0, -7), time.Now())
	require.NoError(t, err)
	require.Len(t, insights, 1)
	assert.Equal(t, "c1", insights[0].CampaignID)
	assert.Equal(t, "Campanha Verão", insights[0].CampaignName)
}
