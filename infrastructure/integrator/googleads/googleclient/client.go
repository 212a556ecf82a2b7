package googleclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	googledomain "github.com/vfg2006/marketing-report-api/infrastructure/integrator/googleads/domain"
	"github.com/vfg2006/marketing-report-api/internal/config"
	"github.com/vfg2006/marketing-report-api/internal/domain"
)

type Client interface {
	SearchCampaignMetrics(ctx context.Context, credentials domain.PlatformCredentials, startDate, endDate time.Time) ([]googledomain.Result, error)
	SearchCampaignConversions(ctx context.Context, credentials domain.PlatformCredentials, startDate, endDate time.Time) ([]googledomain.Result, error)
}

type GoogleAdsClient struct {
	Cfg        *config.Config
	HTTPClient *http.Client
}

func NewClient(cfg *config.Config) Client {
	return &GoogleAdsClient{
		Cfg:        cfg,
		HTTPClient: &http.Client{},
	}
}

const campaignMetricsQuery = `
	SELECT
		campaign.id,
		campaign.name,
		metrics.cost_micros,
		metrics.impressions,
		metrics.clicks,
		metrics.ctr,
		metrics.average_cpc
	FROM campaign
	WHERE segments.date BETWEEN '%s' AND '%s'
		AND campaign.status != 'REMOVED'`

const campaignConversionsQuery = `
	SELECT
		campaign.id,
		segments.conversion_action_category,
		segments.conversion_action_name,
		metrics.conversions,
		metrics.conversions_value
	FROM campaign
	WHERE segments.date BETWEEN '%s' AND '%s'
		AND metrics.conversions > 0`

// SearchCampaignMetrics busca as métricas base (custo, impressões, cliques)
// por campanha no intervalo de datas
func (c *GoogleAdsClient) SearchCampaignMetrics(ctx context.Context, credentials domain.PlatformCredentials, startDate, endDate time.Time) ([]googledomain.Result, error) {
	query := fmt.Sprintf(campaignMetricsQuery, startDate.Format(time.DateOnly), endDate.Format(time.DateOnly))
	return c.search(ctx, credentials, query)
}

// SearchCampaignConversions busca as conversões por campanha segmentadas por
// ação de conversão, usadas na normalização para as chaves canônicas
func (c *GoogleAdsClient) SearchCampaignConversions(ctx context.Context, credentials domain.PlatformCredentials, startDate, endDate time.Time) ([]googledomain.Result, error) {
	query := fmt.Sprintf(campaignConversionsQuery, startDate.Format(time.DateOnly), endDate.Format(time.DateOnly))
	return c.search(ctx, credentials, query)
}

func (c *GoogleAdsClient) search(ctx context.Context, credentials domain.PlatformCredentials, query string) ([]googledomain.Result, error) {
	requestURL := fmt.Sprintf("%s/%s/googleAds:searchStream", c.Cfg.GoogleAds.URL, credentials.AccountID)

	payload, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, &domain.UpstreamError{Platform: domain.PlatformGoogleAds, Message: "erro ao montar payload", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, bytes.NewReader(payload))
	if err != nil {
		logrus.WithError(err).Error("Erro ao criar a requisição para a API do Google Ads")
		return nil, &domain.UpstreamError{Platform: domain.PlatformGoogleAds, Message: "erro ao criar requisição", Err: err}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+credentials.AccessToken)
	req.Header.Set("developer-token", c.Cfg.GoogleAds.DeveloperToken)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		logrus.WithError(err).Error("Erro ao fazer a requisição para a API do Google Ads")
		return nil, &domain.UpstreamError{Platform: domain.PlatformGoogleAds, Message: "erro de comunicação com a API", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.UpstreamError{Platform: domain.PlatformGoogleAds, Message: "erro ao ler resposta", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.classifyError(resp.StatusCode, body)
	}

	// O searchStream devolve um array de blocos de resposta
	var chunks []googledomain.SearchResponse
	if err := json.Unmarshal(body, &chunks); err != nil {
		logrus.WithError(err).Error("Erro ao decodificar JSON da API do Google Ads")
		return nil, &domain.UpstreamError{Platform: domain.PlatformGoogleAds, Message: "payload malformado", Err: err}
	}

	results := make([]googledomain.Result, 0)
	for _, chunk := range chunks {
		results = append(results, chunk.Results...)
	}

	return results, nil
}

// classifyError traduz a resposta de erro do Google Ads para a taxonomia do pipeline
func (c *GoogleAdsClient) classifyError(statusCode int, body []byte) error {
	var errResp googledomain.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		if statusCode == http.StatusTooManyRequests || errResp.IsRateLimited() {
			return &domain.RateLimitError{Platform: domain.PlatformGoogleAds, StatusCode: statusCode}
		}

		logrus.WithFields(logrus.Fields{
			"status_code": statusCode,
			"status":      errResp.Error.Status,
		}).Error("Erro retornado pela API do Google Ads")

		return &domain.UpstreamError{
			Platform:   domain.PlatformGoogleAds,
			StatusCode: statusCode,
			Message:    errResp.Error.Message,
		}
	}

	if statusCode == http.StatusTooManyRequests || statusCode == http.StatusForbidden {
		return &domain.RateLimitError{Platform: domain.PlatformGoogleAds, StatusCode: statusCode}
	}

	return &domain.UpstreamError{Platform: domain.PlatformGoogleAds, StatusCode: statusCode}
}
