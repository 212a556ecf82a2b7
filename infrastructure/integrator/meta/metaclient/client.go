package metaclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	metadomain "github.com/vfg2006/marketing-report-api/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/marketing-report-api/internal/config"
	"github.com/vfg2006/marketing-report-api/internal/domain"
)

type Client interface {
	GetCampaignInsights(ctx context.Context, credentials domain.PlatformCredentials, startDate, endDate time.Time) ([]metadomain.CampaignInsight, error)
}

type MetaClient struct {
	Cfg        *config.Config
	HTTPClient *http.Client
}

func NewClient(cfg *config.Config) Client {
	return &MetaClient{
		Cfg:        cfg,
		HTTPClient: &http.Client{},
	}
}

type responseCampaignInsights struct {
	Data   []metadomain.CampaignInsight `json:"data"`
	Paging metadomain.Paging            `json:"paging"`
}

// GetCampaignInsights busca os insights de campanha de uma conta de anúncios
// no intervalo de datas informado. O token de acesso é por cliente, vindo da
// linha do cliente no banco.
func (c *MetaClient) GetCampaignInsights(ctx context.Context, credentials domain.PlatformCredentials, startDate, endDate time.Time) ([]metadomain.CampaignInsight, error) {
	baseURL := fmt.Sprintf("%s/act_%s/insights", c.Cfg.Meta.URL, credentials.AccountID)

	timeRange := fmt.Sprintf("{\"since\":\"%s\",\"until\":\"%s\"}", startDate.Format(time.DateOnly), endDate.Format(time.DateOnly))

	params := url.Values{}
	params.Add("level", "campaign")
	params.Add("fields", "account_id,account_name,campaign_id,campaign_name,spend,impressions,clicks,ctr,cpc,actions,action_values")
	params.Add("time_range", timeRange)
	params.Add("limit", "100")
	params.Add("access_token", credentials.AccessToken)

	requestURL := baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		logrus.WithError(err).Error("Erro ao criar a requisição para a API do Meta")
		return nil, &domain.UpstreamError{Platform: domain.PlatformMeta, Message: "erro ao criar requisição", Err: err}
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		logrus.WithError(err).Error("Erro ao fazer a requisição para a API do Meta")
		return nil, &domain.UpstreamError{Platform: domain.PlatformMeta, Message: "erro de comunicação com a API", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.UpstreamError{Platform: domain.PlatformMeta, Message: "erro ao ler resposta", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.classifyError(resp.StatusCode, body)
	}

	var response responseCampaignInsights
	if err := json.Unmarshal(body, &response); err != nil {
		logrus.WithError(err).Error("Erro ao decodificar JSON da API do Meta")
		return nil, &domain.UpstreamError{Platform: domain.PlatformMeta, Message: "payload malformado", Err: err}
	}

	// Uma campanha sem ações registradas no período não é erro: a campanha
	// aparece na resposta com os arrays de ações vazios
	return response.Data, nil
}

// classifyError traduz a resposta de erro do Meta para a taxonomia do pipeline
func (c *MetaClient) classifyError(statusCode int, body []byte) error {
	var errResp metadomain.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil {
		if statusCode == http.StatusTooManyRequests || errResp.IsRateLimited() {
			return &domain.RateLimitError{Platform: domain.PlatformMeta, StatusCode: statusCode}
		}

		// Token expirado ou revogado é problema de credencial do cliente,
		// não indisponibilidade do fornecedor: o lote pula o cliente em vez
		// de registrar falha
		if errResp.IsAuthError() {
			return &domain.CredentialError{
				Platform: domain.PlatformMeta,
				Reason:   errResp.Error.Message,
			}
		}

		logrus.WithFields(logrus.Fields{
			"status_code": statusCode,
			"error_code":  errResp.Error.Code,
			"fbtrace_id":  errResp.Error.FBTraceID,
		}).Error("Erro retornado pela API do Meta")

		return &domain.UpstreamError{
			Platform:   domain.PlatformMeta,
			StatusCode: statusCode,
			Message:    errResp.Error.Message,
		}
	}

	if statusCode == http.StatusTooManyRequests || statusCode == http.StatusForbidden {
		return &domain.RateLimitError{Platform: domain.PlatformMeta, StatusCode: statusCode}
	}

	return &domain.UpstreamError{Platform: domain.PlatformMeta, StatusCode: statusCode}
}
