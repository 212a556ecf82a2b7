package googleads

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	googledomain "github.com/vfg2006/marketing-report-api/infrastructure/integrator/googleads/domain"
	"github.com/vfg2006/marketing-report-api/infrastructure/integrator/googleads/googleclient"
	"github.com/vfg2006/marketing-report-api/internal/config"
	"github.com/vfg2006/marketing-report-api/internal/domain"
)

// Mapeamento das categorias tipadas de conversão do Google Ads para as
// chaves canônicas. Categorias fora do mapa caem no mapeamento por nome;
// sem correspondência, a conversão é descartada.
var googleCategoryToCanonical = map[string]string{
	"PHONE_CALL_LEAD":  domain.ActionClickToCall,
	"CONTACT":          domain.ActionEmailContacts,
	"SUBMIT_LEAD_FORM": domain.ActionEmailContacts,
	"PURCHASE":         domain.ActionReservations,
}

// Nomes de ação configurados no funil de reservas dos hotéis
var googleActionNameToCanonical = map[string]string{
	"booking_step_1": domain.ActionBookingStep1,
	"booking_step_2": domain.ActionBookingStep2,
	"booking_step_3": domain.ActionBookingStep3,
	"reservation":    domain.ActionReservations,
}

type GoogleAdsIntegrator struct {
	cfg    *config.Config
	Client googleclient.Client
}

func New(cfg *config.Config, client googleclient.Client) *GoogleAdsIntegrator {
	return &GoogleAdsIntegrator{
		cfg:    cfg,
		Client: client,
	}
}

// Platform retorna a plataforma atendida por este adaptador
func (s *GoogleAdsIntegrator) Platform() domain.Platform {
	return domain.PlatformGoogleAds
}

// FetchCampaignMetrics busca e normaliza as métricas de campanha de um
// cliente no intervalo de datas informado. São duas consultas GAQL: métricas
// base por campanha e conversões segmentadas por ação.
func (s *GoogleAdsIntegrator) FetchCampaignMetrics(ctx context.Context, client *domain.Client, startDate, endDate time.Time) ([]*domain.CampaignMetrics, error) {
	credentials := client.Credentials(domain.PlatformGoogleAds)

	if !client.PlatformEnabled(domain.PlatformGoogleAds) {
		return nil, &domain.CredentialError{
			ClientID: client.ID,
			Platform: domain.PlatformGoogleAds,
			Reason:   "coleta desabilitada para a plataforma",
		}
	}

	if !credentials.Valid() {
		return nil, &domain.CredentialError{
			ClientID: client.ID,
			Platform: domain.PlatformGoogleAds,
			Reason:   "token de acesso ou customer id ausente",
		}
	}

	metricRows, err := s.Client.SearchCampaignMetrics(ctx, credentials, startDate, endDate)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"client_id":   client.ID,
			"customer_id": credentials.AccountID,
			"error":       err.Error(),
		}).Error("googleads: falha ao obter métricas de campanha da API")
		return nil, err
	}

	conversionRows, err := s.Client.SearchCampaignConversions(ctx, credentials, startDate, endDate)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"client_id":   client.ID,
			"customer_id": credentials.AccountID,
			"error":       err.Error(),
		}).Error("googleads: falha ao obter conversões de campanha da API")
		return nil, err
	}

	records := FactoryCampaignMetrics(metricRows, conversionRows, startDate, endDate)

	logrus.WithFields(logrus.Fields{
		"client_id": client.ID,
		"campaigns": len(records),
	}).Debug("googleads: métricas de campanha normalizadas")

	return records, nil
}

// FactoryCampaignMetrics combina as linhas de métricas e de conversões em
// registros canônicos por campanha. Campanha sem conversões fica com todas
// as chaves canônicas zeradas.
func FactoryCampaignMetrics(metricRows, conversionRows []googledomain.Result, startDate, endDate time.Time) []*domain.CampaignMetrics {
	recordsByCampaign := make(map[string]*domain.CampaignMetrics)
	order := make([]string, 0, len(metricRows))

	for i := range metricRows {
		row := metricRows[i]

		costMicros, err := strconv.ParseInt(row.Metrics.CostMicros, 10, 64)
		if err != nil && row.Metrics.CostMicros != "" {
			logrus.WithFields(logrus.Fields{
				"campaign_id": row.Campaign.ID,
				"cost_micros": row.Metrics.CostMicros,
				"error":       err.Error(),
			}).Warn("googleads: erro ao converter cost_micros para inteiro")
		}

		impressions, _ := strconv.Atoi(row.Metrics.Impressions)
		clicks, _ := strconv.Atoi(row.Metrics.Clicks)

		record := &domain.CampaignMetrics{
			CampaignID:   row.Campaign.ID,
			CampaignName: row.Campaign.Name,
			Platform:     domain.PlatformGoogleAds,
			Spend:        float64(costMicros) / 1e6,
			Impressions:  impressions,
			Clicks:       clicks,
			CTR:          row.Metrics.CTR,
			CPC:          row.Metrics.AverageCPC / 1e6,
			Conversions:  domain.EmptyConversions(),
			DateStart:    startDate.Format(time.DateOnly),
			DateStop:     endDate.Format(time.DateOnly),
		}

		recordsByCampaign[row.Campaign.ID] = record
		order = append(order, row.Campaign.ID)
	}

	for i := range conversionRows {
		row := conversionRows[i]

		record, ok := recordsByCampaign[row.Campaign.ID]
		if !ok {
			continue
		}

		canonical := canonicalActionFor(row.Segments)
		if canonical == "" {
			continue // ação de conversão não mapeada é descartada
		}

		metric := record.Conversions[canonical]
		metric.Count += row.Metrics.Conversions
		metric.Value += row.Metrics.ConversionsValue
		record.Conversions[canonical] = metric
	}

	records := make([]*domain.CampaignMetrics, 0, len(order))
	for _, campaignID := range order {
		records = append(records, recordsByCampaign[campaignID])
	}

	return records
}

// canonicalActionFor resolve a chave canônica de uma linha de conversão:
// primeiro pela categoria tipada, depois pelo nome da ação de conversão
func canonicalActionFor(segments googledomain.Segments) string {
	if canonical, ok := googleCategoryToCanonical[segments.ConversionActionCategory]; ok {
		return canonical
	}

	name := strings.ToLower(strings.ReplaceAll(segments.ConversionActionName, " ", "_"))
	if canonical, ok := googleActionNameToCanonical[name]; ok {
		return canonical
	}

	return ""
}
