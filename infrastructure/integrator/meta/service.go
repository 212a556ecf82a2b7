package meta

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	metadomain "github.com/vfg2006/marketing-report-api/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/marketing-report-api/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/marketing-report-api/internal/config"
	"github.com/vfg2006/marketing-report-api/internal/domain"
)

// Mapeamento da taxonomia livre de ações do Meta para as chaves canônicas.
// Tipos de ação fora deste mapa são descartados na normalização.
var metaActionToCanonical = map[string]string{
	"click_to_call":                          domain.ActionClickToCall,
	"click_to_call_call_confirm":             domain.ActionClickToCall,
	"contact":                                domain.ActionEmailContacts,
	"lead":                                   domain.ActionEmailContacts,
	"search":                                 domain.ActionBookingStep1,
	"view_content":                           domain.ActionBookingStep2,
	"initiate_checkout":                      domain.ActionBookingStep3,
	"omni_initiated_checkout":                domain.ActionBookingStep3,
	"purchase":                               domain.ActionReservations,
	"omni_purchase":                          domain.ActionReservations,
	"offsite_conversion.fb_pixel_purchase":   domain.ActionReservations,
	"onsite_conversion.purchase":             domain.ActionReservations,
}

type MetaIntegrator struct {
	cfg    *config.Config
	Client metaclient.Client
}

func New(cfg *config.Config, client metaclient.Client) *MetaIntegrator {
	return &MetaIntegrator{
		cfg:    cfg,
		Client: client,
	}
}

// Platform retorna a plataforma atendida por este adaptador
func (s *MetaIntegrator) Platform() domain.Platform {
	return domain.PlatformMeta
}

// FetchCampaignMetrics busca e normaliza as métricas de campanha de um
// cliente no intervalo de datas informado. Operação de leitura pura: nenhum
// estado é alterado além da chamada HTTP de saída.
func (s *MetaIntegrator) FetchCampaignMetrics(ctx context.Context, client *domain.Client, startDate, endDate time.Time) ([]*domain.CampaignMetrics, error) {
	credentials := client.Credentials(domain.PlatformMeta)

	if !client.PlatformEnabled(domain.PlatformMeta) {
		return nil, &domain.CredentialError{
			ClientID: client.ID,
			Platform: domain.PlatformMeta,
			Reason:   "coleta desabilitada para a plataforma",
		}
	}

	if !credentials.Valid() {
		return nil, &domain.CredentialError{
			ClientID: client.ID,
			Platform: domain.PlatformMeta,
			Reason:   "token de acesso ou id da conta de anúncios ausente",
		}
	}

	insights, err := s.Client.GetCampaignInsights(ctx, credentials, startDate, endDate)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"client_id":  client.ID,
			"account_id": credentials.AccountID,
			"error":      err.Error(),
		}).Error("meta: falha ao obter insights de campanha da API")

		// Erros de credencial vindos da API (token expirado, por exemplo)
		// chegam sem o identificador do cliente
		var credErr *domain.CredentialError
		if errors.As(err, &credErr) && credErr.ClientID == "" {
			credErr.ClientID = client.ID
		}

		return nil, err
	}

	records := make([]*domain.CampaignMetrics, 0, len(insights))
	for i := range insights {
		records = append(records, FactoryCampaignMetrics(&insights[i]))
	}

	logrus.WithFields(logrus.Fields{
		"client_id": client.ID,
		"campaigns": len(records),
	}).Debug("meta: métricas de campanha normalizadas")

	return records, nil
}

// FactoryCampaignMetrics converte a linha crua da API do Meta no registro
// canônico. As contagens vêm do array actions e os valores monetários do
// array action_values; ausência de uma ação vira zero, nunca erro.
func FactoryCampaignMetrics(insight *metadomain.CampaignInsight) *domain.CampaignMetrics {
	conversions := domain.EmptyConversions()

	for i := range insight.Actions {
		action := insight.Actions[i]

		canonical, ok := metaActionToCanonical[action.ActionType]
		if !ok {
			continue // tipo de ação não mapeado é descartado
		}

		count, err := strconv.ParseFloat(action.Value, 64)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"action_type":  action.ActionType,
				"action_value": action.Value,
				"error":        err.Error(),
			}).Warn("meta: erro ao converter contagem de ação para float")
			continue
		}

		metric := conversions[canonical]
		metric.Count += count
		conversions[canonical] = metric
	}

	for i := range insight.ActionValues {
		action := insight.ActionValues[i]

		canonical, ok := metaActionToCanonical[action.ActionType]
		if !ok {
			continue
		}

		value, err := strconv.ParseFloat(action.Value, 64)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"action_type":  action.ActionType,
				"action_value": action.Value,
				"error":        err.Error(),
			}).Warn("meta: erro ao converter valor de ação para float")
			continue
		}

		metric := conversions[canonical]
		metric.Value += value
		conversions[canonical] = metric
	}

	spend, err := strconv.ParseFloat(insight.Spend, 64)
	if err != nil && insight.Spend != "" {
		logrus.WithFields(logrus.Fields{
			"spend_value": insight.Spend,
			"error":       err.Error(),
		}).Warn("meta: erro ao converter spend para float")
	}

	impressions, err := strconv.Atoi(insight.Impressions)
	if err != nil && insight.Impressions != "" {
		logrus.WithFields(logrus.Fields{
			"impressions_value": insight.Impressions,
			"error":             err.Error(),
		}).Warn("meta: erro ao converter impressions para inteiro")
	}

	clicks, err := strconv.Atoi(insight.Clicks)
	if err != nil && insight.Clicks != "" {
		logrus.WithFields(logrus.Fields{
			"clicks_value": insight.Clicks,
			"error":        err.Error(),
		}).Warn("meta: erro ao converter clicks para inteiro")
	}

	ctr, _ := strconv.ParseFloat(insight.CTR, 64)
	cpc, _ := strconv.ParseFloat(insight.CPC, 64)

	return &domain.CampaignMetrics{
		CampaignID:   insight.CampaignID,
		CampaignName: insight.CampaignName,
		Platform:     domain.PlatformMeta,
		Spend:        spend,
		Impressions:  impressions,
		Clicks:       clicks,
		CTR:          ctr,
		CPC:          cpc,
		Conversions:  conversions,
		DateStart:    insight.DateStart,
		DateStop:     insight.DateStop,
	}
}
