package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/marketing-report-api/infrastructure/repository"
	"github.com/vfg2006/marketing-report-api/internal/collector"
	"github.com/vfg2006/marketing-report-api/internal/domain"
	"github.com/vfg2006/marketing-report-api/pkg/apiErrors"
	"github.com/vfg2006/marketing-report-api/pkg/utils"
)

// GetCurrentSnapshot retorna o snapshot do período de um cliente. Para o
// período em andamento o coletor decide se serve do cache ou busca na API do
// fornecedor; uma data opcional (?date=AAAA-MM-DD) de um período já encerrado
// é redirecionada para o resumo histórico armazenado, nunca para o cache.
func GetCurrentSnapshot(
	clientRepo repository.ClientRepository,
	summaryRepo repository.SummaryRepository,
	collectorService *collector.Service,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - GetCurrentSnapshot")

		params := httprouter.ParamsFromContext(r.Context())
		clientID := params.ByName("id")

		granularity, ok := parseGranularity(params.ByName("granularity"))
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Granularidade inválida. Valores aceitos: month, week", nil)
			return
		}

		platform, ok := parsePlatform(r.URL.Query().Get("platform"))
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Plataforma inválida. Valores aceitos: meta, google_ads", nil)
			return
		}

		client, err := clientRepo.GetByID(clientID)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao buscar cliente", nil)
			return
		}
		if client == nil {
			apiErrors.WriteError(w, apiErrors.ErrClientNotFound, "Cliente não encontrado", nil)
			return
		}

		refDate, err := utils.ParseDate(r.URL.Query().Get("date"))
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Data inválida, use o formato AAAA-MM-DD", nil)
			return
		}

		if !refDate.IsZero() {
			period := domain.CurrentPeriod(granularity, *refDate)
			if domain.ClassifyPeriod(period, time.Now()) == domain.PeriodClosed {
				serveClosedPeriodSummary(w, summaryRepo, client, platform, granularity, period)
				return
			}
		}

		snapshot, refreshed, err := collectorService.CollectCurrentPeriod(r.Context(), client, platform, granularity)
		if err != nil {
			if domain.IsCredentialError(err) {
				apiErrors.WriteError(w, apiErrors.ErrPlatformCredentials, err.Error(), nil)
				return
			}
			apiErrors.WriteError(w, apiErrors.ErrExternalService, "Erro ao obter métricas do período em andamento", err.Error())
			return
		}

		response := map[string]any{
			"client_id":   client.ID,
			"platform":    platform,
			"granularity": granularity,
			"refreshed":   refreshed,
			"snapshot":    snapshot,
		}

		logrus.WithFields(logrus.Fields{
			"client_id": client.ID,
			"refreshed": refreshed,
		}).Debug(utils.PrettyJson(response))

		json.NewEncoder(w).Encode(response)
	}
}

// ListClients retorna os clientes ativos com as plataformas habilitadas de
// cada um. Credenciais nunca saem na resposta.
func ListClients(clientRepo repository.ClientRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - ListClients")

		clients, err := clientRepo.ListActive()
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao listar clientes", nil)
			return
		}

		items := make([]map[string]any, 0, len(clients))
		for _, client := range clients {
			items = append(items, map[string]any{
				"id":     client.ID,
				"name":   client.Name,
				"status": client.Status,
				"platforms": map[string]bool{
					string(domain.PlatformMeta):      client.PlatformEnabled(domain.PlatformMeta),
					string(domain.PlatformGoogleAds): client.PlatformEnabled(domain.PlatformGoogleAds),
				},
			})
		}

		json.NewEncoder(w).Encode(map[string]any{"clients": items})
	}
}

// serveClosedPeriodSummary atende uma consulta de período encerrado a partir
// do resumo histórico armazenado. Períodos encerrados nunca passam pelo cache
// nem disparam coleta.
func serveClosedPeriodSummary(
	w http.ResponseWriter,
	summaryRepo repository.SummaryRepository,
	client *domain.Client,
	platform domain.Platform,
	granularity domain.Granularity,
	period domain.Period,
) {
	summaryType := domain.SummaryTypeFor(granularity)

	summary, err := summaryRepo.Get(client.ID, platform, summaryType, period.SummaryDate())
	if err != nil {
		apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao buscar resumo do período", nil)
		return
	}
	if summary == nil {
		apiErrors.WriteError(w, apiErrors.ErrSummaryNotFound, "Resumo não encontrado para o período informado", nil)
		return
	}

	response := map[string]any{
		"client_id":   client.ID,
		"platform":    platform,
		"granularity": granularity,
		"period_id":   period.ID(),
		"refreshed":   false,
		"summary":     summary,
	}

	json.NewEncoder(w).Encode(response)
}

// GetPeriodSummaries retorna os resumos históricos de um cliente dentro de um
// intervalo de datas
func GetPeriodSummaries(clientRepo repository.ClientRepository, summaryRepo repository.SummaryRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - GetPeriodSummaries")

		params := httprouter.ParamsFromContext(r.Context())
		clientID := params.ByName("id")

		platform, ok := parsePlatform(r.URL.Query().Get("platform"))
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Plataforma inválida. Valores aceitos: meta, google_ads", nil)
			return
		}

		summaryType := domain.SummaryType(r.URL.Query().Get("type"))
		if summaryType != domain.SummaryTypeWeekly && summaryType != domain.SummaryTypeMonthly {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Tipo de resumo inválido. Valores aceitos: weekly, monthly", nil)
			return
		}

		startDate, err := utils.ParseDate(r.URL.Query().Get("start_date"))
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Data inicial inválida, use o formato AAAA-MM-DD", nil)
			return
		}

		endDate, err := utils.ParseDate(r.URL.Query().Get("end_date"))
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Data final inválida, use o formato AAAA-MM-DD", nil)
			return
		}

		if startDate.IsZero() || endDate.IsZero() {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Informe start_date e end_date", nil)
			return
		}

		client, err := clientRepo.GetByID(clientID)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao buscar cliente", nil)
			return
		}
		if client == nil {
			apiErrors.WriteError(w, apiErrors.ErrClientNotFound, "Cliente não encontrado", nil)
			return
		}

		summaries, err := summaryRepo.GetByPeriodRange(client.ID, platform, summaryType, *startDate, *endDate)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao buscar resumos de período", nil)
			return
		}

		response := map[string]any{
			"client_id":  client.ID,
			"platform":   platform,
			"type":       summaryType,
			"start_date": startDate.Format(time.DateOnly),
			"end_date":   endDate.Format(time.DateOnly),
			"summaries":  summaries,
		}

		json.NewEncoder(w).Encode(response)
	}
}

func parsePlatform(raw string) (domain.Platform, bool) {
	platform := domain.Platform(raw)
	if platform != domain.PlatformMeta && platform != domain.PlatformGoogleAds {
		return "", false
	}
	return platform, true
}

func parseGranularity(raw string) (domain.Granularity, bool) {
	granularity := domain.Granularity(raw)
	if granularity != domain.GranularityMonth && granularity != domain.GranularityWeek {
		return "", false
	}
	return granularity, true
}
