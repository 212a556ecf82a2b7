package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/marketing-report-api/internal/domain"
	"github.com/vfg2006/marketing-report-api/internal/scheduler"
	"github.com/vfg2006/marketing-report-api/pkg/apiErrors"
)

// CollectionJobType define o tipo de coleta que será disparada manualmente
const (
	CollectionJobTypeCurrent    = "current"
	CollectionJobTypeHistorical = "historical"
	CollectionJobTypeAll        = "all"
)

// CollectionServices contém os agendadores necessários para disparo manual
type CollectionServices struct {
	CurrentPeriodSyncService *scheduler.CurrentPeriodSyncService
	HistoricalSyncService    *scheduler.HistoricalSyncService
}

// RunCollection executa manualmente uma rodada de coleta e responde com o
// resumo dos lotes. Falhas por cliente não derrubam a rodada, então a
// resposta é sempre 200 quando a coleta rodou; 409 indica rodada sobreposta.
func RunCollection(services CollectionServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RunCollection")

		collectionType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if collectionType == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Tipo de coleta não especificado", nil)
			return
		}

		var results []*domain.BatchResult

		switch collectionType {
		case CollectionJobTypeCurrent:
			if services.CurrentPeriodSyncService == nil {
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço de coleta dos períodos em andamento não disponível", nil)
				return
			}
			batches, err := services.CurrentPeriodSyncService.TriggerManualSync(r.Context())
			if err != nil {
				apiErrors.WriteError(w, apiErrors.ErrCollectionRunning, err.Error(), nil)
				return
			}
			results = batches

		case CollectionJobTypeHistorical:
			if services.HistoricalSyncService == nil {
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço de coleta de resumos históricos não disponível", nil)
				return
			}
			batches, err := services.HistoricalSyncService.TriggerManualSync(r.Context())
			if err != nil {
				apiErrors.WriteError(w, apiErrors.ErrCollectionRunning, err.Error(), nil)
				return
			}
			results = batches

		case CollectionJobTypeAll:
			if services.CurrentPeriodSyncService == nil || services.HistoricalSyncService == nil {
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviços de coleta não disponíveis", nil)
				return
			}
			current, err := services.CurrentPeriodSyncService.TriggerManualSync(r.Context())
			if err != nil {
				apiErrors.WriteError(w, apiErrors.ErrCollectionRunning, err.Error(), nil)
				return
			}
			historical, err := services.HistoricalSyncService.TriggerManualSync(r.Context())
			if err != nil {
				apiErrors.WriteError(w, apiErrors.ErrCollectionRunning, err.Error(), nil)
				return
			}
			results = append(current, historical...)

		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Tipo de coleta inválido. Valores aceitos: current, historical, all", nil)
			return
		}

		response := map[string]any{
			"type":    collectionType,
			"summary": summarizeBatches(results),
			"runs":    batchSummaries(results),
		}

		json.NewEncoder(w).Encode(response)
	}
}

// summarizeBatches agrega os totais de todos os lotes de uma rodada
func summarizeBatches(results []*domain.BatchResult) map[string]any {
	var refreshed, skipped, failed, apiCalls int
	for _, result := range results {
		refreshed += len(result.Refreshed)
		skipped += len(result.Skipped)
		failed += len(result.Failed)
		apiCalls += result.APICalls
	}

	return map[string]any{
		"refreshed": refreshed,
		"skipped":   skipped,
		"failed":    failed,
		"api_calls": apiCalls,
	}
}

func batchSummaries(results []*domain.BatchResult) []map[string]any {
	summaries := make([]map[string]any, 0, len(results))
	for _, result := range results {
		summaries = append(summaries, result.Summary())
	}
	return summaries
}

// GetCollectionStatus retorna o status dos agendadores de coleta
func GetCollectionStatus(services CollectionServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - GetCollectionStatus")

		status := map[string]any{
			"current":    services.CurrentPeriodSyncService.GetStatus(),
			"historical": services.HistoricalSyncService.GetStatus(),
		}

		json.NewEncoder(w).Encode(status)
	}
}
