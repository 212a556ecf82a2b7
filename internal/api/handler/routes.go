package handler

import (
	"net/http"

	"github.com/vfg2006/marketing-report-api/infrastructure/repository"
	"github.com/vfg2006/marketing-report-api/internal/api/handler/router"
	"github.com/vfg2006/marketing-report-api/internal/collector"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Collections(services CollectionServices) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/collect/:type/run",
			Method:  http.MethodPost,
			Handler: RunCollection(services),
		},
		{
			Path:    "/v1/collect/status",
			Method:  http.MethodGet,
			Handler: GetCollectionStatus(services),
		},
	}
}

func Reports(
	clientRepo repository.ClientRepository,
	summaryRepo repository.SummaryRepository,
	collectorService *collector.Service,
) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/clients",
			Method:  http.MethodGet,
			Handler: ListClients(clientRepo),
		},
		{
			Path:    "/v1/clients/:id/current/:granularity",
			Method:  http.MethodGet,
			Handler: GetCurrentSnapshot(clientRepo, summaryRepo, collectorService),
		},
		{
			Path:    "/v1/clients/:id/summaries",
			Method:  http.MethodGet,
			Handler: GetPeriodSummaries(clientRepo, summaryRepo),
		},
	}
}
