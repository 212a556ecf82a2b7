package collector

import (
	"context"
	"time"

	"github.com/vfg2006/marketing-report-api/internal/domain"
)

// Adapter é o contrato dos adaptadores de plataforma. Cada adaptador busca as
// métricas de campanha de um cliente em um intervalo de datas e as normaliza
// para o registro canônico; o coletor nunca ramifica por identidade de
// fornecedor.
type Adapter interface {
	// Platform identifica a plataforma atendida pelo adaptador
	Platform() domain.Platform

	// FetchCampaignMetrics busca as métricas de campanha normalizadas para o
	// intervalo de datas inclusivo informado
	FetchCampaignMetrics(ctx context.Context, client *domain.Client, startDate, endDate time.Time) ([]*domain.CampaignMetrics, error)
}
