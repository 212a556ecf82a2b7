package domain

import "time"

// PeriodSnapshot é o retrato mais recente de um período ainda em andamento
type PeriodSnapshot struct {
	Totals    *PeriodTotals      `json:"totals"`
	Campaigns []*CampaignMetrics `json:"campaigns"`
}

// CacheEntry é a linha de cache de um período em andamento para um cliente e
// plataforma. Invariante: exatamente uma entrada viva por (client_id,
// period_id, platform), atualizada no lugar a cada refresh. Quando o período
// encerra, a entrada é logicamente substituída pelo PeriodSummary definitivo.
type CacheEntry struct {
	ID          int64           `json:"id"`
	ClientID    string          `json:"client_id"`
	PeriodID    string          `json:"period_id"`
	Platform    Platform        `json:"platform"`
	Snapshot    *PeriodSnapshot `json:"snapshot"`
	LastUpdated time.Time       `json:"last_updated"`
}

// Age retorna a idade da entrada em relação ao instante informado
func (e *CacheEntry) Age(now time.Time) time.Duration {
	return now.Sub(e.LastUpdated)
}
