package domain

import "time"

// SummaryType identifica o tipo de resumo armazenado no summary store
type SummaryType string

const (
	SummaryTypeWeekly  SummaryType = "weekly"
	SummaryTypeMonthly SummaryType = "monthly"
)

// SummaryTypeFor retorna o tipo de resumo correspondente à granularidade
func SummaryTypeFor(granularity Granularity) SummaryType {
	if granularity == GranularityMonth {
		return SummaryTypeMonthly
	}
	return SummaryTypeWeekly
}

// PeriodTotals agrega as métricas de todas as campanhas de um período
type PeriodTotals struct {
	Spend       float64                     `json:"spend"`
	Impressions int                         `json:"impressions"`
	Clicks      int                         `json:"clicks"`
	CTR         float64                     `json:"ctr"`
	CPC         float64                     `json:"cpc"`
	Conversions map[string]ConversionMetric `json:"conversions"`
}

// PeriodSummary é o registro histórico durável de um período encerrado.
// Invariante: no máximo uma linha por (client_id, platform, summary_type,
// summary_date). Escritas são upserts e substituem o agregado completo.
type PeriodSummary struct {
	ID          int64              `json:"id"`
	ClientID    string             `json:"client_id"`
	Platform    Platform           `json:"platform"`
	SummaryType SummaryType        `json:"summary_type"`
	SummaryDate time.Time          `json:"summary_date"`
	Totals      *PeriodTotals      `json:"totals"`
	Campaigns   []*CampaignMetrics `json:"campaigns"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}
