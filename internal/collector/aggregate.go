package collector

import (
	"github.com/vfg2006/marketing-report-api/internal/domain"
	"github.com/vfg2006/marketing-report-api/pkg/utils"
)

// AggregateCampaigns soma os registros de campanha nos totais do período.
// Soma simples: campanha sem determinada ação contribui com zero, nunca com
// nulo. CTR e CPC são derivados dos totais, não somados.
func AggregateCampaigns(records []*domain.CampaignMetrics) *domain.PeriodTotals {
	totals := &domain.PeriodTotals{
		Conversions: domain.EmptyConversions(),
	}

	for _, record := range records {
		if record == nil {
			continue
		}

		totals.Spend += record.Spend
		totals.Impressions += record.Impressions
		totals.Clicks += record.Clicks

		for actionType, metric := range record.Conversions {
			aggregated := totals.Conversions[actionType]
			aggregated.Count += metric.Count
			aggregated.Value += metric.Value
			totals.Conversions[actionType] = aggregated
		}
	}

	if totals.Impressions > 0 {
		totals.CTR = utils.RoundWithTwoDecimalPlace(float64(totals.Clicks) / float64(totals.Impressions) * 100)
	}

	if totals.Clicks > 0 {
		totals.CPC = utils.RoundWithTwoDecimalPlace(totals.Spend / float64(totals.Clicks))
	}

	totals.Spend = utils.RoundWithTwoDecimalPlace(totals.Spend)

	return totals
}
