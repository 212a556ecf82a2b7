package collector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/marketing-report-api/internal/domain"
)

func TestAggregateCampaigns(t *testing.T) {
	recordA := &domain.CampaignMetrics{
		CampaignID:  "c1",
		Spend:       100.0,
		Impressions: 1000,
		Clicks:      50,
		Conversions: map[string]domain.ConversionMetric{
			domain.ActionReservations:  {Count: 2, Value: 1800.0},
			domain.ActionClickToCall:   {Count: 5},
			domain.ActionBookingStep1:  {Count: 10},
			domain.ActionEmailContacts: {},
			domain.ActionBookingStep2:  {},
			domain.ActionBookingStep3:  {},
		},
	}

	// Campanha sem nenhuma conversão reportada
	recordB := &domain.CampaignMetrics{
		CampaignID:  "c2",
		Spend:       50.0,
		Impressions: 500,
		Clicks:      10,
		Conversions: domain.EmptyConversions(),
	}

	totals := AggregateCampaigns([]*domain.CampaignMetrics{recordA, recordB})

	assert.Equal(t, 150.0, totals.Spend)
	assert.Equal(t, 1500, totals.Impressions)
	assert.Equal(t, 60, totals.Clicks)

	// CTR e CPC derivados dos totais: 60/1500*100 = 4, 150/60 = 2.5
	assert.Equal(t, 4.0, totals.CTR)
	assert.Equal(t, 2.5, totals.CPC)

	// Campanha sem a ação contribui com zero, nunca com nulo
	assert.Equal(t, 2.0, totals.Conversions[domain.ActionReservations].Count)
	assert.Equal(t, 1800.0, totals.Conversions[domain.ActionReservations].Value)
	assert.Equal(t, 5.0, totals.Conversions[domain.ActionClickToCall].Count)
	assert.Equal(t, 0.0, totals.Conversions[domain.ActionEmailContacts].Count)
}

func TestAggregateCampaignsEmpty(t *testing.T) {
	totals := AggregateCampaigns(nil)

	assert.Equal(t, 0.0, totals.Spend)
	assert.Equal(t, 0, totals.Impressions)
	assert.Equal(t, 0, totals.Clicks)
	assert.Equal(t, 0.0, totals.CTR)
	assert.Equal(t, 0.0, totals.CPC)

	// Todas as chaves canônicas presentes mesmo sem campanhas
	for _, actionType := range domain.CanonicalActionTypes {
		metric, ok := totals.Conversions[actionType]
		assert.True(t, ok)
		assert.Equal(t, 0.0, metric.Count)
		assert.Equal(t, 0.0, metric.Value)
	}
}

func TestAggregateCampaignsIgnoresNilRecords(t *testing.T) {
	totals := AggregateCampaigns([]*domain.CampaignMetrics{
		nil,
		{Spend: 10.0, Impressions: 100, Clicks: 4, Conversions: domain.EmptyConversions()},
	})

	assert.Equal(t, 10.0, totals.Spend)
	assert.Equal(t, 4.0, totals.CTR)
	assert.Equal(t, 2.5, totals.CPC)
}
