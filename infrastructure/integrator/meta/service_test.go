package meta

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metadomain "github.com/vfg2006/marketing-report-api/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/marketing-report-api/infrastructure/integrator/meta/mocks"
	"github.com/vfg2006/marketing-report-api/internal/config"
	"github.com/vfg2006/marketing-report-api/internal/domain"
	"go.uber.org/mock/gomock"
)

func TestFactoryCampaignMetrics(t *testing.T) {
	tests := []struct {
		name     string
		insight  *metadomain.CampaignInsight
		validate func(t *testing.T, record *domain.CampaignMetrics)
	}{
		{
			name: "Ações reconhecidas são mapeadas para as chaves canônicas",
			insight: &metadomain.CampaignInsight{
				CampaignID:   "123",
				CampaignName: "Campanha Verão",
				Spend:        "150.50",
				Impressions:  "10000",
				Clicks:       "250",
				CTR:          "2.5",
				CPC:          "0.60",
				Actions: []metadomain.Action{
					{ActionType: "click_to_call", Value: "5"},
					{ActionType: "lead", Value: "12"},
					{ActionType: "purchase", Value: "3"},
				},
				ActionValues: []metadomain.Action{
					{ActionType: "purchase", Value: "2700.00"},
				},
				DateStart: "2025-05-01",
				DateStop:  "2025-05-31",
			},
			validate: func(t *testing.T, record *domain.CampaignMetrics) {
				assert.Equal(t, "123", record.CampaignID)
				assert.Equal(t, domain.PlatformMeta, record.Platform)
				assert.Equal(t, 150.50, record.Spend)
				assert.Equal(t, 10000, record.Impressions)
				assert.Equal(t, 250, record.Clicks)
				assert.Equal(t, 5.0, record.Conversions[domain.ActionClickToCall].Count)
				assert.Equal(t, 12.0, record.Conversions[domain.ActionEmailContacts].Count)
				assert.Equal(t, 3.0, record.Conversions[domain.ActionReservations].Count)
				assert.Equal(t, 2700.0, record.Conversions[domain.ActionReservations].Value)
			},
		},
		{
			name: "Tipos de ação não mapeados são descartados",
			insight: &metadomain.CampaignInsight{
				CampaignID: "456",
				Spend:      "10.00",
				Actions: []metadomain.Action{
					{ActionType: "post_engagement", Value: "999"},
					{ActionType: "video_view", Value: "500"},
					{ActionType: "click_to_call", Value: "2"},
				},
			},
			validate: func(t *testing.T, record *domain.CampaignMetrics) {
				assert.Equal(t, 2.0, record.Conversions[domain.ActionClickToCall].Count)

				total := 0.0
				for _, metric := range record.Conversions {
					total += metric.Count
				}
				assert.Equal(t, 2.0, total)
			},
		},
		{
			name: "Ações ausentes viram zero em todas as chaves canônicas",
			insight: &metadomain.CampaignInsight{
				CampaignID:  "789",
				Spend:       "35.00",
				Impressions: "2000",
				Clicks:      "40",
			},
			validate: func(t *testing.T, record *domain.CampaignMetrics) {
				assert.Len(t, record.Conversions, len(domain.CanonicalActionTypes))
				for _, actionType := range domain.CanonicalActionTypes {
					metric, ok := record.Conversions[actionType]
					assert.True(t, ok)
					assert.Equal(t, 0.0, metric.Count)
					assert.Equal(t, 0.0, metric.Value)
				}
			},
		},
		{
			name: "Variantes de purchase somam na mesma chave de reservas",
			insight: &metadomain.CampaignInsight{
				CampaignID: "999",
				Actions: []metadomain.Action{
					{ActionType: "purchase", Value: "1"},
					{ActionType: "omni_purchase", Value: "2"},
					{ActionType: "offsite_conversion.fb_pixel_purchase", Value: "3"},
				},
			},
			validate: func(t *testing.T, record *domain.CampaignMetrics) {
				assert.Equal(t, 6.0, record.Conversions[domain.ActionReservations].Count)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validate(t, FactoryCampaignMetrics(tt.insight))
		})
	}
}

func TestFetchCampaignMetrics_DisabledClientReturnsCredentialError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mocks.NewMockClient(ctrl)
	integrator := New(&config.Config{}, mockClient)

	client := &domain.Client{
		ID:     "c1",
		Status: domain.ClientStatusActive,
		Meta: domain.PlatformCredentials{
			AccessToken: "token",
			AccountID:   "123",
			Enabled:     false,
		},
	}

	_, err := integrator.FetchCampaignMetrics(context.Background(), client, time.Now().AddDate(0, 0, -7), time.Now())

	require.Error(t, err)
	assert.True(t, domain.IsCredentialError(err))
}

func TestFetchCampaignMetrics_MissingTokenReturnsCredentialError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mocks.NewMockClient(ctrl)
	integrator := New(&config.Config{}, mockClient)

	client := &domain.Client{
		ID:     "c1",
		Status: domain.ClientStatusActive,
		Meta: domain.PlatformCredentials{
			AccountID: "123",
			Enabled:   true,
		},
	}

	_, err := integrator.FetchCampaignMetrics(context.Background(), client, time.Now().AddDate(0, 0, -7), time.Now())

	require.Error(t, err)
	assert.True(t, domain.IsCredentialError(err))
}

func TestFetchCampaignMetrics_NormalizesAllInsights(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mocks.NewMockClient(ctrl)
	integrator := New(&config.Config{}, mockClient)

	client := &domain.Client{
		ID:     "c1",
		Status: domain.ClientStatusActive,
		Meta: domain.PlatformCredentials{
			AccessToken: "token",
			AccountID:   "123",
			Enabled:     true,
		},
	}

	mockClient.EXPECT().
		GetCampaignInsights(gomock.Any(), client.Meta, gomock.Any(), gomock.Any()).
		Return([]metadomain.CampaignInsight{
			{CampaignID: "a", Spend: "10.00"},
			{CampaignID: "b", Spend: "20.00"},
		}, nil)

	records, err := integrator.FetchCampaignMetrics(context.Background(), client, time.Now().AddDate(0, 0, -7), time.Now())

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "a", records[0].CampaignID)
	assert.Equal(t, 20.0, records[1].Spend)
}
