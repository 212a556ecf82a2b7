package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/marketing-report-api/infrastructure/repository/mocks"
	collectormocks "github.com/vfg2006/marketing-report-api/internal/collector/mocks"
	"github.com/vfg2006/marketing-report-api/internal/config"
	"github.com/vfg2006/marketing-report-api/internal/domain"
	"go.uber.org/mock/gomock"
)

func testConfig() *config.Config {
	return &config.Config{
		Cache: config.Cache{
			CurrentMonthTTLHours: 6,
			CurrentWeekTTLHours:  2,
		},
		Collector: config.Collector{
			MaxConcurrentJobs:   3,
			RequestDelaySeconds: 0,
			FetchTimeoutSeconds: 5,
			MaxRetries:          2,
			RetryDelaySeconds:   0,
		},
	}
}

func testClient(id string) *domain.Client {
	return &domain.Client{
		ID:     id,
		Name:   "Hotel " + id,
		Status: domain.ClientStatusActive,
		Meta: domain.PlatformCredentials{
			AccessToken: "token-" + id,
			AccountID:   "acct-" + id,
			Enabled:     true,
		},
	}
}

func testRecords() []*domain.CampaignMetrics {
	return []*domain.CampaignMetrics{
		{
			CampaignID:  "camp-1",
			Platform:    domain.PlatformMeta,
			Spend:       100.0,
			Impressions: 1000,
			Clicks:      50,
			Conversions: domain.EmptyConversions(),
		},
	}
}

func TestCollectCurrentPeriod_FreshCacheSkipsFetch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClientRepo := mocks.NewMockClientRepository(ctrl)
	mockCacheRepo := mocks.NewMockCacheRepository(ctrl)
	mockSummaryRepo := mocks.NewMockSummaryRepository(ctrl)
	mockAdapter := collectormocks.NewMockAdapter(ctrl)

	mockAdapter.EXPECT().Platform().Return(domain.PlatformMeta).AnyTimes()

	cachedSnapshot := &domain.PeriodSnapshot{Totals: &domain.PeriodTotals{Spend: 42.0}}
	mockCacheRepo.EXPECT().
		Get(gomock.Any(), gomock.Any(), domain.PlatformMeta, domain.GranularityMonth).
		Return(&domain.CacheEntry{
			Snapshot:    cachedSnapshot,
			LastUpdated: time.Now().Add(-1 * time.Minute),
		}, nil)

	// Nenhuma chamada ao adaptador nem escrita no cache deve acontecer

	service := NewService(testConfig(), mockClientRepo, mockCacheRepo, mockSummaryRepo, mockAdapter)

	snapshot, refreshed, err := service.CollectCurrentPeriod(context.Background(), testClient("c1"), domain.PlatformMeta, domain.GranularityMonth)

	require.NoError(t, err)
	assert.False(t, refreshed)
	assert.Equal(t, cachedSnapshot, snapshot)
}

func TestCollectCurrentPeriod_StaleCacheRefreshes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClientRepo := mocks.NewMockClientRepository(ctrl)
	mockCacheRepo := mocks.NewMockCacheRepository(ctrl)
	mockSummaryRepo := mocks.NewMockSummaryRepository(ctrl)
	mockAdapter := collectormocks.NewMockAdapter(ctrl)

	mockAdapter.EXPECT().Platform().Return(domain.PlatformMeta).AnyTimes()

	mockCacheRepo.EXPECT().
		Get(gomock.Any(), gomock.Any(), domain.PlatformMeta, domain.GranularityMonth).
		Return(&domain.CacheEntry{
			Snapshot:    &domain.PeriodSnapshot{},
			LastUpdated: time.Now().Add(-7 * time.Hour),
		}, nil)

	mockAdapter.EXPECT().
		FetchCampaignMetrics(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(testRecords(), nil)

	mockCacheRepo.EXPECT().
		Upsert(domain.GranularityMonth, gomock.Any()).
		DoAndReturn(func(_ domain.Granularity, entry *domain.CacheEntry) error {
			assert.Equal(t, "c1", entry.ClientID)
			assert.Equal(t, domain.PlatformMeta, entry.Platform)
			assert.Equal(t, 100.0, entry.Snapshot.Totals.Spend)
			return nil
		})

	service := NewService(testConfig(), mockClientRepo, mockCacheRepo, mockSummaryRepo, mockAdapter)

	snapshot, refreshed, err := service.CollectCurrentPeriod(context.Background(), testClient("c1"), domain.PlatformMeta, domain.GranularityMonth)

	require.NoError(t, err)
	assert.True(t, refreshed)
	assert.Len(t, snapshot.Campaigns, 1)
}

func TestCollectCurrentPeriod_StorageErrorEscalates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClientRepo := mocks.NewMockClientRepository(ctrl)
	mockCacheRepo := mocks.NewMockCacheRepository(ctrl)
	mockSummaryRepo := mocks.NewMockSummaryRepository(ctrl)
	mockAdapter := collectormocks.NewMockAdapter(ctrl)

	mockAdapter.EXPECT().Platform().Return(domain.PlatformMeta).AnyTimes()

	mockCacheRepo.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, nil)

	mockAdapter.EXPECT().
		FetchCampaignMetrics(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(testRecords(), nil)

	mockCacheRepo.EXPECT().
		Upsert(gomock.Any(), gomock.Any()).
		Return(errors.New("conexão recusada"))

	service := NewService(testConfig(), mockClientRepo, mockCacheRepo, mockSummaryRepo, mockAdapter)

	_, _, err := service.CollectCurrentPeriod(context.Background(), testClient("c1"), domain.PlatformMeta, domain.GranularityWeek)

	require.Error(t, err)
	assert.True(t, domain.IsStorageError(err))
}

func TestCollectAllCurrent_PartialFailureIsolation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClientRepo := mocks.NewMockClientRepository(ctrl)
	mockCacheRepo := mocks.NewMockCacheRepository(ctrl)
	mockSummaryRepo := mocks.NewMockSummaryRepository(ctrl)
	mockAdapter := collectormocks.NewMockAdapter(ctrl)

	mockAdapter.EXPECT().Platform().Return(domain.PlatformMeta).AnyTimes()

	clients := []*domain.Client{testClient("c1"), testClient("c2"), testClient("c3")}
	mockClientRepo.EXPECT().
		ListEnabledForPlatform(domain.PlatformMeta).
		Return(clients, nil)

	mockCacheRepo.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, nil).
		Times(3)

	// O segundo cliente falha com erro do fornecedor; os demais completam
	mockAdapter.EXPECT().
		FetchCampaignMetrics(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, client *domain.Client, _, _ time.Time) ([]*domain.CampaignMetrics, error) {
			if client.ID == "c2" {
				return nil, &domain.UpstreamError{Platform: domain.PlatformMeta, StatusCode: 500, Message: "internal error"}
			}
			return testRecords(), nil
		}).
		Times(3)

	mockCacheRepo.EXPECT().
		Upsert(gomock.Any(), gomock.Any()).
		Return(nil).
		Times(2)

	service := NewService(testConfig(), mockClientRepo, mockCacheRepo, mockSummaryRepo, mockAdapter)

	result, err := service.CollectAllCurrent(context.Background(), domain.PlatformMeta, domain.GranularityMonth)

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"c1", "c3"}, result.Refreshed)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "c2", result.Failed[0].ClientID)
	assert.Empty(t, result.Skipped)
}

func TestCollectAllCurrent_CredentialErrorSkips(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClientRepo := mocks.NewMockClientRepository(ctrl)
	mockCacheRepo := mocks.NewMockCacheRepository(ctrl)
	mockSummaryRepo := mocks.NewMockSummaryRepository(ctrl)
	mockAdapter := collectormocks.NewMockAdapter(ctrl)

	mockAdapter.EXPECT().Platform().Return(domain.PlatformMeta).AnyTimes()

	mockClientRepo.EXPECT().
		ListEnabledForPlatform(domain.PlatformMeta).
		Return([]*domain.Client{testClient("c1")}, nil)

	mockCacheRepo.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, nil)

	mockAdapter.EXPECT().
		FetchCampaignMetrics(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, &domain.CredentialError{ClientID: "c1", Platform: domain.PlatformMeta, Reason: "token expirado"})

	service := NewService(testConfig(), mockClientRepo, mockCacheRepo, mockSummaryRepo, mockAdapter)

	result, err := service.CollectAllCurrent(context.Background(), domain.PlatformMeta, domain.GranularityMonth)

	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, result.Skipped)
	assert.Empty(t, result.Failed)
	assert.Empty(t, result.Refreshed)
}

func TestFetchWithRetry_RateLimitRetriedThenSucceeds(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClientRepo := mocks.NewMockClientRepository(ctrl)
	mockCacheRepo := mocks.NewMockCacheRepository(ctrl)
	mockSummaryRepo := mocks.NewMockSummaryRepository(ctrl)
	mockAdapter := collectormocks.NewMockAdapter(ctrl)

	mockAdapter.EXPECT().Platform().Return(domain.PlatformMeta).AnyTimes()

	gomock.InOrder(
		mockAdapter.EXPECT().
			FetchCampaignMetrics(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, &domain.RateLimitError{Platform: domain.PlatformMeta, StatusCode: 429}),
		mockAdapter.EXPECT().
			FetchCampaignMetrics(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(testRecords(), nil),
	)

	service := NewService(testConfig(), mockClientRepo, mockCacheRepo, mockSummaryRepo, mockAdapter)

	records, err := service.fetchWithRetry(context.Background(), mockAdapter, testClient("c1"), time.Now().AddDate(0, 0, -7), time.Now())

	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestFetchWithRetry_ExhaustedRetriesDegradeToUpstream(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClientRepo := mocks.NewMockClientRepository(ctrl)
	mockCacheRepo := mocks.NewMockCacheRepository(ctrl)
	mockSummaryRepo := mocks.NewMockSummaryRepository(ctrl)
	mockAdapter := collectormocks.NewMockAdapter(ctrl)

	mockAdapter.EXPECT().Platform().Return(domain.PlatformMeta).AnyTimes()

	// MaxRetries = 2: tentativa original + 2 retentativas
	mockAdapter.EXPECT().
		FetchCampaignMetrics(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, &domain.RateLimitError{Platform: domain.PlatformMeta, StatusCode: 429}).
		Times(3)

	service := NewService(testConfig(), mockClientRepo, mockCacheRepo, mockSummaryRepo, mockAdapter)

	_, err := service.fetchWithRetry(context.Background(), mockAdapter, testClient("c1"), time.Now().AddDate(0, 0, -7), time.Now())

	require.Error(t, err)
	assert.False(t, domain.IsRateLimitError(err))

	var upstreamErr *domain.UpstreamError
	require.True(t, errors.As(err, &upstreamErr))
	assert.True(t, domain.IsRateLimitError(upstreamErr.Err))
}

func TestFetchWithRetry_NonRateLimitNotRetried(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClientRepo := mocks.NewMockClientRepository(ctrl)
	mockCacheRepo := mocks.NewMockCacheRepository(ctrl)
	mockSummaryRepo := mocks.NewMockSummaryRepository(ctrl)
	mockAdapter := collectormocks.NewMockAdapter(ctrl)

	mockAdapter.EXPECT().Platform().Return(domain.PlatformMeta).AnyTimes()

	mockAdapter.EXPECT().
		FetchCampaignMetrics(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, &domain.UpstreamError{Platform: domain.PlatformMeta, StatusCode: 500, Message: "internal error"}).
		Times(1)

	service := NewService(testConfig(), mockClientRepo, mockCacheRepo, mockSummaryRepo, mockAdapter)

	_, err := service.fetchWithRetry(context.Background(), mockAdapter, testClient("c1"), time.Now().AddDate(0, 0, -7), time.Now())

	require.Error(t, err)
}

func TestCollectHistoricalSummaries_SkipsInProgressPeriods(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClientRepo := mocks.NewMockClientRepository(ctrl)
	mockCacheRepo := mocks.NewMockCacheRepository(ctrl)
	mockSummaryRepo := mocks.NewMockSummaryRepository(ctrl)
	mockAdapter := collectormocks.NewMockAdapter(ctrl)

	mockAdapter.EXPECT().Platform().Return(domain.PlatformMeta).AnyTimes()

	now := time.Now()
	closedPeriod := domain.PreviousPeriods(domain.GranularityMonth, now, 1)[0]
	currentPeriod := domain.CurrentPeriod(domain.GranularityMonth, now)

	// Apenas o período encerrado dispara busca e escrita
	mockAdapter.EXPECT().
		FetchCampaignMetrics(gomock.Any(), gomock.Any(), closedPeriod.Start, closedPeriod.End).
		Return(testRecords(), nil)

	mockSummaryRepo.EXPECT().
		Upsert(gomock.Any()).
		DoAndReturn(func(summary *domain.PeriodSummary) error {
			assert.Equal(t, domain.SummaryTypeMonthly, summary.SummaryType)
			assert.Equal(t, closedPeriod.SummaryDate(), summary.SummaryDate)
			assert.Equal(t, 100.0, summary.Totals.Spend)
			return nil
		})

	service := NewService(testConfig(), mockClientRepo, mockCacheRepo, mockSummaryRepo, mockAdapter)

	err := service.CollectHistoricalSummaries(context.Background(), testClient("c1"), domain.PlatformMeta, []domain.Period{closedPeriod, currentPeriod})

	require.NoError(t, err)
}

func TestCollectAllHistorical_OnlyMissingSkipsCollected(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClientRepo := mocks.NewMockClientRepository(ctrl)
	mockCacheRepo := mocks.NewMockCacheRepository(ctrl)
	mockSummaryRepo := mocks.NewMockSummaryRepository(ctrl)
	mockAdapter := collectormocks.NewMockAdapter(ctrl)

	mockAdapter.EXPECT().Platform().Return(domain.PlatformMeta).AnyTimes()

	now := time.Now()
	periods := domain.PreviousPeriods(domain.GranularityMonth, now, 2)

	mockClientRepo.EXPECT().
		ListEnabledForPlatform(domain.PlatformMeta).
		Return([]*domain.Client{testClient("c1")}, nil)

	// O período mais recente já foi coletado; apenas o anterior é buscado
	mockSummaryRepo.EXPECT().
		ListSummaryDates("c1", domain.PlatformMeta, domain.SummaryTypeMonthly).
		Return([]time.Time{periods[0].SummaryDate()}, nil)

	mockAdapter.EXPECT().
		FetchCampaignMetrics(gomock.Any(), gomock.Any(), periods[1].Start, periods[1].End).
		Return(testRecords(), nil)

	mockSummaryRepo.EXPECT().
		Upsert(gomock.Any()).
		Return(nil)

	service := NewService(testConfig(), mockClientRepo, mockCacheRepo, mockSummaryRepo, mockAdapter)

	result, err := service.CollectAllHistorical(context.Background(), domain.PlatformMeta, domain.GranularityMonth, 2, true)

	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, result.Refreshed)
	assert.Equal(t, 1, result.APICalls)
}

func TestLockKeyBoundedByClientAndPlatform(t *testing.T) {
	service := NewService(testConfig(), nil, nil, nil)

	// Períodos diferentes do mesmo par compartilham a mesma entrada: o mapa
	// de locks não cresce com o tempo
	for i := 0; i < 10; i++ {
		unlock := service.lockKey("c1", domain.PlatformMeta)
		unlock()
	}

	unlock := service.lockKey("c1", domain.PlatformGoogleAds)
	unlock()

	assert.Len(t, service.keyLocks, 2)
}

func TestLockKeySerializesSamePair(t *testing.T) {
	service := NewService(testConfig(), nil, nil, nil)

	unlock := service.lockKey("c1", domain.PlatformMeta)

	assert.False(t, service.keyLocks["c1|meta"].TryLock())

	unlock()

	require.True(t, service.keyLocks["c1|meta"].TryLock())
	service.keyLocks["c1|meta"].Unlock()
}
