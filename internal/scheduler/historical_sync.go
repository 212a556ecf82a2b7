package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/marketing-report-api/internal/collector"
	"github.com/vfg2006/marketing-report-api/internal/config"
	"github.com/vfg2006/marketing-report-api/internal/domain"
)

// HistoricalSyncConfig representa a configuração do agendador de resumos históricos
type HistoricalSyncConfig struct {
	CronSchedule  string
	WeekLookback  int
	MonthLookback int
	SyncEnabled   bool
}

// HistoricalSyncService gerencia o agendamento da coleta de resumos dos
// períodos encerrados. Roda apenas para períodos faltantes: resumos já
// gravados são definitivos e não precisam de nova busca.
type HistoricalSyncService struct {
	scheduler           *gocron.Scheduler
	config              HistoricalSyncConfig
	collectorService    *collector.Service
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastResults         []*domain.BatchResult
}

// NewHistoricalSyncService cria uma nova instância do agendador de resumos históricos
func NewHistoricalSyncService(collectorService *collector.Service, appConfig *config.Config) *HistoricalSyncService {
	syncConfig := HistoricalSyncConfig{
		CronSchedule:  appConfig.HistoricalSync.CronSchedule,
		WeekLookback:  appConfig.HistoricalSync.WeekLookback,
		MonthLookback: appConfig.HistoricalSync.MonthLookback,
		SyncEnabled:   appConfig.HistoricalSync.Enabled,
	}

	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule":  syncConfig.CronSchedule,
		"week_lookback":  syncConfig.WeekLookback,
		"month_lookback": syncConfig.MonthLookback,
		"sync_enabled":   syncConfig.SyncEnabled,
	}).Info("Configuração do agendador de resumos históricos carregada")

	return &HistoricalSyncService{
		scheduler:        scheduler,
		config:           syncConfig,
		collectorService: collectorService,
		syncRunning:      false,
	}
}

// Start inicia o agendador
func (s *HistoricalSyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Coleta agendada de resumos históricos desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de resumos históricos")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.syncAllHistoricalSummaries(context.Background())
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar coleta de resumos históricos: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de resumos históricos")
		s.scheduler.Stop()
	}()

	return nil
}

// TriggerManualSync executa uma rodada fora do cronograma e devolve os
// resultados por lote. Retorna erro se já houver uma rodada em andamento.
func (s *HistoricalSyncService) TriggerManualSync(ctx context.Context) ([]*domain.BatchResult, error) {
	results := s.syncAllHistoricalSummaries(ctx)
	if results == nil {
		return nil, fmt.Errorf("coleta de resumos históricos já em execução")
	}
	return results, nil
}

// GetStatus retorna o estado atual do agendador para o endpoint de status
func (s *HistoricalSyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	status := map[string]any{
		"enabled":        s.config.SyncEnabled,
		"cron":           s.config.CronSchedule,
		"week_lookback":  s.config.WeekLookback,
		"month_lookback": s.config.MonthLookback,
		"sync_running":   s.syncRunning,
	}
	if !s.lastSyncStartedAt.IsZero() {
		status["last_sync_started_at"] = s.lastSyncStartedAt.Format(time.RFC3339)
	}
	if !s.lastSyncCompletedAt.IsZero() {
		status["last_sync_completed_at"] = s.lastSyncCompletedAt.Format(time.RFC3339)
	}
	if s.lastResults != nil {
		summaries := make([]map[string]any, 0, len(s.lastResults))
		for _, result := range s.lastResults {
			summaries = append(summaries, result.Summary())
		}
		status["last_results"] = summaries
	}
	return status
}

// syncAllHistoricalSummaries coleta os resumos faltantes dos últimos períodos
// encerrados de todas as plataformas. Rodadas sobrepostas são suprimidas e
// retornam nil.
func (s *HistoricalSyncService) syncAllHistoricalSummaries(ctx context.Context) []*domain.BatchResult {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Coleta de resumos históricos já em execução, ignorando")
		return nil
	}
	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()
	s.syncMutex.Unlock()

	startTime := time.Now()

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.lastSyncCompletedAt = time.Now()
		s.syncMutex.Unlock()
	}()

	logrus.WithFields(logrus.Fields{
		"week_lookback":  s.config.WeekLookback,
		"month_lookback": s.config.MonthLookback,
	}).Info("Iniciando coleta de resumos históricos para todas as plataformas")

	results := make([]*domain.BatchResult, 0, 4)

	for _, platform := range []domain.Platform{domain.PlatformMeta, domain.PlatformGoogleAds} {
		lookbacks := map[domain.Granularity]int{
			domain.GranularityMonth: s.config.MonthLookback,
			domain.GranularityWeek:  s.config.WeekLookback,
		}
		for granularity, lookback := range lookbacks {
			result, err := s.collectorService.CollectAllHistorical(ctx, platform, granularity, lookback, true)
			if err != nil {
				logrus.WithFields(logrus.Fields{
					"platform":    platform,
					"granularity": granularity,
					"error":       err.Error(),
				}).Error("Erro ao coletar resumos históricos da plataforma")
				continue
			}
			results = append(results, result)
		}
	}

	s.syncMutex.Lock()
	s.lastResults = results
	s.syncMutex.Unlock()

	logrus.WithFields(logrus.Fields{
		"duration": time.Since(startTime).String(),
		"batches":  len(results),
	}).Info("Coleta de resumos históricos concluída")

	return results
}
