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

// CurrentPeriodSyncConfig representa a configuração do agendador de
// atualização dos períodos em andamento
type CurrentPeriodSyncConfig struct {
	CronSchedule string
	SyncEnabled  bool
}

// CurrentPeriodSyncService gerencia o agendamento da atualização do cache dos
// períodos em andamento (mês e semana correntes) para todas as plataformas
type CurrentPeriodSyncService struct {
	scheduler           *gocron.Scheduler
	config              CurrentPeriodSyncConfig
	collectorService    *collector.Service
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastResults         []*domain.BatchResult
}

// NewCurrentPeriodSyncService cria uma nova instância do agendador dos períodos em andamento
func NewCurrentPeriodSyncService(collectorService *collector.Service, appConfig *config.Config) *CurrentPeriodSyncService {
	syncConfig := CurrentPeriodSyncConfig{
		CronSchedule: appConfig.CurrentPeriodSync.CronSchedule,
		SyncEnabled:  appConfig.CurrentPeriodSync.Enabled,
	}

	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule": syncConfig.CronSchedule,
		"sync_enabled":  syncConfig.SyncEnabled,
	}).Info("Configuração do agendador dos períodos em andamento carregada")

	return &CurrentPeriodSyncService{
		scheduler:        scheduler,
		config:           syncConfig,
		collectorService: collectorService,
		syncRunning:      false,
	}
}

// Start inicia o agendador
func (s *CurrentPeriodSyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Atualização agendada dos períodos em andamento desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador dos períodos em andamento")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.syncAllCurrentPeriods(context.Background())
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar atualização dos períodos em andamento: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador dos períodos em andamento")
		s.scheduler.Stop()
	}()

	return nil
}

// TriggerManualSync executa uma rodada fora do cronograma e devolve os
// resultados por lote. Retorna erro se já houver uma rodada em andamento,
// para que o agendador externo distinga "rodou com falhas parciais" de
// "não rodou".
func (s *CurrentPeriodSyncService) TriggerManualSync(ctx context.Context) ([]*domain.BatchResult, error) {
	results := s.syncAllCurrentPeriods(ctx)
	if results == nil {
		return nil, fmt.Errorf("atualização dos períodos em andamento já em execução")
	}
	return results, nil
}

// GetStatus retorna o estado atual do agendador para o endpoint de status
func (s *CurrentPeriodSyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	status := map[string]any{
		"enabled":      s.config.SyncEnabled,
		"cron":         s.config.CronSchedule,
		"sync_running": s.syncRunning,
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

// syncAllCurrentPeriods atualiza o cache do mês e da semana correntes de
// todas as plataformas. Rodadas sobrepostas são suprimidas e retornam nil.
func (s *CurrentPeriodSyncService) syncAllCurrentPeriods(ctx context.Context) []*domain.BatchResult {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Atualização dos períodos em andamento já em execução, ignorando")
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

	logrus.Info("Iniciando atualização dos períodos em andamento para todas as plataformas")

	results := make([]*domain.BatchResult, 0, 4)

	for _, platform := range []domain.Platform{domain.PlatformMeta, domain.PlatformGoogleAds} {
		for _, granularity := range []domain.Granularity{domain.GranularityMonth, domain.GranularityWeek} {
			result, err := s.collectorService.CollectAllCurrent(ctx, platform, granularity)
			if err != nil {
				logrus.WithFields(logrus.Fields{
					"platform":    platform,
					"granularity": granularity,
					"error":       err.Error(),
				}).Error("Erro ao atualizar períodos em andamento da plataforma")
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
	}).Info("Atualização dos períodos em andamento concluída")

	return results
}
