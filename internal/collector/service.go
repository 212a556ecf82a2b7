package collector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/marketing-report-api/infrastructure/repository"
	"github.com/vfg2006/marketing-report-api/internal/config"
	"github.com/vfg2006/marketing-report-api/internal/domain"
	"github.com/vfg2006/marketing-report-api/pkg/utils"
)

// Service é o coletor de dados em background: orquestra o ciclo
// buscar→normalizar→armazenar para períodos em andamento (cache) e períodos
// encerrados (summary store), com isolamento de falha por cliente.
type Service struct {
	cfg         *config.Config
	clientRepo  repository.ClientRepository
	cacheRepo   repository.CacheRepository
	summaryRepo repository.SummaryRepository
	adapters    map[domain.Platform]Adapter

	// Serializa escritas concorrentes do mesmo par (client, platform);
	// pares diferentes não se coordenam
	keyLocks map[string]*sync.Mutex
	lockMu   sync.Mutex
}

func NewService(
	cfg *config.Config,
	clientRepo repository.ClientRepository,
	cacheRepo repository.CacheRepository,
	summaryRepo repository.SummaryRepository,
	adapters ...Adapter,
) *Service {
	adapterMap := make(map[domain.Platform]Adapter, len(adapters))
	for _, adapter := range adapters {
		adapterMap[adapter.Platform()] = adapter
	}

	return &Service{
		cfg:         cfg,
		clientRepo:  clientRepo,
		cacheRepo:   cacheRepo,
		summaryRepo: summaryRepo,
		adapters:    adapterMap,
		keyLocks:    make(map[string]*sync.Mutex),
	}
}

// cacheTTL retorna o limiar de frescor configurado para a granularidade
func (s *Service) cacheTTL(granularity domain.Granularity) time.Duration {
	if granularity == domain.GranularityMonth {
		return s.cfg.Cache.CurrentMonthTTL()
	}
	return s.cfg.Cache.CurrentWeekTTL()
}

// lockKey adquire o lock de escrita do par (cliente, plataforma) e retorna a
// função de liberação. A chave não inclui o período para o mapa ficar limitado
// ao número de clientes; serializar períodos distintos do mesmo par é mais
// restritivo que o necessário, mas nunca incorreto.
func (s *Service) lockKey(clientID string, platform domain.Platform) func() {
	key := fmt.Sprintf("%s|%s", clientID, platform)

	s.lockMu.Lock()
	lock, ok := s.keyLocks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.keyLocks[key] = lock
	}
	s.lockMu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// CollectCurrentPeriod atualiza (ou serve do cache) o snapshot do período em
// andamento de um cliente. Retorna o snapshot e se houve busca na API.
// A escrita no cache completa antes do snapshot ser retornado ao chamador.
func (s *Service) CollectCurrentPeriod(ctx context.Context, client *domain.Client, platform domain.Platform, granularity domain.Granularity) (*domain.PeriodSnapshot, bool, error) {
	adapter, ok := s.adapters[platform]
	if !ok {
		return nil, false, fmt.Errorf("nenhum adaptador registrado para a plataforma %s", platform)
	}

	now := time.Now()
	period := domain.CurrentPeriod(granularity, now)

	entry, err := s.cacheRepo.Get(client.ID, period.ID(), platform, granularity)
	if err != nil {
		return nil, false, &domain.StorageError{Op: "cache.get", Err: err}
	}

	if !ShouldRefresh(entry, now, s.cacheTTL(granularity)) {
		logrus.WithFields(logrus.Fields{
			"client_id": client.ID,
			"period_id": period.ID(),
			"platform":  platform,
			"age":       entry.Age(now).String(),
		}).Debug("Cache fresco, servindo snapshot sem busca na API")
		return entry.Snapshot, false, nil
	}

	records, err := s.fetchWithRetry(ctx, adapter, client, period.Start, period.End)
	if err != nil {
		return nil, false, err
	}

	snapshot := &domain.PeriodSnapshot{
		Totals:    AggregateCampaigns(records),
		Campaigns: records,
	}

	unlock := s.lockKey(client.ID, platform)
	defer unlock()

	err = s.cacheRepo.Upsert(granularity, &domain.CacheEntry{
		ClientID: client.ID,
		PeriodID: period.ID(),
		Platform: platform,
		Snapshot: snapshot,
	})
	if err != nil {
		// Falha de escrita nunca é silenciada: risco de perda de dados
		return nil, false, &domain.StorageError{Op: "cache.upsert", Err: err}
	}

	logrus.WithFields(logrus.Fields{
		"client_id": client.ID,
		"period_id": period.ID(),
		"platform":  platform,
		"campaigns": len(records),
	}).Info("Snapshot do período em andamento atualizado")

	return snapshot, true, nil
}

// CollectHistoricalSummaries coleta e grava os resumos definitivos dos
// períodos encerrados informados. Idempotente: reexecutar para um período já
// coletado substitui o agregado, nunca duplica. O chamador pode passar
// qualquer subconjunto de períodos (ex.: apenas semanas faltantes).
func (s *Service) CollectHistoricalSummaries(ctx context.Context, client *domain.Client, platform domain.Platform, periods []domain.Period) error {
	adapter, ok := s.adapters[platform]
	if !ok {
		return fmt.Errorf("nenhum adaptador registrado para a plataforma %s", platform)
	}

	now := time.Now()

	for i, period := range periods {
		if domain.ClassifyPeriod(period, now) != domain.PeriodClosed {
			logrus.WithFields(logrus.Fields{
				"client_id": client.ID,
				"period_id": period.ID(),
			}).Warn("Período ainda em andamento não pertence ao summary store, pulando")
			continue
		}

		if i > 0 {
			// Pausa entre períodos para não sobrecarregar a API do fornecedor
			time.Sleep(time.Duration(s.cfg.Collector.RequestDelaySeconds) * time.Second)
		}

		records, err := s.fetchWithRetry(ctx, adapter, client, period.Start, period.End)
		if err != nil {
			return err
		}

		summary := &domain.PeriodSummary{
			ClientID:    client.ID,
			Platform:    platform,
			SummaryType: domain.SummaryTypeFor(period.Granularity),
			SummaryDate: period.SummaryDate(),
			Totals:      AggregateCampaigns(records),
			Campaigns:   records,
		}

		unlock := s.lockKey(client.ID, platform)
		err = s.summaryRepo.Upsert(summary)
		unlock()
		if err != nil {
			return &domain.StorageError{Op: "summary.upsert", Err: err}
		}

		logrus.WithFields(logrus.Fields{
			"client_id":    client.ID,
			"platform":     platform,
			"summary_type": summary.SummaryType,
			"summary_date": summary.SummaryDate.Format(time.DateOnly),
			"campaigns":    len(records),
		}).Info("Resumo de período histórico gravado")
	}

	return nil
}

// CollectAllCurrent executa a coleta do período em andamento para todos os
// clientes habilitados na plataforma, com concorrência limitada. A falha de
// um cliente é registrada no lote e nunca interrompe os demais.
func (s *Service) CollectAllCurrent(ctx context.Context, platform domain.Platform, granularity domain.Granularity) (*domain.BatchResult, error) {
	clients, err := s.clientRepo.ListEnabledForPlatform(platform)
	if err != nil {
		// Falha antes do fan-out começar é fatal para o lote
		return nil, fmt.Errorf("erro ao listar clientes habilitados: %w", err)
	}

	result := s.newBatchResult()

	logrus.WithFields(logrus.Fields{
		"run_id":      result.RunID,
		"platform":    platform,
		"granularity": granularity,
		"clients":     len(clients),
	}).Info("Iniciando coleta do período em andamento para todos os clientes")

	s.fanOut(clients, func(client *domain.Client) {
		_, refreshed, err := s.CollectCurrentPeriod(ctx, client, platform, granularity)
		if refreshed {
			result.CountAPICalls(1)
		}
		s.recordOutcome(result, client, platform, refreshed, err)
	})

	result.Complete()

	logrus.WithFields(logrus.Fields{
		"run_id":    result.RunID,
		"refreshed": len(result.Refreshed),
		"skipped":   len(result.Skipped),
		"failed":    len(result.Failed),
		"api_calls": result.APICalls,
	}).Info("Coleta do período em andamento concluída")

	return result, nil
}

// CollectAllHistorical coleta os resumos dos últimos períodos encerrados para
// todos os clientes habilitados na plataforma. Com onlyMissing, períodos já
// presentes no summary store não são rebuscados, permitindo retomar uma
// coleta parcial.
func (s *Service) CollectAllHistorical(ctx context.Context, platform domain.Platform, granularity domain.Granularity, lookback int, onlyMissing bool) (*domain.BatchResult, error) {
	clients, err := s.clientRepo.ListEnabledForPlatform(platform)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar clientes habilitados: %w", err)
	}

	periods := domain.PreviousPeriods(granularity, time.Now(), lookback)
	result := s.newBatchResult()

	logrus.WithFields(logrus.Fields{
		"run_id":       result.RunID,
		"platform":     platform,
		"granularity":  granularity,
		"clients":      len(clients),
		"periods":      len(periods),
		"only_missing": onlyMissing,
	}).Info("Iniciando coleta de resumos históricos para todos os clientes")

	s.fanOut(clients, func(client *domain.Client) {
		targetPeriods := periods
		if onlyMissing {
			var err error
			targetPeriods, err = s.missingPeriods(client, platform, granularity, periods)
			if err != nil {
				s.recordOutcome(result, client, platform, false, err)
				return
			}
		}

		if len(targetPeriods) == 0 {
			result.AddSkipped(client.ID)
			return
		}

		err := s.CollectHistoricalSummaries(ctx, client, platform, targetPeriods)
		if err == nil {
			result.CountAPICalls(len(targetPeriods))
		}
		s.recordOutcome(result, client, platform, err == nil, err)
	})

	result.Complete()

	logrus.WithFields(logrus.Fields{
		"run_id":    result.RunID,
		"refreshed": len(result.Refreshed),
		"skipped":   len(result.Skipped),
		"failed":    len(result.Failed),
		"api_calls": result.APICalls,
	}).Info("Coleta de resumos históricos concluída")

	return result, nil
}

// missingPeriods filtra os períodos que ainda não têm resumo no summary store
func (s *Service) missingPeriods(client *domain.Client, platform domain.Platform, granularity domain.Granularity, periods []domain.Period) ([]domain.Period, error) {
	collected, err := s.summaryRepo.ListSummaryDates(client.ID, platform, domain.SummaryTypeFor(granularity))
	if err != nil {
		return nil, &domain.StorageError{Op: "summary.list_dates", Err: err}
	}

	collectedSet := make(map[string]bool, len(collected))
	for _, date := range collected {
		collectedSet[date.Format(time.DateOnly)] = true
	}

	missing := make([]domain.Period, 0, len(periods))
	for _, period := range periods {
		if !collectedSet[period.SummaryDate().Format(time.DateOnly)] {
			missing = append(missing, period)
		}
	}

	return missing, nil
}

// fanOut processa os clientes com um pool limitado de workers. Nenhum pânico
// ou erro de um cliente escapa para os demais.
func (s *Service) fanOut(clients []*domain.Client, process func(*domain.Client)) {
	semaphore := make(chan struct{}, s.cfg.Collector.MaxConcurrentJobs)
	var wg sync.WaitGroup

	for _, client := range clients {
		wg.Add(1)
		semaphore <- struct{}{} // Adquirir semáforo

		go func(c *domain.Client) {
			defer func() {
				if r := recover(); r != nil {
					logrus.WithFields(logrus.Fields{
						"client_id": c.ID,
						"panic":     r,
					}).Error("Pânico recuperado durante a coleta do cliente")
				}
				<-semaphore // Liberar semáforo
				wg.Done()
			}()

			process(c)
		}(client)
	}

	wg.Wait()
}

// recordOutcome classifica o resultado de um cliente dentro do lote.
// Cliente sem credenciais é um pulo registrado, não uma falha; qualquer outro
// erro entra na lista de falhas sem interromper o lote.
func (s *Service) recordOutcome(result *domain.BatchResult, client *domain.Client, platform domain.Platform, refreshed bool, err error) {
	if err == nil {
		if refreshed {
			result.AddRefreshed(client.ID)
		} else {
			result.AddSkipped(client.ID)
		}
		return
	}

	if domain.IsCredentialError(err) {
		logrus.WithFields(logrus.Fields{
			"client_id": client.ID,
			"platform":  platform,
			"reason":    err.Error(),
		}).Warn("Cliente pulado por credenciais inválidas")
		result.AddSkipped(client.ID)
		return
	}

	logrus.WithFields(logrus.Fields{
		"client_id": client.ID,
		"platform":  platform,
		"error":     err.Error(),
	}).Error("Falha na coleta do cliente")
	result.AddFailure(client.ID, platform, err.Error())
}

// fetchWithRetry chama o adaptador com timeout por chamada e retentativa
// limitada apenas para throttling. Retentativas esgotadas degradam para
// UpstreamError desta invocação; o lote continua para os demais clientes.
func (s *Service) fetchWithRetry(ctx context.Context, adapter Adapter, client *domain.Client, startDate, endDate time.Time) ([]*domain.CampaignMetrics, error) {
	var lastErr error

	for attempt := 0; attempt <= s.cfg.Collector.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(attempt*s.cfg.Collector.RetryDelaySeconds) * time.Second
			logrus.WithFields(logrus.Fields{
				"client_id": client.ID,
				"platform":  adapter.Platform(),
				"attempt":   attempt,
				"delay":     delay.String(),
			}).Info("Aguardando backoff antes de retentar após throttling")

			select {
			case <-ctx.Done():
				return nil, &domain.UpstreamError{Platform: adapter.Platform(), Message: "contexto cancelado durante backoff", Err: ctx.Err()}
			case <-time.After(delay):
			}
		}

		fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.Collector.FetchTimeout())
		records, err := adapter.FetchCampaignMetrics(fetchCtx, client, startDate, endDate)
		cancel()

		if err == nil {
			return records, nil
		}

		lastErr = err

		// Apenas throttling é retentado; credenciais e falhas do fornecedor
		// são decididas pelo chamador
		if !domain.IsRateLimitError(err) {
			return nil, err
		}
	}

	return nil, &domain.UpstreamError{
		Platform: adapter.Platform(),
		Message:  "retentativas esgotadas após throttling do fornecedor",
		Err:      lastErr,
	}
}

func (s *Service) newBatchResult() *domain.BatchResult {
	runID, err := utils.GenerateID()
	if err != nil {
		runID = "unknown"
	}
	return domain.NewBatchResult(runID)
}
