package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/marketing-report-api/infrastructure/database/postgres"
	"github.com/vfg2006/marketing-report-api/infrastructure/integrator/googleads"
	"github.com/vfg2006/marketing-report-api/infrastructure/integrator/googleads/googleclient"
	"github.com/vfg2006/marketing-report-api/infrastructure/integrator/meta"
	"github.com/vfg2006/marketing-report-api/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/marketing-report-api/infrastructure/repository"
	"github.com/vfg2006/marketing-report-api/internal/api"
	"github.com/vfg2006/marketing-report-api/internal/collector"
	"github.com/vfg2006/marketing-report-api/internal/config"
	"github.com/vfg2006/marketing-report-api/internal/scheduler"
)

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o nível de log com base na configuração
	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	clientRepo := repository.NewClientRepository(pgConn)
	cacheRepo := repository.NewCacheRepository(pgConn)
	summaryRepo := repository.NewSummaryRepository(pgConn)

	metaClient := metaclient.NewClient(cfg)
	metaIntegrator := meta.New(cfg, metaClient)

	googleClient := googleclient.NewClient(cfg)
	googleIntegrator := googleads.New(cfg, googleClient)

	collectorService := collector.NewService(
		cfg,
		clientRepo,
		cacheRepo,
		summaryRepo,
		metaIntegrator,
		googleIntegrator,
	)

	// Inicializa os agendadores de coleta
	currentPeriodSyncService := scheduler.NewCurrentPeriodSyncService(collectorService, cfg)
	historicalSyncService := scheduler.NewHistoricalSyncService(collectorService, cfg)

	// Inicia os agendadores em background
	if err := currentPeriodSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador dos períodos em andamento")
	} else {
		logrus.Info("Agendador dos períodos em andamento iniciado com sucesso")
	}

	if err := historicalSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de resumos históricos")
	} else {
		logrus.Info("Agendador de resumos históricos iniciado com sucesso")
	}

	server, err := api.New(
		cfg,
		clientRepo,
		summaryRepo,
		collectorService,
		currentPeriodSyncService,
		historicalSyncService,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
