package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App               App               `mapstructure:",squash"`
	Server            Server            `mapstructure:",squash"`
	Database          Database          `mapstructure:",squash"`
	Meta              Meta              `mapstructure:",squash"`
	GoogleAds         GoogleAds         `mapstructure:",squash"`
	ServiceAuth       ServiceAuth       `mapstructure:",squash"`
	Cache             Cache             `mapstructure:",squash"`
	Collector         Collector         `mapstructure:",squash"`
	CurrentPeriodSync CurrentPeriodSync `mapstructure:",squash"`
	HistoricalSync    HistoricalSync    `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type Meta struct {
	BaseURL string `mapstructure:"meta_base_url"`
	URL     string `mapstructure:"-"`
	Version string `mapstructure:"meta_version"`
}

type GoogleAds struct {
	BaseURL        string `mapstructure:"google_ads_base_url"`
	URL            string `mapstructure:"-"`
	Version        string `mapstructure:"google_ads_version"`
	DeveloperToken string `mapstructure:"google_ads_developer_token"`
}

// ServiceAuth protege os endpoints de gatilho invocados pelos agendadores
// externos. O segredo é armazenado como hash bcrypt; tokens JWT de curta
// duração assinados com o segredo também são aceitos.
type ServiceAuth struct {
	SecretHash string `mapstructure:"service_secret_hash"`
	Secret     string `mapstructure:"service_secret"`
}

// Cache define os limiares de frescor por granularidade. Os valores vêm de
// configuração, nunca hard-coded nos pontos de decisão.
type Cache struct {
	CurrentMonthTTLHours int `mapstructure:"current_month_cache_ttl_hours"`
	CurrentWeekTTLHours  int `mapstructure:"current_week_cache_ttl_hours"`
}

// CurrentMonthTTL retorna o limiar de frescor do cache mensal
func (c Cache) CurrentMonthTTL() time.Duration {
	return time.Duration(c.CurrentMonthTTLHours) * time.Hour
}

// CurrentWeekTTL retorna o limiar de frescor do cache semanal
func (c Cache) CurrentWeekTTL() time.Duration {
	return time.Duration(c.CurrentWeekTTLHours) * time.Hour
}

type Collector struct {
	MaxConcurrentJobs   int `mapstructure:"collector_max_concurrent_jobs"`
	RequestDelaySeconds int `mapstructure:"collector_request_delay_seconds"`
	FetchTimeoutSeconds int `mapstructure:"collector_fetch_timeout_seconds"`
	MaxRetries          int `mapstructure:"collector_max_retries"`
	RetryDelaySeconds   int `mapstructure:"collector_retry_delay_seconds"`
}

// FetchTimeout limita cada chamada de adaptador; estouro vira UpstreamError
// apenas para aquele cliente
func (c Collector) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

type CurrentPeriodSync struct {
	CronSchedule string `mapstructure:"current_period_sync_cron"`
	Enabled      bool   `mapstructure:"current_period_sync_enabled"`
}

type HistoricalSync struct {
	CronSchedule  string `mapstructure:"historical_sync_cron"`
	Enabled       bool   `mapstructure:"historical_sync_enabled"`
	WeekLookback  int    `mapstructure:"historical_sync_week_lookback"`
	MonthLookback int    `mapstructure:"historical_sync_month_lookback"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/marketing_reports")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("META_BASE_URL", "https://graph.facebook.com")
	viper.SetDefault("META_VERSION", "v22.0")

	viper.SetDefault("GOOGLE_ADS_BASE_URL", "https://googleads.googleapis.com")
	viper.SetDefault("GOOGLE_ADS_VERSION", "v19")
	viper.SetDefault("GOOGLE_ADS_DEVELOPER_TOKEN", "")

	viper.SetDefault("SERVICE_SECRET_HASH", "")
	viper.SetDefault("SERVICE_SECRET", "") // ONLY LOCAL

	// Limiares de frescor: o cache semanal expira mais rápido pela maior
	// velocidade esperada dos dados
	viper.SetDefault("CURRENT_MONTH_CACHE_TTL_HOURS", 6)
	viper.SetDefault("CURRENT_WEEK_CACHE_TTL_HOURS", 2)

	viper.SetDefault("COLLECTOR_MAX_CONCURRENT_JOBS", 3)   // 3 clientes em paralelo
	viper.SetDefault("COLLECTOR_REQUEST_DELAY_SECONDS", 2) // 2 segundos entre requisições
	viper.SetDefault("COLLECTOR_FETCH_TIMEOUT_SECONDS", 60)
	viper.SetDefault("COLLECTOR_MAX_RETRIES", 2)
	viper.SetDefault("COLLECTOR_RETRY_DELAY_SECONDS", 5)

	viper.SetDefault("CURRENT_PERIOD_SYNC_CRON", "0 */4 * * *") // A cada 4 horas
	viper.SetDefault("CURRENT_PERIOD_SYNC_ENABLED", false)

	viper.SetDefault("HISTORICAL_SYNC_CRON", "0 3 * * *") // Todos os dias às 3h da manhã
	viper.SetDefault("HISTORICAL_SYNC_ENABLED", false)
	viper.SetDefault("HISTORICAL_SYNC_WEEK_LOOKBACK", 4)
	viper.SetDefault("HISTORICAL_SYNC_MONTH_LOOKBACK", 1)

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	// Configurar valores padrão
	SetDefaults()

	// Configurar o Viper
	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv() // Isso permite que o Viper leia variáveis de ambiente

	// Tentar ler o arquivo .env com o Viper (opcional, já que usamos godotenv)
	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Meta.URL = fmt.Sprintf("%s/%s", config.Meta.BaseURL, config.Meta.Version)
	config.GoogleAds.URL = fmt.Sprintf("%s/%s/customers", config.GoogleAds.BaseURL, config.GoogleAds.Version)

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	// Obter diretório atual
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	// Tentar várias localizações possíveis para o arquivo .env
	locations := []string{
		filepath.Join(cwd, ".env"),               // Diretório atual
		filepath.Join(filepath.Dir(cwd), ".env"), // Diretório pai
		filepath.Join(cwd, "../.env"),            // Diretório acima
		filepath.Join(cwd, "../../.env"),         // Dois diretórios acima
	}

	for _, location := range locations {
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
