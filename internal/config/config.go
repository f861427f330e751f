// internal/config/config.go
package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Archive  ArchiveConfig
	Agent    AgentConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type CacheConfig struct {
	Enabled            bool
	RedisURL           string
	RedisHost          string
	RedisPort          string
	RedisPassword      string
	RedisDB            int
	ForecastTTLSeconds int
}

// ArchiveConfig points at the S3-compatible bucket that receives
// finished workflow execution logs.
type ArchiveConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

type AgentConfig struct {
	ForecastHorizonDays   int
	DefaultLeadTimeDays   int
	OrderingCost          float64
	HoldingCostRate       float64
	AnnualizationDays     int
	PerformanceWindowDays int
	SweepIntervalMinutes  int
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		// Set default values
		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 15)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 30)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "minimart")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_FORECAST_TTL_SECONDS", 300)
		viper.SetDefault("ARCHIVE_ENABLED", false)
		viper.SetDefault("ARCHIVE_ENDPOINT", "")
		viper.SetDefault("ARCHIVE_ACCESS_KEY", "")
		viper.SetDefault("ARCHIVE_SECRET_KEY", "")
		viper.SetDefault("ARCHIVE_BUCKET", "minimart-workflows")
		viper.SetDefault("ARCHIVE_REGION", "us-east-1")
		viper.SetDefault("ARCHIVE_USE_SSL", true)
		viper.SetDefault("AGENT_FORECAST_HORIZON_DAYS", 90)
		viper.SetDefault("AGENT_DEFAULT_LEAD_TIME_DAYS", 7)
		viper.SetDefault("AGENT_ORDERING_COST", 50.0)
		viper.SetDefault("AGENT_HOLDING_COST_RATE", 0.2)
		viper.SetDefault("AGENT_ANNUALIZATION_DAYS", 30)
		viper.SetDefault("AGENT_PERFORMANCE_WINDOW_DAYS", 90)
		viper.SetDefault("AGENT_SWEEP_INTERVAL_MINUTES", 360)

		// Read from environment variables
		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Database: DatabaseConfig{
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			Cache: CacheConfig{
				Enabled:            viper.GetBool("CACHE_ENABLED"),
				RedisURL:           viper.GetString("REDIS_URL"),
				RedisHost:          viper.GetString("REDIS_HOST"),
				RedisPort:          viper.GetString("REDIS_PORT"),
				RedisPassword:      viper.GetString("REDIS_PASSWORD"),
				RedisDB:            viper.GetInt("REDIS_DB"),
				ForecastTTLSeconds: viper.GetInt("CACHE_FORECAST_TTL_SECONDS"),
			},
			Archive: ArchiveConfig{
				Enabled:   viper.GetBool("ARCHIVE_ENABLED"),
				Endpoint:  viper.GetString("ARCHIVE_ENDPOINT"),
				AccessKey: viper.GetString("ARCHIVE_ACCESS_KEY"),
				SecretKey: viper.GetString("ARCHIVE_SECRET_KEY"),
				Bucket:    viper.GetString("ARCHIVE_BUCKET"),
				Region:    viper.GetString("ARCHIVE_REGION"),
				UseSSL:    viper.GetBool("ARCHIVE_USE_SSL"),
			},
			Agent: AgentConfig{
				ForecastHorizonDays:   viper.GetInt("AGENT_FORECAST_HORIZON_DAYS"),
				DefaultLeadTimeDays:   viper.GetInt("AGENT_DEFAULT_LEAD_TIME_DAYS"),
				OrderingCost:          viper.GetFloat64("AGENT_ORDERING_COST"),
				HoldingCostRate:       viper.GetFloat64("AGENT_HOLDING_COST_RATE"),
				AnnualizationDays:     viper.GetInt("AGENT_ANNUALIZATION_DAYS"),
				PerformanceWindowDays: viper.GetInt("AGENT_PERFORMANCE_WINDOW_DAYS"),
				SweepIntervalMinutes:  viper.GetInt("AGENT_SWEEP_INTERVAL_MINUTES"),
			},
		}
	})

	return instance
}
