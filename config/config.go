package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds all configuration for the bot platform
type Config struct {
	Service  ServiceConfig
	Logging  LoggingConfig
	Database DatabaseConfig
	Telegram TelegramConfig
	Kafka    KafkaConfig
	AI       AIConfig
	Inbound  InboundConfig
	Campaign CampaignConfig
}

// ServiceConfig holds service configuration
type ServiceConfig struct {
	Name string
	Port string
	// DefaultUserID owns every bot and campaign until authentication exists
	DefaultUserID string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	Path     string
	LogLevel string
}

// TelegramConfig holds Bot API client configuration
type TelegramConfig struct {
	APIURL         string
	RequestTimeout time.Duration
	BulkBatchSize  int
	BulkBatchDelay time.Duration
	WebhookURL     string
	WebhookSecret  string
}

// KafkaConfig holds Kafka configuration
type KafkaConfig struct {
	Enabled bool
	Brokers []string
	GroupID string
}

// AIConfig holds reply generation configuration
type AIConfig struct {
	GeminiAPIKey      string
	GeminiModel       string
	GeminiBaseURL     string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

// InboundConfig holds inbound update processing configuration
type InboundConfig struct {
	ContextWindow  int
	ProcessTimeout time.Duration
	ReplyTimeout   time.Duration
}

// CampaignConfig holds campaign engine configuration
type CampaignConfig struct {
	SweepInterval time.Duration
}

// Result provides config parts for fx dependency injection using fx.Out pattern
type Result struct {
	fx.Out

	Config   *Config
	Service  *ServiceConfig
	Logging  *LoggingConfig
	Database *DatabaseConfig
	Telegram *TelegramConfig
	Kafka    *KafkaConfig
	AI       *AIConfig
	Inbound  *InboundConfig
	Campaign *CampaignConfig
}

// Out loads configuration and returns Result for fx injection
func Out() (Result, error) {
	cfg, err := Load()
	if err != nil {
		return Result{}, err
	}

	return Result{
		Config:   cfg,
		Service:  &cfg.Service,
		Logging:  &cfg.Logging,
		Database: &cfg.Database,
		Telegram: &cfg.Telegram,
		Kafka:    &cfg.Kafka,
		AI:       &cfg.AI,
		Inbound:  &cfg.Inbound,
		Campaign: &cfg.Campaign,
	}, nil
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	cfg := &Config{
		Service: ServiceConfig{
			Name:          getEnv("SERVICE_NAME", "botflow"),
			Port:          getEnv("SERVICE_PORT", "8080"),
			DefaultUserID: getEnv("DEFAULT_USER_ID", "mock-user-id"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
		Database: DatabaseConfig{
			Driver:   getEnv("DATABASE_DRIVER", "postgres"),
			Host:     getEnv("DATABASE_HOST", "localhost"),
			Port:     getEnv("DATABASE_PORT", "5432"),
			User:     getEnv("DATABASE_USER", "postgres"),
			Password: getEnv("DATABASE_PASSWORD", ""),
			Name:     getEnv("DATABASE_NAME", "botflow"),
			SSLMode:  getEnv("DATABASE_SSLMODE", "disable"),
			Path:     getEnv("DATABASE_PATH", "botflow.db"),
			LogLevel: getEnv("DATABASE_LOG_LEVEL", "warn"),
		},
		Telegram: TelegramConfig{
			APIURL:         strings.TrimRight(getEnv("TELEGRAM_API_URL", "https://api.telegram.org"), "/"),
			RequestTimeout: getEnvDuration("TELEGRAM_REQUEST_TIMEOUT", 30*time.Second),
			BulkBatchSize:  getEnvInt("TELEGRAM_BULK_BATCH_SIZE", 30),
			BulkBatchDelay: getEnvDuration("TELEGRAM_BULK_BATCH_DELAY", time.Second),
			WebhookURL:     strings.TrimRight(getEnv("WEBHOOK_URL", "https://localhost:5000"), "/"),
			WebhookSecret:  getEnv("WEBHOOK_SECRET", ""),
		},
		Kafka: KafkaConfig{
			Enabled: getEnvBool("KAFKA_ENABLED", false),
			Brokers: splitList(getEnv("KAFKA_BROKERS", "localhost:9093")),
			GroupID: getEnv("KAFKA_GROUP_ID", "botflow-group"),
		},
		AI: AIConfig{
			GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
			GeminiModel:       getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			GeminiBaseURL:     getEnv("GEMINI_BASE_URL", ""),
			Timeout:           getEnvDuration("GEMINI_TIMEOUT", 20*time.Second),
			RequestsPerSecond: getEnvFloat("AI_REQUESTS_PER_SECOND", 5),
			Burst:             getEnvInt("AI_BURST", 10),
		},
		Inbound: InboundConfig{
			ContextWindow:  getEnvInt("INBOUND_CONTEXT_WINDOW", 5),
			ProcessTimeout: getEnvDuration("INBOUND_PROCESS_TIMEOUT", 30*time.Second),
			ReplyTimeout:   getEnvDuration("INBOUND_REPLY_TIMEOUT", 10*time.Second),
		},
		Campaign: CampaignConfig{
			SweepInterval: getEnvDuration("CAMPAIGN_SWEEP_INTERVAL", time.Minute),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres":
		if c.Database.Host == "" || c.Database.Name == "" {
			return fmt.Errorf("DATABASE_HOST and DATABASE_NAME are required for postgres")
		}
	case "sqlite":
		if c.Database.Path == "" {
			return fmt.Errorf("DATABASE_PATH is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.Database.Driver)
	}

	if c.Telegram.BulkBatchSize <= 0 {
		return fmt.Errorf("TELEGRAM_BULK_BATCH_SIZE must be positive")
	}

	if c.Telegram.BulkBatchDelay < 0 {
		return fmt.Errorf("TELEGRAM_BULK_BATCH_DELAY must not be negative")
	}

	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when KAFKA_ENABLED is set")
	}

	if c.Inbound.ContextWindow <= 0 {
		return fmt.Errorf("INBOUND_CONTEXT_WINDOW must be positive")
	}

	if c.Inbound.ReplyTimeout <= 0 {
		return fmt.Errorf("INBOUND_REPLY_TIMEOUT must be positive")
	}

	if c.Campaign.SweepInterval <= 0 {
		return fmt.Errorf("CAMPAIGN_SWEEP_INTERVAL must be positive")
	}

	return nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}
