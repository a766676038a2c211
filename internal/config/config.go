package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"futspot/internal/auth"
	"futspot/internal/cache"
	"futspot/internal/database"
	"futspot/internal/messaging"
	"futspot/internal/storage"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config содержит конфигурацию приложения
type Config struct {
	Port              string `envconfig:"PORT" default:"8081"`
	GinMode           string `envconfig:"GIN_MODE" default:"debug"`
	LogLevel          string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat         string `envconfig:"LOG_FORMAT" default:"json"`
	RequestTimeoutSec int    `envconfig:"REQUEST_TIMEOUT_SEC" default:"30"`
	Timezone          string `envconfig:"APP_TIMEZONE" default:"America/Sao_Paulo"`
	CORSOrigin        string `envconfig:"CORS_ALLOWED_ORIGIN" default:"*"`

	// Фоновые задачи
	ExpirationIntervalSec int `envconfig:"EXPIRATION_INTERVAL_SEC" default:"60"`
	ExpirationLeadSec     int `envconfig:"EXPIRATION_LEAD_SEC" default:"300"`
	ExpirationBatchSize   int `envconfig:"EXPIRATION_BATCH_SIZE" default:"100"`

	Database      database.Config     `envconfig:"DB"`
	NATS          messaging.Config    `envconfig:"NATS"`
	Elasticsearch ElasticsearchConfig `envconfig:"ELASTICSEARCH"`
	Cache         cache.Config        `envconfig:"CACHE"`
	Storage       storage.Config      `envconfig:"S3"`
	Auth          auth.Config         `envconfig:"JWT"`
}

// RequestTimeout возвращает таймаут HTTP запросов
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSec) * time.Second
}

// ExpirationInterval возвращает период проверки просроченных заявок
func (c *Config) ExpirationInterval() time.Duration {
	return time.Duration(c.ExpirationIntervalSec) * time.Second
}

// ExpirationLead возвращает, за сколько до начала слота заявка истекает.
// Значение не меньше интервала проверки.
func (c *Config) ExpirationLead() time.Duration {
	lead := time.Duration(c.ExpirationLeadSec) * time.Second
	if interval := c.ExpirationInterval(); lead < interval {
		return interval
	}
	return lead
}

// Load загружает конфигурацию из .env (если есть) и переменных окружения
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	return &cfg, nil
}
