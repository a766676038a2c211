package config

import "time"

// ElasticsearchConfig содержит конфигурацию для подключения к Elasticsearch
type ElasticsearchConfig struct {
	Enabled    bool          `envconfig:"ENABLED" default:"false"`
	URL        string        `envconfig:"URL" default:"http://localhost:9200"`
	Index      string        `envconfig:"INDEX" default:"locais"`
	Username   string        `envconfig:"USERNAME"`
	Password   string        `envconfig:"PASSWORD"`
	MaxRetries int           `envconfig:"MAX_RETRIES" default:"3"`
	Timeout    time.Duration `envconfig:"TIMEOUT" default:"30s"`
}
