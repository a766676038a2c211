package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, time.Minute, cfg.ExpirationInterval())
	assert.Equal(t, 5*time.Minute, cfg.ExpirationLead())
	assert.Equal(t, 100, cfg.ExpirationBatchSize)
	assert.Equal(t, "futspot", cfg.Database.DBName)
	assert.Equal(t, "locais", cfg.Elasticsearch.Index)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("REQUEST_TIMEOUT_SEC", "5")
	t.Setenv("APP_TIMEZONE", "UTC")
	t.Setenv("DB_HOST", "postgres")
	t.Setenv("NATS_ENABLED", "true")
	t.Setenv("CACHE_ENABLED", "true")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("JWT_TTL_MIN", "60")
	t.Setenv("S3_BUCKET", "futspot-fotos")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout())
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, "postgres", cfg.Database.Host)
	assert.True(t, cfg.NATS.Enabled)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, time.Hour, cfg.Auth.TTL())
	assert.Equal(t, "futspot-fotos", cfg.Storage.Bucket)
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	t.Setenv("EXPIRATION_INTERVAL_SEC", "often")

	_, err := Load()
	assert.Error(t, err)
}

func TestExpirationLeadCoversInterval(t *testing.T) {
	cfg := &Config{ExpirationIntervalSec: 120, ExpirationLeadSec: 30}
	assert.Equal(t, 2*time.Minute, cfg.ExpirationLead())

	cfg.ExpirationLeadSec = 600
	assert.Equal(t, 10*time.Minute, cfg.ExpirationLead())
}
