package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("ADMIN_SECRET", "")

	cfg := Load()

	assert.Equal(t, BackendFile, cfg.Store.Backend)
	assert.Equal(t, "danteetech_db", cfg.Store.Key)
	assert.Equal(t, "Danteetech123", cfg.Business.AdminSecret)
	assert.Empty(t, cfg.Kafka.Brokers)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "Redis")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("SEED_SAMPLE_CATALOG", "false")
	t.Setenv("REDIS_DB", "3")

	cfg := Load()

	assert.Equal(t, BackendRedis, cfg.Store.Backend)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.False(t, cfg.Business.SeedSampleCatalog)
	assert.Equal(t, 3, cfg.Redis.DB)
}
