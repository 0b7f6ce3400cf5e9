package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultBroker = "localhost:9092"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)

	assert.True(t, cfg.PipelineEnabled)
	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, "water-readings", cfg.KafkaSourceTopic)
	assert.Equal(t, "water-assessments", cfg.KafkaSinkTopic)
	assert.Equal(t, "water-safety", cfg.KafkaGroupID)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, 500*time.Millisecond, cfg.BatchFlushInterval)

	assert.Equal(t, RefdataFile, cfg.RefdataSource)
	assert.Equal(t, "data/reference.yaml", cfg.RefdataFile)
	assert.Empty(t, cfg.MySQLDSN)

	assert.Equal(t, CacheNone, cfg.CacheBackend)
	assert.Equal(t, 1000, cfg.CacheSize)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 0, cfg.RedisDB)

	assert.False(t, cfg.MQTTEnabled)
	assert.Equal(t, "tcp://localhost:1883", cfg.MQTTBroker)
	assert.Equal(t, "stations/+/readings", cfg.MQTTReadingsTopic)
	assert.Equal(t, "stations/{station_id}/assessments", cfg.MQTTAssessmentsTopic)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("KAFKA_SOURCE_TOPIC", "custom-source")
	t.Setenv("KAFKA_SINK_TOPIC", "custom-sink")
	t.Setenv("KAFKA_GROUP_ID", "custom-group")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("BATCH_SIZE", "100")
	t.Setenv("BATCH_FLUSH_INTERVAL", "1s")
	t.Setenv("REFDATA_SOURCE", "MySQL")
	t.Setenv("MYSQL_DSN", "user:pass@tcp(db:3306)/water?parseTime=true")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("CACHE_SIZE", "250")
	t.Setenv("CACHE_TTL", "1m")
	t.Setenv("REDIS_ADDR", "cache:6379")
	t.Setenv("REDIS_PASSWORD", "secret")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("MQTT_ENABLED", "true")
	t.Setenv("MQTT_BROKER", "tcp://mqtt:1883")
	t.Setenv("MQTT_CLIENT_ID", "scorer-1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-source", cfg.KafkaSourceTopic)
	assert.Equal(t, "custom-sink", cfg.KafkaSinkTopic)
	assert.Equal(t, "custom-group", cfg.KafkaGroupID)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, 1*time.Second, cfg.BatchFlushInterval)
	assert.Equal(t, RefdataMySQL, cfg.RefdataSource)
	assert.Equal(t, "user:pass@tcp(db:3306)/water?parseTime=true", cfg.MySQLDSN)
	assert.Equal(t, CacheRedis, cfg.CacheBackend)
	assert.Equal(t, 250, cfg.CacheSize)
	assert.Equal(t, time.Minute, cfg.CacheTTL)
	assert.Equal(t, "cache:6379", cfg.RedisAddr)
	assert.Equal(t, "secret", cfg.RedisPassword)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.True(t, cfg.MQTTEnabled)
	assert.Equal(t, "tcp://mqtt:1883", cfg.MQTTBroker)
	assert.Equal(t, "scorer-1", cfg.MQTTClientID)
}

func TestLoad_PipelineDisabledSkipsKafkaChecks(t *testing.T) {
	t.Setenv("PIPELINE_ENABLED", "false")
	t.Setenv("KAFKA_BROKERS", " , ")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.PipelineEnabled)
	assert.Empty(t, cfg.KafkaBrokers)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"shutdown timeout", map[string]string{"SHUTDOWN_TIMEOUT": "not-a-duration"}, "SHUTDOWN_TIMEOUT"},
		{"negative shutdown timeout", map[string]string{"SHUTDOWN_TIMEOUT": "-1s"}, "SHUTDOWN_TIMEOUT"},
		{"zero batch size", map[string]string{"BATCH_SIZE": "0"}, "BATCH_SIZE"},
		{"batch size too large", map[string]string{"BATCH_SIZE": "9999"}, "BATCH_SIZE"},
		{"flush interval", map[string]string{"BATCH_FLUSH_INTERVAL": "not-a-duration"}, "BATCH_FLUSH_INTERVAL"},
		{"empty brokers", map[string]string{"KAFKA_BROKERS": " , "}, "KAFKA_BROKERS"},
		{"refdata source", map[string]string{"REFDATA_SOURCE": "postgres"}, "REFDATA_SOURCE"},
		{"mysql without dsn", map[string]string{"REFDATA_SOURCE": "mysql"}, "MYSQL_DSN"},
		{"cache backend", map[string]string{"CACHE_BACKEND": "memcached"}, "CACHE_BACKEND"},
		{"cache size", map[string]string{"CACHE_SIZE": "-5"}, "CACHE_SIZE"},
		{"cache ttl", map[string]string{"CACHE_TTL": "0s"}, "CACHE_TTL"},
		{"redis db", map[string]string{"REDIS_DB": "one"}, "REDIS_DB"},
		{"pipeline flag", map[string]string{"PIPELINE_ENABLED": "maybe"}, "PIPELINE_ENABLED"},
		{"mqtt flag", map[string]string{"MQTT_ENABLED": "yes please"}, "MQTT_ENABLED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("HTTP_ADDR=:9191\n"), 0o600))
	t.Chdir(dir)
	t.Setenv("HTTP_ADDR", "")
	require.NoError(t, os.Unsetenv("HTTP_ADDR"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9191", cfg.HTTPAddr)
}

func TestLoad_MalformedDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("MQTT_BROKER=\"tcp://unterminated\n"), 0o600))
	t.Chdir(dir)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".env")
}
