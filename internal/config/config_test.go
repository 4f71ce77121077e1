package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDataset = "testdata/detections.csv"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATASET_PATH", testDataset)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, testDataset, cfg.DatasetPath)
	assert.Equal(t, "deferred", cfg.TriggerMode)
	assert.Equal(t, "default", cfg.ViewID)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "wildfire-snapshots", cfg.KafkaSnapshotTopic)
	assert.Empty(t, cfg.MQTTBroker)
	assert.Equal(t, "wildfire-explorer", cfg.MQTTClientID)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("DATASET_PATH", "/data/col.db")
	t.Setenv("TRIGGER_MODE", "Continuous")
	t.Setenv("VIEW_ID", "colombia")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_SNAPSHOT_TOPIC", "custom-snapshots")
	t.Setenv("MQTT_BROKER", "tcp://mqtt:1883")
	t.Setenv("MQTT_CLIENT_ID", "explorer-2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/data/col.db", cfg.DatasetPath)
	assert.Equal(t, "continuous", cfg.TriggerMode)
	assert.Equal(t, "colombia", cfg.ViewID)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-snapshots", cfg.KafkaSnapshotTopic)
	assert.Equal(t, "tcp://mqtt:1883", cfg.MQTTBroker)
	assert.Equal(t, "explorer-2", cfg.MQTTClientID)
}

func TestLoad_MissingDataset(t *testing.T) {
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATASET_PATH")
}

func TestLoad_InvalidTriggerMode(t *testing.T) {
	t.Setenv("DATASET_PATH", testDataset)
	t.Setenv("TRIGGER_MODE", "eager")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TRIGGER_MODE")
}

func TestLoad_InvalidViewID(t *testing.T) {
	t.Setenv("DATASET_PATH", testDataset)
	t.Setenv("VIEW_ID", "a/b")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "VIEW_ID")
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("DATASET_PATH", testDataset)
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_NegativeShutdownTimeout(t *testing.T) {
	t.Setenv("DATASET_PATH", testDataset)
	t.Setenv("SHUTDOWN_TIMEOUT", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}
