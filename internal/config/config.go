package config

import (
	"errors"
	"os"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	DatasetPath     string
	TriggerMode     string
	ViewID          string
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Kafka snapshot sink.
	KafkaEnabled       bool
	KafkaBrokers       []string
	KafkaSnapshotTopic string

	// MQTT snapshot sink; disabled when MQTTBroker is empty.
	MQTTBroker   string
	MQTTClientID string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DatasetPath:     os.Getenv("DATASET_PATH"),
		TriggerMode:     strings.ToLower(sharedcfg.EnvOrDefault("TRIGGER_MODE", "deferred")),
		ViewID:          sharedcfg.EnvOrDefault("VIEW_ID", "default"),
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		KafkaEnabled:       os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSnapshotTopic: sharedcfg.EnvOrDefault("KAFKA_SNAPSHOT_TOPIC", "wildfire-snapshots"),

		MQTTBroker:   os.Getenv("MQTT_BROKER"),
		MQTTClientID: sharedcfg.EnvOrDefault("MQTT_CLIENT_ID", "wildfire-explorer"),
	}

	if cfg.DatasetPath == "" {
		return nil, errors.New("DATASET_PATH is required")
	}
	if cfg.TriggerMode != "deferred" && cfg.TriggerMode != "continuous" {
		return nil, errors.New("TRIGGER_MODE must be deferred or continuous")
	}
	if cfg.ViewID == "" || strings.ContainsAny(cfg.ViewID, "/#+") {
		return nil, errors.New("VIEW_ID must be non-empty and free of MQTT wildcards")
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
		}
		if cfg.KafkaSnapshotTopic == "" {
			return nil, errors.New("KAFKA_SNAPSHOT_TOPIC is required when KAFKA_ENABLED is true")
		}
	}

	return cfg, nil
}
