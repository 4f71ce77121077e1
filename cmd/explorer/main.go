package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/couchcryptid/wildfire-explorer/internal/adapter/dataset"
	httpadapter "github.com/couchcryptid/wildfire-explorer/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/wildfire-explorer/internal/adapter/kafka"
	"github.com/couchcryptid/wildfire-explorer/internal/adapter/mqtt"
	"github.com/couchcryptid/wildfire-explorer/internal/adapter/sqlite"
	"github.com/couchcryptid/wildfire-explorer/internal/config"
	"github.com/couchcryptid/wildfire-explorer/internal/observability"
	"github.com/couchcryptid/wildfire-explorer/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ds, closeDataset, err := openDataset(ctx, cfg.DatasetPath)
	if err != nil {
		logger.Error("failed to open dataset", "path", cfg.DatasetPath, "error", err)
		os.Exit(1)
	}
	defer closeDataset()

	info, err := pipeline.Describe(ctx, ds)
	if err != nil {
		logger.Error("dataset unreadable", "error", err)
		os.Exit(1)
	}
	metrics.DatasetRows.Set(float64(info.Rows))
	logger.Info("dataset loaded", "path", cfg.DatasetPath, "rows", info.Rows, "years", len(info.Years))

	policy, err := pipeline.PolicyFor(pipeline.Mode(cfg.TriggerMode))
	if err != nil {
		logger.Error("invalid trigger mode", "error", err)
		os.Exit(1)
	}

	// Renderer sinks: the websocket hub always, Kafka and MQTT when configured.
	fanout := pipeline.NewFanout(logger, metrics)
	hub := httpadapter.NewHub(logger)
	fanout.Add("websocket", hub)

	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		fanout.Add("kafka", writer)
		logger.Info("kafka snapshot sink enabled", "topic", cfg.KafkaSnapshotTopic)
	}

	var publisher *mqtt.Publisher
	if cfg.MQTTBroker != "" {
		publisher, err = mqtt.NewPublisher(cfg.MQTTBroker, cfg.MQTTClientID, cfg.ViewID)
		if err != nil {
			logger.Error("mqtt connect failed, sink disabled", "broker", cfg.MQTTBroker, "error", err)
		} else {
			fanout.Add("mqtt", publisher)
			logger.Info("mqtt snapshot sink enabled", "topic", mqtt.Topic(cfg.ViewID))
		}
	}

	ctrl := pipeline.New(ds, fanout, policy, logger, metrics)
	srv := httpadapter.NewServer(cfg.HTTPAddr, ctrl, hub, logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start dataflow controller.
	go func() {
		if err := ctrl.Run(ctx); err != nil {
			logger.Error("controller error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}
	if publisher != nil {
		_ = publisher.Close()
	}

	logger.Info("shutdown complete")
}

// openDataset picks the dataset adapter from the file extension: SQLite
// databases are read per cycle, CSV files are loaded into memory once.
func openDataset(ctx context.Context, path string) (pipeline.Dataset, func(), error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		store, err := sqlite.Open(ctx, path)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	default:
		tbl, err := dataset.LoadCSVFile(path)
		if err != nil {
			return nil, nil, err
		}
		return tbl, func() {}, nil
	}
}
