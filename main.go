package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flag"

	"github.com/joho/godotenv"

	"cricketflow/config"
	"cricketflow/internal/channel"
	"cricketflow/internal/metrics"
	"cricketflow/logger"
	"cricketflow/processor"
	"cricketflow/reader/cricinfo"
	"cricketflow/store"
	"cricketflow/writer"
)

func main() {
	log := logger.GetLogger()

	// Load environment variables from .env if present
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Error loading .env file")
	}

	configPath := flag.String("config", "config/config.yml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.WithError(err).Error("Failed to load configuration")
		os.Exit(1)
	}

	if err := log.Configure(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output, cfg.Logging.MaxAge); err != nil {
		log.WithError(err).Error("Failed to configure logger")
		os.Exit(1)
	}

	log.WithFields(logger.Fields{
		"service": cfg.Cricketflow.Name,
		"version": cfg.Cricketflow.Version,
	}).Info("starting cricketflow")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Metrics.CloudWatch.Enabled {
		metrics.InitCloudWatch(cfg.Metrics.CloudWatch.Region, cfg.Metrics.CloudWatch.Namespace)
	}
	metrics.StartReporting(ctx, 30*time.Second)

	channels := channel.NewChannels(
		cfg.Channels.RawBuffer,
		cfg.Channels.SnapshotBuffer,
		cfg.Channels.NotificationBuffer,
	)
	defer channels.Close()

	go channels.StartMetricsReporting(ctx, 30*time.Second)

	var snapshots store.Store
	if cfg.Storage.Postgres.Enabled {
		snapshots, err = store.NewPostgresStore(cfg.Storage.Postgres.DSN)
		if err != nil {
			log.WithError(err).Error("failed to open postgres snapshot store")
			os.Exit(1)
		}
	} else {
		snapshots = store.NewMemoryStore()
	}
	defer snapshots.Close()

	for _, matchID := range cfg.Source.Cricinfo.Matches {
		if err := snapshots.Follow(ctx, matchID); err != nil {
			log.WithError(err).WithFields(logger.Fields{"match_id": matchID}).Error("failed to follow match")
			os.Exit(1)
		}
	}

	followed, err := snapshots.Followed(ctx)
	if err != nil {
		log.WithError(err).Error("failed to list followed matches")
		os.Exit(1)
	}
	if len(followed) == 0 {
		log.Warn("no matches followed; configure source.cricinfo.matches or follow matches in the store")
	}

	client := cricinfo.NewClient(cfg)
	reader := cricinfo.NewReader(cfg, client, channels, followed)
	snapshotProcessor := processor.NewSnapshotProcessor(cfg, channels)
	deltaProcessor := processor.NewDeltaProcessor(cfg, channels, snapshots)

	var sinks []writer.Sink
	if cfg.Notify.Console.Enabled {
		sinks = append(sinks, writer.NewConsoleSink())
	}
	if cfg.Notify.Telegram.Enabled {
		telegram, err := writer.NewTelegramSink(cfg.Notify.Telegram.Token, cfg.Notify.Telegram.ChatID)
		if err != nil {
			log.WithError(err).Error("failed to create telegram sink")
			os.Exit(1)
		}
		sinks = append(sinks, telegram)
	}
	if cfg.Writer.Archive.Enabled {
		archive, err := writer.NewArchiveSink(cfg)
		if err != nil {
			log.WithError(err).Error("failed to create archive sink")
			os.Exit(1)
		}
		sinks = append(sinks, archive)
	}
	if len(sinks) == 0 {
		log.WithComponent("main").Info("no sinks configured, falling back to console")
		sinks = append(sinks, writer.NewConsoleSink())
	}

	notificationWriter := writer.NewWriter(cfg, channels, sinks)

	if err := notificationWriter.Start(ctx); err != nil {
		log.WithError(err).Error("writer failed to start")
		os.Exit(1)
	}
	if err := deltaProcessor.Start(ctx); err != nil {
		log.WithError(err).Error("delta processor failed to start")
		os.Exit(1)
	}
	if err := snapshotProcessor.Start(ctx); err != nil {
		log.WithError(err).Error("snapshot processor failed to start")
		os.Exit(1)
	}
	if err := reader.Start(ctx); err != nil {
		log.WithError(err).Error("reader failed to start")
		os.Exit(1)
	}

	log.Info("all components started successfully")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	log.WithFields(logger.Fields{"signal": sig.String()}).Info("shutdown signal received")

	log.Info("starting graceful shutdown")
	cancel()

	// Stop upstream first so nothing new enters the pipeline, then drain
	// stage by stage.
	log.Info("stopping reader")
	reader.Stop()

	log.Info("stopping snapshot processor")
	snapshotProcessor.Stop()

	log.Info("stopping delta processor")
	deltaProcessor.Stop()

	log.Info("stopping writer")
	notificationWriter.Stop()

	log.Info("cricketflow stopped")
}
