package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aleister1102/rpzsync/internal/config"
	"github.com/aleister1102/rpzsync/internal/differ"
	"github.com/aleister1102/rpzsync/internal/fetcher"
	"github.com/aleister1102/rpzsync/internal/filestore"
	"github.com/aleister1102/rpzsync/internal/logger"
	"github.com/aleister1102/rpzsync/internal/poller"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "rpzsync: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Flags
	configFile := flag.String("config", "", "Path to the YAML/JSON configuration file. If not set, searches default locations.")
	configFileAlias := flag.String("c", "", "Alias for -config")
	logLevel := flag.String("log-level", "", "Override the configured log level for this run (trace|debug|info|warn|error)")
	flag.Parse()

	if *configFile == "" && *configFileAlias != "" {
		*configFile = *configFileAlias
	}

	// A .env file may carry RPZSYNC_CONFIG_PATH; absence is not an error.
	_ = godotenv.Load()

	gCfg, err := config.LoadGlobalConfig(*configFile)
	if err != nil {
		return err
	}

	if *logLevel != "" {
		gCfg.LogConfig.LogLevel = *logLevel
	}

	zLogger, err := logger.New(gCfg.LogConfig)
	if err != nil {
		return err
	}
	// Tag every line of this run so overlapping runs are distinguishable in
	// aggregated logs.
	zLogger = zLogger.With().Str("run_id", uuid.NewString()).Logger()

	if err := config.ValidateConfig(gCfg); err != nil {
		return err
	}
	zLogger.Info().
		Int("sources", len(gCfg.SyncConfig.Sources)).
		Int("poll_interval_seconds", gCfg.SyncConfig.PollIntervalSeconds).
		Msg("Configuration loaded and validated")

	client, err := fetcher.NewClientFromHTTPConfig(gCfg.HTTPConfig, zLogger)
	if err != nil {
		return err
	}

	service := poller.NewSyncService(
		&gCfg.SyncConfig,
		fetcher.NewFetcher(client, zLogger),
		filestore.NewWriter(zLogger),
		differ.NewContentDiffer(),
		poller.NewValidatorCache(),
		poller.NewLogSink(zLogger),
		zLogger,
	)
	scheduler := poller.NewScheduler(&gCfg.SyncConfig, service, zLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		zLogger.Info().Str("signal", sig.String()).Msg("Received signal, initiating graceful shutdown...")
		cancel()
	}()

	if err := scheduler.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	scheduler.Stop()
	zLogger.Info().Msg("rpzsync stopped")
	return nil
}
