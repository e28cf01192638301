package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bridge_checker/internal/app/service"
	"bridge_checker/internal/infrastructure/configloader"
	"bridge_checker/internal/infrastructure/restapi"
	"bridge_checker/internal/infrastructure/starknet"
	"bridge_checker/internal/infrastructure/torii"
	"bridge_checker/internal/pkg/logger"

	slogzap "github.com/samber/slog-zap/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func main() {
	// Bootstrap logger for everything before config is available.
	tempZapLogger, errTempLog := zap.NewDevelopment()
	if errTempLog != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: Failed to initialize temporary zapLogger: %v\n", errTempLog)
		os.Exit(1)
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.yml"
	}
	cfg, err := configloader.Load(cfgPath)
	if err != nil {
		tempZapLogger.Fatal("Failed to load configuration", zap.String("path", cfgPath), zap.Error(err))
	}

	zapLogger, errLog := zap.NewProduction()
	if cfg.Logging.Level == "debug" {
		zapLogger, errLog = zap.NewDevelopment()
	}
	if errLog != nil {
		tempZapLogger.Fatal("Failed to initialize zapLogger", zap.Error(errLog))
	}
	defer zapLogger.Sync()

	slogLevel := slog.LevelInfo
	if cfg.Logging.Level == "debug" {
		slogLevel = slog.LevelDebug
	}
	slogHandler := slogzap.Option{
		Level:  slogLevel,
		Logger: zapLogger,
	}.NewZapHandler()
	logger.SetLogger(slog.New(slogHandler))

	logger.Info("Bridge checker service starting...")
	logger.Info("Configuration loaded", "path", cfgPath)
	if cfg.Logging.Level == "debug" {
		logger.Debug("Debug mode enabled")
	}

	appLogger := logger.NewSlogAdapter()

	// Indexer client (SQL over HTTP).
	indexerTimeout := time.Duration(cfg.Indexer.RequestTimeoutMillis) * time.Millisecond
	indexerClient := torii.NewClient(cfg.Indexer.BaseURL, indexerTimeout, zapLogger)
	logger.Info("Indexer client initialized", "baseURL", cfg.Indexer.BaseURL)

	// Chain RPC client, rate limited across reads and submissions.
	chainTimeout := time.Duration(cfg.Chain.RequestTimeoutMillis) * time.Millisecond
	chainLimiter := rate.NewLimiter(rate.Limit(cfg.Chain.RateLimit), cfg.Chain.BurstLimit)
	chainClient := starknet.NewClient(
		cfg.Chain.RPCURL,
		cfg.Chain.BridgeContractAddress,
		chainTimeout,
		chainLimiter,
		zapLogger,
	)
	logger.Info("Chain client initialized", "rpcURL", cfg.Chain.RPCURL)

	// Services.
	progressReporter := restapi.NewLogProgressReporter(appLogger)
	whitelistTTL := time.Duration(cfg.Indexer.WhitelistCacheTTLMin) * time.Minute
	aggregatorService := service.NewAggregatorService(indexerClient, appLogger, progressReporter, whitelistTTL)
	verifierService := service.NewVerifierService(
		chainClient,
		appLogger,
		cfg.Bridge.VerifyConcurrency,
		cfg.Bridge.StalenessThresholdPercent,
	)
	submitDelay := time.Duration(cfg.Bridge.SubmitDelayMillis) * time.Millisecond
	executorService := service.NewExecutorService(chainClient, appLogger, cfg.Chain.ClientFeeRecipient, submitDelay)
	planner := service.NewBatchPlanner(cfg.Bridge.MaxBatchSize, appLogger)
	logger.Info("Services initialized",
		"maxBatchSize", cfg.Bridge.MaxBatchSize,
		"freshnessSampleSize", cfg.Bridge.FreshnessSampleSize)

	// HTTP API.
	bridgeHandler := restapi.NewBridgeHandler(
		aggregatorService,
		verifierService,
		executorService,
		planner,
		cfg,
		appLogger,
	)
	ginRouter := restapi.SetupRouter(bridgeHandler)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: ginRouter,
	}

	go func() {
		logger.Info("Starting HTTP server", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start HTTP server", "error", err)
		}
	}()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)
	<-signalChan

	logger.Info("Shutdown signal received. Stopping HTTP server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	} else {
		logger.Info("HTTP server stopped.")
	}

	logger.Info("Bridge checker service stopped.")
}
