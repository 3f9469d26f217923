package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/RDubya18/sprig-mobile/internal/amqp"
	"github.com/RDubya18/sprig-mobile/internal/cli"
	apphttp "github.com/RDubya18/sprig-mobile/internal/http"
	"github.com/RDubya18/sprig-mobile/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	// AMQP is optional: without it imports still categorize inline, there is
	// just no worker backstop.
	var events services.EventPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		events = amqpClient
		logger.Info("AMQP eventing enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP eventing disabled - no AMQP_URL provided")
	}

	ruleService := services.NewRuleService(repo, repo, events)
	importService := services.NewImportService(repo, ruleService, events)
	reportService := services.NewReportService(repo, repo)
	insightService := services.NewInsightService(repo)

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Importer:     importService,
		Rules:        ruleService,
		Overview:     reportService,
		Insights:     insightService,
		Transactions: repo,
		Budgets:      repo,
		Accounts:     repo,
	}, cfg.CacheSize, cfg.CacheTTL)

	srv.ReadTimeout = 30 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	})

	logger.Info("Starting sprig server", "port", cfg.Port, "db", cfg.SQLiteDBPath)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
