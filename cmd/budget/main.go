package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/Karlitosc01/Budget-Analysis/internal/amqp"
	"github.com/Karlitosc01/Budget-Analysis/internal/catalog"
	"github.com/Karlitosc01/Budget-Analysis/internal/cli"
	apphttp "github.com/Karlitosc01/Budget-Analysis/internal/http"
	applog "github.com/Karlitosc01/Budget-Analysis/internal/log"
	"github.com/Karlitosc01/Budget-Analysis/internal/services"
	gsheet "github.com/Karlitosc01/Budget-Analysis/internal/sheets/google"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentApp)

	cfg := cli.LoadAndValidateConfig(logger)
	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	store := catalog.New()

	// AMQP is optional: without a broker the catalogue still works, the
	// outlook worker just relies on its periodic refresh.
	var notifier services.ReplaceNotifier
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without notifications", "error", err)
		} else {
			defer amqpClient.Close()
			notifier = amqpClient
			logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	} else {
		logger.Info("AMQP disabled - catalogue replacements will not be announced")
	}

	catalogue := services.NewCatalogueService(store, repo, notifier)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	if err := catalogue.Load(startupCtx); err != nil {
		logger.Error("Failed to load catalogue from storage", "error", err)
		os.Exit(1)
	}

	if cfg.CatalogueSource == "sheets" {
		if err := seedFromSheets(startupCtx, repo, store, logger); err != nil {
			logger.Error("Failed to seed catalogue from Google Sheets", "error", err)
			os.Exit(1)
		}
	}

	logger.Info("Catalogue ready", "bills", store.Len(), "version", store.Current().Version)

	schedules := services.NewScheduleService(store, nil)
	srv := apphttp.NewServer(":"+cfg.Port, schedules, catalogue, apphttp.CacheConfig{
		Size: cfg.ScheduleCacheSize,
		TTL:  cfg.ScheduleCacheTTL,
	})

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	})

	logger.Info("Starting budget server", "port", cfg.Port, "source", cfg.CatalogueSource)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}

// seedFromSheets overwrites the catalogue with the spreadsheet contents,
// persisting the result so workers and later restarts see the same data.
func seedFromSheets(ctx context.Context, persister services.CataloguePersister, store *catalog.Store, logger *applog.Logger) error {
	src, err := gsheet.NewFromEnv(ctx)
	if err != nil {
		return err
	}

	bills, err := src.LoadBills(ctx)
	if err != nil {
		return err
	}

	version, err := persister.SaveCatalogue(ctx, bills)
	if err != nil {
		return err
	}

	store.Replace(bills, version)
	logger.Info("Catalogue seeded from Google Sheets", "bills", len(bills), "version", version)
	return nil
}
