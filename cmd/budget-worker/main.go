package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/Karlitosc01/Budget-Analysis/internal/amqp"
	"github.com/Karlitosc01/Budget-Analysis/internal/cli"
	applog "github.com/Karlitosc01/Budget-Analysis/internal/log"
	"github.com/Karlitosc01/Budget-Analysis/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentWorker)

	logger.Info("Starting budget-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	// A missing broker is tolerated: the periodic refresh alone still keeps
	// the worker's catalogue current.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		var err error
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, refresh will be timer-only", "error", err)
			amqpClient = nil
		} else {
			defer amqpClient.Close()
			logger.Info("AMQP client initialized", "queue", cfg.AMQPQueue)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	outlook := worker.NewOutlookWorker(repo, cfg.OutlookDays)

	if err := outlook.Refresh(ctx); err != nil {
		logger.Error("Initial catalogue refresh failed", "error", err)
		// Keep running; the periodic refresh retries.
	}

	g, ctx := errgroup.WithContext(ctx)

	if amqpClient != nil {
		g.Go(func() error {
			err := amqpClient.ConsumeCatalogueReplaced(ctx, func(msg *amqp.CatalogueReplacedMessage) error {
				return outlook.HandleReplacedMessage(ctx, msg)
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	g.Go(func() error {
		err := outlook.RunPeriodicRefresh(ctx, cfg.RefreshInterval)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	if err := g.Wait(); err != nil {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}

	logger.Info("Worker stopped gracefully")
}
