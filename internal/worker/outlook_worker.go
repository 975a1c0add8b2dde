package worker

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/Karlitosc01/Budget-Analysis/internal/amqp"
	"github.com/Karlitosc01/Budget-Analysis/internal/catalog"
	"github.com/Karlitosc01/Budget-Analysis/internal/core"
	"github.com/Karlitosc01/Budget-Analysis/internal/services"
)

// OutlookWorker keeps an in-memory catalogue in sync with the persisted one
// and logs the upcoming payment outlook whenever the catalogue changes.
// It reacts to catalogue replacement messages and also refreshes on a timer
// as a backup in case messages are lost.
type OutlookWorker struct {
	persister   services.CataloguePersister
	catalogue   *catalog.Store
	schedules   *services.ScheduleService
	outlookDays int
}

func NewOutlookWorker(persister services.CataloguePersister, outlookDays int) *OutlookWorker {
	store := catalog.New()
	return &OutlookWorker{
		persister:   persister,
		catalogue:   store,
		schedules:   services.NewScheduleService(store, nil),
		outlookDays: outlookDays,
	}
}

// HandleReplacedMessage processes a catalogue replacement message from AMQP
func (w *OutlookWorker) HandleReplacedMessage(ctx context.Context, msg *amqp.CatalogueReplacedMessage) error {
	slog.InfoContext(ctx, "Processing catalogue replaced message",
		"version", msg.Version,
		"billCount", msg.BillCount)

	current := w.catalogue.Current()
	if msg.Version <= current.Version {
		slog.InfoContext(ctx, "Catalogue already up to date",
			"current", current.Version,
			"message", msg.Version)
		return nil
	}

	if err := w.Refresh(ctx); err != nil {
		return fmt.Errorf("refresh catalogue: %w", err)
	}

	return nil
}

// Refresh reloads the catalogue from storage and logs the outlook.
func (w *OutlookWorker) Refresh(ctx context.Context) error {
	bills, version, err := w.persister.LoadCatalogue(ctx)
	if err != nil {
		return fmt.Errorf("load catalogue: %w", err)
	}

	if version == 0 {
		slog.InfoContext(ctx, "No catalogue persisted yet")
		return nil
	}

	current := w.catalogue.Current()
	if version == current.Version {
		return nil
	}

	w.catalogue.Replace(bills, version)
	w.logOutlook(ctx, version)
	return nil
}

// RunPeriodicRefresh refreshes the catalogue on a timer until the context is
// cancelled. This is the lost-message backup path.
func (w *OutlookWorker) RunPeriodicRefresh(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping periodic refresh", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			if err := w.Refresh(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic refresh failed", "error", err)
			}
		}
	}
}

func (w *OutlookWorker) logOutlook(ctx context.Context, version int64) {
	sel := services.RangeSelection{Value: strconv.Itoa(w.outlookDays)}
	schedule, ok := w.schedules.Upcoming(sel)
	if !ok {
		return
	}

	slog.InfoContext(ctx, "Upcoming payment outlook",
		"catalogue_version", version,
		"days", w.outlookDays,
		"payments", len(schedule.Occurrences),
		"total_needed", core.FormatDollars(schedule.TotalNeeded.Cents))
}
