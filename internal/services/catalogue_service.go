package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Karlitosc01/Budget-Analysis/internal/catalog"
	"github.com/Karlitosc01/Budget-Analysis/internal/core"
	"github.com/Karlitosc01/Budget-Analysis/internal/upload"
)

// CataloguePersister writes the full catalogue to durable storage and
// returns the new stored version.
type CataloguePersister interface {
	SaveCatalogue(ctx context.Context, bills []core.Bill) (int64, error)
	LoadCatalogue(ctx context.Context) ([]core.Bill, int64, error)
}

// ReplaceNotifier announces a catalogue replacement to interested
// consumers (outlook worker). Publish failures are non-fatal.
type ReplaceNotifier interface {
	PublishCatalogueReplaced(ctx context.Context, version int64, billCount int) error
}

// CatalogueService orchestrates catalogue replacement: parse the upload,
// persist wholesale, swap the in-memory snapshot, then notify. A failure
// before the swap leaves the current catalogue untouched.
type CatalogueService struct {
	store     *catalog.Store
	persister CataloguePersister
	notifier  ReplaceNotifier
}

func NewCatalogueService(store *catalog.Store, persister CataloguePersister, notifier ReplaceNotifier) *CatalogueService {
	return &CatalogueService{
		store:     store,
		persister: persister,
		notifier:  notifier,
	}
}

// Load seeds the in-memory store from durable storage. Called once at
// process start; an absent catalogue is not an error.
func (s *CatalogueService) Load(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	bills, version, err := s.persister.LoadCatalogue(ctx)
	if err != nil {
		return fmt.Errorf("load catalogue: %w", err)
	}
	if version == 0 {
		return nil
	}
	s.store.Replace(bills, version)
	slog.InfoContext(ctx, "Catalogue loaded from storage", "bills", len(bills), "version", version)
	return nil
}

// ReplaceFromUpload parses an uploaded file and replaces the catalogue.
// Returns the new snapshot. The upload and persistence steps run before
// the in-memory swap so a failure never produces a partial overwrite.
func (s *CatalogueService) ReplaceFromUpload(ctx context.Context, filename string, data []byte) (catalog.Snapshot, error) {
	bills, err := upload.ParseFile(filename, data)
	if err != nil {
		return catalog.Snapshot{}, err
	}

	var version int64
	if s.persister != nil {
		version, err = s.persister.SaveCatalogue(ctx, bills)
		if err != nil {
			return catalog.Snapshot{}, fmt.Errorf("persist catalogue: %w", err)
		}
	}

	snap := s.store.Replace(bills, version)
	slog.InfoContext(ctx, "Catalogue replaced",
		"bills", len(snap.Bills),
		"version", snap.Version,
		"file", filename)

	// Notification is best-effort: the replacement already happened.
	if s.notifier != nil {
		if err := s.notifier.PublishCatalogueReplaced(ctx, snap.Version, len(snap.Bills)); err != nil {
			slog.ErrorContext(ctx, "Failed to publish catalogue-replaced message",
				"version", snap.Version, "error", err)
		}
	}

	return snap, nil
}
