package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Karlitosc01/Budget-Analysis/internal/core"

	_ "modernc.org/sqlite"
)

// CatalogueSlot is the storage key the full catalogue is serialized under.
// It matches the key the browser build used for local storage.
const CatalogueSlot = "monthlyBills"

// SQLiteRepository persists the bill catalogue as a single JSON payload in
// a key-value slot table. The catalogue is always written wholesale.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// SaveCatalogue replaces the stored catalogue atomically and returns the
// new version. Implements services.CataloguePersister.
func (r *SQLiteRepository) SaveCatalogue(ctx context.Context, bills []core.Bill) (int64, error) {
	payload, err := json.Marshal(bills)
	if err != nil {
		return 0, fmt.Errorf("marshal catalogue: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO catalogues (slot, payload, version, updated_at)
		VALUES (?, ?, 1, ?)
		ON CONFLICT(slot) DO UPDATE SET
			payload = excluded.payload,
			version = catalogues.version + 1,
			updated_at = excluded.updated_at`,
		CatalogueSlot, string(payload), time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("upsert catalogue: %w", err)
	}

	var version int64
	if err := tx.QueryRowContext(ctx,
		`SELECT version FROM catalogues WHERE slot = ?`, CatalogueSlot).Scan(&version); err != nil {
		return 0, fmt.Errorf("read catalogue version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit catalogue: %w", err)
	}

	slog.InfoContext(ctx, "Catalogue saved to SQLite",
		"slot", CatalogueSlot,
		"bills", len(bills),
		"version", version)

	return version, nil
}

// LoadCatalogue reads the stored catalogue. An absent slot returns an
// empty catalogue at version zero, not an error.
func (r *SQLiteRepository) LoadCatalogue(ctx context.Context) ([]core.Bill, int64, error) {
	var (
		payload string
		version int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT payload, version FROM catalogues WHERE slot = ?`, CatalogueSlot).
		Scan(&payload, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("read catalogue: %w", err)
	}

	var bills []core.Bill
	if err := json.Unmarshal([]byte(payload), &bills); err != nil {
		return nil, 0, fmt.Errorf("unmarshal catalogue: %w", err)
	}
	return bills, version, nil
}
