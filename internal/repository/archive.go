package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Archive keeps a queryable copy of accepted orders in SQL, alongside the
// JSON collection that remains the source of truth. The driver is picked
// from the DSN: postgres URLs go through pgx, anything else is treated as a
// local SQLite file.
type Archive struct {
	db     *sql.DB
	driver string
	logger *slog.Logger
}

// OpenArchive connects and ensures the schema exists.
func OpenArchive(ctx context.Context, dsn string, logger *slog.Logger) (*Archive, error) {
	if logger == nil {
		logger = slog.Default()
	}

	driver := "sqlite"
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		driver = "pgx"
	}

	logger.Info("archive.connecting", "driver", driver)
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open archive db: %w", err)
	}

	a := &Archive{db: db, driver: driver, logger: logger}
	if err := a.init(ctx); err != nil {
		db.Close()
		return nil, err
	}
	logger.Info("archive.ready", "driver", driver)
	return a, nil
}

func (a *Archive) init(ctx context.Context) error {
	_, err := a.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS accepted_orders (
			id          TEXT PRIMARY KEY,
			source_file TEXT NOT NULL,
			payload     TEXT NOT NULL,
			created_at  TIMESTAMP NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("create accepted_orders: %w", err)
	}
	return nil
}

// SaveAccepted inserts one row per accepted order, payload as JSON text.
// Implements route.ArchiveSink.
func (a *Archive) SaveAccepted(ctx context.Context, source string, entries []map[string]any) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin archive tx: %w", err)
	}
	defer tx.Rollback()

	stmt := a.rebind("INSERT INTO accepted_orders (id, source_file, payload, created_at) VALUES ($1, $2, $3, $4)")
	now := time.Now().UTC()
	for _, entry := range entries {
		payload, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("marshal order payload: %w", err)
		}
		if _, err := tx.ExecContext(ctx, stmt, uuid.New().String(), source, string(payload), now); err != nil {
			return fmt.Errorf("insert accepted order: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit archive tx: %w", err)
	}

	a.logger.Info("archive.saved", "source", source, "rows", len(entries))
	return nil
}

// CountAccepted returns the number of archived accepted orders.
func (a *Archive) CountAccepted(ctx context.Context) (int, error) {
	var n int
	if err := a.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM accepted_orders").Scan(&n); err != nil {
		return 0, fmt.Errorf("count accepted orders: %w", err)
	}
	return n, nil
}

// HealthCheck pings the archive to catch DSN issues early.
func (a *Archive) HealthCheck(ctx context.Context, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return a.db.PingContext(ctx)
}

// Close closes the database connection gracefully.
func (a *Archive) Close() {
	a.logger.Info("archive.closing")
	if err := a.db.Close(); err != nil {
		a.logger.Error("archive close failed", "error", err)
	}
}

// rebind rewrites $n placeholders to ? for the sqlite driver.
func (a *Archive) rebind(query string) string {
	if a.driver == "pgx" {
		return query
	}
	for i := 1; strings.Contains(query, "$"); i++ {
		query = strings.Replace(query, fmt.Sprintf("$%d", i), "?", 1)
	}
	return query
}
