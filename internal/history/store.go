// Package history persists run outcomes so past batches can be
// inspected after the log scrolls away. Backed by database/sql: a
// sqlite file by default, Postgres when the DSN says so.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/paddyocr/invoice-sorter/constants"
	"github.com/paddyocr/invoice-sorter/internal/batch"
)

// Run is one recorded batch execution.
type Run struct {
	ID         uuid.UUID
	StartedAt  time.Time
	FinishedAt time.Time
	Stats      batch.Stats
	Items      []batch.ItemResult
}

// Store writes runs and their per-item outcomes.
type Store struct {
	db     *sql.DB
	driver string
	logger *slog.Logger
}

// One statement per entry: the pgx stdlib driver rejects
// multi-statement Exec under the extended protocol.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	started_at  TIMESTAMP NOT NULL,
	finished_at TIMESTAMP NOT NULL,
	total       INTEGER NOT NULL,
	routed      INTEGER NOT NULL,
	skipped     INTEGER NOT NULL,
	unresolved  INTEGER NOT NULL,
	failed      INTEGER NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS run_items (
	run_id      TEXT NOT NULL,
	item_id     TEXT NOT NULL,
	status      TEXT NOT NULL,
	supplier    TEXT NOT NULL,
	doc_number  TEXT NOT NULL,
	doc_date    TEXT NOT NULL,
	attachments INTEGER NOT NULL,
	error       TEXT NOT NULL
)`,
}

// driverFor picks the sql driver by DSN scheme: postgres:// (or
// postgresql://) goes through the pgx stdlib driver, anything else is
// treated as a sqlite path.
func driverFor(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return "pgx"
	}
	return "sqlite"
}

// Open connects to the history database and creates the schema if
// absent. See driverFor for DSN handling; ":memory:" works for sqlite.
func Open(ctx context.Context, dsn string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	driver := driverFor(dsn)

	logger.Debug("opening history store", "driver", driver)
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}
	if driver == "sqlite" {
		// One connection: serializes writers and keeps ":memory:" on a
		// single database instead of one per pooled connection.
		db.SetMaxOpenConns(1)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping history store: %w", err)
	}

	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("create history schema: %w", err)
		}
	}
	return &Store{db: db, driver: driver, logger: logger}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// placeholders renders n bind markers in the driver's syntax.
func (s *Store) placeholders(n int) string {
	marks := make([]string, n)
	for i := range marks {
		if s.driver == "pgx" {
			marks[i] = fmt.Sprintf("$%d", i+1)
		} else {
			marks[i] = "?"
		}
	}
	return strings.Join(marks, ", ")
}

// RecordRun inserts the run row and all its item rows in one
// transaction.
func (s *Store) RecordRun(ctx context.Context, run Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	runInsert := fmt.Sprintf(
		"INSERT INTO runs (id, started_at, finished_at, total, routed, skipped, unresolved, failed) VALUES (%s)",
		s.placeholders(8))
	if _, err := tx.ExecContext(ctx, runInsert,
		run.ID.String(), run.StartedAt.UTC(), run.FinishedAt.UTC(),
		run.Stats.Total, run.Stats.Routed, run.Stats.Skipped,
		run.Stats.Unresolved, run.Stats.Failed,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	itemInsert := fmt.Sprintf(
		"INSERT INTO run_items (run_id, item_id, status, supplier, doc_number, doc_date, attachments, error) VALUES (%s)",
		s.placeholders(8))
	for _, it := range run.Items {
		if _, err := tx.ExecContext(ctx, itemInsert,
			run.ID.String(), it.ItemID, string(it.Status),
			it.Supplier, it.DocNumber, it.DocDate, it.Attachments, it.Err,
		); err != nil {
			return fmt.Errorf("insert run item %q: %w", it.ItemID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	s.logger.Debug("run recorded", "run_id", run.ID, "items", len(run.Items))
	return nil
}

// GetRun loads one recorded run with its items, in insertion order.
func (s *Store) GetRun(ctx context.Context, id uuid.UUID) (Run, error) {
	var run Run
	runSelect := fmt.Sprintf(
		"SELECT id, started_at, finished_at, total, routed, skipped, unresolved, failed FROM runs WHERE id = %s",
		s.placeholders(1))
	var rawID string
	err := s.db.QueryRowContext(ctx, runSelect, id.String()).Scan(
		&rawID, &run.StartedAt, &run.FinishedAt,
		&run.Stats.Total, &run.Stats.Routed, &run.Stats.Skipped,
		&run.Stats.Unresolved, &run.Stats.Failed,
	)
	if err != nil {
		return Run{}, fmt.Errorf("load run: %w", err)
	}
	run.ID, err = uuid.Parse(rawID)
	if err != nil {
		return Run{}, fmt.Errorf("load run: %w", err)
	}

	itemSelect := fmt.Sprintf(
		"SELECT item_id, status, supplier, doc_number, doc_date, attachments, error FROM run_items WHERE run_id = %s",
		s.placeholders(1))
	rows, err := s.db.QueryContext(ctx, itemSelect, id.String())
	if err != nil {
		return Run{}, fmt.Errorf("load run items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it batch.ItemResult
		var status string
		if err := rows.Scan(&it.ItemID, &status, &it.Supplier, &it.DocNumber, &it.DocDate, &it.Attachments, &it.Err); err != nil {
			return Run{}, fmt.Errorf("scan run item: %w", err)
		}
		it.Status = constants.ItemStatus(status)
		run.Items = append(run.Items, it)
	}
	return run, rows.Err()
}
