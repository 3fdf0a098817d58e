// Package storage is the execution-info audit repository: it persists
// the Records the manager saves, behind the pluggable storage.Dialect
// so the same code drives SQLite, PostgreSQL or MySQL.
//
// It keeps the latest Record per node (Save upserts by node id); it is
// not the engine's source of truth — the manager never reads it back
// to resume a run.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/taskcore/engine/pkg/storage"
	"github.com/taskcore/engine/pkg/storage/mysql"
	"github.com/taskcore/engine/pkg/storage/postgres"
	"github.com/taskcore/engine/pkg/storage/sqlite"
)

var columns = []string{
	"node_id", "task_name", "category", "status", "attempt_index",
	"submission_date", "start_date", "end_date",
	"cores", "memory_bytes", "disk_bytes",
	"log_path", "detail", "recorded_at",
}

var updateColumns = columns[1:]

// Store is the sqlx-backed storage.ExecutionInfoStore.
type Store struct {
	db      *sqlx.DB
	dialect storage.Dialect
}

// Open opens dsn with driverName ("sqlite3", "postgres", "mysql"),
// picks the matching Dialect, runs schema setup and returns a ready
// Store.
func Open(driverName, dsn string) (*Store, error) {
	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: opening %s: %w", driverName, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: connecting to %s: %w", driverName, err)
	}

	var dialect storage.Dialect
	switch driverName {
	case "sqlite3":
		dialect = sqlite.New()
	case "postgres":
		dialect = postgres.New()
	case "mysql":
		dialect = mysql.New()
	default:
		db.Close()
		return nil, fmt.Errorf("storage: unsupported driver %q", driverName)
	}

	s := &Store{db: db, dialect: dialect}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	for _, stmt := range s.dialect.ConfigureDB() {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("storage: configuring connection: %w", err)
		}
	}
	if _, err := s.db.Exec(s.dialect.CreateTableSQL()); err != nil {
		return fmt.Errorf("storage: creating schema: %w", err)
	}
	return nil
}

// Save upserts rec by node id.
func (s *Store) Save(ctx context.Context, rec *storage.Record) error {
	query := s.dialect.UpsertSQL("execution_info", columns, "node_id", updateColumns)
	if _, err := s.db.NamedExecContext(ctx, query, rec); err != nil {
		return fmt.Errorf("storage: saving node %d: %w", rec.NodeID, err)
	}
	return nil
}

// GetByNodeID returns the latest saved record for id, or nil if none
// exists.
func (s *Store) GetByNodeID(ctx context.Context, id int) (*storage.Record, error) {
	var rec storage.Record
	query := s.db.Rebind(fmt.Sprintf("SELECT %s FROM execution_info WHERE node_id = ?", joinColumns()))
	if err := s.db.GetContext(ctx, &rec, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("storage: fetching node %d: %w", id, err)
	}
	return &rec, nil
}

// ListByStatus returns every record currently at status.
func (s *Store) ListByStatus(ctx context.Context, status string) ([]*storage.Record, error) {
	var recs []*storage.Record
	query := s.db.Rebind(fmt.Sprintf("SELECT %s FROM execution_info WHERE status = ? ORDER BY node_id", joinColumns()))
	if err := s.db.SelectContext(ctx, &recs, query, status); err != nil {
		return nil, fmt.Errorf("storage: listing status %s: %w", status, err)
	}
	return recs, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func joinColumns() string {
	out := columns[0]
	for _, c := range columns[1:] {
		out += ", " + c
	}
	return out
}

var _ storage.ExecutionInfoStore = (*Store)(nil)
